// Package engine 提供PXK系统的调用引擎接口定义
//
// ⚙️ **调用引擎 (Call Engine)**
//
// 引擎是规格假定的"以代码+数据执行任意调用"原语的Go原生实现：
// - Call：在目标自身存储上下文中执行，可携带原生价值
// - DelegateCall：目标逻辑借用调用方的存储与身份执行，不移动价值
// - Create2：确定性地址部署，构造函数在同一原子单元内运行
//
// 程序（Program）是以代码哈希注册的Go原生逻辑单元，部署地址持有
// 代码字节，引擎按 keccak256(code) 路由到对应程序。
//
// 🎯 **回滚契约**
// 每层调用入口处记录账本快照；该层（含其全部嵌套）失败时回滚到
// 入口快照，并将下游失败原因原样上抛，永不改写、永不吞没。
package engine

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/proxykit/v1/pkg/types"
)

// Env 程序执行环境
//
// 绑定一次调用的存储上下文：Address() 是状态读写的作用域地址，
// 委托调用时它保持为发起方地址，这正是代理/实现二象性的建模。
type Env interface {
	// Address 当前执行的存储上下文地址
	Address() common.Address

	// Caller 本层调用的直接调用者
	Caller() common.Address

	// CallValue 本层调用携带的原生价值（委托调用恒为零）
	CallValue() *big.Int

	// ChainID 链标识
	ChainID() types.ChainID

	// GetStorage 读取当前上下文的存储槽
	GetStorage(key types.Word) types.Word

	// SetStorage 写入当前上下文的存储槽
	SetStorage(key, value types.Word)

	// BalanceOf 查询任意地址的原生余额
	BalanceOf(addr common.Address) *big.Int

	// Transfer 从当前上下文地址向目标转移原生价值
	Transfer(to common.Address, amount *big.Int) error

	// Call 以当前上下文地址为调用者发起嵌套外部调用
	Call(ctx context.Context, target common.Address, value *big.Int, input []byte) ([]byte, error)

	// DelegateCall 保持当前存储上下文，委托执行目标代码
	DelegateCall(ctx context.Context, target common.Address, input []byte) ([]byte, error)

	// CodeOf 读取任意地址的代码
	CodeOf(addr common.Address) []byte
}

// Program 可执行程序单元
type Program interface {
	// Run 在给定环境下执行输入载荷，返回原始输出字节
	// 失败时返回的错误即回滚原因，引擎保证其原样上抛
	Run(ctx context.Context, env Env, input []byte) ([]byte, error)
}

// Template 可部署模板
//
// 模板代码是 Create2 初始化码的前缀；其后的字节作为构造参数
// 传入 Construct，构造完成后模板代码成为部署地址的运行时代码。
type Template interface {
	Program

	// Code 模板字节码（运行时代码与初始化码前缀同体）
	Code() []byte

	// Construct 执行构造逻辑，env 已绑定到新部署地址
	Construct(ctx context.Context, env Env, args []byte) error
}

// Registry 程序注册表
type Registry interface {
	// RegisterProgram 以代码字节注册程序，按 keccak256(code) 路由
	RegisterProgram(code []byte, program Program) error

	// RegisterTemplate 注册可部署模板
	RegisterTemplate(template Template) error

	// ProgramByCodeHash 按代码哈希查找程序
	ProgramByCodeHash(codeHash common.Hash) (Program, bool)

	// TemplateByInitCode 按初始化码前缀匹配模板，返回模板与构造参数
	TemplateByInitCode(initCode []byte) (Template, []byte, bool)
}

// CallEngine 调用引擎接口
type CallEngine interface {
	// ChainID 引擎运行的链标识
	ChainID() types.ChainID

	// Call 在目标自身存储上下文中执行调用，可携带价值
	// 目标无代码时退化为纯价值转移（input须为空载荷时才有意义，
	// 非空input对无代码地址同样仅完成转移并返回空输出）
	Call(ctx context.Context, caller, target common.Address, value *big.Int, input []byte) ([]byte, error)

	// DelegateCall 以 storageCtx 为存储上下文执行目标代码
	DelegateCall(ctx context.Context, caller, storageCtx, target common.Address, input []byte) ([]byte, error)

	// Create2 按初始化码与盐值确定性部署，返回部署地址
	Create2(ctx context.Context, deployer common.Address, initCode []byte, salt types.Word) (common.Address, error)
}
