package account

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/proxykit/v1/pkg/constants"
	engineiface "github.com/proxykit/v1/pkg/interfaces/engine"
	"github.com/proxykit/v1/pkg/types"
)

// 账户程序的代码字节
//
// 引擎以 keccak256(code) 路由程序，代码字节本身只需稳定且互不相同。
// 版本号变更即是新代码，旧部署不受影响。
var (
	// ProxyCode 账户代理模板代码，同时是CREATE2初始化码的前缀
	ProxyCode = []byte("pxk.account.proxy.v1")

	// LogicCode 共享账户逻辑实现的代码
	LogicCode = []byte("pxk.account.logic.v1")
)

// ProxyTemplate 最小代理模板
//
// 🎯 **代理/实现二象性**
// 代理自身不含业务逻辑：构造时写入实现指针与所有者两个保留槽，
// 运行时将全部输入委托给实现地址的代码，在代理自己的存储上执行。
type ProxyTemplate struct{}

var _ engineiface.Template = (*ProxyTemplate)(nil)

// NewProxyTemplate 创建代理模板
func NewProxyTemplate() *ProxyTemplate {
	return &ProxyTemplate{}
}

// Code 模板代码字节
func (t *ProxyTemplate) Code() []byte { return ProxyCode }

// Construct 构造账户代理
//
// 构造参数 = implementation(左补零32字节) ++ owner(左补零32字节)。
// 所有者写入一次后不可变，零所有者直接拒绝部署。
func (t *ProxyTemplate) Construct(ctx context.Context, env engineiface.Env, args []byte) error {
	if len(args) != 2*constants.WordLength {
		return fmt.Errorf("%w: constructor args len=%d, want %d", ErrMalformedCallData, len(args), 2*constants.WordLength)
	}

	impl := types.WordToAddress(types.BytesToWord(args[:constants.WordLength]))
	owner := types.WordToAddress(types.BytesToWord(args[constants.WordLength:]))

	if owner == (common.Address{}) {
		return ErrOwnerZero
	}
	if impl == (common.Address{}) {
		return ErrNoImplementation
	}

	SetImplementation(env, impl)
	SetOwner(env, owner)
	return nil
}

// Run 代理转发
//
// 读取实现指针，将输入原样委托执行；实现的读写全部落在代理地址
// 自己的存储上。失败原因原样上抛。
func (t *ProxyTemplate) Run(ctx context.Context, env engineiface.Env, input []byte) ([]byte, error) {
	impl := ImplementationOf(env)
	if impl == (common.Address{}) {
		return nil, ErrNoImplementation
	}
	return env.DelegateCall(ctx, impl, input)
}
