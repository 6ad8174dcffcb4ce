// Package ledger 提供PXK系统的状态账本接口定义
//
// 📒 **状态账本 (State Ledger)**
//
// 账本是账户引擎的唯一事实来源，维护三类状态：
// - 原生余额：任意地址都可被动持有余额，无需先部署代码
// - 扁平存储：每地址一张 32字节键 → 32字节字 的映射
// - 代码：部署后不可变的字节码
//
// 🎯 **原子单元保证**
// Snapshot/RevertToSnapshot 构成全或无语义的基石：一次外部调用
// 及其触发的全部嵌套执行，要么整体提交，要么整体回滚，任何后续
// 调用都不可能观察到半应用状态。
package ledger

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/proxykit/v1/pkg/types"
)

// StateLedger 状态账本接口
type StateLedger interface {
	// Exists 判断地址是否存在状态（余额、存储或代码任一非空）
	Exists(addr common.Address) bool

	// GetBalance 查询原生余额，从不返回nil
	GetBalance(addr common.Address) *big.Int

	// AddBalance 增加余额（被动收款路径，地址无需持有代码）
	AddBalance(addr common.Address, amount *big.Int)

	// SubBalance 扣减余额，余额不足时返回错误且状态不变
	SubBalance(addr common.Address, amount *big.Int) error

	// GetState 读取存储槽，未写入的槽返回零值字
	GetState(addr common.Address, key types.Word) types.Word

	// SetState 写入存储槽
	SetState(addr common.Address, key, value types.Word)

	// GetCode 读取地址代码，未部署返回nil
	GetCode(addr common.Address) []byte

	// SetCode 部署代码（仅工厂在构造流程中调用）
	SetCode(addr common.Address, code []byte)

	// HasCode 判断地址是否已部署代码
	HasCode(addr common.Address) bool

	// CodeHash 返回地址代码的keccak256哈希，未部署返回零值
	CodeHash(addr common.Address) common.Hash

	// Snapshot 记录当前状态版本，返回快照标识
	Snapshot() int

	// RevertToSnapshot 回滚到指定快照，其后的全部变更被撤销
	RevertToSnapshot(id int)

	// Commit 将内存中的脏状态原子地持久化到底层存储
	Commit(ctx context.Context) error

	// Load 从底层存储恢复全部状态到内存
	Load(ctx context.Context) error
}
