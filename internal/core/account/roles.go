package account

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/proxykit/v1/pkg/constants"
	ledgeriface "github.com/proxykit/v1/pkg/interfaces/ledger"
	"github.com/proxykit/v1/pkg/types"
)

// SlotStore 角色状态的最小存储视图
//
// 执行环境（engine.Env）天然满足本接口；账本视图经 LedgerSlots 适配。
// 同一套保留槽布局因此可同时服务账户代理与打包器的角色存储。
type SlotStore interface {
	GetStorage(key types.Word) types.Word
	SetStorage(key, value types.Word)
}

// 角色成员标志字：非零即为成员
var roleFlagSet = types.BytesToWord([]byte{1})

// OwnerOf 读取所有者地址
func OwnerOf(s SlotStore) common.Address {
	return types.WordToAddress(s.GetStorage(constants.SlotOwner))
}

// SetOwner 写入所有者地址（仅构造路径调用，此后不可变）
func SetOwner(s SlotStore, owner common.Address) {
	s.SetStorage(constants.SlotOwner, types.AddressToWord(owner))
}

// ImplementationOf 读取逻辑实现地址
func ImplementationOf(s SlotStore) common.Address {
	return types.WordToAddress(s.GetStorage(constants.SlotImplementation))
}

// SetImplementation 写入逻辑实现地址（仅构造路径调用）
func SetImplementation(s SlotStore, impl common.Address) {
	s.SetStorage(constants.SlotImplementation, types.AddressToWord(impl))
}

// IsAdmin 判断admin成员身份
func IsAdmin(s SlotStore, member common.Address) bool {
	return s.GetStorage(constants.AdminSlot(member)) != (types.Word{})
}

// IsExecutor 判断executor成员身份
func IsExecutor(s SlotStore, member common.Address) bool {
	return s.GetStorage(constants.ExecutorSlot(member)) != (types.Word{})
}

// GrantAdmin 登记admin成员（幂等，重复授予等同成功）
func GrantAdmin(s SlotStore, member common.Address) {
	s.SetStorage(constants.AdminSlot(member), roleFlagSet)
}

// GrantExecutor 登记executor成员（幂等）
func GrantExecutor(s SlotStore, member common.Address) {
	s.SetStorage(constants.ExecutorSlot(member), roleFlagSet)
}

// LedgerSlots 将账本上某地址的存储适配为 SlotStore
//
// 打包器的角色存储挂在其系统地址下，经由本适配器直接读写账本。
type LedgerSlots struct {
	ledger ledgeriface.StateLedger
	addr   common.Address
}

// NewLedgerSlots 创建账本存储视图
func NewLedgerSlots(ledger ledgeriface.StateLedger, addr common.Address) *LedgerSlots {
	return &LedgerSlots{ledger: ledger, addr: addr}
}

func (ls *LedgerSlots) GetStorage(key types.Word) types.Word {
	return ls.ledger.GetState(ls.addr, key)
}

func (ls *LedgerSlots) SetStorage(key, value types.Word) {
	ls.ledger.SetState(ls.addr, key, value)
}
