package engine

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	engineiface "github.com/proxykit/v1/pkg/interfaces/engine"
	"github.com/proxykit/v1/pkg/types"
)

// callEnv 单层调用的执行环境
//
// address 是存储读写的作用域；委托调用构造的环境保持发起方的
// address 与 caller 不变，仅替换执行的代码。
type callEnv struct {
	eng     *Engine
	address common.Address
	caller  common.Address
	value   *big.Int
}

var _ engineiface.Env = (*callEnv)(nil)

func newEnv(eng *Engine, address, caller common.Address, value *big.Int) *callEnv {
	if value == nil {
		value = new(big.Int)
	}
	return &callEnv{eng: eng, address: address, caller: caller, value: value}
}

func (e *callEnv) Address() common.Address { return e.address }
func (e *callEnv) Caller() common.Address  { return e.caller }
func (e *callEnv) CallValue() *big.Int     { return new(big.Int).Set(e.value) }
func (e *callEnv) ChainID() types.ChainID  { return e.eng.chainID }

func (e *callEnv) GetStorage(key types.Word) types.Word {
	return e.eng.ledger.GetState(e.address, key)
}

func (e *callEnv) SetStorage(key, value types.Word) {
	e.eng.ledger.SetState(e.address, key, value)
}

func (e *callEnv) BalanceOf(addr common.Address) *big.Int {
	return e.eng.ledger.GetBalance(addr)
}

// Transfer 从当前上下文地址转出原生价值
func (e *callEnv) Transfer(to common.Address, amount *big.Int) error {
	return e.eng.transfer(e.address, to, amount)
}

// Call 嵌套外部调用，调用者为当前上下文地址
func (e *callEnv) Call(ctx context.Context, target common.Address, value *big.Int, input []byte) ([]byte, error) {
	return e.eng.Call(ctx, e.address, target, value, input)
}

// DelegateCall 嵌套委托调用，存储上下文与调用者均保持当前层
func (e *callEnv) DelegateCall(ctx context.Context, target common.Address, input []byte) ([]byte, error) {
	return e.eng.DelegateCall(ctx, e.caller, e.address, target, input)
}

func (e *callEnv) CodeOf(addr common.Address) []byte {
	return e.eng.ledger.GetCode(addr)
}
