package ledger

import (
	"math/big"

	"github.com/proxykit/v1/pkg/types"
)

// stateObject 单个地址的内存状态
//
// 余额、扁平存储与代码三者独立存在：仅持有余额的地址
// 同样是合法对象（被动收款无需部署）。
type stateObject struct {
	balance *big.Int
	storage map[types.Word]types.Word
	code    []byte
}

func newStateObject() *stateObject {
	return &stateObject{
		balance: new(big.Int),
		storage: make(map[types.Word]types.Word),
	}
}

func (so *stateObject) getState(key types.Word) types.Word {
	return so.storage[key]
}

// setState 写入存储槽
//
// 清零的槽保留为显式零值条目，Commit据此向持久层发出删除，
// 提交后再从内存中剪除。
func (so *stateObject) setState(key, value types.Word) {
	so.storage[key] = value
}

// pruneZeroSlots 剪除已清零的槽（提交后调用）
func (so *stateObject) pruneZeroSlots() {
	for key, value := range so.storage {
		if value == (types.Word{}) {
			delete(so.storage, key)
		}
	}
}

// empty 对象是否不含任何状态
func (so *stateObject) empty() bool {
	if so.balance.Sign() != 0 || len(so.code) != 0 {
		return false
	}
	for _, value := range so.storage {
		if value != (types.Word{}) {
			return false
		}
	}
	return true
}
