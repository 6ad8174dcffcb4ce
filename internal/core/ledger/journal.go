package ledger

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/proxykit/v1/pkg/types"
)

// journalEntry 单条可撤销的状态变更
type journalEntry interface {
	revert(l *Ledger)
}

// createObjectChange 对象首次创建
type createObjectChange struct {
	addr common.Address
}

func (c createObjectChange) revert(l *Ledger) {
	delete(l.objects, c.addr)
}

// balanceChange 余额变更
type balanceChange struct {
	addr common.Address
	prev *big.Int
}

func (c balanceChange) revert(l *Ledger) {
	if so, ok := l.objects[c.addr]; ok {
		so.balance = c.prev
	}
}

// storageChange 存储槽变更
type storageChange struct {
	addr common.Address
	key  types.Word
	prev types.Word
}

func (c storageChange) revert(l *Ledger) {
	if so, ok := l.objects[c.addr]; ok {
		so.setState(c.key, c.prev)
	}
}

// codeChange 代码部署（代码只会从无到有，撤销即删除）
type codeChange struct {
	addr common.Address
}

func (c codeChange) revert(l *Ledger) {
	if so, ok := l.objects[c.addr]; ok {
		so.code = nil
	}
}
