// Package ledger 状态账本实现
//
// 📒 **内存演进 + 批量落盘**
//
// 账本在内存中演进，全部变更写入日志（journal）以支持快照回滚；
// Commit 时整体状态经 BadgerDB 的 WriteBatch 原子持久化。
//
// 键空间布局：
//   - pxk:balance:<addr-hex>              → 余额大端字节
//   - pxk:storage:<addr-hex>:<key-hex>    → 32字节存储字
//   - pxk:code:<addr-hex>                 → 代码字节
package ledger

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	cryptoiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/crypto"
	logiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/log"
	storageiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/storage"
	ledgeriface "github.com/proxykit/v1/pkg/interfaces/ledger"
	"github.com/proxykit/v1/pkg/types"
)

// 持久化键前缀
const (
	prefixBalance = "pxk:balance:"
	prefixStorage = "pxk:storage:"
	prefixCode    = "pxk:code:"
)

// Ledger 状态账本实现
type Ledger struct {
	mu sync.RWMutex

	objects map[common.Address]*stateObject
	journal []journalEntry

	store  storageiface.BadgerStore
	hasher cryptoiface.HashManager
	logger logiface.Logger
}

var _ ledgeriface.StateLedger = (*Ledger)(nil)

// NewLedger 创建状态账本
func NewLedger(store storageiface.BadgerStore, hasher cryptoiface.HashManager, logger logiface.Logger) *Ledger {
	return &Ledger{
		objects: make(map[common.Address]*stateObject),
		store:   store,
		hasher:  hasher,
		logger:  logger,
	}
}

// getObject 查找对象，不创建
func (l *Ledger) getObject(addr common.Address) (*stateObject, bool) {
	so, ok := l.objects[addr]
	return so, ok
}

// getOrCreateObject 查找或创建对象，创建动作写入日志
func (l *Ledger) getOrCreateObject(addr common.Address) *stateObject {
	if so, ok := l.objects[addr]; ok {
		return so
	}
	so := newStateObject()
	l.objects[addr] = so
	l.journal = append(l.journal, createObjectChange{addr: addr})
	return so
}

// Exists 地址是否持有任何状态
func (l *Ledger) Exists(addr common.Address) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	so, ok := l.getObject(addr)
	return ok && !so.empty()
}

// GetBalance 查询余额
func (l *Ledger) GetBalance(addr common.Address) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if so, ok := l.getObject(addr); ok {
		return new(big.Int).Set(so.balance)
	}
	return new(big.Int)
}

// AddBalance 增加余额
func (l *Ledger) AddBalance(addr common.Address, amount *big.Int) {
	if amount == nil || amount.Sign() == 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	so := l.getOrCreateObject(addr)
	l.journal = append(l.journal, balanceChange{addr: addr, prev: new(big.Int).Set(so.balance)})
	so.balance = new(big.Int).Add(so.balance, amount)
}

// SubBalance 扣减余额，余额不足时不变更并返回错误
func (l *Ledger) SubBalance(addr common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	so, ok := l.getObject(addr)
	if !ok || so.balance.Cmp(amount) < 0 {
		return fmt.Errorf("address %s: %w", addr.Hex(), ErrInsufficientBalance)
	}

	l.journal = append(l.journal, balanceChange{addr: addr, prev: new(big.Int).Set(so.balance)})
	so.balance = new(big.Int).Sub(so.balance, amount)
	return nil
}

// GetState 读取存储槽
func (l *Ledger) GetState(addr common.Address, key types.Word) types.Word {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if so, ok := l.getObject(addr); ok {
		return so.getState(key)
	}
	return types.Word{}
}

// SetState 写入存储槽
func (l *Ledger) SetState(addr common.Address, key, value types.Word) {
	l.mu.Lock()
	defer l.mu.Unlock()

	so := l.getOrCreateObject(addr)
	l.journal = append(l.journal, storageChange{addr: addr, key: key, prev: so.getState(key)})
	so.setState(key, value)
}

// GetCode 读取代码
func (l *Ledger) GetCode(addr common.Address) []byte {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if so, ok := l.getObject(addr); ok && len(so.code) > 0 {
		code := make([]byte, len(so.code))
		copy(code, so.code)
		return code
	}
	return nil
}

// SetCode 部署代码
func (l *Ledger) SetCode(addr common.Address, code []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()

	so := l.getOrCreateObject(addr)
	l.journal = append(l.journal, codeChange{addr: addr})
	so.code = make([]byte, len(code))
	copy(so.code, code)
}

// HasCode 地址是否已部署代码
func (l *Ledger) HasCode(addr common.Address) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	so, ok := l.getObject(addr)
	return ok && len(so.code) > 0
}

// CodeHash 代码哈希
func (l *Ledger) CodeHash(addr common.Address) common.Hash {
	l.mu.RLock()
	defer l.mu.RUnlock()

	so, ok := l.getObject(addr)
	if !ok || len(so.code) == 0 {
		return common.Hash{}
	}
	return l.hasher.Keccak256Hash(so.code)
}

// Snapshot 记录当前日志长度作为快照标识
func (l *Ledger) Snapshot() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.journal)
}

// RevertToSnapshot 逆序撤销快照之后的全部变更
func (l *Ledger) RevertToSnapshot(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if id < 0 || id > len(l.journal) {
		l.logger.Errorf("revert to invalid snapshot id=%d journal=%d", id, len(l.journal))
		return
	}
	for i := len(l.journal) - 1; i >= id; i-- {
		l.journal[i].revert(l)
	}
	l.journal = l.journal[:id]
}

// Commit 将全部内存状态原子持久化
//
// 提交后日志清空，已提交状态成为新的回滚下界。
func (l *Ledger) Commit(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make(map[string][]byte)
	for addr, so := range l.objects {
		addrHex := strings.ToLower(addr.Hex()[2:])

		if so.balance.Sign() > 0 {
			entries[prefixBalance+addrHex] = so.balance.Bytes()
		} else {
			entries[prefixBalance+addrHex] = nil
		}

		for key, value := range so.storage {
			storageKey := prefixStorage + addrHex + ":" + hex.EncodeToString(key.Bytes())
			if value == (types.Word{}) {
				// 清零的槽必须落盘为删除，否则重载后旧值复活
				entries[storageKey] = nil
			} else {
				entries[storageKey] = value.Bytes()
			}
		}

		if len(so.code) > 0 {
			entries[prefixCode+addrHex] = so.code
		}
	}

	if err := l.store.WriteBatch(ctx, entries); err != nil {
		return WrapCommitError(err)
	}

	for _, so := range l.objects {
		so.pruneZeroSlots()
	}
	l.journal = l.journal[:0]
	l.logger.Debugf("ledger committed, objects=%d entries=%d", len(l.objects), len(entries))
	return nil
}

// Load 从持久化存储恢复全部状态
func (l *Ledger) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	objects := make(map[common.Address]*stateObject)
	getOrCreate := func(addrHex string) (*stateObject, error) {
		raw, err := hex.DecodeString(addrHex)
		if err != nil || len(raw) != common.AddressLength {
			return nil, fmt.Errorf("malformed address key %q", addrHex)
		}
		addr := common.BytesToAddress(raw)
		so, ok := objects[addr]
		if !ok {
			so = newStateObject()
			objects[addr] = so
		}
		return so, nil
	}

	var loadErr error

	err := l.store.IteratePrefix(ctx, []byte(prefixBalance), func(key, value []byte) bool {
		so, err := getOrCreate(string(key[len(prefixBalance):]))
		if err != nil {
			loadErr = err
			return false
		}
		so.balance = new(big.Int).SetBytes(value)
		return true
	})
	if err != nil {
		return WrapLoadError(err)
	}

	err = l.store.IteratePrefix(ctx, []byte(prefixStorage), func(key, value []byte) bool {
		rest := string(key[len(prefixStorage):])
		parts := strings.SplitN(rest, ":", 2)
		if len(parts) != 2 {
			loadErr = fmt.Errorf("malformed storage key %q", rest)
			return false
		}
		so, err := getOrCreate(parts[0])
		if err != nil {
			loadErr = err
			return false
		}
		slot, err := hex.DecodeString(parts[1])
		if err != nil || len(slot) != common.HashLength {
			loadErr = fmt.Errorf("malformed storage slot %q", parts[1])
			return false
		}
		so.setState(types.BytesToWord(slot), types.BytesToWord(value))
		return true
	})
	if err != nil {
		return WrapLoadError(err)
	}

	err = l.store.IteratePrefix(ctx, []byte(prefixCode), func(key, value []byte) bool {
		so, err := getOrCreate(string(key[len(prefixCode):]))
		if err != nil {
			loadErr = err
			return false
		}
		so.code = make([]byte, len(value))
		copy(so.code, value)
		return true
	})
	if err != nil {
		return WrapLoadError(err)
	}

	if loadErr != nil {
		return WrapLoadError(loadErr)
	}

	l.objects = objects
	l.journal = l.journal[:0]
	l.logger.Infof("ledger loaded, objects=%d", len(objects))
	return nil
}
