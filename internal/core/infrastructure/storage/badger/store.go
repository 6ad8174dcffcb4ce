// Package badger BadgerDB键值存储实现
//
// 💾 **持久化存储**
// 账本提交的余额、存储槽与代码均落入此存储。
// WriteBatch 保证一次提交的全部键值原子可见。
package badger

import (
	"context"
	"errors"
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v3"

	badgerconfig "github.com/proxykit/v1/internal/config/storage/badger"
	logiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/log"
	storageiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/storage"
)

// Store BadgerDB存储实现
type Store struct {
	db     *badgerdb.DB
	logger logiface.Logger
}

var _ storageiface.BadgerStore = (*Store)(nil)

// NewStore 打开BadgerDB并返回存储实例
func NewStore(cfg *badgerconfig.Config, logger logiface.Logger) (*Store, error) {
	opts := badgerdb.DefaultOptions(cfg.GetPath()).
		WithInMemory(cfg.IsInMemory()).
		WithSyncWrites(cfg.IsSyncWritesEnabled()).
		WithLogger(nil)
	if cfg.IsInMemory() {
		opts = opts.WithDir("").WithValueDir("")
	}

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", cfg.GetPath(), err)
	}

	logger.Infof("badger store opened, path=%s in_memory=%v", cfg.GetPath(), cfg.IsInMemory())

	return &Store{db: db, logger: logger}, nil
}

// Get 读取键值，键不存在时返回 (nil, ErrKeyNotFound)
func (s *Store) Get(ctx context.Context, key []byte) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil, storageiface.ErrKeyNotFound
		}
		return nil, fmt.Errorf("badger get: %w", err)
	}
	return value, nil
}

// Set 写入单个键值
func (s *Store) Set(ctx context.Context, key, value []byte) error {
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(key, value)
	})
	if err != nil {
		return fmt.Errorf("badger set: %w", err)
	}
	return nil
}

// Delete 删除键，键不存在不视为错误
func (s *Store) Delete(ctx context.Context, key []byte) error {
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("badger delete: %w", err)
	}
	return nil
}

// Has 判断键是否存在
func (s *Store) Has(ctx context.Context, key []byte) (bool, error) {
	err := s.db.View(func(txn *badgerdb.Txn) error {
		_, err := txn.Get(key)
		return err
	})
	if err != nil {
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("badger has: %w", err)
	}
	return true, nil
}

// WriteBatch 原子写入一批键值
//
// value 为 nil 表示删除该键。
func (s *Store) WriteBatch(ctx context.Context, entries map[string][]byte) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for key, value := range entries {
		if value == nil {
			if err := wb.Delete([]byte(key)); err != nil {
				return fmt.Errorf("badger batch delete: %w", err)
			}
			continue
		}
		if err := wb.Set([]byte(key), value); err != nil {
			return fmt.Errorf("badger batch set: %w", err)
		}
	}

	if err := wb.Flush(); err != nil {
		return fmt.Errorf("badger batch flush: %w", err)
	}
	return nil
}

// IteratePrefix 按前缀遍历，fn 返回 false 时提前终止
func (s *Store) IteratePrefix(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error {
	err := s.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if !fn(item.KeyCopy(nil), value) {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("badger iterate prefix: %w", err)
	}
	return nil
}

// Close 关闭数据库
func (s *Store) Close() error {
	s.logger.Info("closing badger store")
	return s.db.Close()
}
