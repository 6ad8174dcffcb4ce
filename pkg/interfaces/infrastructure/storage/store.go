// Package storage 提供PXK系统的BadgerDB存储接口定义
//
// 💾 **键值存储服务 (Key-Value Storage Service)**
//
// 本文件定义了PXK账户引擎的键值存储接口，专注于：
// - 高性能存储：BadgerDB的原生高性能键值存储服务
// - 原子批量写：账户状态提交以批量事务落盘
// - 前缀遍历：按键前缀恢复账户状态
//
// 🔗 **组件关系**
// - BadgerStore：被状态账本（ledger）的持久化层使用
// - 与内存账本：账本在内存中演进，Commit时整体写入本接口
package storage

import "context"

// BadgerStore 定义了键值存储的应用接口
//
// 提供简单易用的键值存储操作，适用于需要高性能键值操作的场景。
type BadgerStore interface {
	// Get 获取指定键的值
	// 键不存在时返回 (nil, ErrKeyNotFound)
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set 设置键值对
	Set(ctx context.Context, key, value []byte) error

	// Delete 删除指定键
	// 删除不存在的键不视为错误
	Delete(ctx context.Context, key []byte) error

	// Has 判断键是否存在
	Has(ctx context.Context, key []byte) (bool, error)

	// WriteBatch 原子地写入一组键值对
	// 要么全部成功，要么全部失败，不存在部分写入
	WriteBatch(ctx context.Context, entries map[string][]byte) error

	// IteratePrefix 遍历指定前缀下的所有键值对
	// fn 返回 false 时提前终止遍历
	IteratePrefix(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error

	// Close 关闭数据库连接
	// 确保所有待处理的事务被提交，数据被正确写入磁盘
	Close() error
}
