// Package badger BadgerDB存储配置
package badger

import (
	"github.com/proxykit/v1/pkg/types"
)

// Options BadgerDB配置选项
type Options struct {
	Path       string `json:"path"`        // 数据目录
	InMemory   bool   `json:"in_memory"`   // 纯内存模式（测试/演示用）
	SyncWrites bool   `json:"sync_writes"` // 写入时同步落盘
}

// Config BadgerDB配置实现
type Config struct {
	options *Options
}

// New 创建BadgerDB配置
func New(userConfig *types.StorageConfig) *Config {
	options := &Options{
		Path:       "./data/pxk",
		InMemory:   false,
		SyncWrites: false,
	}

	if userConfig != nil {
		if userConfig.Path != nil {
			options.Path = *userConfig.Path
		}
		if userConfig.InMemory != nil {
			options.InMemory = *userConfig.InMemory
		}
		if userConfig.SyncWrites != nil {
			options.SyncWrites = *userConfig.SyncWrites
		}
	}

	return &Config{options: options}
}

// GetPath 数据目录
func (c *Config) GetPath() string { return c.options.Path }

// IsInMemory 是否纯内存模式
func (c *Config) IsInMemory() bool { return c.options.InMemory }

// IsSyncWritesEnabled 是否同步写盘
func (c *Config) IsSyncWritesEnabled() bool { return c.options.SyncWrites }
