// Package api API服务配置
package api

import (
	"github.com/proxykit/v1/pkg/types"
)

// Options API配置选项
type Options struct {
	Enabled    bool   `json:"enabled"`     // 是否启用HTTP API
	ListenAddr string `json:"listen_addr"` // 监听地址
}

// Config API配置实现
type Config struct {
	options *Options
}

// New 创建API配置
func New(userConfig *types.APIConfig) *Config {
	options := &Options{
		Enabled:    true,
		ListenAddr: ":8650",
	}

	if userConfig != nil {
		if userConfig.Enabled != nil {
			options.Enabled = *userConfig.Enabled
		}
		if userConfig.ListenAddr != nil {
			options.ListenAddr = *userConfig.ListenAddr
		}
	}

	return &Config{options: options}
}

// IsEnabled 是否启用API服务
func (c *Config) IsEnabled() bool { return c.options.Enabled }

// GetListenAddr 监听地址
func (c *Config) GetListenAddr() string { return c.options.ListenAddr }
