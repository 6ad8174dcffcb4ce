// Package log 日志子系统配置
package log

import (
	"go.uber.org/zap/zapcore"

	"github.com/proxykit/v1/pkg/types"
)

// LogOptions 日志配置选项
// 专注于基础设施核心功能的简化配置
type LogOptions struct {
	// === 基础配置 ===
	Level     string `json:"level"`      // 日志级别 (debug, info, warn, error, fatal)
	ToConsole bool   `json:"to_console"` // 是否输出到控制台
	FilePath  string `json:"file_path"`  // 日志文件路径

	// === 基础轮转配置 ===
	MaxSize    int  `json:"max_size"`    // 单个日志文件最大大小(MB)
	MaxBackups int  `json:"max_backups"` // 最大备份文件数
	MaxAge     int  `json:"max_age"`     // 日志文件最大保留天数
	Compress   bool `json:"compress"`    // 是否压缩历史日志文件

	// === 调试配置 ===
	EnableCaller bool `json:"enable_caller"` // 是否启用调用者信息
}

// Config 日志配置实现
type Config struct {
	options *LogOptions
}

// New 创建日志配置
//
// 先构建完整默认值，再以用户配置覆盖（nil字段保持默认）。
func New(userConfig *types.LogConfig) *Config {
	options := &LogOptions{
		Level:        "info",
		ToConsole:    true,
		FilePath:     "./logs/pxk.log",
		MaxSize:      100,
		MaxBackups:   5,
		MaxAge:       14,
		Compress:     true,
		EnableCaller: false,
	}

	if userConfig != nil {
		if userConfig.Level != nil {
			options.Level = *userConfig.Level
		}
		if userConfig.ToConsole != nil {
			options.ToConsole = *userConfig.ToConsole
		}
		if userConfig.FilePath != nil {
			options.FilePath = *userConfig.FilePath
		}
		if userConfig.MaxSize != nil {
			options.MaxSize = *userConfig.MaxSize
		}
		if userConfig.MaxAge != nil {
			options.MaxAge = *userConfig.MaxAge
		}
		if userConfig.Compress != nil {
			options.Compress = *userConfig.Compress
		}
	}

	return &Config{options: options}
}

// GetLevel 返回zap日志级别
func (c *Config) GetLevel() zapcore.Level {
	switch c.options.Level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// IsConsoleEnabled 是否输出到控制台
func (c *Config) IsConsoleEnabled() bool { return c.options.ToConsole }

// GetFilePath 日志文件路径
func (c *Config) GetFilePath() string { return c.options.FilePath }

// GetMaxSize 单文件最大大小(MB)
func (c *Config) GetMaxSize() int { return c.options.MaxSize }

// GetMaxBackups 最大备份数
func (c *Config) GetMaxBackups() int { return c.options.MaxBackups }

// GetMaxAge 最大保留天数
func (c *Config) GetMaxAge() int { return c.options.MaxAge }

// IsCompressEnabled 是否压缩历史日志
func (c *Config) IsCompressEnabled() bool { return c.options.Compress }

// IsCallerEnabled 是否记录调用者信息
func (c *Config) IsCallerEnabled() bool { return c.options.EnableCaller }
