// Package types 应用配置结构定义
package types

// AppConfig 应用配置文件结构
//
// 🔧 零值陷阱处理说明：
// 使用指针类型区分"用户未设置"与"用户设置为零值"：
// - nil: 配置文件未出现该字段，采用系统默认值
// - &value: 用户明确设置，即使是零值（0、false、""）也会被采用
type AppConfig struct {
	Log     *LogConfig     `json:"log,omitempty"`     // 日志配置
	Storage *StorageConfig `json:"storage,omitempty"` // 存储配置
	Chain   *ChainConfig   `json:"chain,omitempty"`   // 链标识配置
	API     *APIConfig     `json:"api,omitempty"`     // API服务配置
}

// LogConfig 日志配置段
type LogConfig struct {
	Level     *string `json:"level,omitempty"`      // 日志级别 (debug, info, warn, error, fatal)
	ToConsole *bool   `json:"to_console,omitempty"` // 是否输出到控制台
	FilePath  *string `json:"file_path,omitempty"`  // 日志文件路径
	MaxSize   *int    `json:"max_size,omitempty"`   // 单个日志文件最大大小(MB)
	MaxAge    *int    `json:"max_age,omitempty"`    // 日志文件最大保留天数
	Compress  *bool   `json:"compress,omitempty"`   // 是否压缩历史日志
}

// StorageConfig 存储配置段
type StorageConfig struct {
	Path       *string `json:"path,omitempty"`        // BadgerDB数据目录
	InMemory   *bool   `json:"in_memory,omitempty"`   // 是否使用纯内存模式
	SyncWrites *bool   `json:"sync_writes,omitempty"` // 是否同步写盘
}

// ChainConfig 链标识配置段
type ChainConfig struct {
	ChainID *uint64 `json:"chain_id,omitempty"` // 链标识，参与元交易签名摘要
	// BundlerOwner 打包器角色存储的初始所有者地址（hex字符串）
	// 该地址可引导打包器的第一个admin，进而登记executor
	BundlerOwner *string `json:"bundler_owner,omitempty"`
}

// APIConfig API服务配置段
type APIConfig struct {
	Enabled    *bool   `json:"enabled,omitempty"`     // 是否启用HTTP API
	ListenAddr *string `json:"listen_addr,omitempty"` // 监听地址，如 ":8650"
}
