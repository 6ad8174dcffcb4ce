// 日志级别定义，与配置文件中的level字段取值一一对应
package log

// LogLevel 日志级别类型
type LogLevel string

// 标准日志级别常量
const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
	FatalLevel LogLevel = "fatal"
)
