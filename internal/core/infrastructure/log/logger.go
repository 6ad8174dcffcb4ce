// Package log 基于zap的日志服务实现
//
// 📒 **日志基础设施**
// - zap 提供结构化与格式化两套入口
// - lumberjack 负责文件轮转
// - 控制台与文件输出可独立开关
package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	logconfig "github.com/proxykit/v1/internal/config/log"
	logiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/log"
)

// zapLogger 日志服务实现
type zapLogger struct {
	logger *zap.Logger
	sugar  *zap.SugaredLogger
}

var _ logiface.Logger = (*zapLogger)(nil)

// NewLogger 创建日志服务
func NewLogger(cfg *logconfig.Config) (logiface.Logger, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	var cores []zapcore.Core

	if cfg.IsConsoleEnabled() {
		consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig)
		cores = append(cores, zapcore.NewCore(
			consoleEncoder,
			zapcore.AddSync(os.Stdout),
			cfg.GetLevel(),
		))
	}

	if cfg.GetFilePath() != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.GetFilePath(),
			MaxSize:    cfg.GetMaxSize(),
			MaxBackups: cfg.GetMaxBackups(),
			MaxAge:     cfg.GetMaxAge(),
			Compress:   cfg.IsCompressEnabled(),
		}
		fileEncoder := zapcore.NewJSONEncoder(encoderConfig)
		cores = append(cores, zapcore.NewCore(
			fileEncoder,
			zapcore.AddSync(fileWriter),
			cfg.GetLevel(),
		))
	}

	if len(cores) == 0 {
		cores = append(cores, zapcore.NewNopCore())
	}

	var opts []zap.Option
	if cfg.IsCallerEnabled() {
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(1))
	}

	logger := zap.New(zapcore.NewTee(cores...), opts...)

	return &zapLogger{
		logger: logger,
		sugar:  logger.Sugar(),
	}, nil
}

// NewNopLogger 创建空日志服务（测试用）
func NewNopLogger() logiface.Logger {
	logger := zap.NewNop()
	return &zapLogger{logger: logger, sugar: logger.Sugar()}
}

func (l *zapLogger) Debug(msg string) { l.sugar.Debug(msg) }
func (l *zapLogger) Info(msg string)  { l.sugar.Info(msg) }
func (l *zapLogger) Warn(msg string)  { l.sugar.Warn(msg) }
func (l *zapLogger) Error(msg string) { l.sugar.Error(msg) }
func (l *zapLogger) Fatal(msg string) { l.sugar.Fatal(msg) }

func (l *zapLogger) Debugf(template string, args ...interface{}) { l.sugar.Debugf(template, args...) }
func (l *zapLogger) Infof(template string, args ...interface{})  { l.sugar.Infof(template, args...) }
func (l *zapLogger) Warnf(template string, args ...interface{})  { l.sugar.Warnf(template, args...) }
func (l *zapLogger) Errorf(template string, args ...interface{}) { l.sugar.Errorf(template, args...) }
func (l *zapLogger) Fatalf(template string, args ...interface{}) { l.sugar.Fatalf(template, args...) }

// With 附加结构化字段，返回新的日志器
func (l *zapLogger) With(fields ...interface{}) logiface.Logger {
	sugar := l.sugar.With(fields...)
	return &zapLogger{logger: sugar.Desugar(), sugar: sugar}
}

// Sync 刷新缓冲日志
func (l *zapLogger) Sync() error { return l.logger.Sync() }

// GetZapLogger 暴露底层zap实例（供需要零分配路径的组件使用）
func (l *zapLogger) GetZapLogger() *zap.Logger { return l.logger }
