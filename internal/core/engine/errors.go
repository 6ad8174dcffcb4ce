// Package engine 调用引擎错误定义
package engine

import (
	"errors"
	"fmt"
)

// 引擎错误哨兵
var (
	// ErrUnknownCode 代码哈希未注册对应程序
	ErrUnknownCode = errors.New("no program registered for code hash")

	// ErrNoCode 委托调用目标无代码
	ErrNoCode = errors.New("delegate call target has no code")

	// ErrAlreadyDeployed 目标地址已持有代码
	ErrAlreadyDeployed = errors.New("target address already has code")

	// ErrUnknownInitCode 初始化码未匹配任何模板
	ErrUnknownInitCode = errors.New("no template matches init code")

	// ErrDuplicateProgram 同一代码哈希重复注册
	ErrDuplicateProgram = errors.New("program already registered for code hash")
)

// WrapTransferError 包装价值转移失败
func WrapTransferError(err error) error {
	return fmt.Errorf("value transfer: %w", err)
}
