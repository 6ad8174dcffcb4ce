// Package ledger 状态账本错误定义
package ledger

import (
	"errors"
	"fmt"
)

// 账本错误哨兵
var (
	// ErrInsufficientBalance 余额不足
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// WrapCommitError 包装提交阶段错误
func WrapCommitError(err error) error {
	return fmt.Errorf("ledger commit: %w", err)
}

// WrapLoadError 包装恢复阶段错误
func WrapLoadError(err error) error {
	return fmt.Errorf("ledger load: %w", err)
}
