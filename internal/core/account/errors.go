// Package account 账户逻辑错误定义
package account

import (
	"errors"
	"fmt"
)

// 账户错误哨兵
var (
	// ErrNotOwner 所有者门控操作的调用者/签名者不是所有者
	ErrNotOwner = errors.New("not owner")

	// ErrNotAuthorized 非admin尝试角色变更
	ErrNotAuthorized = errors.New("not authorized")

	// ErrOwnerZero 所有者地址不可为零
	ErrOwnerZero = errors.New("owner must not be zero address")

	// ErrMalformedCallData 调用数据布局非法
	ErrMalformedCallData = errors.New("malformed call data")

	// ErrUnknownSelector 未知方法选择器
	ErrUnknownSelector = errors.New("unknown method selector")

	// ErrNoImplementation 代理未绑定逻辑实现
	ErrNoImplementation = errors.New("implementation not set")

	// ErrExternalCallReverted 外部调用失败（原因原样携带）
	ErrExternalCallReverted = errors.New("external call reverted")

	// ErrDelegateCallReverted 委托调用失败（原因原样携带）
	ErrDelegateCallReverted = errors.New("delegate call reverted")
)

// WrapExternalCallReverted 携带下游原始失败原因
//
// 双重包装：errors.Is 对哨兵与原始原因均成立，原因永不被改写。
func WrapExternalCallReverted(reason error) error {
	return fmt.Errorf("%w: %w", ErrExternalCallReverted, reason)
}

// WrapDelegateCallReverted 携带下游原始失败原因
func WrapDelegateCallReverted(reason error) error {
	return fmt.Errorf("%w: %w", ErrDelegateCallReverted, reason)
}
