// Package metatx 元交易错误定义
package metatx

import (
	"errors"
	"fmt"
)

// 元交易错误哨兵
var (
	// ErrNegativeParamCount 签名参数个数为负
	ErrNegativeParamCount = errors.New("signed param count must be non-negative")

	// ErrCallDataTooShort 调用数据短于声明的切分点
	ErrCallDataTooShort = errors.New("call data shorter than declared split point")

	// ErrInvalidSignature 签名格式或恢复失败
	ErrInvalidSignature = errors.New("invalid meta call signature")
)

// WrapRecoverError 包装签名恢复失败
func WrapRecoverError(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
}
