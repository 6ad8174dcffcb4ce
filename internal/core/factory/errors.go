// Package factory 工厂与打包器错误定义
package factory

import (
	"errors"
	"fmt"
)

// 工厂错误哨兵
var (
	// ErrNotAuthorizedExecutor 非executor调用打包器入口
	ErrNotAuthorizedExecutor = errors.New("not authorized executor")

	// ErrDeploymentFailed 部署失败
	ErrDeploymentFailed = errors.New("deployment failed")

	// ErrEmptyInitCode 初始化码为空
	ErrEmptyInitCode = errors.New("init code must not be empty")
)

// WrapDeploymentFailed 携带部署失败的底层原因
func WrapDeploymentFailed(reason error) error {
	return fmt.Errorf("%w: %w", ErrDeploymentFailed, reason)
}
