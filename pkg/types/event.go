// Package types 领域事件载荷定义
package types

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// 事件主题常量
//
// 事件总线按主题路由，订阅方以主题字符串注册回调。
const (
	EventAccountDeployed  = "account:deployed"
	EventMetaCallExecuted = "account:meta_call_executed"
	EventAdminAdded       = "account:admin_added"
	EventExecutorAdded    = "account:executor_added"
)

// AccountDeployedEvent 账户部署完成事件
type AccountDeployedEvent struct {
	Account   common.Address `json:"account"`   // 新部署的账户地址
	Owner     common.Address `json:"owner"`     // 账户所有者
	Salt      Word           `json:"salt"`      // 部署盐值
	Timestamp time.Time      `json:"timestamp"` // 事件时间
}

// MetaCallExecutedEvent 元交易执行完成事件
type MetaCallExecutedEvent struct {
	Account   common.Address `json:"account"`   // 执行上下文账户
	Target    common.Address `json:"target"`    // 委托目标
	Signer    common.Address `json:"signer"`    // 恢复出的签名者
	Value     *big.Int       `json:"value"`     // 随调用移动的价值（如有）
	Timestamp time.Time      `json:"timestamp"` // 事件时间
}

// RoleGrantedEvent 角色授予事件（admin / executor 共用）
type RoleGrantedEvent struct {
	Scope     common.Address `json:"scope"`     // 角色生效的存储作用域（账户或打包器地址）
	Grantee   common.Address `json:"grantee"`   // 被授予者
	GrantedBy common.Address `json:"granted_by"`// 授予操作的调用者
	Timestamp time.Time      `json:"timestamp"` // 事件时间
}
