// Package constants 账户保留存储槽定义
package constants

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// 保留槽推导域前缀
//
// 所有者/实现指针/角色成员的存储键均由带域前缀的keccak推导得出，
// 与委托逻辑写入的任意应用键（用户自选的32字节键）处于同一映射，
// 但因前缀域的原像空间隔离而不可能碰撞。
const (
	domainOwner          = "pxk.account.owner"
	domainImplementation = "pxk.account.implementation"
	domainAdmin          = "pxk.account.admin"
	domainExecutor       = "pxk.account.executor"
)

// 固定保留槽
var (
	// SlotOwner 所有者地址槽，代理构造时写入一次，此后不可变
	SlotOwner = common.Hash(crypto.Keccak256Hash([]byte(domainOwner)))

	// SlotImplementation 逻辑实现地址槽，代理构造时写入
	SlotImplementation = common.Hash(crypto.Keccak256Hash([]byte(domainImplementation)))
)

// AdminSlot 计算某地址的admin成员标志槽
func AdminSlot(member common.Address) common.Hash {
	return crypto.Keccak256Hash([]byte(domainAdmin), member.Bytes())
}

// ExecutorSlot 计算某地址的executor成员标志槽
func ExecutorSlot(member common.Address) common.Hash {
	return crypto.Keccak256Hash([]byte(domainExecutor), member.Bytes())
}
