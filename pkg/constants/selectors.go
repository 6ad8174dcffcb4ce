// Package constants 账户ABI方法选择器与存储槽常量
//
// 🎯 **选择器规则**
// 与以太坊ABI一致：选择器 = keccak256(规范签名) 的前4字节。
// 调用数据布局 = 4字节选择器 ++ 每参数32字节定长字 ++（末尾bytes参数的）原始字节。
// 末尾bytes参数不做长度前缀编码，直接平铺——这是签名前缀/未签名后缀
// 切分约定成立的前提。
package constants

import (
	"github.com/ethereum/go-ethereum/crypto"
)

// SelectorLength 方法选择器长度
const SelectorLength = 4

// WordLength 参数字长度
const WordLength = 32

// MethodID 计算规范签名对应的4字节方法选择器
func MethodID(signature string) [SelectorLength]byte {
	var id [SelectorLength]byte
	copy(id[:], crypto.Keccak256([]byte(signature))[:SelectorLength])
	return id
}

// 账户实现ABI的规范签名
const (
	SigOwner                       = "owner()"
	SigIsAdmin                     = "isAdmin(address)"
	SigIsExecutor                  = "isExecutor(address)"
	SigExternalCall                = "externalCall(uint256,address,bytes)"
	SigDelegateCall                = "delegateCall(address,bytes)"
	SigStorageLoad                 = "storageLoad(bytes32)"
	SigAddAdmin                    = "addAdmin(address)"
	SigAddExecutorWithoutSignature = "addExecutorWithoutSignature(address)"
	SigMetaDelegateCall            = "metaDelegateCall(address,bytes)"
	SigDeployAndExecute            = "deployAndExecute(bytes32,bytes)"
	SigTestTransferNative          = "testTransferNative(uint256,address)"
)

// 预计算的方法选择器
var (
	SelectorOwner                       = MethodID(SigOwner)
	SelectorIsAdmin                     = MethodID(SigIsAdmin)
	SelectorIsExecutor                  = MethodID(SigIsExecutor)
	SelectorExternalCall                = MethodID(SigExternalCall)
	SelectorDelegateCall                = MethodID(SigDelegateCall)
	SelectorStorageLoad                 = MethodID(SigStorageLoad)
	SelectorAddAdmin                    = MethodID(SigAddAdmin)
	SelectorAddExecutorWithoutSignature = MethodID(SigAddExecutorWithoutSignature)
	SelectorMetaDelegateCall            = MethodID(SigMetaDelegateCall)
	SelectorDeployAndExecute            = MethodID(SigDeployAndExecute)
	SelectorTestTransferNative          = MethodID(SigTestTransferNative)
)
