// Package crypto 提供PXK系统的密码学服务接口定义
//
// 🔐 **密码学基础设施接口**
//
// 本文件定义账户引擎依赖的两类密码学能力：
// - HashManager：keccak256 / sha256 哈希计算
// - SignatureManager：secp256k1 可恢复签名的生成与签名者地址恢复
//
// 🎯 **设计原则**
// - 接口隔离：核心状态机只依赖本接口，不直接触碰密码学库
// - 字节级确定：所有输入输出均为原始字节，不引入编码歧义
package crypto

import "github.com/ethereum/go-ethereum/common"

// HashManager 哈希计算服务接口
type HashManager interface {
	// Keccak256 计算keccak256哈希（以太坊兼容的legacy keccak）
	Keccak256(data ...[]byte) []byte

	// Keccak256Hash 计算keccak256哈希并返回32字节定长形式
	Keccak256Hash(data ...[]byte) common.Hash

	// SHA256 计算标准SHA256哈希
	SHA256(data []byte) []byte
}

// SignatureManager 可恢复签名服务接口
//
// 签名格式统一为65字节 r(32) || s(32) || v(1)，v ∈ {0,1}。
type SignatureManager interface {
	// Sign 使用32字节私钥对32字节摘要生成可恢复签名
	Sign(digest []byte, privateKey []byte) ([]byte, error)

	// RecoverPubkey 从摘要与签名恢复未压缩公钥（65字节，0x04前缀）
	RecoverPubkey(digest []byte, signature []byte) ([]byte, error)

	// RecoverAddress 从摘要与签名恢复签名者的以太坊风格地址
	RecoverAddress(digest []byte, signature []byte) (common.Address, error)

	// DeriveAddress 从32字节私钥推导对应地址
	DeriveAddress(privateKey []byte) (common.Address, error)
}
