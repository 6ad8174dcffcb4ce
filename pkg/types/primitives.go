// Package types 智能账户引擎共享业务类型
//
// 🎯 **设计理念**
// 本包定义跨模块共享的业务数据结构，接口层（pkg/interfaces）与
// 实现层（internal/core）均只依赖本包，避免实现细节外泄。
//
// 📊 **类型来源**
// - 地址与哈希直接采用 go-ethereum 的 common.Address / common.Hash，
//   保证与外部生态（签名、ABI、CREATE2）的字节级兼容
// - 业务结构（部署描述符、调用记录、元交易）由本包自有定义
package types

import (
	"github.com/ethereum/go-ethereum/common"
)

// ChainID 链标识
//
// 元交易签名摘要的组成部分之一，用于防止跨链重放。
type ChainID uint64

// Bytes32 返回链标识的32字节大端表示
//
// 摘要构造时统一使用32字节定长编码，避免变长编码引入歧义。
func (c ChainID) Bytes32() [32]byte {
	var out [32]byte
	v := uint64(c)
	for i := 0; i < 8; i++ {
		out[31-i] = byte(v >> (8 * i))
	}
	return out
}

// Word 32字节存储字
//
// 账户存储是扁平的 32字节键 → 32字节值 映射，Word 即其中的值类型。
// 与 common.Hash 同构，单独命名以区分"哈希"与"存储字"两种语义。
type Word = common.Hash

// BytesToWord 将任意字节串左侧补零为存储字
func BytesToWord(b []byte) Word {
	return common.BytesToHash(b)
}

// AddressToWord 将地址左侧补零为存储字
func AddressToWord(addr common.Address) Word {
	return common.BytesToHash(addr.Bytes())
}

// WordToAddress 取存储字的低20字节作为地址
func WordToAddress(w Word) common.Address {
	return common.BytesToAddress(w.Bytes())
}
