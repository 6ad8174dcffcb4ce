// Package hash 哈希计算服务实现
//
// 🔐 **哈希基础设施**
// keccak256 使用以太坊兼容的 legacy keccak（非NIST SHA3），
// 地址推导、存储槽定位、方法选择子与元交易摘要全部经由本服务。
package hash

import (
	"crypto/sha256"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"

	cryptoiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/crypto"
)

// Service 哈希服务实现
type Service struct{}

var _ cryptoiface.HashManager = (*Service)(nil)

// NewService 创建哈希服务
func NewService() *Service {
	return &Service{}
}

// Keccak256 计算keccak256哈希
func (s *Service) Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// Keccak256Hash 计算keccak256哈希并返回定长形式
func (s *Service) Keccak256Hash(data ...[]byte) common.Hash {
	return common.BytesToHash(s.Keccak256(data...))
}

// SHA256 计算标准SHA256哈希
func (s *Service) SHA256(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}
