// Package signature secp256k1可恢复签名服务实现
//
// 🔐 **签名基础设施**
//
// 签名格式统一为 r(32) || s(32) || v(1)，v ∈ {0,1}：
// - 生成端使用 btcec 的 SignCompact，避免自行猜测恢复ID
// - 恢复端转回 btcec 的紧凑格式（header = 27 + v）
// - 地址 = keccak256(未压缩公钥[1:])[12:]
package signature

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	btcec_ecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"

	cryptoiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/crypto"
)

const (
	// SignatureLength 可恢复签名总长度
	SignatureLength = 65

	// DigestLength 签名摘要长度
	DigestLength = 32

	// PrivateKeyLength 私钥长度
	PrivateKeyLength = 32
)

// Service 签名服务实现
type Service struct{}

var _ cryptoiface.SignatureManager = (*Service)(nil)

// NewService 创建签名服务
func NewService() *Service {
	return &Service{}
}

// Sign 对32字节摘要生成可恢复签名
func (s *Service) Sign(digest []byte, privateKey []byte) ([]byte, error) {
	if len(digest) != DigestLength {
		return nil, fmt.Errorf("digest length %d, want %d", len(digest), DigestLength)
	}
	if len(privateKey) != PrivateKeyLength {
		return nil, fmt.Errorf("private key length %d, want %d", len(privateKey), PrivateKeyLength)
	}

	priv, _ := btcec.PrivKeyFromBytes(privateKey)
	compact := btcec_ecdsa.SignCompact(priv, digest, false) // header + r + s
	if len(compact) != SignatureLength {
		return nil, fmt.Errorf("compact signature length %d, want %d", len(compact), SignatureLength)
	}

	// compact[0] = 27 + recID (+4 表示压缩公钥)
	recID := (compact[0] - 27) & 0x03
	if recID > 1 {
		return nil, fmt.Errorf("unexpected recovery id %d", recID)
	}

	// 转换为 r(32)+s(32)+v(1) 格式
	out := make([]byte, SignatureLength)
	copy(out[:64], compact[1:])
	out[64] = recID

	// 自检：签名必须能恢复回签名者本人的公钥
	expected := priv.PubKey().SerializeUncompressed()
	recovered, err := s.RecoverPubkey(digest, out)
	if err != nil {
		return nil, fmt.Errorf("recoverable signature self-check: %w", err)
	}
	if !bytes.Equal(expected, recovered) {
		return nil, fmt.Errorf("recoverable signature self-check: recovered pubkey mismatch")
	}

	return out, nil
}

// RecoverPubkey 从摘要与签名恢复未压缩公钥（65字节，0x04前缀）
func (s *Service) RecoverPubkey(digest []byte, signature []byte) ([]byte, error) {
	if len(digest) != DigestLength {
		return nil, fmt.Errorf("digest length %d, want %d", len(digest), DigestLength)
	}
	if len(signature) != SignatureLength {
		return nil, fmt.Errorf("signature length %d, want %d", len(signature), SignatureLength)
	}
	recID := signature[64]
	if recID > 1 {
		return nil, fmt.Errorf("invalid recovery id %d", recID)
	}

	// btcec 的 RecoverCompact 期望 header 在前：header = 27 + recID
	compact := make([]byte, SignatureLength)
	compact[0] = 27 + recID
	copy(compact[1:], signature[:64])

	pubKey, _, err := btcec_ecdsa.RecoverCompact(compact, digest)
	if err != nil {
		return nil, fmt.Errorf("recover pubkey: %w", err)
	}

	return pubKey.SerializeUncompressed(), nil
}

// RecoverAddress 从摘要与签名恢复签名者地址
func (s *Service) RecoverAddress(digest []byte, signature []byte) (common.Address, error) {
	if len(signature) != SignatureLength {
		return common.Address{}, fmt.Errorf("signature length %d, want %d", len(signature), SignatureLength)
	}
	recID := signature[64]
	if recID > 1 {
		return common.Address{}, fmt.Errorf("invalid recovery id %d", recID)
	}

	compact := make([]byte, SignatureLength)
	compact[0] = 27 + recID
	copy(compact[1:], signature[:64])

	pubKey, _, err := btcec_ecdsa.RecoverCompact(compact, digest)
	if err != nil {
		return common.Address{}, fmt.Errorf("recover address: %w", err)
	}

	return gethcrypto.PubkeyToAddress(*pubKey.ToECDSA()), nil
}

// DeriveAddress 从私钥推导地址
func (s *Service) DeriveAddress(privateKey []byte) (common.Address, error) {
	if len(privateKey) != PrivateKeyLength {
		return common.Address{}, fmt.Errorf("private key length %d, want %d", len(privateKey), PrivateKeyLength)
	}

	priv, _ := btcec.PrivKeyFromBytes(privateKey)
	return gethcrypto.PubkeyToAddress(*priv.PubKey().ToECDSA()), nil
}
