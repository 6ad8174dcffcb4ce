package client

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/proxykit/v1/internal/core/infrastructure/crypto/hash"
	"github.com/proxykit/v1/internal/core/infrastructure/crypto/signature"
	"github.com/proxykit/v1/internal/core/metatx"
	"github.com/proxykit/v1/pkg/types"
)

// MetaCallSigner 元委托调用的离线签名器
//
// 与节点内验证器使用同一套摘要规则，签名可直接经任意中继者提交。
type MetaCallSigner struct {
	verifier   *metatx.Verifier
	privateKey []byte
}

// NewMetaCallSigner 以32字节私钥创建签名器
func NewMetaCallSigner(privateKey []byte) *MetaCallSigner {
	return &MetaCallSigner{
		verifier:   metatx.NewVerifier(hash.NewService(), signature.NewService()),
		privateKey: privateKey,
	}
}

// Address 签名者地址
func (s *MetaCallSigner) Address() (common.Address, error) {
	return signature.NewService().DeriveAddress(s.privateKey)
}

// Sign 生成元委托调用，未签名后缀留空由中继者按需填充
func (s *MetaCallSigner) Sign(chainID types.ChainID, account, target common.Address, signedData []byte) (types.MetaCall, error) {
	sig, err := s.verifier.SignMetaCall(chainID, account, target, signedData, s.privateKey)
	if err != nil {
		return types.MetaCall{}, err
	}
	return types.MetaCall{
		Target:     target,
		SignedData: signedData,
		Signature:  sig,
	}, nil
}
