// Package metatx 元交易验证
//
// 🎯 **元委托调用 (Meta Delegate Call)**
//
// 所有者离线签名一份"调用授权"，任意中继者代为提交：
//   - 签名覆盖：链标识、账户地址、metaDelegateCall选择子、目标地址、签名数据
//   - 未签名后缀由中继者在提交时自行追加，不受签名保护
//   - 验证方从签名恢复地址，与账户所有者比对
package metatx

import (
	"github.com/ethereum/go-ethereum/common"

	cryptoiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/crypto"
	"github.com/proxykit/v1/pkg/types"
)

// Verifier 元交易签名验证器
type Verifier struct {
	hasher cryptoiface.HashManager
	signer cryptoiface.SignatureManager
}

// NewVerifier 创建元交易验证器
func NewVerifier(hasher cryptoiface.HashManager, signer cryptoiface.SignatureManager) *Verifier {
	return &Verifier{hasher: hasher, signer: signer}
}

// RecoverSigner 从元委托调用签名恢复签名者地址
//
// 只负责恢复，不做所有者比对；授权判定由账户逻辑完成。
func (v *Verifier) RecoverSigner(
	chainID types.ChainID,
	account common.Address,
	target common.Address,
	signedData []byte,
	signature []byte,
) (common.Address, error) {
	digest := Digest(v.hasher, chainID, account, target, signedData)
	signer, err := v.signer.RecoverAddress(digest.Bytes(), signature)
	if err != nil {
		return common.Address{}, WrapRecoverError(err)
	}
	return signer, nil
}

// SignMetaCall 以私钥生成元委托调用签名（客户端与测试用）
func (v *Verifier) SignMetaCall(
	chainID types.ChainID,
	account common.Address,
	target common.Address,
	signedData []byte,
	privateKey []byte,
) ([]byte, error) {
	digest := Digest(v.hasher, chainID, account, target, signedData)
	return v.signer.Sign(digest.Bytes(), privateKey)
}
