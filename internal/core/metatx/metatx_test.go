package metatx

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proxykit/v1/internal/core/infrastructure/crypto/hash"
	"github.com/proxykit/v1/internal/core/infrastructure/crypto/signature"
	"github.com/proxykit/v1/pkg/constants"
	"github.com/proxykit/v1/pkg/types"
)

func TestSplitCallDataRoundtrip(t *testing.T) {
	selector := constants.SelectorExternalCall
	data := append([]byte{}, selector[:]...)
	data = append(data, make([]byte, 64)...)        // 两个静态参数字
	data = append(data, []byte("trailing bytes")...) // 尾部原始字节

	for k := 0; k <= 2; k++ {
		signed, unsigned, err := SplitCallData(data, k)
		require.NoError(t, err, "k=%d", k)
		assert.Len(t, signed, constants.SelectorLength+constants.WordLength*k)
		assert.Equal(t, data, JoinCallData(signed, unsigned), "k=%d roundtrip", k)
	}
}

func TestSplitCallDataBounds(t *testing.T) {
	selector := constants.SelectorStorageLoad
	data := append([]byte{}, selector[:]...)
	data = append(data, make([]byte, 32)...)

	_, _, err := SplitCallData(data, 2)
	assert.ErrorIs(t, err, ErrCallDataTooShort)

	_, _, err = SplitCallData(data, -1)
	assert.ErrorIs(t, err, ErrNegativeParamCount)

	_, _, err = SplitCallData([]byte{0x01}, 0)
	assert.ErrorIs(t, err, ErrCallDataTooShort)
}

func newTestVerifier() *Verifier {
	return NewVerifier(hash.NewService(), signature.NewService())
}

func TestSignAndRecoverSigner(t *testing.T) {
	v := newTestVerifier()

	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	sigSvc := signature.NewService()
	owner, err := sigSvc.DeriveAddress(priv.Serialize())
	require.NoError(t, err)

	chainID := types.ChainID(1)
	account := common.HexToAddress("0xaaaa")
	target := common.HexToAddress("0xbbbb")
	signedData := []byte("signed call prefix")

	sig, err := v.SignMetaCall(chainID, account, target, signedData, priv.Serialize())
	require.NoError(t, err)

	recovered, err := v.RecoverSigner(chainID, account, target, signedData, sig)
	require.NoError(t, err)
	assert.Equal(t, owner, recovered)
}

func TestDigestBindsChainAndAccount(t *testing.T) {
	v := newTestVerifier()

	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	owner, err := signature.NewService().DeriveAddress(priv.Serialize())
	require.NoError(t, err)

	account := common.HexToAddress("0xaaaa")
	target := common.HexToAddress("0xbbbb")
	signedData := []byte("payload")

	sig, err := v.SignMetaCall(types.ChainID(1), account, target, signedData, priv.Serialize())
	require.NoError(t, err)

	// 换链：恢复出的地址不再是签名者
	recovered, err := v.RecoverSigner(types.ChainID(2), account, target, signedData, sig)
	if err == nil {
		assert.NotEqual(t, owner, recovered, "signature must not verify on another chain")
	}

	// 换账户：同样失效
	recovered, err = v.RecoverSigner(types.ChainID(1), common.HexToAddress("0xcccc"), target, signedData, sig)
	if err == nil {
		assert.NotEqual(t, owner, recovered, "signature must not verify for another account")
	}

	// 改目标：同样失效
	recovered, err = v.RecoverSigner(types.ChainID(1), account, common.HexToAddress("0xdddd"), signedData, sig)
	if err == nil {
		assert.NotEqual(t, owner, recovered, "signature must not verify for another target")
	}
}

func TestUnsignedSuffixOutsideDigest(t *testing.T) {
	v := newTestVerifier()

	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	owner, err := signature.NewService().DeriveAddress(priv.Serialize())
	require.NoError(t, err)

	chainID := types.ChainID(7)
	account := common.HexToAddress("0x01")
	target := common.HexToAddress("0x02")
	signedData := []byte("authorized prefix")

	sig, err := v.SignMetaCall(chainID, account, target, signedData, priv.Serialize())
	require.NoError(t, err)

	// 未签名后缀不同不影响恢复结果：后缀根本不进摘要
	recovered, err := v.RecoverSigner(chainID, account, target, signedData, sig)
	require.NoError(t, err)
	assert.Equal(t, owner, recovered)
}
