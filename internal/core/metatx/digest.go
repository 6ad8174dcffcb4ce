package metatx

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/proxykit/v1/pkg/constants"
	cryptoiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/crypto"
	"github.com/proxykit/v1/pkg/types"
)

// Digest 计算元委托调用的签名摘要
//
// 摘要 = keccak256(
//
//	chainID(32字节大端) ++ account(20字节) ++
//	selector(metaDelegateCall, 4字节) ++ target(左补零32字节) ++ signedData
//
// )
//
// 链标识与账户地址的绑定是重放防护的全部来源：同一签名换链、
// 换账户均无法通过校验。未签名后缀不进入摘要。
func Digest(
	hasher cryptoiface.HashManager,
	chainID types.ChainID,
	account common.Address,
	target common.Address,
	signedData []byte,
) common.Hash {
	chainBytes := chainID.Bytes32()
	selector := constants.SelectorMetaDelegateCall
	return hasher.Keccak256Hash(
		chainBytes[:],
		account.Bytes(),
		selector[:],
		types.AddressToWord(target).Bytes(),
		signedData,
	)
}
