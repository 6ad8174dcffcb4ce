package account

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/proxykit/v1/pkg/constants"
	"github.com/proxykit/v1/pkg/types"
)

// 调用数据编解码
//
// 布局约定：4字节选择器 ++ 每参数32字节定长字 ++ 末尾bytes参数的原始平铺。
// metaDelegateCall 因携带多段bytes，单独采用定长签名段+长度字的布局（见下）。

// appendWord 追加一个32字节参数字
func appendWord(buf []byte, w types.Word) []byte {
	return append(buf, w.Bytes()...)
}

// appendSelector 追加方法选择器
func appendSelector(buf []byte, sel [constants.SelectorLength]byte) []byte {
	return append(buf, sel[:]...)
}

// EncodeOwner owner() 调用数据
func EncodeOwner() []byte {
	return appendSelector(nil, constants.SelectorOwner)
}

// EncodeIsAdmin isAdmin(address) 调用数据
func EncodeIsAdmin(member common.Address) []byte {
	buf := appendSelector(nil, constants.SelectorIsAdmin)
	return appendWord(buf, types.AddressToWord(member))
}

// EncodeIsExecutor isExecutor(address) 调用数据
func EncodeIsExecutor(member common.Address) []byte {
	buf := appendSelector(nil, constants.SelectorIsExecutor)
	return appendWord(buf, types.AddressToWord(member))
}

// EncodeAddAdmin addAdmin(address) 调用数据
func EncodeAddAdmin(member common.Address) []byte {
	buf := appendSelector(nil, constants.SelectorAddAdmin)
	return appendWord(buf, types.AddressToWord(member))
}

// EncodeAddExecutorWithoutSignature addExecutorWithoutSignature(address) 调用数据
func EncodeAddExecutorWithoutSignature(member common.Address) []byte {
	buf := appendSelector(nil, constants.SelectorAddExecutorWithoutSignature)
	return appendWord(buf, types.AddressToWord(member))
}

// EncodeExternalCall externalCall(uint256,address,bytes) 调用数据
func EncodeExternalCall(value *big.Int, target common.Address, data []byte) []byte {
	if value == nil {
		value = new(big.Int)
	}
	buf := appendSelector(nil, constants.SelectorExternalCall)
	buf = appendWord(buf, types.BytesToWord(value.Bytes()))
	buf = appendWord(buf, types.AddressToWord(target))
	return append(buf, data...)
}

// EncodeDelegateCall delegateCall(address,bytes) 调用数据
func EncodeDelegateCall(target common.Address, data []byte) []byte {
	buf := appendSelector(nil, constants.SelectorDelegateCall)
	buf = appendWord(buf, types.AddressToWord(target))
	return append(buf, data...)
}

// EncodeStorageLoad storageLoad(bytes32) 调用数据
func EncodeStorageLoad(key types.Word) []byte {
	buf := appendSelector(nil, constants.SelectorStorageLoad)
	return appendWord(buf, key)
}

// EncodeTestTransferNative testTransferNative(uint256,address) 调用数据
func EncodeTestTransferNative(amount *big.Int, recipient common.Address) []byte {
	if amount == nil {
		amount = new(big.Int)
	}
	buf := appendSelector(nil, constants.SelectorTestTransferNative)
	buf = appendWord(buf, types.BytesToWord(amount.Bytes()))
	return appendWord(buf, types.AddressToWord(recipient))
}

// 元委托调用布局：
//
//	selector(4) ++ target(32) ++ signature(65) ++ signedLen(32) ++ signedData ++ unsignedData
//
// 签名定长65字节、签名数据带长度字，未签名后缀吃掉全部剩余字节，
// 解码无歧义且 signedData ++ unsignedData 可精确还原。
const metaSignatureLength = 65

// EncodeMetaDelegateCall metaDelegateCall 调用数据
func EncodeMetaDelegateCall(call types.MetaCall) []byte {
	buf := appendSelector(nil, constants.SelectorMetaDelegateCall)
	buf = appendWord(buf, types.AddressToWord(call.Target))
	buf = append(buf, call.Signature...)
	buf = appendWord(buf, types.BytesToWord(big.NewInt(int64(len(call.SignedData))).Bytes()))
	buf = append(buf, call.SignedData...)
	return append(buf, call.UnsignedData...)
}

// decodeMetaDelegateCall 解析 metaDelegateCall 参数段（不含选择器）
func decodeMetaDelegateCall(args []byte) (types.MetaCall, error) {
	fixed := constants.WordLength + metaSignatureLength + constants.WordLength
	if len(args) < fixed {
		return types.MetaCall{}, fmt.Errorf("%w: meta call args len=%d", ErrMalformedCallData, len(args))
	}

	offset := 0
	target := types.WordToAddress(types.BytesToWord(args[offset : offset+constants.WordLength]))
	offset += constants.WordLength

	sig := make([]byte, metaSignatureLength)
	copy(sig, args[offset:offset+metaSignatureLength])
	offset += metaSignatureLength

	signedLen := new(big.Int).SetBytes(args[offset : offset+constants.WordLength])
	offset += constants.WordLength
	if !signedLen.IsInt64() || signedLen.Int64() > int64(len(args)-offset) {
		return types.MetaCall{}, fmt.Errorf("%w: signed data length out of range", ErrMalformedCallData)
	}
	n := int(signedLen.Int64())

	signedData := make([]byte, n)
	copy(signedData, args[offset:offset+n])
	offset += n

	unsignedData := make([]byte, len(args)-offset)
	copy(unsignedData, args[offset:])

	return types.MetaCall{
		Target:       target,
		SignedData:   signedData,
		UnsignedData: unsignedData,
		Signature:    sig,
	}, nil
}

// readWord 读取第i个参数字（选择器后的参数段）
func readWord(args []byte, index int) (types.Word, error) {
	start := index * constants.WordLength
	end := start + constants.WordLength
	if len(args) < end {
		return types.Word{}, fmt.Errorf("%w: want word %d, args len=%d", ErrMalformedCallData, index, len(args))
	}
	return types.BytesToWord(args[start:end]), nil
}

// readTail 读取第n个参数字之后的全部尾部字节
func readTail(args []byte, wordCount int) ([]byte, error) {
	start := wordCount * constants.WordLength
	if len(args) < start {
		return nil, fmt.Errorf("%w: want %d words, args len=%d", ErrMalformedCallData, wordCount, len(args))
	}
	tail := make([]byte, len(args)-start)
	copy(tail, args[start:])
	return tail, nil
}
