package metatx

import (
	"fmt"

	"github.com/proxykit/v1/pkg/constants"
)

// SplitCallData 将完整调用数据切分为签名前缀与未签名后缀
//
// 调用数据布局约定：4字节选择子 ++ 每参数32字节静态字 ++ 尾部原始字节。
// 切分点 = 4 + 32 × signedParamCount；签名前缀覆盖选择子与前
// signedParamCount 个参数，后缀由提交者在签名后自行填充。
//
// 不变量：signed ++ unsigned == data（字节级精确还原）。
func SplitCallData(data []byte, signedParamCount int) (signed, unsigned []byte, err error) {
	if signedParamCount < 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrNegativeParamCount, signedParamCount)
	}

	boundary := constants.SelectorLength + constants.WordLength*signedParamCount
	if len(data) < boundary {
		return nil, nil, fmt.Errorf("%w: len=%d boundary=%d", ErrCallDataTooShort, len(data), boundary)
	}

	signed = make([]byte, boundary)
	copy(signed, data[:boundary])
	unsigned = make([]byte, len(data)-boundary)
	copy(unsigned, data[boundary:])
	return signed, unsigned, nil
}

// JoinCallData 重组完整调用载荷
func JoinCallData(signed, unsigned []byte) []byte {
	full := make([]byte, 0, len(signed)+len(unsigned))
	full = append(full, signed...)
	full = append(full, unsigned...)
	return full
}
