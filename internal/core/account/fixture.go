package account

import (
	"context"
	"fmt"
	"math/big"

	"github.com/proxykit/v1/pkg/constants"
	engineiface "github.com/proxykit/v1/pkg/interfaces/engine"
	"github.com/proxykit/v1/pkg/types"
)

// TransferFixtureCode 原生转账演示程序代码
var TransferFixtureCode = []byte("pxk.fixture.transfer.v1")

// TransferFixture 原生转账演示程序
//
// testTransferNative(amount, recipient)：从当前存储上下文地址
// 向接收者转移原生价值。设计为账户的委托目标：经 delegateCall /
// metaDelegateCall 进入时，转出方即账户本身。
type TransferFixture struct{}

var _ engineiface.Program = (*TransferFixture)(nil)

// NewTransferFixture 创建转账演示程序
func NewTransferFixture() *TransferFixture {
	return &TransferFixture{}
}

// Run 执行 testTransferNative
func (p *TransferFixture) Run(ctx context.Context, env engineiface.Env, input []byte) ([]byte, error) {
	if len(input) < constants.SelectorLength {
		return nil, fmt.Errorf("%w: input len=%d", ErrMalformedCallData, len(input))
	}

	var selector [constants.SelectorLength]byte
	copy(selector[:], input[:constants.SelectorLength])
	if selector != constants.SelectorTestTransferNative {
		return nil, fmt.Errorf("%w: %x", ErrUnknownSelector, selector)
	}
	args := input[constants.SelectorLength:]

	amountWord, err := readWord(args, 0)
	if err != nil {
		return nil, err
	}
	recipientWord, err := readWord(args, 1)
	if err != nil {
		return nil, err
	}

	amount := new(big.Int).SetBytes(amountWord.Bytes())
	recipient := types.WordToAddress(recipientWord)

	if err := env.Transfer(recipient, amount); err != nil {
		return nil, err
	}
	return nil, nil
}
