package engine

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chainconfig "github.com/proxykit/v1/internal/config/chain"
	badgerconfig "github.com/proxykit/v1/internal/config/storage/badger"
	"github.com/proxykit/v1/internal/core/infrastructure/crypto/hash"
	logimpl "github.com/proxykit/v1/internal/core/infrastructure/log"
	badgerstore "github.com/proxykit/v1/internal/core/infrastructure/storage/badger"
	"github.com/proxykit/v1/internal/core/ledger"
	engineiface "github.com/proxykit/v1/pkg/interfaces/engine"
	"github.com/proxykit/v1/pkg/types"
)

// echoProgram 将输入原样返回，并把最后一次输入写入固定槽
type echoProgram struct {
	slot types.Word
}

func (p *echoProgram) Run(ctx context.Context, env engineiface.Env, input []byte) ([]byte, error) {
	env.SetStorage(p.slot, types.BytesToWord(input))
	return input, nil
}

// failProgram 恒定失败，用于验证回滚与原样上抛
type failProgram struct {
	reason error
	slot   types.Word
}

func (p *failProgram) Run(ctx context.Context, env engineiface.Env, input []byte) ([]byte, error) {
	env.SetStorage(p.slot, types.BytesToWord([]byte("dirty")))
	return nil, p.reason
}

// testTemplate 可部署模板，构造时把参数写入固定槽
type testTemplate struct {
	code        []byte
	argsSlot    types.Word
	construcErr error
}

func (t *testTemplate) Code() []byte { return t.code }

func (t *testTemplate) Run(ctx context.Context, env engineiface.Env, input []byte) ([]byte, error) {
	return env.GetStorage(t.argsSlot).Bytes(), nil
}

func (t *testTemplate) Construct(ctx context.Context, env engineiface.Env, args []byte) error {
	if t.construcErr != nil {
		return t.construcErr
	}
	env.SetStorage(t.argsSlot, types.BytesToWord(args))
	return nil
}

func newTestEngine(t *testing.T) (*Engine, *ledger.Ledger, *ProgramRegistry) {
	t.Helper()

	inMemory := true
	cfg := badgerconfig.New(&types.StorageConfig{InMemory: &inMemory})
	store, err := badgerstore.NewStore(cfg, logimpl.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	hasher := hash.NewService()
	led := ledger.NewLedger(store, hasher, logimpl.NewNopLogger())
	registry := NewRegistry(hasher)

	chainID := uint64(31337)
	chainCfg := chainconfig.New(&types.ChainConfig{ChainID: &chainID})
	eng := NewEngine(led, registry, hasher, chainCfg, logimpl.NewNopLogger())
	return eng, led, registry
}

func deployProgram(t *testing.T, led *ledger.Ledger, registry *ProgramRegistry, addr common.Address, code []byte, program engineiface.Program) {
	t.Helper()
	require.NoError(t, registry.RegisterProgram(code, program))
	led.SetCode(addr, code)
}

func TestCallPlainTransfer(t *testing.T) {
	eng, led, _ := newTestEngine(t)
	from := common.HexToAddress("0xa1")
	to := common.HexToAddress("0xa2")
	led.AddBalance(from, big.NewInt(100))

	output, err := eng.Call(context.Background(), from, to, big.NewInt(30), nil)
	require.NoError(t, err)
	assert.Nil(t, output)
	assert.Equal(t, int64(70), led.GetBalance(from).Int64())
	assert.Equal(t, int64(30), led.GetBalance(to).Int64())
}

func TestCallInsufficientBalanceReverts(t *testing.T) {
	eng, led, _ := newTestEngine(t)
	from := common.HexToAddress("0xa3")
	to := common.HexToAddress("0xa4")
	led.AddBalance(from, big.NewInt(5))

	_, err := eng.Call(context.Background(), from, to, big.NewInt(10), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrInsufficientBalance)
	assert.Equal(t, int64(5), led.GetBalance(from).Int64())
	assert.Equal(t, int64(0), led.GetBalance(to).Int64())
}

func TestCallRunsProgramInTargetContext(t *testing.T) {
	eng, led, registry := newTestEngine(t)
	target := common.HexToAddress("0xb1")
	slot := types.BytesToWord([]byte("echo-slot"))
	code := []byte("echo-code-v1")
	deployProgram(t, led, registry, target, code, &echoProgram{slot: slot})

	input := []byte("hello")
	output, err := eng.Call(context.Background(), common.HexToAddress("0xb0"), target, nil, input)
	require.NoError(t, err)
	assert.Equal(t, input, output)
	assert.Equal(t, types.BytesToWord(input), led.GetState(target, slot))
}

func TestCallFailureRevertsAndPropagatesVerbatim(t *testing.T) {
	eng, led, registry := newTestEngine(t)
	target := common.HexToAddress("0xb2")
	slot := types.BytesToWord([]byte("dirty-slot"))
	reason := errors.New("custom revert reason")
	code := []byte("fail-code-v1")
	deployProgram(t, led, registry, target, code, &failProgram{reason: reason, slot: slot})

	from := common.HexToAddress("0xb3")
	led.AddBalance(from, big.NewInt(50))

	_, err := eng.Call(context.Background(), from, target, big.NewInt(20), nil)
	require.Error(t, err)
	assert.Equal(t, reason, err, "failure reason must surface unmodified")

	// 价值转移与脏写全部回滚
	assert.Equal(t, int64(50), led.GetBalance(from).Int64())
	assert.Equal(t, int64(0), led.GetBalance(target).Int64())
	assert.Equal(t, types.Word{}, led.GetState(target, slot))
}

func TestDelegateCallUsesCallerStorage(t *testing.T) {
	eng, led, registry := newTestEngine(t)
	logic := common.HexToAddress("0xc1")
	account := common.HexToAddress("0xc2")
	slot := types.BytesToWord([]byte("delegate-slot"))
	code := []byte("delegate-code-v1")
	deployProgram(t, led, registry, logic, code, &echoProgram{slot: slot})

	input := []byte("state-here")
	output, err := eng.DelegateCall(context.Background(), common.HexToAddress("0xc0"), account, logic, input)
	require.NoError(t, err)
	assert.Equal(t, input, output)

	// 写入落在发起方上下文，目标自身存储不动
	assert.Equal(t, types.BytesToWord(input), led.GetState(account, slot))
	assert.Equal(t, types.Word{}, led.GetState(logic, slot))
}

func TestDelegateCallToCodelessTarget(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	_, err := eng.DelegateCall(context.Background(), common.HexToAddress("0xd0"), common.HexToAddress("0xd1"), common.HexToAddress("0xd2"), nil)
	assert.ErrorIs(t, err, ErrNoCode)
}

func TestCreate2Deterministic(t *testing.T) {
	eng, led, registry := newTestEngine(t)
	template := &testTemplate{
		code:     []byte("template-code-v1"),
		argsSlot: types.BytesToWord([]byte("ctor-args")),
	}
	require.NoError(t, registry.RegisterTemplate(template))

	deployer := common.HexToAddress("0xe0")
	salt := types.BytesToWord([]byte("salt-1"))
	initCode := append([]byte{}, template.code...)
	initCode = append(initCode, []byte("owner-bytes")...)

	addr, err := eng.Create2(context.Background(), deployer, initCode, salt)
	require.NoError(t, err)
	assert.True(t, led.HasCode(addr))
	assert.Equal(t, template.code, led.GetCode(addr))
	assert.Equal(t, types.BytesToWord([]byte("owner-bytes")), led.GetState(addr, template.argsSlot))

	// 同一参数重复部署拒绝
	_, err = eng.Create2(context.Background(), deployer, initCode, salt)
	assert.ErrorIs(t, err, ErrAlreadyDeployed)

	// 不同盐值得到不同地址
	addr2, err := eng.Create2(context.Background(), deployer, initCode, types.BytesToWord([]byte("salt-2")))
	require.NoError(t, err)
	assert.NotEqual(t, addr, addr2)
}

func TestCreate2ConstructorFailureReverts(t *testing.T) {
	eng, led, registry := newTestEngine(t)
	reason := errors.New("constructor rejected")
	template := &testTemplate{
		code:        []byte("failing-template-v1"),
		argsSlot:    types.BytesToWord([]byte("unused")),
		construcErr: reason,
	}
	require.NoError(t, registry.RegisterTemplate(template))

	deployer := common.HexToAddress("0xe1")
	salt := types.BytesToWord([]byte("s"))
	_, err := eng.Create2(context.Background(), deployer, template.code, salt)
	require.Error(t, err)
	assert.Equal(t, reason, err)

	// 失败部署不留代码，地址保持可再部署
	addr := gethcrypto.CreateAddress2(deployer, salt, hash.NewService().Keccak256(template.code))
	assert.False(t, led.HasCode(addr))
	assert.Empty(t, led.GetCode(addr))

	_, err = eng.Create2(context.Background(), deployer, template.code, salt)
	assert.Equal(t, reason, err, "address stays deployable after reverted constructor")
}

func TestCreate2UnknownInitCode(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	_, err := eng.Create2(context.Background(), common.HexToAddress("0xe2"), []byte("nobody-registered-this"), types.Word{})
	assert.ErrorIs(t, err, ErrUnknownInitCode)
}
