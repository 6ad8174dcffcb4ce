package account

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chainconfig "github.com/proxykit/v1/internal/config/chain"
	badgerconfig "github.com/proxykit/v1/internal/config/storage/badger"
	engineimpl "github.com/proxykit/v1/internal/core/engine"
	"github.com/proxykit/v1/internal/core/infrastructure/crypto/hash"
	"github.com/proxykit/v1/internal/core/infrastructure/crypto/signature"
	eventimpl "github.com/proxykit/v1/internal/core/infrastructure/event"
	logimpl "github.com/proxykit/v1/internal/core/infrastructure/log"
	badgerstore "github.com/proxykit/v1/internal/core/infrastructure/storage/badger"
	ledgerimpl "github.com/proxykit/v1/internal/core/ledger"
	"github.com/proxykit/v1/internal/core/metatx"
	"github.com/proxykit/v1/pkg/constants"
	engineiface "github.com/proxykit/v1/pkg/interfaces/engine"
	"github.com/proxykit/v1/pkg/types"
)

const testChainID = types.ChainID(31337)

type harness struct {
	eng      *engineimpl.Engine
	led      *ledgerimpl.Ledger
	registry *engineimpl.ProgramRegistry
	verifier *metatx.Verifier
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	inMemory := true
	storeCfg := badgerconfig.New(&types.StorageConfig{InMemory: &inMemory})
	store, err := badgerstore.NewStore(storeCfg, logimpl.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	hasher := hash.NewService()
	led := ledgerimpl.NewLedger(store, hasher, logimpl.NewNopLogger())
	registry := engineimpl.NewRegistry(hasher)

	chainID := uint64(testChainID)
	chainCfg := chainconfig.New(&types.ChainConfig{ChainID: &chainID})
	eng := engineimpl.NewEngine(led, registry, hasher, chainCfg, logimpl.NewNopLogger())

	verifier := metatx.NewVerifier(hasher, signature.NewService())
	bus := eventimpl.NewBus(logimpl.NewNopLogger())
	t.Cleanup(func() { _ = bus.Close() })

	logic := NewLogic(verifier, bus, logimpl.NewNopLogger())
	require.NoError(t, RegisterPrograms(registry, led, NewProxyTemplate(), logic, NewTransferFixture(), logimpl.NewNopLogger()))

	return &harness{eng: eng, led: led, registry: registry, verifier: verifier}
}

func (h *harness) deployAccount(t *testing.T, owner common.Address, salt string) common.Address {
	t.Helper()

	desc := types.DeploymentDescriptor{
		Factory:        chainconfig.FactoryAddress,
		TemplateCode:   ProxyCode,
		Implementation: chainconfig.AccountLogicAddress,
		Owner:          owner,
		Salt:           types.BytesToWord([]byte(salt)),
	}
	addr, err := h.eng.Create2(context.Background(), chainconfig.FactoryAddress, desc.InitCode(), desc.Salt)
	require.NoError(t, err)
	return addr
}

func newOwnerKey(t *testing.T) (*btcec.PrivateKey, common.Address) {
	t.Helper()
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	addr, err := signature.NewService().DeriveAddress(priv.Serialize())
	require.NoError(t, err)
	return priv, addr
}

func TestOwnerQueryAndStorageLoad(t *testing.T) {
	h := newHarness(t)
	owner := common.HexToAddress("0x1111")
	acct := h.deployAccount(t, owner, "owner-query")

	out, err := h.eng.Call(context.Background(), common.HexToAddress("0x9999"), acct, nil, EncodeOwner())
	require.NoError(t, err)
	assert.Equal(t, types.AddressToWord(owner).Bytes(), out)

	// storageLoad 读到的所有者保留槽与 owner() 一致
	out, err = h.eng.Call(context.Background(), owner, acct, nil, EncodeStorageLoad(constants.SlotOwner))
	require.NoError(t, err)
	assert.Equal(t, types.AddressToWord(owner).Bytes(), out)
}

func TestConstructRejectsZeroOwner(t *testing.T) {
	h := newHarness(t)

	desc := types.DeploymentDescriptor{
		Factory:        chainconfig.FactoryAddress,
		TemplateCode:   ProxyCode,
		Implementation: chainconfig.AccountLogicAddress,
		Owner:          common.Address{},
		Salt:           types.BytesToWord([]byte("zero-owner")),
	}
	_, err := h.eng.Create2(context.Background(), chainconfig.FactoryAddress, desc.InitCode(), desc.Salt)
	assert.ErrorIs(t, err, ErrOwnerZero)
}

// Scenario A：所有者经 externalCall 把预存资金转给接收者
func TestOwnerMovesFundsViaExternalCall(t *testing.T) {
	h := newHarness(t)
	owner := common.HexToAddress("0x2001")
	recipient := common.HexToAddress("0x2002")
	acct := h.deployAccount(t, owner, "scenario-a")

	h.led.AddBalance(acct, big.NewInt(2))

	input := EncodeExternalCall(big.NewInt(2), recipient, nil)
	_, err := h.eng.Call(context.Background(), owner, acct, nil, input)
	require.NoError(t, err)

	assert.Equal(t, int64(2), h.led.GetBalance(recipient).Int64())
	assert.Equal(t, int64(0), h.led.GetBalance(acct).Int64())
}

// Scenario B：非所有者调用 externalCall 被拒，余额不动
func TestNonOwnerExternalCallRejected(t *testing.T) {
	h := newHarness(t)
	owner := common.HexToAddress("0x2101")
	intruder := common.HexToAddress("0x2102")
	recipient := common.HexToAddress("0x2103")
	acct := h.deployAccount(t, owner, "scenario-b")

	h.led.AddBalance(acct, big.NewInt(10))

	input := EncodeExternalCall(big.NewInt(10), recipient, nil)
	_, err := h.eng.Call(context.Background(), intruder, acct, nil, input)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotOwner)

	assert.Equal(t, int64(10), h.led.GetBalance(acct).Int64())
	assert.Equal(t, int64(0), h.led.GetBalance(recipient).Int64())
}

// Scenario C：所有者离线签名，任意中继者提交 metaDelegateCall
func TestMetaDelegateCallByRelayer(t *testing.T) {
	h := newHarness(t)
	priv, owner := newOwnerKey(t)
	recipient := common.HexToAddress("0x2203")
	relayer := common.HexToAddress("0x2204")
	acct := h.deployAccount(t, owner, "scenario-c")

	h.led.AddBalance(acct, big.NewInt(100))

	signedData := EncodeTestTransferNative(big.NewInt(40), recipient)
	target := chainconfig.TransferFixtureAddress

	sig, err := h.verifier.SignMetaCall(testChainID, acct, target, signedData, priv.Serialize())
	require.NoError(t, err)

	call := types.MetaCall{Target: target, SignedData: signedData, Signature: sig}
	_, err = h.eng.Call(context.Background(), relayer, acct, nil, EncodeMetaDelegateCall(call))
	require.NoError(t, err)

	assert.Equal(t, int64(40), h.led.GetBalance(recipient).Int64())
	assert.Equal(t, int64(60), h.led.GetBalance(acct).Int64())
}

func TestMetaDelegateCallWrongSignerRejected(t *testing.T) {
	h := newHarness(t)
	_, owner := newOwnerKey(t)
	otherPriv, _ := newOwnerKey(t)
	recipient := common.HexToAddress("0x2303")
	acct := h.deployAccount(t, owner, "wrong-signer")

	h.led.AddBalance(acct, big.NewInt(100))

	signedData := EncodeTestTransferNative(big.NewInt(40), recipient)
	target := chainconfig.TransferFixtureAddress

	sig, err := h.verifier.SignMetaCall(testChainID, acct, target, signedData, otherPriv.Serialize())
	require.NoError(t, err)

	call := types.MetaCall{Target: target, SignedData: signedData, Signature: sig}
	_, err = h.eng.Call(context.Background(), common.HexToAddress("0x2304"), acct, nil, EncodeMetaDelegateCall(call))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Equal(t, int64(100), h.led.GetBalance(acct).Int64())
}

func TestMetaDelegateCallSignatureNotValidOnOtherChain(t *testing.T) {
	h := newHarness(t)
	priv, owner := newOwnerKey(t)
	recipient := common.HexToAddress("0x2403")
	acct := h.deployAccount(t, owner, "cross-chain")

	h.led.AddBalance(acct, big.NewInt(100))

	signedData := EncodeTestTransferNative(big.NewInt(40), recipient)
	target := chainconfig.TransferFixtureAddress

	// 在另一条链的标识下签名，提交到本链必须失败
	sig, err := h.verifier.SignMetaCall(types.ChainID(99), acct, target, signedData, priv.Serialize())
	require.NoError(t, err)

	call := types.MetaCall{Target: target, SignedData: signedData, Signature: sig}
	_, err = h.eng.Call(context.Background(), common.HexToAddress("0x2404"), acct, nil, EncodeMetaDelegateCall(call))
	require.Error(t, err)
	assert.Equal(t, int64(100), h.led.GetBalance(acct).Int64())
	assert.Equal(t, int64(0), h.led.GetBalance(recipient).Int64())
}

// failingProgram 写脏存储后失败，用于验证原样上抛与全量回滚
type failingProgram struct {
	reason error
}

func (p *failingProgram) Run(ctx context.Context, env engineiface.Env, input []byte) ([]byte, error) {
	env.SetStorage(types.BytesToWord([]byte("dirty")), types.BytesToWord([]byte{1}))
	return nil, p.reason
}

// Scenario E：下游失败原因原样携带，状态全量回滚
func TestDownstreamFailurePropagatesVerbatim(t *testing.T) {
	h := newHarness(t)
	owner := common.HexToAddress("0x2501")
	acct := h.deployAccount(t, owner, "scenario-e")

	reason := errors.New("downstream exploded")
	failerCode := []byte("failing-program-v1")
	failer := common.HexToAddress("0x2502")
	require.NoError(t, h.registry.RegisterProgram(failerCode, &failingProgram{reason: reason}))
	h.led.SetCode(failer, failerCode)

	h.led.AddBalance(acct, big.NewInt(5))

	// externalCall 路径：ExternalCallReverted 且原因可被 errors.Is 命中
	_, err := h.eng.Call(context.Background(), owner, acct, nil, EncodeExternalCall(big.NewInt(1), failer, []byte("x")))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExternalCallReverted)
	assert.ErrorIs(t, err, reason)
	assert.Contains(t, err.Error(), "downstream exploded")
	assert.Equal(t, int64(5), h.led.GetBalance(acct).Int64(), "value transfer rolled back")
	assert.Equal(t, types.Word{}, h.led.GetState(failer, types.BytesToWord([]byte("dirty"))))

	// delegateCall 路径：DelegateCallReverted，账户存储的脏写回滚
	_, err = h.eng.Call(context.Background(), owner, acct, nil, EncodeDelegateCall(failer, []byte("x")))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDelegateCallReverted)
	assert.ErrorIs(t, err, reason)
	assert.Equal(t, types.Word{}, h.led.GetState(acct, types.BytesToWord([]byte("dirty"))))
}

// storageWriter 把输入写入固定应用槽
type storageWriter struct{}

var appSlot = types.BytesToWord([]byte("app.greeting"))

func (p *storageWriter) Run(ctx context.Context, env engineiface.Env, input []byte) ([]byte, error) {
	env.SetStorage(appSlot, types.BytesToWord(input))
	return nil, nil
}

func TestDelegateCallWritesAccountStorage(t *testing.T) {
	h := newHarness(t)
	owner := common.HexToAddress("0x2601")
	acct := h.deployAccount(t, owner, "delegate-storage")

	writerCode := []byte("storage-writer-v1")
	writer := common.HexToAddress("0x2602")
	require.NoError(t, h.registry.RegisterProgram(writerCode, &storageWriter{}))
	h.led.SetCode(writer, writerCode)

	payload := []byte("hello")
	_, err := h.eng.Call(context.Background(), owner, acct, nil, EncodeDelegateCall(writer, payload))
	require.NoError(t, err)

	// 写入落在账户存储，目标自身存储不动
	assert.Equal(t, types.BytesToWord(payload), h.led.GetState(acct, appSlot))
	assert.Equal(t, types.Word{}, h.led.GetState(writer, appSlot))

	// storageLoad 读回应用槽
	out, err := h.eng.Call(context.Background(), owner, acct, nil, EncodeStorageLoad(appSlot))
	require.NoError(t, err)
	assert.Equal(t, types.BytesToWord(payload).Bytes(), out)

	// 应用槽与保留槽互不干扰
	out, err = h.eng.Call(context.Background(), owner, acct, nil, EncodeOwner())
	require.NoError(t, err)
	assert.Equal(t, types.AddressToWord(owner).Bytes(), out)
}

func TestRoleMutationAuthorization(t *testing.T) {
	h := newHarness(t)
	owner := common.HexToAddress("0x2701")
	admin := common.HexToAddress("0x2702")
	executor := common.HexToAddress("0x2703")
	intruder := common.HexToAddress("0x2704")
	acct := h.deployAccount(t, owner, "roles")

	ctx := context.Background()

	// 外人不能引导admin
	_, err := h.eng.Call(ctx, intruder, acct, nil, EncodeAddAdmin(admin))
	assert.ErrorIs(t, err, ErrNotAuthorized)

	// owner引导首个admin
	_, err = h.eng.Call(ctx, owner, acct, nil, EncodeAddAdmin(admin))
	require.NoError(t, err)

	out, err := h.eng.Call(ctx, intruder, acct, nil, EncodeIsAdmin(admin))
	require.NoError(t, err)
	assert.Equal(t, roleFlagSet.Bytes(), out)

	// 重复添加幂等成功
	_, err = h.eng.Call(ctx, owner, acct, nil, EncodeAddAdmin(admin))
	require.NoError(t, err)

	// admin登记executor；非admin被拒
	_, err = h.eng.Call(ctx, intruder, acct, nil, EncodeAddExecutorWithoutSignature(executor))
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = h.eng.Call(ctx, admin, acct, nil, EncodeAddExecutorWithoutSignature(executor))
	require.NoError(t, err)

	out, err = h.eng.Call(ctx, intruder, acct, nil, EncodeIsExecutor(executor))
	require.NoError(t, err)
	assert.Equal(t, roleFlagSet.Bytes(), out)

	// admin链式添加新admin
	admin2 := common.HexToAddress("0x2705")
	_, err = h.eng.Call(ctx, admin, acct, nil, EncodeAddAdmin(admin2))
	require.NoError(t, err)
}

func TestUnknownSelectorRejected(t *testing.T) {
	h := newHarness(t)
	owner := common.HexToAddress("0x2801")
	acct := h.deployAccount(t, owner, "unknown-selector")

	_, err := h.eng.Call(context.Background(), owner, acct, nil, []byte{0xde, 0xad, 0xbe, 0xef})
	assert.ErrorIs(t, err, ErrUnknownSelector)

	_, err = h.eng.Call(context.Background(), owner, acct, nil, []byte{0x01})
	assert.ErrorIs(t, err, ErrMalformedCallData)
}

func TestMetaCallDataRoundtrip(t *testing.T) {
	call := types.MetaCall{
		Target:       common.HexToAddress("0x3001"),
		SignedData:   []byte("signed part"),
		UnsignedData: []byte("unsigned tail"),
		Signature:    make([]byte, 65),
	}
	encoded := EncodeMetaDelegateCall(call)

	decoded, err := decodeMetaDelegateCall(encoded[constants.SelectorLength:])
	require.NoError(t, err)
	assert.Equal(t, call.Target, decoded.Target)
	assert.Equal(t, call.SignedData, decoded.SignedData)
	assert.Equal(t, call.UnsignedData, decoded.UnsignedData)
	assert.Equal(t, call.Signature, decoded.Signature)
	assert.Equal(t, call.FullCallData(), decoded.FullCallData())
}
