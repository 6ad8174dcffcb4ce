package factory

import (
	"context"
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chainconfig "github.com/proxykit/v1/internal/config/chain"
	badgerconfig "github.com/proxykit/v1/internal/config/storage/badger"
	"github.com/proxykit/v1/internal/core/account"
	engineimpl "github.com/proxykit/v1/internal/core/engine"
	"github.com/proxykit/v1/internal/core/infrastructure/crypto/hash"
	"github.com/proxykit/v1/internal/core/infrastructure/crypto/signature"
	eventimpl "github.com/proxykit/v1/internal/core/infrastructure/event"
	logimpl "github.com/proxykit/v1/internal/core/infrastructure/log"
	badgerstore "github.com/proxykit/v1/internal/core/infrastructure/storage/badger"
	ledgerimpl "github.com/proxykit/v1/internal/core/ledger"
	"github.com/proxykit/v1/internal/core/metatx"
	"github.com/proxykit/v1/pkg/types"
)

const testChainID = uint64(31337)

type harness struct {
	factory  *Factory
	bundler  *Bundler
	eng      *engineimpl.Engine
	led      *ledgerimpl.Ledger
	verifier *metatx.Verifier
}

func newHarness(t *testing.T, bundlerOwner common.Address) *harness {
	t.Helper()

	inMemory := true
	storeCfg := badgerconfig.New(&types.StorageConfig{InMemory: &inMemory})
	store, err := badgerstore.NewStore(storeCfg, logimpl.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	hasher := hash.NewService()
	led := ledgerimpl.NewLedger(store, hasher, logimpl.NewNopLogger())
	registry := engineimpl.NewRegistry(hasher)

	chainID := testChainID
	ownerHex := bundlerOwner.Hex()
	chainCfg := chainconfig.New(&types.ChainConfig{ChainID: &chainID, BundlerOwner: &ownerHex})
	eng := engineimpl.NewEngine(led, registry, hasher, chainCfg, logimpl.NewNopLogger())

	verifier := metatx.NewVerifier(hasher, signature.NewService())
	bus := eventimpl.NewBus(logimpl.NewNopLogger())
	t.Cleanup(func() { _ = bus.Close() })

	logic := account.NewLogic(verifier, bus, logimpl.NewNopLogger())
	require.NoError(t, account.RegisterPrograms(registry, led,
		account.NewProxyTemplate(), logic, account.NewTransferFixture(), logimpl.NewNopLogger()))

	fac := NewFactory(eng, led, hasher, bus, logimpl.NewNopLogger())
	bundler := NewBundler(fac, eng, led, chainCfg, logimpl.NewNopLogger())

	return &harness{factory: fac, bundler: bundler, eng: eng, led: led, verifier: verifier}
}

func accountDescriptor(owner common.Address, salt string) types.DeploymentDescriptor {
	return types.DeploymentDescriptor{
		Factory:        chainconfig.FactoryAddress,
		TemplateCode:   account.ProxyCode,
		Implementation: chainconfig.AccountLogicAddress,
		Owner:          owner,
		Salt:           types.BytesToWord([]byte(salt)),
	}
}

func TestComputeAddressDeterministic(t *testing.T) {
	h := newHarness(t, common.HexToAddress("0x9001"))
	desc := accountDescriptor(common.HexToAddress("0x4001"), "determinism")

	first := ComputeAccountAddress(hash.NewService(), desc)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ComputeAccountAddress(hash.NewService(), desc))
	}

	// 任一输入变化都改变地址
	other := desc
	other.Owner = common.HexToAddress("0x4002")
	assert.NotEqual(t, first, ComputeAccountAddress(hash.NewService(), other))

	other = desc
	other.Salt = types.BytesToWord([]byte("another-salt"))
	assert.NotEqual(t, first, ComputeAccountAddress(hash.NewService(), other))

	// 实际部署落在推导地址上
	deployed, err := h.factory.Deploy(context.Background(), desc.InitCode(), desc.Salt)
	require.NoError(t, err)
	assert.Equal(t, first, deployed)
	assert.True(t, h.led.HasCode(deployed))
}

func TestPreFundingSurvivesDeployment(t *testing.T) {
	h := newHarness(t, common.HexToAddress("0x9001"))
	owner := common.HexToAddress("0x4101")
	desc := accountDescriptor(owner, "pre-funding")

	addr := h.factory.ComputeAddress(desc.InitCode(), desc.Salt)

	// 部署前打款
	h.led.AddBalance(addr, big.NewInt(1234))
	assert.False(t, h.led.HasCode(addr))

	deployed, err := h.factory.Deploy(context.Background(), desc.InitCode(), desc.Salt)
	require.NoError(t, err)
	require.Equal(t, addr, deployed)

	// 余额原封不动归属新账户
	assert.Equal(t, int64(1234), h.led.GetBalance(addr).Int64())
	assert.Equal(t, owner, account.OwnerOf(account.NewLedgerSlots(h.led, addr)))
}

func TestDuplicateDeployFails(t *testing.T) {
	h := newHarness(t, common.HexToAddress("0x9001"))
	desc := accountDescriptor(common.HexToAddress("0x4201"), "duplicate")

	_, err := h.factory.Deploy(context.Background(), desc.InitCode(), desc.Salt)
	require.NoError(t, err)

	_, err = h.factory.Deploy(context.Background(), desc.InitCode(), desc.Salt)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeploymentFailed)
	assert.ErrorIs(t, err, engineimpl.ErrAlreadyDeployed)
}

func TestDeployRejectsEmptyInitCode(t *testing.T) {
	h := newHarness(t, common.HexToAddress("0x9001"))

	_, err := h.factory.Deploy(context.Background(), nil, types.Word{})
	assert.ErrorIs(t, err, ErrDeploymentFailed)
	assert.ErrorIs(t, err, ErrEmptyInitCode)
}

func TestBundlerRoleBootstrap(t *testing.T) {
	bundlerOwner := common.HexToAddress("0x9101")
	h := newHarness(t, bundlerOwner)

	assert.Equal(t, bundlerOwner, h.bundler.Owner())

	admin := common.HexToAddress("0x9102")
	executor := common.HexToAddress("0x9103")
	intruder := common.HexToAddress("0x9104")

	// 外人不能引导
	assert.ErrorIs(t, h.bundler.AddAdmin(intruder, admin), account.ErrNotAuthorized)
	assert.ErrorIs(t, h.bundler.AddExecutor(intruder, executor), account.ErrNotAuthorized)

	// owner → admin → executor 引导链
	require.NoError(t, h.bundler.AddAdmin(bundlerOwner, admin))
	assert.True(t, h.bundler.IsAdmin(admin))

	require.NoError(t, h.bundler.AddExecutor(admin, executor))
	assert.True(t, h.bundler.IsExecutor(executor))

	// 幂等
	require.NoError(t, h.bundler.AddAdmin(bundlerOwner, admin))
	require.NoError(t, h.bundler.AddExecutor(admin, executor))
}

// Scenario D：非executor调用打包器，无部署、无执行副作用
func TestDeployAndExecuteRequiresExecutor(t *testing.T) {
	h := newHarness(t, common.HexToAddress("0x9201"))
	desc := accountDescriptor(common.HexToAddress("0x4301"), "scenario-d")

	outsider := common.HexToAddress("0x9202")
	_, err := h.bundler.DeployAndExecute(context.Background(), outsider, desc.InitCode(), desc.Salt, account.EncodeOwner())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotAuthorizedExecutor)

	addr := h.factory.ComputeAddress(desc.InitCode(), desc.Salt)
	assert.False(t, h.led.HasCode(addr), "no deployment side effect")
}

func setupExecutor(t *testing.T, h *harness, bundlerOwner, executor common.Address) {
	t.Helper()
	admin := common.HexToAddress("0x9901")
	require.NoError(t, h.bundler.AddAdmin(bundlerOwner, admin))
	require.NoError(t, h.bundler.AddExecutor(admin, executor))
}

func TestDeployAndExecuteHappyPath(t *testing.T) {
	bundlerOwner := common.HexToAddress("0x9301")
	executor := common.HexToAddress("0x9302")
	h := newHarness(t, bundlerOwner)
	setupExecutor(t, h, bundlerOwner, executor)

	priv, owner := newOwnerKey(t)
	recipient := common.HexToAddress("0x9303")
	desc := accountDescriptor(owner, "bundle-happy")
	addr := h.factory.ComputeAddress(desc.InitCode(), desc.Salt)

	// 部署前预存资金
	h.led.AddBalance(addr, big.NewInt(100))

	// 载荷：所有者签名的元委托转账
	signedData := account.EncodeTestTransferNative(big.NewInt(70), recipient)
	target := chainconfig.TransferFixtureAddress
	sig, err := h.verifier.SignMetaCall(types.ChainID(testChainID), addr, target, signedData, priv.Serialize())
	require.NoError(t, err)
	payload := account.EncodeMetaDelegateCall(types.MetaCall{Target: target, SignedData: signedData, Signature: sig})

	_, err = h.bundler.DeployAndExecute(context.Background(), executor, desc.InitCode(), desc.Salt, payload)
	require.NoError(t, err)

	assert.True(t, h.led.HasCode(addr))
	assert.Equal(t, int64(70), h.led.GetBalance(recipient).Int64())
	assert.Equal(t, int64(30), h.led.GetBalance(addr).Int64())
}

func TestDeployAndExecuteAtomicOnExecutionFailure(t *testing.T) {
	bundlerOwner := common.HexToAddress("0x9401")
	executor := common.HexToAddress("0x9402")
	h := newHarness(t, bundlerOwner)
	setupExecutor(t, h, bundlerOwner, executor)

	priv, owner := newOwnerKey(t)
	recipient := common.HexToAddress("0x9403")
	desc := accountDescriptor(owner, "bundle-atomic")
	addr := h.factory.ComputeAddress(desc.InitCode(), desc.Salt)

	// 账户没钱，元委托转账必然失败
	signedData := account.EncodeTestTransferNative(big.NewInt(70), recipient)
	target := chainconfig.TransferFixtureAddress
	sig, err := h.verifier.SignMetaCall(types.ChainID(testChainID), addr, target, signedData, priv.Serialize())
	require.NoError(t, err)
	payload := account.EncodeMetaDelegateCall(types.MetaCall{Target: target, SignedData: signedData, Signature: sig})

	_, err = h.bundler.DeployAndExecute(context.Background(), executor, desc.InitCode(), desc.Salt, payload)
	require.Error(t, err)
	assert.ErrorIs(t, err, account.ErrDelegateCallReverted)

	// 执行失败连同部署一并回滚
	assert.False(t, h.led.HasCode(addr), "deployment rolled back with failed execution")
	assert.Equal(t, int64(0), h.led.GetBalance(recipient).Int64())
}

func TestDeployAndExecuteSkipsRedeployment(t *testing.T) {
	bundlerOwner := common.HexToAddress("0x9501")
	executor := common.HexToAddress("0x9502")
	h := newHarness(t, bundlerOwner)
	setupExecutor(t, h, bundlerOwner, executor)

	owner := common.HexToAddress("0x9503")
	desc := accountDescriptor(owner, "bundle-redeploy")

	// 预先部署
	addr, err := h.factory.Deploy(context.Background(), desc.InitCode(), desc.Salt)
	require.NoError(t, err)

	// 再次经打包器进入：跳过部署，直接执行
	out, err := h.bundler.DeployAndExecute(context.Background(), executor, desc.InitCode(), desc.Salt, account.EncodeOwner())
	require.NoError(t, err)
	assert.Equal(t, types.AddressToWord(owner).Bytes(), out)
	assert.Equal(t, addr, h.factory.ComputeAddress(desc.InitCode(), desc.Salt))
}

func newOwnerKey(t *testing.T) (*btcec.PrivateKey, common.Address) {
	t.Helper()
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	addr, err := signature.NewService().DeriveAddress(priv.Serialize())
	require.NoError(t, err)
	return priv, addr
}
