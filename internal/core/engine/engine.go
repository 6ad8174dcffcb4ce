// Package engine 调用引擎实现
//
// ⚙️ **调用引擎 (Call Engine)**
//
// 提供三种执行原语：
//   - Call：目标自身存储上下文 + 可携带价值，无代码目标退化为纯转账
//   - DelegateCall：借用发起方存储上下文执行目标代码
//   - Create2：确定性地址部署，构造逻辑与部署同属一个原子单元
//
// 🎯 **回滚契约**
// 每个入口先记录账本快照，该层（含全部嵌套）失败即回滚到入口快照。
// 下游错误原样上抛：引擎不改写、不包装、不吞没程序返回的失败原因。
package engine

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"

	chainconfig "github.com/proxykit/v1/internal/config/chain"
	engineiface "github.com/proxykit/v1/pkg/interfaces/engine"
	cryptoiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/crypto"
	logiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/log"
	ledgeriface "github.com/proxykit/v1/pkg/interfaces/ledger"
	"github.com/proxykit/v1/pkg/types"
)

// Engine 调用引擎实现
type Engine struct {
	ledger   ledgeriface.StateLedger
	registry engineiface.Registry
	hasher   cryptoiface.HashManager
	logger   logiface.Logger
	chainID  types.ChainID
}

var _ engineiface.CallEngine = (*Engine)(nil)

// NewEngine 创建调用引擎
func NewEngine(
	ledger ledgeriface.StateLedger,
	registry engineiface.Registry,
	hasher cryptoiface.HashManager,
	chainCfg *chainconfig.Config,
	logger logiface.Logger,
) *Engine {
	return &Engine{
		ledger:   ledger,
		registry: registry,
		hasher:   hasher,
		logger:   logger,
		chainID:  chainCfg.GetChainID(),
	}
}

// ChainID 引擎运行的链标识
func (e *Engine) ChainID() types.ChainID { return e.chainID }

// transfer 原生价值转移
func (e *Engine) transfer(from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	if err := e.ledger.SubBalance(from, amount); err != nil {
		return WrapTransferError(err)
	}
	e.ledger.AddBalance(to, amount)
	return nil
}

// Call 在目标自身存储上下文中执行调用
func (e *Engine) Call(ctx context.Context, caller, target common.Address, value *big.Int, input []byte) ([]byte, error) {
	invocation := uuid.NewString()
	snapshot := e.ledger.Snapshot()

	if err := e.transfer(caller, target, value); err != nil {
		e.ledger.RevertToSnapshot(snapshot)
		return nil, err
	}

	code := e.ledger.GetCode(target)
	if len(code) == 0 {
		// 无代码目标：纯价值转移，空输出
		return nil, nil
	}

	program, ok := e.registry.ProgramByCodeHash(e.hasher.Keccak256Hash(code))
	if !ok {
		e.ledger.RevertToSnapshot(snapshot)
		return nil, ErrUnknownCode
	}

	env := newEnv(e, target, caller, value)
	output, err := program.Run(ctx, env, input)
	if err != nil {
		e.ledger.RevertToSnapshot(snapshot)
		e.logger.Debugf("call reverted, invocation=%s target=%s caller=%s err=%v",
			invocation, target.Hex(), caller.Hex(), err)
		return nil, err
	}
	e.logger.Debugf("call executed, invocation=%s target=%s caller=%s output=%d",
		invocation, target.Hex(), caller.Hex(), len(output))
	return output, nil
}

// DelegateCall 以 storageCtx 为存储上下文执行目标代码
func (e *Engine) DelegateCall(ctx context.Context, caller, storageCtx, target common.Address, input []byte) ([]byte, error) {
	snapshot := e.ledger.Snapshot()

	code := e.ledger.GetCode(target)
	if len(code) == 0 {
		return nil, ErrNoCode
	}

	program, ok := e.registry.ProgramByCodeHash(e.hasher.Keccak256Hash(code))
	if !ok {
		return nil, ErrUnknownCode
	}

	env := newEnv(e, storageCtx, caller, nil)
	output, err := program.Run(ctx, env, input)
	if err != nil {
		e.ledger.RevertToSnapshot(snapshot)
		return nil, err
	}
	return output, nil
}

// Create2 确定性地址部署
//
// 部署地址 = keccak256(0xff ++ deployer ++ salt ++ keccak256(initCode))[12:]，
// 只依赖部署者、盐值与初始化码，与时序和历史无关。
func (e *Engine) Create2(ctx context.Context, deployer common.Address, initCode []byte, salt types.Word) (common.Address, error) {
	addr := gethcrypto.CreateAddress2(deployer, salt, e.hasher.Keccak256(initCode))

	snapshot := e.ledger.Snapshot()

	if e.ledger.HasCode(addr) {
		return common.Address{}, ErrAlreadyDeployed
	}

	template, args, ok := e.registry.TemplateByInitCode(initCode)
	if !ok {
		return common.Address{}, ErrUnknownInitCode
	}

	e.ledger.SetCode(addr, template.Code())

	env := newEnv(e, addr, deployer, nil)
	if err := template.Construct(ctx, env, args); err != nil {
		e.ledger.RevertToSnapshot(snapshot)
		return common.Address{}, err
	}

	e.logger.Debugf("create2 deployed, address=%s deployer=%s", addr.Hex(), deployer.Hex())
	return addr, nil
}
