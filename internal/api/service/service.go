// Package service API层的账户引擎门面
//
// 🎯 **职责**
// 将核心子系统（工厂、打包器、引擎、账本、验证器）聚合为
// API可直接消费的操作集合；每个成功的变更操作提交一次账本。
//
// 失败路径依赖引擎的快照回滚，本层不做状态补偿；
// 提交失败视为基础设施故障直接上抛。
//
// 所有变更操作在本层串行执行：快照→执行→回滚/提交序列共享
// 同一账本日志，并发交错会让一次失败回滚掉他人已生效的变更。
package service

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	chainconfig "github.com/proxykit/v1/internal/config/chain"
	"github.com/proxykit/v1/internal/core/account"
	"github.com/proxykit/v1/internal/core/factory"
	"github.com/proxykit/v1/internal/core/metatx"
	engineiface "github.com/proxykit/v1/pkg/interfaces/engine"
	logiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/log"
	ledgeriface "github.com/proxykit/v1/pkg/interfaces/ledger"
	"github.com/proxykit/v1/pkg/types"
)

// AccountService 账户引擎操作门面
type AccountService struct {
	mu sync.RWMutex

	factory  *factory.Factory
	bundler  *factory.Bundler
	engine   engineiface.CallEngine
	ledger   ledgeriface.StateLedger
	verifier *metatx.Verifier
	logger   logiface.Logger
}

// NewAccountService 创建账户服务
func NewAccountService(
	fac *factory.Factory,
	bundler *factory.Bundler,
	engine engineiface.CallEngine,
	ledger ledgeriface.StateLedger,
	verifier *metatx.Verifier,
	logger logiface.Logger,
) *AccountService {
	return &AccountService{
		factory:  fac,
		bundler:  bundler,
		engine:   engine,
		ledger:   ledger,
		verifier: verifier,
		logger:   logger,
	}
}

// ChainID 链标识
func (s *AccountService) ChainID() types.ChainID {
	return s.engine.ChainID()
}

// DefaultDescriptor 以标准代理模板与共享逻辑填充描述符
func (s *AccountService) DefaultDescriptor(owner common.Address, salt types.Word) types.DeploymentDescriptor {
	return types.DeploymentDescriptor{
		Factory:        chainconfig.FactoryAddress,
		TemplateCode:   account.ProxyCode,
		Implementation: chainconfig.AccountLogicAddress,
		Owner:          owner,
		Salt:           salt,
	}
}

// ComputeAddress 推导部署地址（纯查询，不触碰状态）
func (s *AccountService) ComputeAddress(desc types.DeploymentDescriptor) common.Address {
	return s.factory.ComputeAddress(desc.InitCode(), desc.Salt)
}

// AccountInfo 聚合账户状态视图
func (s *AccountService) AccountInfo(addr common.Address) types.AccountInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info := types.AccountInfo{
		Address:  addr,
		Balance:  s.ledger.GetBalance(addr),
		Deployed: s.ledger.HasCode(addr),
	}
	if info.Deployed {
		info.Owner = account.OwnerOf(account.NewLedgerSlots(s.ledger, addr))
		info.CodeHash = s.ledger.CodeHash(addr)
	}
	return info
}

// StorageLoad 读取账户存储槽（纯查询）
func (s *AccountService) StorageLoad(addr common.Address, key types.Word) types.Word {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.GetState(addr, key)
}

// Deploy 部署账户并提交账本
func (s *AccountService) Deploy(ctx context.Context, desc types.DeploymentDescriptor) (common.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	addr, err := s.factory.Deploy(ctx, desc.InitCode(), desc.Salt)
	if err != nil {
		return common.Address{}, err
	}
	if err := s.ledger.Commit(ctx); err != nil {
		return common.Address{}, err
	}
	return addr, nil
}

// SubmitCall 以指定调用者向账户提交调用并提交账本
//
// 演示节点的提交入口：调用者身份由提交方声明，生产部署应在
// 外围加接入层鉴权。
func (s *AccountService) SubmitCall(ctx context.Context, caller common.Address, record types.CallRecord) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	output, err := s.engine.Call(ctx, caller, record.Target, record.Value, record.Payload)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Commit(ctx); err != nil {
		return nil, err
	}
	return output, nil
}

// MetaDelegateCall 中继者提交签名授权的元委托调用
//
// 中继者身份不参与授权判定，签名校验在账户逻辑内完成。
func (s *AccountService) MetaDelegateCall(ctx context.Context, relayer, accountAddr common.Address, call types.MetaCall) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload := account.EncodeMetaDelegateCall(call)
	output, err := s.engine.Call(ctx, relayer, accountAddr, nil, payload)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Commit(ctx); err != nil {
		return nil, err
	}
	return output, nil
}

// DeployAndExecute executor经打包器原子部署并执行
func (s *AccountService) DeployAndExecute(ctx context.Context, executor common.Address, desc types.DeploymentDescriptor, payload []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	output, err := s.bundler.DeployAndExecute(ctx, executor, desc.InitCode(), desc.Salt, payload)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Commit(ctx); err != nil {
		return nil, err
	}
	return output, nil
}

// BundlerAddAdmin 打包器角色引导：添加admin
func (s *AccountService) BundlerAddAdmin(ctx context.Context, caller, member common.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.bundler.AddAdmin(caller, member); err != nil {
		return err
	}
	return s.ledger.Commit(ctx)
}

// BundlerAddExecutor 打包器角色引导：登记executor
func (s *AccountService) BundlerAddExecutor(ctx context.Context, caller, member common.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.bundler.AddExecutor(caller, member); err != nil {
		return err
	}
	return s.ledger.Commit(ctx)
}

// Fund 向地址注入原生余额（演示/测试水龙头）
func (s *AccountService) Fund(ctx context.Context, addr common.Address, amount *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger.AddBalance(addr, amount)
	return s.ledger.Commit(ctx)
}
