// Package account 账户代理与共享逻辑实现
//
// 🎯 **智能账户引擎核心**
//
// 一份共享逻辑服务全部账户代理：代理构造时记录所有者与实现指针，
// 运行时委托到本逻辑，按方法选择器分发。
//
// 授权模型：
//   - owner：构造时写死，不可变；独占 externalCall / delegateCall /
//     metaDelegateCall（签名恢复比对）三条执行路径
//   - admin：由owner引导或既有admin添加；可登记executor
//   - executor：打包器入口的准入名单（见 factory 包）
//
// 🔧 **失败语义**
// 任何失败把下游原因原样上抛；回滚由引擎的入口快照保证，
// 逻辑层不做任何状态补偿。
package account

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/proxykit/v1/internal/core/metatx"
	"github.com/proxykit/v1/pkg/constants"
	engineiface "github.com/proxykit/v1/pkg/interfaces/engine"
	eventiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/event"
	logiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/log"
	"github.com/proxykit/v1/pkg/types"
)

// Logic 共享账户逻辑程序
type Logic struct {
	verifier *metatx.Verifier
	bus      eventiface.Bus
	logger   logiface.Logger
}

var _ engineiface.Program = (*Logic)(nil)

// NewLogic 创建账户逻辑
func NewLogic(verifier *metatx.Verifier, bus eventiface.Bus, logger logiface.Logger) *Logic {
	return &Logic{verifier: verifier, bus: bus, logger: logger}
}

// Run 按选择器分发
func (l *Logic) Run(ctx context.Context, env engineiface.Env, input []byte) ([]byte, error) {
	if len(input) < constants.SelectorLength {
		return nil, fmt.Errorf("%w: input len=%d", ErrMalformedCallData, len(input))
	}

	var selector [constants.SelectorLength]byte
	copy(selector[:], input[:constants.SelectorLength])
	args := input[constants.SelectorLength:]

	switch selector {
	case constants.SelectorOwner:
		return types.AddressToWord(OwnerOf(env)).Bytes(), nil

	case constants.SelectorIsAdmin:
		return l.roleQuery(env, args, IsAdmin)

	case constants.SelectorIsExecutor:
		return l.roleQuery(env, args, IsExecutor)

	case constants.SelectorAddAdmin:
		return l.addAdmin(env, args)

	case constants.SelectorAddExecutorWithoutSignature:
		return l.addExecutor(env, args)

	case constants.SelectorExternalCall:
		return l.externalCall(ctx, env, args)

	case constants.SelectorDelegateCall:
		return l.delegateCall(ctx, env, args)

	case constants.SelectorStorageLoad:
		return l.storageLoad(env, args)

	case constants.SelectorMetaDelegateCall:
		return l.metaDelegateCall(ctx, env, args)

	default:
		return nil, fmt.Errorf("%w: %x", ErrUnknownSelector, selector)
	}
}

// roleQuery 角色成员查询，返回标志字（1/0）
func (l *Logic) roleQuery(env engineiface.Env, args []byte, check func(SlotStore, common.Address) bool) ([]byte, error) {
	memberWord, err := readWord(args, 0)
	if err != nil {
		return nil, err
	}
	if check(env, types.WordToAddress(memberWord)) {
		return roleFlagSet.Bytes(), nil
	}
	return types.Word{}.Bytes(), nil
}

// addAdmin 登记admin
//
// 既有admin可添加新admin；首个admin只能由owner引导。
// 重复添加视为成功（幂等）。
func (l *Logic) addAdmin(env engineiface.Env, args []byte) ([]byte, error) {
	memberWord, err := readWord(args, 0)
	if err != nil {
		return nil, err
	}
	member := types.WordToAddress(memberWord)

	caller := env.Caller()
	if caller != OwnerOf(env) && !IsAdmin(env, caller) {
		return nil, fmt.Errorf("%w: caller %s may not add admin", ErrNotAuthorized, caller.Hex())
	}

	if IsAdmin(env, member) {
		return nil, nil
	}
	GrantAdmin(env, member)

	l.bus.Publish(types.EventAdminAdded, types.RoleGrantedEvent{
		Scope:     env.Address(),
		Grantee:   member,
		GrantedBy: caller,
		Timestamp: time.Now(),
	})
	return nil, nil
}

// addExecutor 登记executor，仅admin可操作
func (l *Logic) addExecutor(env engineiface.Env, args []byte) ([]byte, error) {
	memberWord, err := readWord(args, 0)
	if err != nil {
		return nil, err
	}
	member := types.WordToAddress(memberWord)

	caller := env.Caller()
	if !IsAdmin(env, caller) {
		return nil, fmt.Errorf("%w: caller %s is not admin", ErrNotAuthorized, caller.Hex())
	}

	if IsExecutor(env, member) {
		return nil, nil
	}
	GrantExecutor(env, member)

	l.bus.Publish(types.EventExecutorAdded, types.RoleGrantedEvent{
		Scope:     env.Address(),
		Grantee:   member,
		GrantedBy: caller,
		Timestamp: time.Now(),
	})
	return nil, nil
}

// externalCall 以账户身份对外调用，可携带价值
func (l *Logic) externalCall(ctx context.Context, env engineiface.Env, args []byte) ([]byte, error) {
	if env.Caller() != OwnerOf(env) {
		return nil, fmt.Errorf("%w: caller %s", ErrNotOwner, env.Caller().Hex())
	}

	valueWord, err := readWord(args, 0)
	if err != nil {
		return nil, err
	}
	targetWord, err := readWord(args, 1)
	if err != nil {
		return nil, err
	}
	data, err := readTail(args, 2)
	if err != nil {
		return nil, err
	}

	value := new(big.Int).SetBytes(valueWord.Bytes())
	target := types.WordToAddress(targetWord)

	output, err := env.Call(ctx, target, value, data)
	if err != nil {
		return nil, WrapExternalCallReverted(err)
	}
	return output, nil
}

// delegateCall 在账户自身存储上执行目标逻辑，不移动价值
func (l *Logic) delegateCall(ctx context.Context, env engineiface.Env, args []byte) ([]byte, error) {
	if env.Caller() != OwnerOf(env) {
		return nil, fmt.Errorf("%w: caller %s", ErrNotOwner, env.Caller().Hex())
	}

	targetWord, err := readWord(args, 0)
	if err != nil {
		return nil, err
	}
	data, err := readTail(args, 1)
	if err != nil {
		return nil, err
	}

	output, err := env.DelegateCall(ctx, types.WordToAddress(targetWord), data)
	if err != nil {
		return nil, WrapDelegateCallReverted(err)
	}
	return output, nil
}

// storageLoad 读取账户存储槽
func (l *Logic) storageLoad(env engineiface.Env, args []byte) ([]byte, error) {
	key, err := readWord(args, 0)
	if err != nil {
		return nil, err
	}
	return env.GetStorage(key).Bytes(), nil
}

// metaDelegateCall 签名授权的委托执行
//
// 摘要覆盖 (链标识, 账户地址, 选择器, 目标, 签名数据)；
// 未签名后缀由提交者追加，不受签名保护。签名者必须是所有者。
func (l *Logic) metaDelegateCall(ctx context.Context, env engineiface.Env, args []byte) ([]byte, error) {
	call, err := decodeMetaDelegateCall(args)
	if err != nil {
		return nil, err
	}

	signer, err := l.verifier.RecoverSigner(env.ChainID(), env.Address(), call.Target, call.SignedData, call.Signature)
	if err != nil {
		return nil, err
	}
	if signer != OwnerOf(env) {
		return nil, fmt.Errorf("%w: signer %s", ErrNotOwner, signer.Hex())
	}

	payload := metatx.JoinCallData(call.SignedData, call.UnsignedData)
	output, err := env.DelegateCall(ctx, call.Target, payload)
	if err != nil {
		return nil, WrapDelegateCallReverted(err)
	}

	l.bus.Publish(types.EventMetaCallExecuted, types.MetaCallExecutedEvent{
		Account:   env.Address(),
		Target:    call.Target,
		Signer:    signer,
		Value:     new(big.Int),
		Timestamp: time.Now(),
	})
	return output, nil
}
