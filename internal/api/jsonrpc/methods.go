package jsonrpc

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/proxykit/v1/internal/api/service"
	"github.com/proxykit/v1/pkg/types"
)

// Methods pxk_ 方法族绑定
type Methods struct {
	svc *service.AccountService
}

// NewMethods 创建方法绑定
func NewMethods(svc *service.AccountService) *Methods {
	return &Methods{svc: svc}
}

// Register 将全部方法注册到服务器
func (m *Methods) Register(server *Server) {
	server.RegisterMethod("pxk_chainId", m.chainID)
	server.RegisterMethod("pxk_computeAddress", m.computeAddress)
	server.RegisterMethod("pxk_accountInfo", m.accountInfo)
	server.RegisterMethod("pxk_storageLoad", m.storageLoad)
	server.RegisterMethod("pxk_deploy", m.deploy)
	server.RegisterMethod("pxk_submitCall", m.submitCall)
	server.RegisterMethod("pxk_metaDelegateCall", m.metaDelegateCall)
	server.RegisterMethod("pxk_deployAndExecute", m.deployAndExecute)
	server.RegisterMethod("pxk_bundlerAddAdmin", m.bundlerAddAdmin)
	server.RegisterMethod("pxk_bundlerAddExecutor", m.bundlerAddExecutor)
	server.RegisterMethod("pxk_fund", m.fund)
}

// decodeHex 解析0x前缀或裸hex字节串
func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return nil, nil
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string: %w", err)
	}
	return data, nil
}

func parseParams(params json.RawMessage, out interface{}) error {
	if len(params) == 0 {
		return fmt.Errorf("missing params")
	}
	if err := json.Unmarshal(params, out); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}

// descriptorParams 部署描述符参数（模板与实现使用系统默认）
type descriptorParams struct {
	Owner string `json:"owner"`
	Salt  string `json:"salt"`
}

func (m *Methods) descriptor(p descriptorParams) (types.DeploymentDescriptor, error) {
	if !common.IsHexAddress(p.Owner) {
		return types.DeploymentDescriptor{}, fmt.Errorf("invalid owner address: %s", p.Owner)
	}
	saltBytes, err := decodeHex(p.Salt)
	if err != nil {
		return types.DeploymentDescriptor{}, err
	}
	return m.svc.DefaultDescriptor(common.HexToAddress(p.Owner), types.BytesToWord(saltBytes)), nil
}

func (m *Methods) chainID(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return uint64(m.svc.ChainID()), nil
}

func (m *Methods) computeAddress(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p descriptorParams
	if err := parseParams(params, &p); err != nil {
		return nil, err
	}
	desc, err := m.descriptor(p)
	if err != nil {
		return nil, err
	}
	return m.svc.ComputeAddress(desc).Hex(), nil
}

type accountParams struct {
	Address string `json:"address"`
}

func (m *Methods) accountInfo(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p accountParams
	if err := parseParams(params, &p); err != nil {
		return nil, err
	}
	if !common.IsHexAddress(p.Address) {
		return nil, fmt.Errorf("invalid address: %s", p.Address)
	}
	return m.svc.AccountInfo(common.HexToAddress(p.Address)), nil
}

type storageLoadParams struct {
	Address string `json:"address"`
	Key     string `json:"key"`
}

func (m *Methods) storageLoad(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p storageLoadParams
	if err := parseParams(params, &p); err != nil {
		return nil, err
	}
	if !common.IsHexAddress(p.Address) {
		return nil, fmt.Errorf("invalid address: %s", p.Address)
	}
	keyBytes, err := decodeHex(p.Key)
	if err != nil {
		return nil, err
	}
	value := m.svc.StorageLoad(common.HexToAddress(p.Address), types.BytesToWord(keyBytes))
	return value.Hex(), nil
}

func (m *Methods) deploy(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p descriptorParams
	if err := parseParams(params, &p); err != nil {
		return nil, err
	}
	desc, err := m.descriptor(p)
	if err != nil {
		return nil, err
	}
	addr, err := m.svc.Deploy(ctx, desc)
	if err != nil {
		return nil, err
	}
	return addr.Hex(), nil
}

type submitCallParams struct {
	Caller  string `json:"caller"`
	Target  string `json:"target"`
	Value   string `json:"value,omitempty"`
	Payload string `json:"payload"`
}

func (m *Methods) submitCall(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p submitCallParams
	if err := parseParams(params, &p); err != nil {
		return nil, err
	}
	if !common.IsHexAddress(p.Caller) || !common.IsHexAddress(p.Target) {
		return nil, fmt.Errorf("invalid caller or target address")
	}
	payload, err := decodeHex(p.Payload)
	if err != nil {
		return nil, err
	}

	value := new(big.Int)
	if p.Value != "" {
		if _, ok := value.SetString(p.Value, 10); !ok {
			return nil, fmt.Errorf("invalid value: %s", p.Value)
		}
	}

	output, err := m.svc.SubmitCall(ctx, common.HexToAddress(p.Caller), types.CallRecord{
		Target:  common.HexToAddress(p.Target),
		Value:   value,
		Payload: payload,
	})
	if err != nil {
		return nil, err
	}
	return "0x" + hex.EncodeToString(output), nil
}

type metaDelegateCallParams struct {
	Relayer      string `json:"relayer"`
	Account      string `json:"account"`
	Target       string `json:"target"`
	SignedData   string `json:"signed_data"`
	UnsignedData string `json:"unsigned_data,omitempty"`
	Signature    string `json:"signature"`
}

func (m *Methods) metaDelegateCall(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p metaDelegateCallParams
	if err := parseParams(params, &p); err != nil {
		return nil, err
	}
	if !common.IsHexAddress(p.Relayer) || !common.IsHexAddress(p.Account) || !common.IsHexAddress(p.Target) {
		return nil, fmt.Errorf("invalid relayer, account or target address")
	}

	signedData, err := decodeHex(p.SignedData)
	if err != nil {
		return nil, err
	}
	unsignedData, err := decodeHex(p.UnsignedData)
	if err != nil {
		return nil, err
	}
	sig, err := decodeHex(p.Signature)
	if err != nil {
		return nil, err
	}

	output, err := m.svc.MetaDelegateCall(ctx, common.HexToAddress(p.Relayer), common.HexToAddress(p.Account), types.MetaCall{
		Target:       common.HexToAddress(p.Target),
		SignedData:   signedData,
		UnsignedData: unsignedData,
		Signature:    sig,
	})
	if err != nil {
		return nil, err
	}
	return "0x" + hex.EncodeToString(output), nil
}

type deployAndExecuteParams struct {
	Executor string `json:"executor"`
	Owner    string `json:"owner"`
	Salt     string `json:"salt"`
	Payload  string `json:"payload"`
}

func (m *Methods) deployAndExecute(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p deployAndExecuteParams
	if err := parseParams(params, &p); err != nil {
		return nil, err
	}
	if !common.IsHexAddress(p.Executor) {
		return nil, fmt.Errorf("invalid executor address: %s", p.Executor)
	}
	desc, err := m.descriptor(descriptorParams{Owner: p.Owner, Salt: p.Salt})
	if err != nil {
		return nil, err
	}
	payload, err := decodeHex(p.Payload)
	if err != nil {
		return nil, err
	}

	output, err := m.svc.DeployAndExecute(ctx, common.HexToAddress(p.Executor), desc, payload)
	if err != nil {
		return nil, err
	}
	return "0x" + hex.EncodeToString(output), nil
}

type roleParams struct {
	Caller string `json:"caller"`
	Member string `json:"member"`
}

func (m *Methods) bundlerAddAdmin(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p roleParams
	if err := parseParams(params, &p); err != nil {
		return nil, err
	}
	if !common.IsHexAddress(p.Caller) || !common.IsHexAddress(p.Member) {
		return nil, fmt.Errorf("invalid caller or member address")
	}
	if err := m.svc.BundlerAddAdmin(ctx, common.HexToAddress(p.Caller), common.HexToAddress(p.Member)); err != nil {
		return nil, err
	}
	return true, nil
}

func (m *Methods) bundlerAddExecutor(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p roleParams
	if err := parseParams(params, &p); err != nil {
		return nil, err
	}
	if !common.IsHexAddress(p.Caller) || !common.IsHexAddress(p.Member) {
		return nil, fmt.Errorf("invalid caller or member address")
	}
	if err := m.svc.BundlerAddExecutor(ctx, common.HexToAddress(p.Caller), common.HexToAddress(p.Member)); err != nil {
		return nil, err
	}
	return true, nil
}

type fundParams struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
}

func (m *Methods) fund(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p fundParams
	if err := parseParams(params, &p); err != nil {
		return nil, err
	}
	if !common.IsHexAddress(p.Address) {
		return nil, fmt.Errorf("invalid address: %s", p.Address)
	}
	amount := new(big.Int)
	if _, ok := amount.SetString(p.Amount, 10); !ok {
		return nil, fmt.Errorf("invalid amount: %s", p.Amount)
	}
	if err := m.svc.Fund(ctx, common.HexToAddress(p.Address), amount); err != nil {
		return nil, err
	}
	return true, nil
}
