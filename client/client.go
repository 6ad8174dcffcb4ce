// Package client PXK 节点客户端
//
// 提供对节点 JSON-RPC 接口（pxk_ 方法族）的类型化访问：
// 地址推导、账户查询、部署、调用提交、元委托调用与打包器入口。
package client

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/proxykit/v1/pkg/types"
)

// Client PXK JSON-RPC 客户端
type Client struct {
	endpoint string
	http     *http.Client
}

// New 创建客户端
// endpoint: 节点 JSON-RPC 地址，如 "http://localhost:8650/rpc"
func New(endpoint string) *Client {
	return NewWithTimeout(endpoint, 30*time.Second)
}

// NewWithTimeout 创建带自定义超时的客户端
func NewWithTimeout(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
	ID      int         `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  *rpcError       `json:"error,omitempty"`
}

// call 发起一次JSON-RPC调用并解析结果
func (c *Client) call(ctx context.Context, method string, params, result interface{}) error {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: 1})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("rpc call %s: %w", method, err)
	}
	defer resp.Body.Close()

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
	}
	return nil
}

// ChainID 查询链标识
func (c *Client) ChainID(ctx context.Context) (types.ChainID, error) {
	var id uint64
	if err := c.call(ctx, "pxk_chainId", nil, &id); err != nil {
		return 0, err
	}
	return types.ChainID(id), nil
}

// ComputeAddress 推导账户地址
func (c *Client) ComputeAddress(ctx context.Context, owner common.Address, salt string) (common.Address, error) {
	var addrHex string
	params := map[string]string{"owner": owner.Hex(), "salt": hexEncode([]byte(salt))}
	if err := c.call(ctx, "pxk_computeAddress", params, &addrHex); err != nil {
		return common.Address{}, err
	}
	return common.HexToAddress(addrHex), nil
}

// AccountInfo 查询账户状态
func (c *Client) AccountInfo(ctx context.Context, addr common.Address) (types.AccountInfo, error) {
	var info types.AccountInfo
	params := map[string]string{"address": addr.Hex()}
	if err := c.call(ctx, "pxk_accountInfo", params, &info); err != nil {
		return types.AccountInfo{}, err
	}
	return info, nil
}

// StorageLoad 读取账户存储槽
func (c *Client) StorageLoad(ctx context.Context, addr common.Address, key types.Word) (types.Word, error) {
	var valueHex string
	params := map[string]string{"address": addr.Hex(), "key": key.Hex()}
	if err := c.call(ctx, "pxk_storageLoad", params, &valueHex); err != nil {
		return types.Word{}, err
	}
	return common.HexToHash(valueHex), nil
}

// Deploy 部署账户
func (c *Client) Deploy(ctx context.Context, owner common.Address, salt string) (common.Address, error) {
	var addrHex string
	params := map[string]string{"owner": owner.Hex(), "salt": hexEncode([]byte(salt))}
	if err := c.call(ctx, "pxk_deploy", params, &addrHex); err != nil {
		return common.Address{}, err
	}
	return common.HexToAddress(addrHex), nil
}

// SubmitCall 以声明的调用者身份提交调用
func (c *Client) SubmitCall(ctx context.Context, caller common.Address, record types.CallRecord) ([]byte, error) {
	params := map[string]string{
		"caller":  caller.Hex(),
		"target":  record.Target.Hex(),
		"payload": hexEncode(record.Payload),
	}
	if record.Value != nil && record.Value.Sign() > 0 {
		params["value"] = record.Value.String()
	}
	var outputHex string
	if err := c.call(ctx, "pxk_submitCall", params, &outputHex); err != nil {
		return nil, err
	}
	return hexDecode(outputHex)
}

// MetaDelegateCall 以中继者身份提交元委托调用
func (c *Client) MetaDelegateCall(ctx context.Context, relayer, account common.Address, call types.MetaCall) ([]byte, error) {
	params := map[string]string{
		"relayer":       relayer.Hex(),
		"account":       account.Hex(),
		"target":        call.Target.Hex(),
		"signed_data":   hexEncode(call.SignedData),
		"unsigned_data": hexEncode(call.UnsignedData),
		"signature":     hexEncode(call.Signature),
	}
	var outputHex string
	if err := c.call(ctx, "pxk_metaDelegateCall", params, &outputHex); err != nil {
		return nil, err
	}
	return hexDecode(outputHex)
}

// DeployAndExecute executor经打包器原子部署并执行
func (c *Client) DeployAndExecute(ctx context.Context, executor, owner common.Address, salt string, payload []byte) ([]byte, error) {
	params := map[string]string{
		"executor": executor.Hex(),
		"owner":    owner.Hex(),
		"salt":     hexEncode([]byte(salt)),
		"payload":  hexEncode(payload),
	}
	var outputHex string
	if err := c.call(ctx, "pxk_deployAndExecute", params, &outputHex); err != nil {
		return nil, err
	}
	return hexDecode(outputHex)
}

// BundlerAddAdmin 打包器角色引导：添加admin
func (c *Client) BundlerAddAdmin(ctx context.Context, caller, member common.Address) error {
	params := map[string]string{"caller": caller.Hex(), "member": member.Hex()}
	return c.call(ctx, "pxk_bundlerAddAdmin", params, nil)
}

// BundlerAddExecutor 打包器角色引导：登记executor
func (c *Client) BundlerAddExecutor(ctx context.Context, caller, member common.Address) error {
	params := map[string]string{"caller": caller.Hex(), "member": member.Hex()}
	return c.call(ctx, "pxk_bundlerAddExecutor", params, nil)
}

// Fund 向地址注入原生余额（演示水龙头）
func (c *Client) Fund(ctx context.Context, addr common.Address, amount *big.Int) error {
	params := map[string]string{"address": addr.Hex(), "amount": amount.String()}
	return c.call(ctx, "pxk_fund", params, nil)
}

func hexEncode(data []byte) string {
	return "0x" + hex.EncodeToString(data)
}

func hexDecode(s string) ([]byte, error) {
	if len(s) >= 2 && s[:2] == "0x" {
		s = s[2:]
	}
	if s == "" {
		return nil, nil
	}
	return hex.DecodeString(s)
}
