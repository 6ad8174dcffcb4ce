// Package types 账户与部署相关业务类型
package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// DeploymentDescriptor 确定性部署描述符
//
// 🎯 **业务语义**：唯一决定一个代理账户地址的五元组。
// 相同描述符永远推导出相同地址，且地址在部署发生前即可计算，
// 这是"先打款、后部署"的懒创建体验的根基。
type DeploymentDescriptor struct {
	Factory        common.Address `json:"factory"`        // 部署工厂地址
	TemplateCode   []byte         `json:"template_code"`  // 代理模板字节码
	Implementation common.Address `json:"implementation"` // 逻辑实现地址
	Owner          common.Address `json:"owner"`          // 账户所有者
	Salt           Word           `json:"salt"`           // 部署盐值
}

// InitCode 返回描述符对应的完整初始化码
//
// 布局：templateCode ++ leftPad32(implementation) ++ leftPad32(owner)。
// 构造参数固定为两个32字节字，与地址推导使用同一份字节串。
func (d *DeploymentDescriptor) InitCode() []byte {
	out := make([]byte, 0, len(d.TemplateCode)+64)
	out = append(out, d.TemplateCode...)
	out = append(out, AddressToWord(d.Implementation).Bytes()...)
	out = append(out, AddressToWord(d.Owner).Bytes()...)
	return out
}

// AccountInfo 账户状态快照
//
// API 层查询账户时返回的聚合视图。
type AccountInfo struct {
	Address  common.Address `json:"address"`   // 账户地址
	Owner    common.Address `json:"owner"`     // 所有者（未部署时为零地址）
	Balance  *big.Int       `json:"balance"`   // 原生余额
	CodeHash Word           `json:"code_hash"` // 代码哈希（未部署时为零值）
	Deployed bool           `json:"deployed"`  // 是否已部署
}

// CallRecord 直接/委托执行的调用记录
//
// 执行核心的输入单元：要么全部副作用生效并返回目标输出，
// 要么全部回滚并原样上抛失败原因。
type CallRecord struct {
	Target  common.Address `json:"target"`  // 调用目标
	Value   *big.Int       `json:"value"`   // 携带的原生价值（委托调用恒为零）
	Payload []byte         `json:"payload"` // 调用数据（选择器 + 参数）
}

// MetaCall 签名授权的元交易
//
// 📋 **字段约束**：
// - 签名只覆盖 SignedData（及上下文：链标识、账户地址、方法选择器、目标），
//   永不覆盖 UnsignedData
// - UnsignedData 由提交者在调用时追加，仅受合约自身的接受策略约束
type MetaCall struct {
	Target       common.Address `json:"target"`        // 委托执行的目标
	SignedData   []byte         `json:"signed_data"`   // 签名覆盖的调用数据前缀
	UnsignedData []byte         `json:"unsigned_data"` // 提交者追加的未签名后缀
	Signature    []byte         `json:"signature"`     // 65字节可恢复签名 r||s||v
}

// FullCallData 重组完整调用载荷
func (m *MetaCall) FullCallData() []byte {
	out := make([]byte, 0, len(m.SignedData)+len(m.UnsignedData))
	out = append(out, m.SignedData...)
	out = append(out, m.UnsignedData...)
	return out
}
