package factory

import (
	"github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"

	cryptoiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/crypto"
	"github.com/proxykit/v1/pkg/types"
)

// ComputeAddress 确定性推导部署地址
//
// 地址 = keccak256(0xff ++ factory ++ salt ++ keccak256(initCode))[12:]
//
// 纯函数：只依赖部署者、盐值与初始化码，与部署与否、调用时序、
// 历史状态完全无关。地址在部署前即可公开用于收款。
func ComputeAddress(hasher cryptoiface.HashManager, factory common.Address, initCode []byte, salt types.Word) common.Address {
	return gethcrypto.CreateAddress2(factory, salt, hasher.Keccak256(initCode))
}

// ComputeAccountAddress 按部署描述符推导账户地址
func ComputeAccountAddress(hasher cryptoiface.HashManager, desc types.DeploymentDescriptor) common.Address {
	return ComputeAddress(hasher, desc.Factory, desc.InitCode(), desc.Salt)
}
