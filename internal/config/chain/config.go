// Package chain 链标识与系统地址配置
package chain

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/proxykit/v1/pkg/types"
)

// 系统固定地址
//
// 与账户保留槽同理，系统程序占用实现定义的固定地址，
// 不与任何CREATE2推导地址冲突（推导结果含keccak哈希，
// 落在这些手工地址上的概率可忽略）。
var (
	// FactoryAddress 部署工厂的固定地址
	FactoryAddress = common.HexToAddress("0x0000000000000000000000000000000000000Fac")

	// BundlerAddress 部署打包器的固定地址（其角色存储挂在此地址下）
	BundlerAddress = common.HexToAddress("0x0000000000000000000000000000000000000b1d")

	// AccountLogicAddress 账户逻辑实现的固定地址
	AccountLogicAddress = common.HexToAddress("0x00000000000000000000000000000000000Ac01")

	// TransferFixtureAddress 原生转账演示程序的固定地址
	// metaDelegateCall 的委托目标需要持有代码，演示与测试共用此程序
	TransferFixtureAddress = common.HexToAddress("0x00000000000000000000000000000000000Ff1e")
)

// Options 链配置选项
type Options struct {
	ChainID      uint64         `json:"chain_id"`      // 链标识
	BundlerOwner common.Address `json:"bundler_owner"` // 打包器角色存储的初始所有者
}

// Config 链配置实现
type Config struct {
	options *Options
}

// New 创建链配置
func New(userConfig *types.ChainConfig) *Config {
	options := &Options{
		ChainID:      1,
		BundlerOwner: common.Address{},
	}

	if userConfig != nil {
		if userConfig.ChainID != nil {
			options.ChainID = *userConfig.ChainID
		}
		if userConfig.BundlerOwner != nil {
			options.BundlerOwner = common.HexToAddress(*userConfig.BundlerOwner)
		}
	}

	return &Config{options: options}
}

// GetChainID 链标识
func (c *Config) GetChainID() types.ChainID { return types.ChainID(c.options.ChainID) }

// GetBundlerOwner 打包器初始所有者地址
func (c *Config) GetBundlerOwner() common.Address { return c.options.BundlerOwner }
