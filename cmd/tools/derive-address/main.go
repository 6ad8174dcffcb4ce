// derive-address 账户地址推导工具
//
// 按 (所有者, 盐值) 推导标准代理账户的确定性部署地址，
// 与节点内工厂使用同一套CREATE2规则，部署前即可得到收款地址。
package main

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	chainconfig "github.com/proxykit/v1/internal/config/chain"
	"github.com/proxykit/v1/internal/core/account"
	"github.com/proxykit/v1/internal/core/factory"
	"github.com/proxykit/v1/internal/core/infrastructure/crypto/hash"
	"github.com/proxykit/v1/pkg/types"
)

var (
	ownerFlag string
	saltFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "pxk-derive-address",
	Short: "Derive the deterministic address of a PXK account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !common.IsHexAddress(ownerFlag) {
			return fmt.Errorf("invalid owner address: %s", ownerFlag)
		}

		desc := types.DeploymentDescriptor{
			Factory:        chainconfig.FactoryAddress,
			TemplateCode:   account.ProxyCode,
			Implementation: chainconfig.AccountLogicAddress,
			Owner:          common.HexToAddress(ownerFlag),
			Salt:           types.BytesToWord([]byte(saltFlag)),
		}

		addr := factory.ComputeAccountAddress(hash.NewService(), desc)
		fmt.Printf("owner:   %s\n", desc.Owner.Hex())
		fmt.Printf("salt:    %s\n", desc.Salt.Hex())
		fmt.Printf("address: %s\n", addr.Hex())
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVarP(&ownerFlag, "owner", "o", "", "所有者地址（必填）")
	rootCmd.Flags().StringVarP(&saltFlag, "salt", "s", "", "盐值（任意字符串，左补零为32字节）")
	_ = rootCmd.MarkFlagRequired("owner")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
