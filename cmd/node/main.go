// PXK节点入口
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/proxykit/v1/internal/app"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "pxk-node",
	Short: "PXK smart account engine node",
	Long:  "运行PXK智能账户引擎：确定性账户工厂、角色授权、元交易与原子部署打包器，对外暴露REST与JSON-RPC接口。",
	RunE: func(cmd *cobra.Command, args []string) error {
		instance, err := app.New(configPath)
		if err != nil {
			return err
		}
		instance.Run()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.json", "配置文件路径")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
