// keygen 账户所有者密钥生成工具
//
// 生成BIP39助记词与secp256k1私钥，输出对应的所有者地址。
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/spf13/cobra"
	"github.com/tyler-smith/go-bip39"

	"github.com/proxykit/v1/internal/core/infrastructure/crypto/signature"
)

var mnemonicFlag string

var rootCmd = &cobra.Command{
	Use:   "pxk-keygen",
	Short: "Generate an owner key for PXK accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		mnemonic := mnemonicFlag
		if mnemonic == "" {
			entropy, err := bip39.NewEntropy(256)
			if err != nil {
				return fmt.Errorf("generate entropy: %w", err)
			}
			mnemonic, err = bip39.NewMnemonic(entropy)
			if err != nil {
				return fmt.Errorf("generate mnemonic: %w", err)
			}
		} else if !bip39.IsMnemonicValid(mnemonic) {
			return fmt.Errorf("invalid mnemonic")
		}

		// 种子前32字节作为secp256k1私钥标量
		seed := bip39.NewSeed(mnemonic, "")
		priv, _ := btcec.PrivKeyFromBytes(seed[:32])
		privBytes := priv.Serialize()

		addr, err := signature.NewService().DeriveAddress(privBytes)
		if err != nil {
			return fmt.Errorf("derive address: %w", err)
		}

		fmt.Printf("mnemonic:    %s\n", mnemonic)
		fmt.Printf("private key: 0x%s\n", hex.EncodeToString(privBytes))
		fmt.Printf("address:     %s\n", addr.Hex())
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVarP(&mnemonicFlag, "mnemonic", "m", "", "从已有助记词恢复（留空则新生成）")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
