package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance <address>",
	Short: "Show native and token balances for an address",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tk := newToolkit()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		native, err := tk.oracle.NativeBalance(ctx, args[0])
		if err != nil {
			fail("native balance: %v", err)
		}
		fmt.Printf("Native balance: %s ETH\n", native)

		if flagToken == "" {
			return
		}
		meta := tk.oracle.TokenMetadata(ctx)
		token, err := tk.oracle.TokenBalance(ctx, args[0])
		if err != nil {
			fail("token balance: %v", err)
		}
		fmt.Printf("Token balance:  %s %s (%s)\n", token, meta.Symbol, meta.Name)
		fmt.Printf("Token page:     %s\n", tk.explorer.TokenURL(flagToken))
		fmt.Printf("Explorer:       %s\n", tk.explorer.AddressURL(args[0]))
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}
