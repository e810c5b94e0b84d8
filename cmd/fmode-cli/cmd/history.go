package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var historyLookback uint64

var historyCmd = &cobra.Command{
	Use:   "history <address>",
	Short: "List recent token transfers for an address",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tk := newToolkit()
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		records, err := tk.history.ListRecentTransfers(ctx, args[0], historyLookback)
		if err != nil {
			fail("history: %v", err)
		}
		if len(records) == 0 {
			fmt.Println("No transfers found in the scanned range.")
			return
		}

		meta := tk.oracle.TokenMetadata(ctx)
		for _, r := range records {
			counterparty := r.To
			sign := "-"
			if r.Direction == "incoming" {
				counterparty = r.From
				sign = "+"
			}
			fmt.Printf("block %-9d %s%s %s  %s  %s\n",
				r.BlockNumber, sign, r.Amount, meta.Symbol, counterparty, r.TxHash)
		}
	},
}

func init() {
	historyCmd.Flags().Uint64Var(&historyLookback, "lookback", 0, "blocks to scan back (0 = default)")
	rootCmd.AddCommand(historyCmd)
}
