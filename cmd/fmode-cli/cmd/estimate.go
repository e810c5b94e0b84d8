package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	estimateTo     string
	estimateAmount string
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate the gas cost of a token transfer",
	Run: func(cmd *cobra.Command, args []string) {
		tk := newToolkit()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		session, err := tk.connector.Connect(ctx)
		if err != nil {
			fail("wallet connect: %v", err)
		}
		fmt.Printf("Session: %s (chain %d)\n", session.Address, session.ChainID)

		est, err := tk.estimator.Estimate(ctx, session, estimateTo, estimateAmount)
		if err != nil {
			fail("estimate: %v", err)
		}
		fmt.Printf("Gas limit:      %d\n", est.GasLimit)
		fmt.Printf("Gas price:      %s wei\n", est.GasPriceWei)
		fmt.Printf("Estimated cost: %s wei (%s ETH)\n", est.EstimatedCostWei, est.EstimatedCostEth)
	},
}

func init() {
	estimateCmd.Flags().StringVar(&estimateTo, "to", "", "recipient address")
	estimateCmd.Flags().StringVar(&estimateAmount, "amount", "", "token amount, decimal string")
	_ = estimateCmd.MarkFlagRequired("to")
	_ = estimateCmd.MarkFlagRequired("amount")
	rootCmd.AddCommand(estimateCmd)
}
