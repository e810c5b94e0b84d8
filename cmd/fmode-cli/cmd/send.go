package cmd

import (
	"context"
	"fmt"
	"time"

	"fmode-core/internal/model"
	"fmode-core/internal/service"

	"github.com/spf13/cobra"
)

var (
	sendTo     string
	sendAmount string
	sendWait   bool
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a token transfer through the wallet endpoint",
	Run: func(cmd *cobra.Command, args []string) {
		tk := newToolkit()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		session, err := tk.connector.Connect(ctx)
		if err != nil {
			fail("wallet connect: %v", err)
		}
		fmt.Printf("Session: %s (chain %d)\n", session.Address, session.ChainID)

		// Advisory only; a failed estimate never blocks the send.
		if est, err := tk.estimator.Estimate(ctx, session, sendTo, sendAmount); err == nil {
			fmt.Printf("Estimated cost: %s ETH\n", est.EstimatedCostEth)
		} else {
			fmt.Println("Estimated cost: unavailable")
		}

		handle, err := tk.submitter.Submit(ctx, session, sendTo, sendAmount)
		if err != nil {
			fail("submit: %v", err)
		}
		fmt.Printf("Submitted: %s\n", handle.Hash)
		fmt.Printf("Explorer:  %s\n", handle.ExplorerURL)

		if !sendWait {
			return
		}
		waitForOutcome(tk, *handle)
	},
}

func waitForOutcome(tk *toolkit, handle model.TransactionHandle) {
	done := make(chan model.TransactionOutcome, 1)
	tk.tracker.Track(context.Background(), handle, service.TrackCallbacks{
		OnConfirmed: func(o model.TransactionOutcome) { done <- o },
		OnFailed:    func(o model.TransactionOutcome) { done <- o },
	})

	fmt.Println("Waiting for confirmation...")
	outcome := <-done
	if outcome.Status == model.StatusConfirmed {
		fmt.Printf("Confirmed in block %d (gas used %d)\n", outcome.BlockNumber, outcome.GasUsed)
	} else {
		fail("Failed: %s", outcome.FailureReason)
	}
}

func init() {
	sendCmd.Flags().StringVar(&sendTo, "to", "", "recipient address")
	sendCmd.Flags().StringVar(&sendAmount, "amount", "", "token amount, decimal string")
	sendCmd.Flags().BoolVar(&sendWait, "wait", false, "block until the transfer reaches a terminal state")
	_ = sendCmd.MarkFlagRequired("to")
	_ = sendCmd.MarkFlagRequired("amount")
	rootCmd.AddCommand(sendCmd)
}
