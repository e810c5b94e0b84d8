package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var networkSwitch bool

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Show the wallet's current network and optionally switch",
	Run: func(cmd *cobra.Command, args []string) {
		tk := newToolkit()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		session := tk.connector.DetectExistingSession(ctx)
		if session == nil {
			var err error
			session, err = tk.connector.Connect(ctx)
			if err != nil {
				fail("wallet connect: %v", err)
			}
		}

		info := tk.connector.NetworkInfo(session.ChainID)
		fmt.Printf("Network:  %s (chain %d)\n", info.Name, info.ChainID)
		if info.IsExpectedNetwork {
			fmt.Println("Status:   on the expected network")
			return
		}
		fmt.Printf("Status:   expected chain %d\n", flagChainID)

		if !networkSwitch {
			fmt.Println("Run with --switch to ask the wallet to change networks.")
			return
		}
		if err := tk.connector.SwitchNetwork(ctx); err != nil {
			fail("switch: %v", err)
		}
		fmt.Println("Switch requested; the wallet endpoint controls the outcome.")
	},
}

func init() {
	networkCmd.Flags().BoolVar(&networkSwitch, "switch", false, "request a switch to the expected chain")
	rootCmd.AddCommand(networkCmd)
}
