package cmd

import (
	"strings"

	"fmode-core/internal/model"

	"github.com/spf13/cobra"
)

var trackCmd = &cobra.Command{
	Use:   "track <tx-hash>",
	Short: "Wait for a submitted transaction to confirm or fail",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		hash := args[0]
		if !strings.HasPrefix(hash, "0x") || len(hash) != 66 {
			fail("not a transaction hash: %s", hash)
		}

		tk := newToolkit()
		handle := model.TransactionHandle{
			Hash:        hash,
			ExplorerURL: tk.explorer.TxURL(hash),
			Status:      model.StatusPending,
		}
		waitForOutcome(tk, handle)
	},
}

func init() {
	rootCmd.AddCommand(trackCmd)
}
