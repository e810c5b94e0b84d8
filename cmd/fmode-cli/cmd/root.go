package cmd

import (
	"fmt"
	"os"
	"time"

	"fmode-core/internal/provider"
	"fmode-core/internal/service"
	"fmode-core/pkg/cache"
	"fmode-core/pkg/config"
	"fmode-core/pkg/explorer"
	"fmode-core/pkg/monitor"

	"github.com/spf13/cobra"
)

var (
	flagWalletRPC string
	flagRPC       string
	flagToken     string
	flagExplorer  string
	flagChainID   uint64
)

var rootCmd = &cobra.Command{
	Use:   "fmode-cli",
	Short: "F-Mode chain transfer lifecycle CLI",
	Long: `Command line access to the F-Mode transfer lifecycle:
wallet session checks, balances, gas estimates, token transfers,
confirmation tracking and recent transfer history.`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagWalletRPC, "wallet-rpc", "", "wallet RPC endpoint (account-bearing node or signer bridge)")
	rootCmd.PersistentFlags().StringVar(&flagRPC, "rpc", "https://rpc.sepolia.org", "read-only fallback RPC endpoint")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "token contract address")
	rootCmd.PersistentFlags().StringVar(&flagExplorer, "explorer", "https://sepolia.etherscan.io", "block explorer base URL")
	rootCmd.PersistentFlags().Uint64Var(&flagChainID, "chain-id", 11155111, "expected chain id")
}

// toolkit wires the same service graph the server uses, from CLI flags.
type toolkit struct {
	gateway   *provider.Gateway
	explorer  *explorer.Builder
	connector *service.WalletConnector
	oracle    *service.BalanceOracle
	estimator *service.GasEstimator
	submitter *service.TransferSubmitter
	tracker   *service.ConfirmationTracker
	history   *service.HistoryReconstructor
}

func newToolkit() *toolkit {
	// Services account against the business metrics unconditionally; register
	// them even though the CLI never serves /metrics.
	monitor.InitBusinessMetrics()

	chain := config.ChainConfig{
		ChainID:        flagChainID,
		ChainName:      fmt.Sprintf("Chain %d", flagChainID),
		WalletRpcUrl:   flagWalletRPC,
		FallbackRpcUrl: flagRPC,
		NativeSymbol:   "ETH",
		NativeDecimals: 18,
		Confirmations:  1,
	}
	token := config.TokenConfig{ContractAddress: flagToken, DefaultDecimals: 18}

	gateway := provider.NewGateway(chain.WalletRpcUrl, chain.FallbackRpcUrl, 4*time.Second)
	exp := explorer.New(flagExplorer)
	store := cache.NewMemoryCache(cache.NoExpiration, 10*time.Minute)

	oracle := service.NewBalanceOracle(gateway, store, chain, token)
	return &toolkit{
		gateway:   gateway,
		explorer:  exp,
		connector: service.NewWalletConnector(gateway, chain),
		oracle:    oracle,
		estimator: service.NewGasEstimator(gateway, oracle, token),
		submitter: service.NewTransferSubmitter(gateway, oracle, token, exp),
		tracker:   service.NewConfirmationTracker(gateway, exp, chain.Confirmations),
		history:   service.NewHistoryReconstructor(gateway, oracle, token, exp, 5000),
	}
}

func fail(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
	os.Exit(1)
}
