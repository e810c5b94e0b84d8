package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Chain    ChainConfig    `mapstructure:"chain"`
	Token    TokenConfig    `mapstructure:"token"`
	Explorer ExplorerConfig `mapstructure:"explorer"`
	History  HistoryConfig  `mapstructure:"history"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Tracker  TrackerConfig  `mapstructure:"tracker"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	HttpPort string `mapstructure:"http_port"`
}

// ChainConfig describes the one expected network plus the two provider
// endpoints. WalletRpcUrl points at an account-bearing node or signer bridge;
// an empty value means no wallet provider is installed and only read-only
// operations are possible through FallbackRpcUrl.
type ChainConfig struct {
	ChainID        uint64 `mapstructure:"chain_id"`
	ChainName      string `mapstructure:"chain_name"`
	WalletRpcUrl   string `mapstructure:"wallet_rpc_url"`
	FallbackRpcUrl string `mapstructure:"fallback_rpc_url"`
	NativeSymbol   string `mapstructure:"native_symbol"`
	NativeDecimals int32  `mapstructure:"native_decimals"`
	Confirmations  uint64 `mapstructure:"confirmations"`
	// Parameters sent with wallet_addEthereumChain when the provider does
	// not know the target chain yet.
	CurrencyName string `mapstructure:"currency_name"`
}

type TokenConfig struct {
	// ContractAddress empty means token operations fail with TokenNotConfigured.
	ContractAddress string `mapstructure:"contract_address"`
	DefaultDecimals int32  `mapstructure:"default_decimals"`
}

type ExplorerConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type HistoryConfig struct {
	LookbackBlocks uint64 `mapstructure:"lookback_blocks"`
}

type CacheConfig struct {
	Backend  string `mapstructure:"backend"` // "memory" or "redis"
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type TrackerConfig struct {
	PollIntervalMs int `mapstructure:"poll_interval_ms"`
}

var Global Config

func Init() {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Warning: Config file not found, using defaults and environment variables")
		} else {
			log.Fatalf("Fatal error config file: %s \n", err)
		}
	}

	if err := viper.Unmarshal(&Global); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	log.Printf("Configuration loaded successfully. Env: %s, ChainID: %d", Global.App.Env, Global.Chain.ChainID)
}

func setDefaults() {
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.http_port", "8080")

	viper.SetDefault("chain.chain_id", 11155111) // Sepolia
	viper.SetDefault("chain.chain_name", "Sepolia Testnet")
	viper.SetDefault("chain.fallback_rpc_url", "https://rpc.sepolia.org")
	viper.SetDefault("chain.native_symbol", "ETH")
	viper.SetDefault("chain.native_decimals", 18)
	viper.SetDefault("chain.confirmations", 1)
	viper.SetDefault("chain.currency_name", "Sepolia Ether")

	viper.SetDefault("token.default_decimals", 18)

	viper.SetDefault("explorer.base_url", "https://sepolia.etherscan.io")

	viper.SetDefault("history.lookback_blocks", 5000)

	viper.SetDefault("cache.backend", "memory")
	viper.SetDefault("cache.addr", "localhost:6379")
	viper.SetDefault("cache.db", 0)

	viper.SetDefault("tracker.poll_interval_ms", 4000)
}
