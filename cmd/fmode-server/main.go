package main

import (
	"context"
	"time"

	"fmode-core/internal/handler"
	"fmode-core/internal/model"
	"fmode-core/internal/provider"
	"fmode-core/internal/server"
	"fmode-core/internal/service"
	"fmode-core/pkg/cache"
	"fmode-core/pkg/config"
	"fmode-core/pkg/explorer"
	"fmode-core/pkg/logger"
	"fmode-core/pkg/validator"

	"go.uber.org/zap"
)

func main() {
	// 0. Config + logger
	config.Init()
	logger.Init(config.Global.App.Env)
	defer logger.Sync()

	validator.Init()

	cfg := config.Global

	// 1. Token metadata cache (memory by default, redis when configured)
	var store cache.Cache
	if cfg.Cache.Backend == "redis" {
		client, err := cache.NewRedisClient(cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB)
		if err != nil {
			logger.Fatal("redis connection failed", zap.Error(err))
		}
		store = cache.NewRedisCache(client)
		logger.Info("using redis token metadata cache", zap.String("addr", cfg.Cache.Addr))
	} else {
		store = cache.NewMemoryCache(cache.NoExpiration, 10*time.Minute)
	}

	// 2. Provider gateway
	poll := time.Duration(cfg.Tracker.PollIntervalMs) * time.Millisecond
	gateway := provider.NewGateway(cfg.Chain.WalletRpcUrl, cfg.Chain.FallbackRpcUrl, poll)
	if !gateway.HasWallet() {
		logger.Warn("no wallet RPC configured, running read-only",
			zap.String("fallback", cfg.Chain.FallbackRpcUrl))
	}

	// 3. Core services
	exp := explorer.New(cfg.Explorer.BaseURL)
	connector := service.NewWalletConnector(gateway, cfg.Chain)
	oracle := service.NewBalanceOracle(gateway, store, cfg.Chain, cfg.Token)
	estimator := service.NewGasEstimator(gateway, oracle, cfg.Token)
	submitter := service.NewTransferSubmitter(gateway, oracle, cfg.Token, exp)
	tracker := service.NewConfirmationTracker(gateway, exp, cfg.Chain.Confirmations)
	history := service.NewHistoryReconstructor(gateway, oracle, cfg.Token, exp, cfg.History.LookbackBlocks)
	sessions := service.NewSessionStore()

	// Sessions are immutable; a chain change replaces the held one wholesale.
	unsubscribe, err := connector.OnNetworkChanged(context.Background(), func(info model.NetworkInfo) {
		prev := sessions.Get()
		if prev == nil {
			return
		}
		next := *prev
		next.ChainID = info.ChainID
		sessions.Replace(&next)
		logger.Info("wallet network changed, session replaced",
			zap.Uint64("chain_id", info.ChainID),
			zap.Bool("expected_network", info.IsExpectedNetwork))
	})
	if err != nil {
		logger.Warn("network change watch unavailable", zap.Error(err))
	}

	// 4. HTTP surface
	router := server.NewHTTPRouter(server.Handlers{
		Wallet:   handler.NewWalletHandler(connector, sessions),
		Transfer: handler.NewTransferHandler(oracle, estimator, submitter, tracker, sessions),
		History:  handler.NewHistoryHandler(history),
	})

	// 5. Run until signaled; stop the chain watcher and cancel in-flight
	// confirmation waits first so no callback fires into a torn-down server.
	app := server.New(server.Config{HttpPort: cfg.App.HttpPort}, router, unsubscribe, tracker.CancelCurrent)
	app.Run()
}
