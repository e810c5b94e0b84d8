package provider

import (
	"context"
	"sync"
	"time"

	"fmode-core/internal/model"
	"fmode-core/pkg/errno"
	"fmode-core/pkg/logger"

	"go.uber.org/zap"
)

// Gateway owns the two provider endpoints and hands out the right one.
// Connections are dialed lazily and cached for the life of the process.
type Gateway struct {
	walletURL   string
	fallbackURL string
	poll        time.Duration

	mu       sync.Mutex
	wallet   *WalletProvider
	readonly *ReadOnlyProvider
}

func NewGateway(walletURL, fallbackURL string, poll time.Duration) *Gateway {
	if poll <= 0 {
		poll = 4 * time.Second
	}
	return &Gateway{walletURL: walletURL, fallbackURL: fallbackURL, poll: poll}
}

// HasWallet reports whether a wallet endpoint is configured at all.
func (g *Gateway) HasWallet() bool { return g.walletURL != "" }

// GetProvider selects a provider by explicit strategy: preferInjected picks
// the wallet endpoint when one is configured, anything else falls back to the
// read-only RPC.
func (g *Gateway) GetProvider(ctx context.Context, preferInjected bool) (Provider, error) {
	if preferInjected && g.HasWallet() {
		return g.GetWallet(ctx)
	}
	return g.getReadOnly(ctx)
}

// GetWallet returns the wallet provider, or ProviderUnavailable when no
// wallet endpoint is configured or reachable.
func (g *Gateway) GetWallet(ctx context.Context) (Wallet, error) {
	if !g.HasWallet() {
		return nil, errno.ErrProviderUnavailable
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.wallet != nil {
		return g.wallet, nil
	}

	w, err := DialWallet(ctx, g.walletURL, g.poll)
	if err != nil {
		logger.Error("wallet provider dial failed", zap.Error(err))
		return nil, errno.ErrProviderUnavailable.WithMessage(err.Error())
	}
	g.wallet = w
	return w, nil
}

func (g *Gateway) getReadOnly(ctx context.Context) (Provider, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.readonly != nil {
		return g.readonly, nil
	}

	p, err := DialReadOnly(ctx, g.fallbackURL, g.poll)
	if err != nil {
		logger.Error("fallback provider dial failed", zap.Error(err))
		return nil, errno.ErrRpcFailure.WithMessage(err.Error())
	}
	g.readonly = p
	return p, nil
}

// ByHandle resolves the provider a session was bound to.
func (g *Gateway) ByHandle(ctx context.Context, h model.ProviderHandle) (Provider, error) {
	return g.GetProvider(ctx, h == model.ProviderWallet)
}
