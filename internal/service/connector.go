package service

import (
	"context"
	"fmt"

	"fmode-core/internal/model"
	"fmode-core/internal/provider"
	"fmode-core/pkg/config"
	"fmode-core/pkg/errno"
	"fmode-core/pkg/ethaddr"
	"fmode-core/pkg/logger"
	"fmode-core/pkg/monitor"

	"go.uber.org/zap"
)

// ProviderSource is what every service needs from the provider gateway.
// Kept as an interface so tests can substitute fakes.
type ProviderSource interface {
	GetProvider(ctx context.Context, preferInjected bool) (provider.Provider, error)
	GetWallet(ctx context.Context) (provider.Wallet, error)
	ByHandle(ctx context.Context, h model.ProviderHandle) (provider.Provider, error)
	HasWallet() bool
}

// Well-known chain names for NetworkInfo. Anything absent renders as
// "Unknown (<id>)".
var chainNames = map[uint64]string{
	1:        "Ethereum Mainnet",
	5:        "Goerli Testnet",
	10:       "OP Mainnet",
	56:       "BNB Smart Chain",
	137:      "Polygon Mainnet",
	8453:     "Base Mainnet",
	42161:    "Arbitrum One",
	11155111: "Sepolia Testnet",
}

// WalletConnector establishes and restores wallet sessions and manages the
// expected network. It is the only component that produces WalletSession
// values.
type WalletConnector struct {
	providers ProviderSource
	chain     config.ChainConfig
}

func NewWalletConnector(providers ProviderSource, chain config.ChainConfig) *WalletConnector {
	return &WalletConnector{providers: providers, chain: chain}
}

// Connect requests account access through the wallet provider and returns a
// fresh session. The wallet may prompt its user; a decline surfaces as
// UserRejected.
func (c *WalletConnector) Connect(ctx context.Context) (*model.WalletSession, error) {
	wallet, err := c.providers.GetWallet(ctx)
	if err != nil {
		return nil, err
	}

	accounts, err := wallet.RequestAccounts(ctx)
	if err != nil {
		if provider.IsUserRejected(err) {
			return nil, errno.ErrUserRejected.WithMessage(err.Error())
		}
		return nil, errno.ErrRpcFailure.WithMessage(err.Error())
	}
	if len(accounts) == 0 {
		return nil, errno.ErrProviderUnavailable.WithMessage("wallet returned no accounts")
	}

	chainID, err := wallet.ChainID(ctx)
	if err != nil {
		return nil, errno.ErrRpcFailure.WithMessage(err.Error())
	}

	session := &model.WalletSession{
		Address:  ethaddr.Normalize(accounts[0]),
		ChainID:  chainID.Uint64(),
		Provider: model.ProviderWallet,
		ReadOnly: false,
	}

	monitor.Business.SessionsConnectedTotal.Inc()
	logger.Info("wallet session established",
		zap.String("address", session.Address),
		zap.Uint64("chain_id", session.ChainID))
	return session, nil
}

// DetectExistingSession is the passive page-load check: eth_accounts, never a
// prompt. Any failure means "no session", never an error.
func (c *WalletConnector) DetectExistingSession(ctx context.Context) *model.WalletSession {
	if !c.providers.HasWallet() {
		return nil
	}
	wallet, err := c.providers.GetWallet(ctx)
	if err != nil {
		return nil
	}

	accounts, err := wallet.Accounts(ctx)
	if err != nil || len(accounts) == 0 {
		return nil
	}

	chainID, err := wallet.ChainID(ctx)
	if err != nil {
		return nil
	}

	logger.Debug("restored pre-authorized wallet session", zap.String("address", accounts[0]))
	return &model.WalletSession{
		Address:  ethaddr.Normalize(accounts[0]),
		ChainID:  chainID.Uint64(),
		Provider: model.ProviderWallet,
		ReadOnly: false,
	}
}

// NetworkInfo maps a chain id to a name and the expected-network flag.
// Unknown ids get a labeled name instead of an error.
func (c *WalletConnector) NetworkInfo(chainID uint64) model.NetworkInfo {
	name := chainNames[chainID]
	if chainID == c.chain.ChainID && c.chain.ChainName != "" {
		name = c.chain.ChainName
	}
	if name == "" {
		name = fmt.Sprintf("Unknown (%d)", chainID)
	}
	return model.NetworkInfo{
		ChainID:           chainID,
		Name:              name,
		IsExpectedNetwork: chainID == c.chain.ChainID,
	}
}

// SwitchNetwork asks the wallet to move to the expected chain. If the wallet
// does not know the chain (code 4902) it falls back to one add-chain request;
// every other wallet error propagates unchanged, user rejections included.
func (c *WalletConnector) SwitchNetwork(ctx context.Context) error {
	wallet, err := c.providers.GetWallet(ctx)
	if err != nil {
		return err
	}

	err = wallet.SwitchChain(ctx, c.chain.ChainID)
	if err == nil {
		return nil
	}
	if provider.ErrorCode(err) != provider.CodeUnrecognizedChain {
		return err
	}

	logger.Info("target chain unknown to wallet, requesting add",
		zap.Uint64("chain_id", c.chain.ChainID))
	return wallet.AddChain(ctx, c.addChainParams())
}

func (c *WalletConnector) addChainParams() provider.AddChainParams {
	return provider.AddChainParams{
		ChainID:   fmt.Sprintf("0x%x", c.chain.ChainID),
		ChainName: c.chain.ChainName,
		RpcUrls:   []string{c.chain.FallbackRpcUrl},
		NativeCurrency: provider.NativeCurrency{
			Name:     c.chain.CurrencyName,
			Symbol:   c.chain.NativeSymbol,
			Decimals: int(c.chain.NativeDecimals),
		},
	}
}

// OnNetworkChanged subscribes to chain changes when the active provider
// supports event subscription; otherwise it degrades to a no-op unsubscribe.
func (c *WalletConnector) OnNetworkChanged(ctx context.Context, handler func(model.NetworkInfo)) (func(), error) {
	p, err := c.providers.GetProvider(ctx, true)
	if err != nil {
		return func() {}, err
	}

	events, ok := p.(provider.EventSource)
	if !ok {
		return func() {}, nil
	}
	unsub := events.OnChainChanged(func(newChainID uint64) {
		handler(c.NetworkInfo(newChainID))
	})
	return unsub, nil
}
