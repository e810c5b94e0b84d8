package service

import (
	"context"
	"strings"
	"sync"

	"fmode-core/internal/erc20"
	"fmode-core/internal/model"
	"fmode-core/pkg/cache"
	"fmode-core/pkg/config"
	"fmode-core/pkg/errno"
	"fmode-core/pkg/ethaddr"
	"fmode-core/pkg/logger"
	"fmode-core/pkg/monitor"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BalanceOracle answers native and token balance queries and owns the token
// metadata cache. Metadata is cosmetic: it degrades to a safe fallback and
// never blocks a balance display.
type BalanceOracle struct {
	providers ProviderSource
	store     cache.Cache
	chain     config.ChainConfig
	token     config.TokenConfig
}

func NewBalanceOracle(providers ProviderSource, store cache.Cache, chain config.ChainConfig, token config.TokenConfig) *BalanceOracle {
	return &BalanceOracle{providers: providers, store: store, chain: chain, token: token}
}

// NativeBalance returns the native-coin balance formatted to the native
// decimal count. A zero balance formats to "0", never an error.
func (o *BalanceOracle) NativeBalance(ctx context.Context, address string) (string, error) {
	if !ethaddr.IsValid(address) {
		return "", errno.ErrInvalidAddress
	}

	p, err := o.providers.GetProvider(ctx, true)
	if err != nil {
		return "", err
	}

	wei, err := p.BalanceAt(ctx, common.HexToAddress(address))
	if err != nil {
		monitor.Business.RpcErrorsTotal.WithLabelValues("native_balance").Inc()
		return "", errno.ErrRpcFailure.WithMessage(err.Error())
	}

	return decimal.NewFromBigInt(wei, -o.chain.NativeDecimals).String(), nil
}

// TokenBalance returns the configured token's balance for address, formatted
// by the token's own decimal count.
func (o *BalanceOracle) TokenBalance(ctx context.Context, address string) (string, error) {
	if !ethaddr.IsValid(address) {
		return "", errno.ErrInvalidAddress
	}
	if o.token.ContractAddress == "" {
		return "", errno.ErrTokenNotConfigured
	}

	p, err := o.providers.GetProvider(ctx, true)
	if err != nil {
		return "", err
	}

	data, err := erc20.PackBalanceOf(common.HexToAddress(address))
	if err != nil {
		return "", errno.InternalServerError.WithMessage(err.Error())
	}
	contract := common.HexToAddress(o.token.ContractAddress)
	out, err := p.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data})
	if err != nil {
		monitor.Business.RpcErrorsTotal.WithLabelValues("token_balance").Inc()
		return "", errno.ErrRpcFailure.WithMessage(err.Error())
	}
	raw, err := erc20.UnpackBigInt("balanceOf", out)
	if err != nil {
		return "", errno.ErrRpcFailure.WithMessage(err.Error())
	}

	meta := o.TokenMetadata(ctx)
	return decimal.NewFromBigInt(raw, -meta.Decimals).String(), nil
}

// TokenMetadata fetches name/symbol/decimals in parallel, caching the first
// success for the life of the process (token parameters do not change).
// Failures return a fallback value instead of propagating.
func (o *BalanceOracle) TokenMetadata(ctx context.Context) model.TokenMetadata {
	if o.token.ContractAddress == "" {
		return o.fallbackMetadata()
	}

	key := metadataCacheKey(o.token.ContractAddress)
	var cached model.TokenMetadata
	if err := o.store.Get(ctx, key, &cached); err == nil {
		return cached
	}

	p, err := o.providers.GetProvider(ctx, true)
	if err != nil {
		return o.fallbackMetadata()
	}

	contract := common.HexToAddress(o.token.ContractAddress)
	var (
		wg       sync.WaitGroup
		name     string
		symbol   string
		decimals uint8
		errName  error
		errSym   error
		errDec   error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		name, errName = o.callString(ctx, p, contract, "name", erc20.PackName)
	}()
	go func() {
		defer wg.Done()
		symbol, errSym = o.callString(ctx, p, contract, "symbol", erc20.PackSymbol)
	}()
	go func() {
		defer wg.Done()
		decimals, errDec = o.callDecimals(ctx, p, contract)
	}()
	wg.Wait()

	if errName != nil || errSym != nil || errDec != nil {
		logger.Warn("token metadata fetch failed, using fallback",
			zap.NamedError("name", errName),
			zap.NamedError("symbol", errSym),
			zap.NamedError("decimals", errDec))
		return o.fallbackMetadata()
	}

	meta := model.TokenMetadata{Name: name, Symbol: symbol, Decimals: int32(decimals)}
	// Concurrent first fetches converge to the same value; last writer wins.
	if err := o.store.Set(ctx, key, meta, cache.NoExpiration); err != nil {
		logger.Warn("token metadata cache write failed", zap.Error(err))
	}
	return meta
}

func (o *BalanceOracle) callString(ctx context.Context, p providerCaller, contract common.Address, method string, pack func() ([]byte, error)) (string, error) {
	data, err := pack()
	if err != nil {
		return "", err
	}
	out, err := p.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data})
	if err != nil {
		return "", err
	}
	return erc20.UnpackString(method, out)
}

func (o *BalanceOracle) callDecimals(ctx context.Context, p providerCaller, contract common.Address) (uint8, error) {
	data, err := erc20.PackDecimals()
	if err != nil {
		return 0, err
	}
	out, err := p.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data})
	if err != nil {
		return 0, err
	}
	return erc20.UnpackUint8("decimals", out)
}

// providerCaller is the slice of Provider the metadata calls need.
type providerCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
}

func (o *BalanceOracle) fallbackMetadata() model.TokenMetadata {
	decimals := o.token.DefaultDecimals
	if decimals == 0 {
		decimals = 18
	}
	return model.TokenMetadata{Name: "Unknown Token", Symbol: "TOKEN", Decimals: decimals}
}

func metadataCacheKey(contract string) string {
	return "fmode:token:meta:" + strings.ToLower(contract)
}
