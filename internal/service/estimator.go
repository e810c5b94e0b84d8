package service

import (
	"context"
	"math/big"

	"fmode-core/internal/erc20"
	"fmode-core/internal/model"
	"fmode-core/pkg/config"
	"fmode-core/pkg/errno"
	"fmode-core/pkg/ethaddr"
	"fmode-core/pkg/monitor"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// GasEstimator produces an advisory pre-submission cost snapshot. Its result
// never gates submission; callers degrade to "no estimate" on failure.
type GasEstimator struct {
	providers ProviderSource
	oracle    *BalanceOracle
	token     config.TokenConfig
}

func NewGasEstimator(providers ProviderSource, oracle *BalanceOracle, token config.TokenConfig) *GasEstimator {
	return &GasEstimator{providers: providers, oracle: oracle, token: token}
}

// Estimate computes gas limit × current gas price for a token transfer.
// Validation errors fail fast before any network call.
func (e *GasEstimator) Estimate(ctx context.Context, session *model.WalletSession, to, amount string) (*model.GasEstimate, error) {
	if session == nil {
		return nil, errno.ErrNoActiveSession
	}
	if e.token.ContractAddress == "" {
		return nil, errno.ErrTokenNotConfigured
	}
	if !ethaddr.IsValid(to) {
		return nil, errno.ErrInvalidAddress
	}
	amt, err := parseAmount(amount)
	if err != nil {
		return nil, err
	}

	p, err := e.providers.ByHandle(ctx, session.Provider)
	if err != nil {
		return nil, err
	}

	value := amt.Shift(e.oracle.TokenMetadata(ctx).Decimals).BigInt()

	data, err := erc20.PackTransfer(common.HexToAddress(to), value)
	if err != nil {
		return nil, errno.InternalServerError.WithMessage(err.Error())
	}
	contract := common.HexToAddress(e.token.ContractAddress)
	msg := ethereum.CallMsg{
		From: common.HexToAddress(session.Address),
		To:   &contract,
		Data: data,
	}

	gasLimit, err := p.EstimateGas(ctx, msg)
	if err != nil {
		monitor.Business.GasEstimateFailures.Inc()
		return nil, errno.ErrRpcFailure.WithMessage(err.Error())
	}
	gasPrice, err := p.SuggestGasPrice(ctx)
	if err != nil {
		monitor.Business.GasEstimateFailures.Inc()
		return nil, errno.ErrRpcFailure.WithMessage(err.Error())
	}

	cost := new(big.Int).Mul(new(big.Int).SetUint64(gasLimit), gasPrice)
	return &model.GasEstimate{
		GasLimit:         gasLimit,
		GasPriceWei:      gasPrice.String(),
		EstimatedCostWei: cost.String(),
		EstimatedCostEth: decimal.NewFromBigInt(cost, -18).String(),
	}, nil
}

// parseAmount validates a user decimal amount string. Non-numeric and
// non-positive amounts are rejected without touching the network; scaling to
// minimal units happens later, once the token's decimals are known.
func parseAmount(amount string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Decimal{}, errno.ErrInvalidAmount.WithMessage("amount is not a number: " + amount)
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, errno.ErrInvalidAmount
	}
	return d, nil
}
