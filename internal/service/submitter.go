package service

import (
	"context"

	"fmode-core/internal/erc20"
	"fmode-core/internal/model"
	"fmode-core/internal/provider"
	"fmode-core/pkg/config"
	"fmode-core/pkg/errno"
	"fmode-core/pkg/ethaddr"
	"fmode-core/pkg/explorer"
	"fmode-core/pkg/logger"
	"fmode-core/pkg/monitor"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// TransferSubmitter validates and submits token transfers through the wallet
// provider. It re-validates inputs itself — caller-side validation is not
// trusted — but passes wallet errors through unmodified.
type TransferSubmitter struct {
	providers ProviderSource
	oracle    *BalanceOracle
	token     config.TokenConfig
	explorer  *explorer.Builder
}

func NewTransferSubmitter(providers ProviderSource, oracle *BalanceOracle, token config.TokenConfig, exp *explorer.Builder) *TransferSubmitter {
	return &TransferSubmitter{providers: providers, oracle: oracle, token: token, explorer: exp}
}

// Submit sends a token transfer and returns its pending handle the instant
// the wallet hands back a hash.
func (s *TransferSubmitter) Submit(ctx context.Context, session *model.WalletSession, to, amount string) (*model.TransactionHandle, error) {
	if session == nil {
		return nil, errno.ErrNoActiveSession
	}
	if session.ReadOnly {
		return nil, errno.ErrProviderUnavailable.WithMessage("read-only session cannot submit transfers")
	}
	if s.token.ContractAddress == "" {
		return nil, errno.ErrTokenNotConfigured
	}
	if !ethaddr.IsValid(to) {
		return nil, errno.ErrInvalidAddress
	}
	amt, err := parseAmount(amount)
	if err != nil {
		return nil, err
	}

	wallet, err := s.providers.GetWallet(ctx)
	if err != nil {
		return nil, err
	}

	value := amt.Shift(s.oracle.TokenMetadata(ctx).Decimals).BigInt()

	data, err := erc20.PackTransfer(common.HexToAddress(to), value)
	if err != nil {
		return nil, errno.InternalServerError.WithMessage(err.Error())
	}
	contract := common.HexToAddress(s.token.ContractAddress)

	hash, err := wallet.SendTransaction(ctx, provider.SendTxArgs{
		From: common.HexToAddress(session.Address),
		To:   &contract,
		Data: data,
	})
	if err != nil {
		// Insufficient balance, user rejection and friends come back with the
		// wallet's own message; this layer does not translate them.
		return nil, err
	}

	monitor.Business.TransfersSubmitted.Inc()
	logger.Info("token transfer submitted",
		zap.String("hash", hash.Hex()),
		zap.String("to", ethaddr.Normalize(to)),
		zap.String("amount", amount))

	return &model.TransactionHandle{
		Hash:        hash.Hex(),
		From:        session.Address,
		To:          ethaddr.Normalize(to),
		Amount:      amount,
		ExplorerURL: s.explorer.TxURL(hash.Hex()),
		Status:      model.StatusPending,
	}, nil
}
