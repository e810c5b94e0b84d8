package service

import (
	"context"
	"math/big"
	"sort"

	"fmode-core/internal/erc20"
	"fmode-core/internal/model"
	"fmode-core/pkg/config"
	"fmode-core/pkg/errno"
	"fmode-core/pkg/ethaddr"
	"fmode-core/pkg/explorer"
	"fmode-core/pkg/monitor"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
)

// HistoryReconstructor rebuilds recent token transfers for an address from
// chain logs. Results are ephemeral; nothing is persisted here.
type HistoryReconstructor struct {
	providers       ProviderSource
	oracle          *BalanceOracle
	token           config.TokenConfig
	explorer        *explorer.Builder
	defaultLookback uint64
}

func NewHistoryReconstructor(providers ProviderSource, oracle *BalanceOracle, token config.TokenConfig, exp *explorer.Builder, defaultLookback uint64) *HistoryReconstructor {
	if defaultLookback == 0 {
		defaultLookback = 5000
	}
	return &HistoryReconstructor{
		providers:       providers,
		oracle:          oracle,
		token:           token,
		explorer:        exp,
		defaultLookback: defaultLookback,
	}
}

// ListRecentTransfers scans the last lookbackBlocks blocks for Transfer
// events where address is sender or receiver, deduplicated by transaction
// hash and sorted by block number descending. An RPC failure surfaces as one
// error, never as partial results.
func (h *HistoryReconstructor) ListRecentTransfers(ctx context.Context, address string, lookbackBlocks uint64) ([]model.TransferRecord, error) {
	if !ethaddr.IsValid(address) {
		return nil, errno.ErrInvalidAddress
	}
	if h.token.ContractAddress == "" {
		return nil, errno.ErrTokenNotConfigured
	}
	if lookbackBlocks == 0 {
		lookbackBlocks = h.defaultLookback
	}

	p, err := h.providers.GetProvider(ctx, true)
	if err != nil {
		return nil, err
	}

	head, err := p.BlockNumber(ctx)
	if err != nil {
		monitor.Business.RpcErrorsTotal.WithLabelValues("history_head").Inc()
		return nil, errno.ErrRpcFailure.WithMessage(err.Error())
	}
	start := uint64(0)
	if head > lookbackBlocks {
		start = head - lookbackBlocks
	}

	subject := common.HexToAddress(address)
	contract := common.HexToAddress(h.token.ContractAddress)
	subjectTopic := erc20.AddressTopic(subject)

	base := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(start),
		ToBlock:   new(big.Int).SetUint64(head),
		Addresses: []common.Address{contract},
	}

	sent := base
	sent.Topics = [][]common.Hash{{erc20.TransferTopic}, {subjectTopic}}
	sentLogs, err := p.FilterLogs(ctx, sent)
	if err != nil {
		monitor.Business.RpcErrorsTotal.WithLabelValues("history_logs").Inc()
		return nil, errno.ErrRpcFailure.WithMessage(err.Error())
	}

	received := base
	received.Topics = [][]common.Hash{{erc20.TransferTopic}, {}, {subjectTopic}}
	receivedLogs, err := p.FilterLogs(ctx, received)
	if err != nil {
		monitor.Business.RpcErrorsTotal.WithLabelValues("history_logs").Inc()
		return nil, errno.ErrRpcFailure.WithMessage(err.Error())
	}

	decimals := h.oracle.TokenMetadata(ctx).Decimals

	merged := make(map[string]model.TransferRecord)
	for _, lg := range append(sentLogs, receivedLogs...) {
		record, ok := h.toRecord(lg, address, decimals)
		if !ok {
			continue
		}
		// De-duplicated by transaction hash; a self-transfer shows up in both
		// filter results but yields one record.
		if _, seen := merged[record.TxHash]; !seen {
			merged[record.TxHash] = record
		}
	}

	records := make([]model.TransferRecord, 0, len(merged))
	for _, r := range merged {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].BlockNumber > records[j].BlockNumber
	})

	monitor.Business.HistoryScansTotal.Inc()
	return records, nil
}

func (h *HistoryReconstructor) toRecord(lg types.Log, subject string, decimals int32) (model.TransferRecord, bool) {
	from, to, value, err := erc20.ParseTransferLog(lg)
	if err != nil {
		return model.TransferRecord{}, false
	}

	direction := model.DirectionIncoming
	if ethaddr.Equal(from.Hex(), subject) {
		direction = model.DirectionOutgoing
	} else if !ethaddr.Equal(to.Hex(), subject) {
		// Neither side matches the subject; the node returned a log outside
		// our filters. Drop it rather than misclassify.
		return model.TransferRecord{}, false
	}

	txHash := lg.TxHash.Hex()
	return model.TransferRecord{
		TxHash:      txHash,
		From:        from.Hex(),
		To:          to.Hex(),
		Amount:      decimal.NewFromBigInt(value, -decimals).String(),
		BlockNumber: lg.BlockNumber,
		ExplorerURL: h.explorer.TxURL(txHash),
		Direction:   direction,
	}, true
}
