package service

import (
	"context"
	"math/big"
	"testing"

	"fmode-core/internal/model"
	"fmode-core/pkg/config"
	"fmode-core/pkg/errno"
	"fmode-core/pkg/explorer"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHistory(src *fakeSource, token config.TokenConfig) *HistoryReconstructor {
	exp := explorer.New("https://sepolia.etherscan.io")
	return NewHistoryReconstructor(src, newTestOracle(src, token), token, exp, 5000)
}

// isSentQuery distinguishes the sender-topic filter from the receiver-topic
// one: the sent query constrains topic position 1.
func isSentQuery(q ethereum.FilterQuery) bool {
	return len(q.Topics) > 1 && len(q.Topics[1]) > 0
}

func TestListRecentTransfers(t *testing.T) {
	alice := common.HexToAddress(addrAlice)
	bob := common.HexToAddress(addrBob)
	carol := common.HexToAddress("0x4444444444444444444444444444444444444444")

	outgoing := makeTransferLog(t, alice, bob, big.NewInt(2e18), 120, 0x01)
	incoming := makeTransferLog(t, carol, alice, big.NewInt(1e18), 150, 0x02)
	selfXfer := makeTransferLog(t, alice, alice, big.NewInt(5e17), 130, 0x03)
	// A log where neither side is the subject must be dropped, not
	// misclassified as incoming.
	foreign := makeTransferLog(t, carol, bob, big.NewInt(3e18), 160, 0x04)

	p := &fakeProvider{head: 10000}
	p.callFn = scriptTokenCalls(t, "Demo Token", "DEMO", 18, big.NewInt(0))
	p.logsFn = func(q ethereum.FilterQuery) ([]types.Log, error) {
		if isSentQuery(q) {
			return []types.Log{outgoing, selfXfer}, nil
		}
		return []types.Log{incoming, selfXfer, foreign}, nil
	}
	src := &fakeSource{provider: p}
	history := newTestHistory(src, testToken())

	records, err := history.ListRecentTransfers(context.Background(), addrAlice, 0)
	require.NoError(t, err)
	require.Len(t, records, 3, "self-transfer deduplicated, foreign log dropped")

	// Sorted by block number, newest first.
	assert.Equal(t, uint64(150), records[0].BlockNumber)
	assert.Equal(t, uint64(130), records[1].BlockNumber)
	assert.Equal(t, uint64(120), records[2].BlockNumber)

	assert.Equal(t, model.DirectionIncoming, records[0].Direction)
	assert.Equal(t, "1", records[0].Amount)

	assert.Equal(t, model.DirectionOutgoing, records[1].Direction)
	assert.Equal(t, "0.5", records[1].Amount)

	assert.Equal(t, model.DirectionOutgoing, records[2].Direction)
	assert.Equal(t, "2", records[2].Amount)
	assert.Equal(t, outgoing.TxHash.Hex(), records[2].TxHash)
	assert.Equal(t, "https://sepolia.etherscan.io/tx/"+outgoing.TxHash.Hex(), records[2].ExplorerURL)
}

func TestListRecentTransfersValidation(t *testing.T) {
	src := &fakeSource{provider: &fakeProvider{}}

	_, err := newTestHistory(src, testToken()).ListRecentTransfers(context.Background(), "nope", 100)
	assert.ErrorIs(t, err, errno.ErrInvalidAddress)

	_, err = newTestHistory(src, config.TokenConfig{}).ListRecentTransfers(context.Background(), addrAlice, 100)
	assert.ErrorIs(t, err, errno.ErrTokenNotConfigured)
}

func TestListRecentTransfersNoPartialResults(t *testing.T) {
	p := &fakeProvider{head: 10000}
	p.callFn = scriptTokenCalls(t, "Demo Token", "DEMO", 18, big.NewInt(0))
	p.logsFn = func(q ethereum.FilterQuery) ([]types.Log, error) {
		if isSentQuery(q) {
			alice := common.HexToAddress(addrAlice)
			return []types.Log{makeTransferLog(t, alice, alice, big.NewInt(1), 10, 0x05)}, nil
		}
		return nil, &walletError{code: -32005, msg: "query returned too many results"}
	}
	src := &fakeSource{provider: p}

	records, err := newTestHistory(src, testToken()).ListRecentTransfers(context.Background(), addrAlice, 100)
	assert.ErrorIs(t, err, errno.ErrRpcFailure)
	assert.Nil(t, records)
}

func TestListRecentTransfersScanRange(t *testing.T) {
	var gotFrom, gotTo uint64
	p := &fakeProvider{head: 300}
	p.callFn = scriptTokenCalls(t, "Demo Token", "DEMO", 18, big.NewInt(0))
	p.logsFn = func(q ethereum.FilterQuery) ([]types.Log, error) {
		gotFrom = q.FromBlock.Uint64()
		gotTo = q.ToBlock.Uint64()
		return nil, nil
	}
	src := &fakeSource{provider: p}

	// Lookback larger than the chain clamps to genesis.
	_, err := newTestHistory(src, testToken()).ListRecentTransfers(context.Background(), addrAlice, 1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), gotFrom)
	assert.Equal(t, uint64(300), gotTo)
}
