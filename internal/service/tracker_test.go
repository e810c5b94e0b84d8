package service

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"fmode-core/internal/model"
	"fmode-core/pkg/explorer"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(src *fakeSource) *ConfirmationTracker {
	return NewConfirmationTracker(src, explorer.New("https://sepolia.etherscan.io"), 1)
}

func pendingHandle(hash string) model.TransactionHandle {
	return model.TransactionHandle{
		Hash:        hash,
		To:          addrBob,
		ExplorerURL: "https://sepolia.etherscan.io/tx/" + hash,
		Status:      model.StatusPending,
	}
}

// outcomeChan adapts both callbacks onto one channel.
func outcomeChan() (TrackCallbacks, chan model.TransactionOutcome) {
	ch := make(chan model.TransactionOutcome, 2)
	return TrackCallbacks{
		OnConfirmed: func(o model.TransactionOutcome) { ch <- o },
		OnFailed:    func(o model.TransactionOutcome) { ch <- o },
	}, ch
}

func waitOutcome(t *testing.T, ch chan model.TransactionOutcome) model.TransactionOutcome {
	t.Helper()
	select {
	case o := <-ch:
		return o
	case <-time.After(2 * time.Second):
		t.Fatal("no terminal outcome delivered")
		return model.TransactionOutcome{}
	}
}

func assertNoOutcome(t *testing.T, ch chan model.TransactionOutcome) {
	t.Helper()
	select {
	case o := <-ch:
		t.Fatalf("unexpected outcome delivered: %+v", o)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestTrackConfirmed(t *testing.T) {
	p := &fakeProvider{receipt: &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		GasUsed:     21000,
		BlockNumber: big.NewInt(100),
	}}
	tracker := newTestTracker(&fakeSource{provider: p})
	cb, ch := outcomeChan()
	hash := common.HexToHash("0x11").Hex()

	tracker.Track(context.Background(), pendingHandle(hash), cb)

	outcome := waitOutcome(t, ch)
	assert.Equal(t, model.StatusConfirmed, outcome.Status)
	assert.Equal(t, uint64(21000), outcome.GasUsed)
	assert.Equal(t, uint64(100), outcome.BlockNumber)
	assert.Equal(t, hash, outcome.Hash)
	assert.Empty(t, outcome.FailureReason)

	state, stored, ok := tracker.StatusOf(hash)
	require.True(t, ok)
	assert.Equal(t, model.StatusConfirmed, state)
	require.NotNil(t, stored)
	assert.Equal(t, outcome, *stored)
}

func TestTrackRevertedUsesFixedReason(t *testing.T) {
	p := &fakeProvider{receipt: &types.Receipt{
		Status:      types.ReceiptStatusFailed,
		GasUsed:     30000,
		BlockNumber: big.NewInt(101),
	}}
	tracker := newTestTracker(&fakeSource{provider: p})
	cb, ch := outcomeChan()

	tracker.Track(context.Background(), pendingHandle("0xbeef"), cb)

	outcome := waitOutcome(t, ch)
	assert.Equal(t, model.StatusFailed, outcome.Status)
	assert.Equal(t, RevertReason, outcome.FailureReason)
	assert.Equal(t, uint64(101), outcome.BlockNumber)
}

func TestTrackReceiptErrorBecomesFailure(t *testing.T) {
	p := &fakeProvider{receiptErr: errors.New("receipt lookup failed")}
	tracker := newTestTracker(&fakeSource{provider: p})
	cb, ch := outcomeChan()

	tracker.Track(context.Background(), pendingHandle("0xbad"), cb)

	outcome := waitOutcome(t, ch)
	assert.Equal(t, model.StatusFailed, outcome.Status)
	assert.Equal(t, "receipt lookup failed", outcome.FailureReason)
}

func TestCancelSuppressesCallbacks(t *testing.T) {
	p := &fakeProvider{waitFn: func(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	tracker := newTestTracker(&fakeSource{provider: p})
	cb, ch := outcomeChan()

	handle := tracker.Track(context.Background(), pendingHandle("0xslow"), cb)
	assert.Equal(t, model.StatusConfirming, handle.State())

	handle.Cancel()
	assertNoOutcome(t, ch)

	// The canceled wait leaves no terminal outcome behind.
	state, stored, ok := tracker.StatusOf("0xslow")
	require.True(t, ok)
	assert.Equal(t, model.StatusConfirming, state)
	assert.Nil(t, stored)
}

func TestNewTrackSupersedesStaleWait(t *testing.T) {
	firstHash := common.HexToHash("0x01")
	p := &fakeProvider{
		receipt: &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(200)},
		waitFn: func(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
			if hash == firstHash {
				// First wait hangs until its context is canceled by the
				// superseding Track call.
				<-ctx.Done()
				return nil, ctx.Err()
			}
			return &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(200)}, nil
		},
	}
	tracker := newTestTracker(&fakeSource{provider: p})
	staleCb, staleCh := outcomeChan()
	freshCb, freshCh := outcomeChan()

	tracker.Track(context.Background(), pendingHandle(firstHash.Hex()), staleCb)
	tracker.Track(context.Background(), pendingHandle("0xfresh"), freshCb)

	fresh := waitOutcome(t, freshCh)
	assert.Equal(t, "0xfresh", fresh.Hash)
	assert.Equal(t, model.StatusConfirmed, fresh.Status)

	// The superseded wait resolves silently.
	assertNoOutcome(t, staleCh)
}

func TestCancelAfterTerminalOutcomeKeepsOutcome(t *testing.T) {
	p := &fakeProvider{receipt: &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		BlockNumber: big.NewInt(300),
	}}
	tracker := newTestTracker(&fakeSource{provider: p})
	cb, ch := outcomeChan()

	handle := tracker.Track(context.Background(), pendingHandle("0xdone"), cb)
	outcome := waitOutcome(t, ch)
	require.Equal(t, model.StatusConfirmed, outcome.Status)

	// Cancel must always be safe to call, however late; a cancel that loses
	// the race to the terminal transition never erases the stored outcome.
	handle.Cancel()

	state, stored, ok := tracker.StatusOf("0xdone")
	require.True(t, ok)
	assert.Equal(t, model.StatusConfirmed, state)
	require.NotNil(t, stored)
}

func TestStatusOfUnknownHash(t *testing.T) {
	tracker := newTestTracker(&fakeSource{provider: &fakeProvider{}})
	_, _, ok := tracker.StatusOf("0xunknown")
	assert.False(t, ok)
}
