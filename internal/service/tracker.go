package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"fmode-core/internal/model"
	"fmode-core/pkg/errno"
	"fmode-core/pkg/explorer"
	"fmode-core/pkg/logger"
	"fmode-core/pkg/monitor"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// RevertReason is the fixed failure reason for transactions that were mined
// but reverted.
const RevertReason = "Transaction reverted on-chain"

// TrackCallbacks receives exactly one terminal notification per tracked
// handle, unless the wait is canceled first, in which case neither fires.
type TrackCallbacks struct {
	OnConfirmed func(model.TransactionOutcome)
	OnFailed    func(model.TransactionOutcome)
}

// ConfirmationTracker drives the pending → confirming → confirmed|failed
// state machine for submitted transfers. Tracking a new handle cancels the
// previous wait, so a late resolution of a stale wait can never fire
// callbacks that belong to an older transaction.
type ConfirmationTracker struct {
	providers     ProviderSource
	explorer      *explorer.Builder
	confirmations uint64

	mu       sync.Mutex
	current  *trackJob
	states   map[string]model.TxStatus
	outcomes map[string]model.TransactionOutcome // terminal, write-once per hash
}

type trackJob struct {
	hash     string
	cancel   context.CancelFunc
	canceled atomic.Bool
	done     atomic.Bool
}

// TrackHandle lets the owner cancel a wait and observe its state.
type TrackHandle struct {
	tracker *ConfirmationTracker
	job     *trackJob
}

func NewConfirmationTracker(providers ProviderSource, exp *explorer.Builder, confirmations uint64) *ConfirmationTracker {
	if confirmations == 0 {
		confirmations = 1
	}
	return &ConfirmationTracker{
		providers:     providers,
		explorer:      exp,
		confirmations: confirmations,
		states:        make(map[string]model.TxStatus),
		outcomes:      make(map[string]model.TransactionOutcome),
	}
}

// Track enters the confirming state for handle and waits for a receipt in
// the background. Any previous in-flight wait on this tracker is canceled
// first.
func (t *ConfirmationTracker) Track(ctx context.Context, handle model.TransactionHandle, cb TrackCallbacks) *TrackHandle {
	job := &trackJob{hash: handle.Hash}
	waitCtx, cancel := context.WithCancel(ctx)
	job.cancel = cancel

	t.mu.Lock()
	if prev := t.current; prev != nil && !prev.done.Load() {
		prev.canceled.Store(true)
		prev.cancel()
		monitor.Business.TrackersCanceledTotal.Inc()
		logger.Debug("superseded stale confirmation wait", zap.String("hash", prev.hash))
	}
	t.current = job
	t.states[handle.Hash] = model.StatusConfirming
	t.mu.Unlock()

	go t.run(waitCtx, job, handle, cb)
	return &TrackHandle{tracker: t, job: job}
}

func (t *ConfirmationTracker) run(ctx context.Context, job *trackJob, handle model.TransactionHandle, cb TrackCallbacks) {
	defer job.cancel()

	// Receipts are public reads: prefer the wallet endpoint, fall back to the
	// read-only RPC when none is configured.
	p, err := t.providers.GetProvider(ctx, true)
	var receipt *types.Receipt
	if err == nil {
		receipt, err = p.WaitForReceipt(ctx, common.HexToHash(handle.Hash), t.confirmations)
	}

	// A canceled wait delivers nothing: not to the callbacks, not to the
	// outcome registry. The owner has already moved on.
	if job.canceled.Load() || errors.Is(err, context.Canceled) {
		return
	}
	if !job.done.CompareAndSwap(false, true) {
		return
	}

	var outcome model.TransactionOutcome
	switch {
	case err != nil:
		msg := err.Error()
		if msg == "" {
			msg = errno.ErrRpcFailure.Message
		}
		outcome = model.TransactionOutcome{
			Hash:          handle.Hash,
			Status:        model.StatusFailed,
			To:            handle.To,
			ExplorerURL:   handle.ExplorerURL,
			FailureReason: msg,
		}
	case receipt.Status == types.ReceiptStatusSuccessful:
		outcome = model.TransactionOutcome{
			Hash:        handle.Hash,
			Status:      model.StatusConfirmed,
			GasUsed:     receipt.GasUsed,
			BlockNumber: receipt.BlockNumber.Uint64(),
			To:          handle.To,
			ExplorerURL: handle.ExplorerURL,
		}
	default:
		outcome = model.TransactionOutcome{
			Hash:          handle.Hash,
			Status:        model.StatusFailed,
			GasUsed:       receipt.GasUsed,
			BlockNumber:   receipt.BlockNumber.Uint64(),
			To:            handle.To,
			ExplorerURL:   handle.ExplorerURL,
			FailureReason: RevertReason,
		}
	}

	t.mu.Lock()
	// A hash's outcome, once terminal, never changes.
	if _, exists := t.outcomes[handle.Hash]; !exists {
		t.outcomes[handle.Hash] = outcome
	}
	t.states[handle.Hash] = outcome.Status
	t.mu.Unlock()

	monitor.Business.ConfirmationsTotal.WithLabelValues(string(outcome.Status)).Inc()
	if outcome.Status == model.StatusConfirmed {
		logger.Info("transfer confirmed",
			zap.String("hash", outcome.Hash),
			zap.Uint64("block", outcome.BlockNumber),
			zap.Uint64("gas_used", outcome.GasUsed))
	} else {
		logger.Warn("transfer failed",
			zap.String("hash", outcome.Hash),
			zap.String("reason", outcome.FailureReason))
	}

	// Cancellation is re-checked immediately before delivery; Cancel may have
	// raced with the terminal transition above.
	if job.canceled.Load() {
		return
	}
	switch {
	case outcome.Status == model.StatusConfirmed && cb.OnConfirmed != nil:
		cb.OnConfirmed(outcome)
	case outcome.Status == model.StatusFailed && cb.OnFailed != nil:
		cb.OnFailed(outcome)
	}
}

// StatusOf reports the tracked state for a hash, plus the terminal outcome
// once one exists.
func (t *ConfirmationTracker) StatusOf(hash string) (model.TxStatus, *model.TransactionOutcome, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	state, ok := t.states[hash]
	if !ok {
		return "", nil, false
	}
	if outcome, done := t.outcomes[hash]; done {
		o := outcome
		return state, &o, true
	}
	return state, nil, true
}

// CancelCurrent cancels the in-flight wait, if any. Used at teardown so no
// callback fires after the owner is gone.
func (t *ConfirmationTracker) CancelCurrent() {
	t.mu.Lock()
	job := t.current
	t.mu.Unlock()
	if job != nil {
		job.canceled.Store(true)
		job.cancel()
		monitor.Business.TrackersCanceledTotal.Inc()
	}
}

// Cancel suppresses both callbacks for this wait. The underlying network
// call is abandoned, not aborted; its eventual resolution is discarded.
// The canceled flag is stored unconditionally: a cancel racing the terminal
// transition must still win the pre-delivery re-check in run.
func (h *TrackHandle) Cancel() {
	h.job.canceled.Store(true)
	h.job.cancel()
	monitor.Business.TrackersCanceledTotal.Inc()
}

// State returns the current state for this handle's hash.
func (h *TrackHandle) State() model.TxStatus {
	state, _, ok := h.tracker.StatusOf(h.job.hash)
	if !ok {
		return model.StatusPending
	}
	return state
}
