package handler

import (
	"context"

	"fmode-core/internal/handler/request"
	"fmode-core/internal/handler/response"
	"fmode-core/internal/service"
	"fmode-core/pkg/errno"
	"fmode-core/pkg/validator"

	"github.com/gin-gonic/gin"
)

// TransferHandler exposes balances, estimates, submission and tracking.
type TransferHandler struct {
	oracle    *service.BalanceOracle
	estimator *service.GasEstimator
	submitter *service.TransferSubmitter
	tracker   *service.ConfirmationTracker
	sessions  *service.SessionStore
}

func NewTransferHandler(
	oracle *service.BalanceOracle,
	estimator *service.GasEstimator,
	submitter *service.TransferSubmitter,
	tracker *service.ConfirmationTracker,
	sessions *service.SessionStore,
) *TransferHandler {
	return &TransferHandler{
		oracle:    oracle,
		estimator: estimator,
		submitter: submitter,
		tracker:   tracker,
		sessions:  sessions,
	}
}

// NativeBalance returns the native-coin balance for :address.
func (h *TransferHandler) NativeBalance(c *gin.Context) {
	balance, err := h.oracle.NativeBalance(c.Request.Context(), c.Param("address"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"address": c.Param("address"), "balance": balance})
}

// TokenBalance returns the configured token's balance for :address.
func (h *TransferHandler) TokenBalance(c *gin.Context) {
	balance, err := h.oracle.TokenBalance(c.Request.Context(), c.Param("address"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"address": c.Param("address"), "balance": balance})
}

// TokenMetadata returns the token's display metadata (never an error; a safe
// fallback is served when the contract cannot be read).
func (h *TransferHandler) TokenMetadata(c *gin.Context) {
	response.Success(c, h.oracle.TokenMetadata(c.Request.Context()))
}

// Estimate returns an advisory gas estimate. An estimation failure is not a
// submission blocker, so the response degrades to an absent estimate.
func (h *TransferHandler) Estimate(c *gin.Context) {
	var req request.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithMessage(validator.GetErrorMsg(err)))
		return
	}

	estimate, err := h.estimator.Estimate(c.Request.Context(), h.sessions.Get(), req.To, req.Amount)
	if err != nil {
		code, _ := errno.Decode(err)
		if code == errno.ErrRpcFailure.Code {
			// Degrade-to-default: estimation is cosmetic.
			response.Success(c, gin.H{"estimate": nil})
			return
		}
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"estimate": estimate})
}

// Submit validates and submits a token transfer and starts tracking it.
func (h *TransferHandler) Submit(c *gin.Context) {
	var req request.SubmitTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithMessage(validator.GetErrorMsg(err)))
		return
	}

	handle, err := h.submitter.Submit(c.Request.Context(), h.sessions.Get(), req.To, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Tracking outlives this request; the server cancels it at shutdown.
	h.tracker.Track(context.Background(), *handle, service.TrackCallbacks{})
	response.Success(c, handle)
}

// Status reports the tracked state (and terminal outcome, once there is one)
// for :hash.
func (h *TransferHandler) Status(c *gin.Context) {
	hash := c.Param("hash")
	state, outcome, ok := h.tracker.StatusOf(hash)
	if !ok {
		response.Error(c, errno.ErrTxNotTracked.WithMessage("unknown transaction: "+hash))
		return
	}
	if outcome != nil {
		response.Success(c, outcome)
		return
	}
	response.Success(c, gin.H{"hash": hash, "status": state})
}
