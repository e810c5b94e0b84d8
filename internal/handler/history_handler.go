package handler

import (
	"strconv"

	"fmode-core/internal/handler/response"
	"fmode-core/internal/service"
	"fmode-core/pkg/errno"

	"github.com/gin-gonic/gin"
)

// HistoryHandler exposes bounded transfer-history reconstruction.
type HistoryHandler struct {
	history *service.HistoryReconstructor
}

func NewHistoryHandler(history *service.HistoryReconstructor) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// List returns the recent token transfers touching :address within the
// lookback window (?lookback=N blocks, defaulting from configuration).
func (h *HistoryHandler) List(c *gin.Context) {
	var lookback uint64
	if raw := c.Query("lookback"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.Error(c, errno.ErrBind.WithMessage("lookback must be a non-negative integer"))
			return
		}
		lookback = parsed
	}

	records, err := h.history.ListRecentTransfers(c.Request.Context(), c.Param("address"), lookback)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{
		"address":   c.Param("address"),
		"transfers": records,
		"count":     len(records),
	})
}
