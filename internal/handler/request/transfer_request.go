package request

// EstimateRequest asks for an advisory gas estimate for a token transfer.
type EstimateRequest struct {
	To     string `json:"to" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

// SubmitTransferRequest submits a token transfer from the active session.
type SubmitTransferRequest struct {
	To     string `json:"to" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}
