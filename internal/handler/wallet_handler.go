package handler

import (
	"fmode-core/internal/handler/response"
	"fmode-core/internal/service"
	"fmode-core/pkg/errno"

	"github.com/gin-gonic/gin"
)

// WalletHandler exposes session establishment and network management.
type WalletHandler struct {
	connector *service.WalletConnector
	sessions  *service.SessionStore
}

func NewWalletHandler(connector *service.WalletConnector, sessions *service.SessionStore) *WalletHandler {
	return &WalletHandler{connector: connector, sessions: sessions}
}

// Connect establishes a wallet session, prompting through the wallet provider.
func (h *WalletHandler) Connect(c *gin.Context) {
	session, err := h.connector.Connect(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	h.sessions.Replace(session)
	response.Success(c, session)
}

// Session returns the active session, silently restoring a pre-authorized
// one on first call. Never prompts.
func (h *WalletHandler) Session(c *gin.Context) {
	session := h.sessions.Get()
	if session == nil {
		if restored := h.connector.DetectExistingSession(c.Request.Context()); restored != nil {
			h.sessions.Replace(restored)
			session = restored
		}
	}
	if session == nil {
		response.Error(c, errno.ErrNoActiveSession)
		return
	}
	response.Success(c, session)
}

// Disconnect drops the active session.
func (h *WalletHandler) Disconnect(c *gin.Context) {
	h.sessions.Replace(nil)
	response.Success(c, gin.H{"disconnected": true})
}

// Network reports the active session's network relative to the expected one.
func (h *WalletHandler) Network(c *gin.Context) {
	session := h.sessions.Get()
	if session == nil {
		response.Error(c, errno.ErrNoActiveSession)
		return
	}
	response.Success(c, h.connector.NetworkInfo(session.ChainID))
}

// SwitchNetwork asks the wallet to move to the expected chain, adding it
// first when the wallet does not know it.
func (h *WalletHandler) SwitchNetwork(c *gin.Context) {
	if err := h.connector.SwitchNetwork(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	// The session is immutable; a successful switch means the next connect
	// or detect produces a session on the new chain.
	if refreshed := h.connector.DetectExistingSession(c.Request.Context()); refreshed != nil {
		h.sessions.Replace(refreshed)
	}
	response.Success(c, gin.H{"switched": true})
}
