package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ravkun27/nftix/internal/dto"
	"github.com/ravkun27/nftix/internal/service"
	"github.com/ravkun27/nftix/internal/wallet"
	"github.com/ravkun27/nftix/pkg/response"
)

// WalletHandler handles wallet session HTTP requests
type WalletHandler struct {
	wallets service.WalletService
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(wallets service.WalletService) *WalletHandler {
	return &WalletHandler{wallets: wallets}
}

// Connect handles POST /wallet/connect
func (h *WalletHandler) Connect(c *gin.Context) {
	var req dto.ConnectWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if valid, msg := req.Validate(); !valid {
		response.BadRequest(c, msg)
		return
	}

	session, err := h.wallets.Connect(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, dto.ToSessionResponse(session))
}

// Disconnect handles POST /wallet/disconnect
func (h *WalletHandler) Disconnect(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		response.Unauthorized(c, "Wallet session required")
		return
	}

	if err := h.wallets.Disconnect(c.Request.Context(), session); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, dto.ToAccountResponse(wallet.Account{}))
}

// Current handles GET /wallet
func (h *WalletHandler) Current(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		response.Success(c, dto.ToAccountResponse(wallet.Account{}))
		return
	}

	response.Success(c, dto.ToAccountResponse(session.Account()))
}
