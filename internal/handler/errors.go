package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ravkun27/nftix/internal/domain"
	"github.com/ravkun27/nftix/pkg/response"
)

// handleError maps service errors onto the response envelope
func handleError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, domain.ErrEventNotFound):
		response.NotFound(c, "Event not found")
	case errors.Is(err, domain.ErrTicketNotMinted):
		response.NotFound(c, "Ticket not minted")
	case errors.Is(err, domain.ErrInvalidAddress), errors.Is(err, domain.ErrChecksumMismatch):
		response.Error(c, http.StatusBadRequest, response.ErrCodeInvalidAddress, "Invalid wallet address", err.Error())
	case domain.IsSessionError(err):
		response.Unauthorized(c, "Invalid or expired wallet session")
	case errors.Is(err, domain.ErrWalletNotConnected):
		response.Conflict(c, response.ErrCodeNotConnected, "Wallet not connected")
	case errors.Is(err, domain.ErrNotMintable):
		response.Conflict(c, response.ErrCodeNotMintable, "Event is not open for minting")
	case errors.Is(err, domain.ErrAlreadyMinted):
		response.Conflict(c, response.ErrCodeConflict, "Ticket already minted")
	case errors.Is(err, domain.ErrMintInProgress):
		response.Conflict(c, response.ErrCodeConflict, "Mint already in progress")
	case errors.Is(err, domain.ErrMintFailed):
		response.Error(c, http.StatusBadGateway, response.ErrCodeMintFailed, "Mint transaction failed", err.Error())
	case errors.Is(err, domain.ErrMintCancelled),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		response.Error(c, http.StatusServiceUnavailable, response.ErrCodeMintCancelled, "Mint cancelled", "")
	default:
		response.InternalError(c, err)
	}
}
