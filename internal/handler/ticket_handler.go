package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ravkun27/nftix/internal/service"
	"github.com/ravkun27/nftix/pkg/response"
)

// TicketHandler handles minting and minted ticket HTTP requests
type TicketHandler struct {
	tickets service.TicketService
}

// NewTicketHandler creates a new TicketHandler
func NewTicketHandler(tickets service.TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

// Mint handles POST /events/:id/mint. The request stays open until the
// transaction resolves; a client that goes away cancels the mint.
func (h *TicketHandler) Mint(c *gin.Context) {
	owner := Viewer(c)
	if owner == "" {
		response.Unauthorized(c, "Wallet session required")
		return
	}

	result, err := h.tickets.Mint(c.Request.Context(), c.Param("id"), owner)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, result)
}

// List handles GET /tickets
func (h *TicketHandler) List(c *gin.Context) {
	owner := Viewer(c)
	if owner == "" {
		response.Unauthorized(c, "Wallet session required")
		return
	}

	grid, err := h.tickets.ListMinted(c.Request.Context(), owner)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, grid, response.ListMeta{Total: len(grid.Cards)})
}

// Get handles GET /tickets/:id
func (h *TicketHandler) Get(c *gin.Context) {
	owner := Viewer(c)
	if owner == "" {
		response.Unauthorized(c, "Wallet session required")
		return
	}

	ticket, err := h.tickets.GetTicket(c.Request.Context(), c.Param("id"), owner)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, ticket)
}
