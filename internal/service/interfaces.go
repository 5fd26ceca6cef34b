package service

import (
	"context"

	"github.com/ravkun27/nftix/internal/domain"
	"github.com/ravkun27/nftix/internal/dto"
	"github.com/ravkun27/nftix/internal/render"
	"github.com/ravkun27/nftix/internal/wallet"
)

// CatalogService defines the interface for catalog business logic.
// viewer is the connected wallet address, empty when nobody is connected.
type CatalogService interface {
	// ListEvents returns the normalized catalog, optionally filtered by status
	ListEvents(ctx context.Context, filter *dto.EventListFilter) ([]domain.Event, error)
	// GetEvent returns one event by id
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	// GetCard renders the card of one event as seen by viewer
	GetCard(ctx context.Context, id, viewer string) (*render.CardView, error)
	// GetGrid renders the catalog grid as seen by viewer
	GetGrid(ctx context.Context, query *dto.GridQuery, viewer string) (*render.GridView, error)
	// Reload re-reads the catalog source
	Reload(ctx context.Context) error
}

// WalletService defines the interface for wallet session logic
type WalletService interface {
	// Connect validates the address and issues a session for it
	Connect(ctx context.Context, req *dto.ConnectWalletRequest) (*wallet.Session, error)
	// Disconnect ends the wallet connection behind a session
	Disconnect(ctx context.Context, session *wallet.Session) error
	// Authenticate resolves a session token to a live session
	Authenticate(ctx context.Context, token string) (*wallet.Session, error)
}

// TicketService defines the interface for minting and minted tickets
type TicketService interface {
	// Mint runs the mint flow for owner and waits for it to resolve
	Mint(ctx context.Context, eventID, owner string) (*dto.MintResponse, error)
	// ListMinted renders the owner's minted tickets as a grid
	ListMinted(ctx context.Context, owner string) (*render.GridView, error)
	// GetTicket renders the NFT ticket card of a minted event
	GetTicket(ctx context.Context, eventID, owner string) (*render.TicketView, error)
}
