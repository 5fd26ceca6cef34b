package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ravkun27/nftix/internal/catalog"
	"github.com/ravkun27/nftix/internal/domain"
	"github.com/ravkun27/nftix/internal/dto"
	"github.com/ravkun27/nftix/internal/metrics"
	"github.com/ravkun27/nftix/internal/mint"
	"github.com/ravkun27/nftix/internal/mintflow"
	"github.com/ravkun27/nftix/internal/publisher"
	"github.com/ravkun27/nftix/internal/render"
	"github.com/ravkun27/nftix/pkg/logger"
	"github.com/ravkun27/nftix/pkg/telemetry"
)

// ticketFlags shows minted tickets without price or supply
var ticketFlags = render.Flags{ShowPrice: false, ShowSupply: false, ShowTags: true}

// TicketServiceConfig wires a TicketService
type TicketServiceConfig struct {
	Catalog   catalog.Repository
	Registry  *mint.Registry
	Gateway   mintflow.Gateway
	Publisher publisher.Publisher
	Metrics   *metrics.Metrics
	Location  *time.Location
	Logger    *logger.Logger
}

// ticketService implements TicketService
type ticketService struct {
	catalog   catalog.Repository
	registry  *mint.Registry
	gateway   mintflow.Gateway
	publisher publisher.Publisher
	metrics   *metrics.Metrics
	loc       *time.Location
	clock     func() time.Time
	log       *logger.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
	receipts map[string]*mintflow.Receipt
}

// NewTicketService creates a new TicketService
func NewTicketService(cfg *TicketServiceConfig) TicketService {
	return newTicketService(cfg)
}

func newTicketService(cfg *TicketServiceConfig) *ticketService {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	pub := cfg.Publisher
	if pub == nil {
		pub = publisher.NewNoOpPublisher()
	}
	return &ticketService{
		catalog:   cfg.Catalog,
		registry:  cfg.Registry,
		gateway:   cfg.Gateway,
		publisher: pub,
		metrics:   cfg.Metrics,
		loc:       loc,
		clock:     time.Now,
		log:       cfg.Logger.Named("ticket"),
		inflight:  make(map[string]struct{}),
		receipts:  make(map[string]*mintflow.Receipt),
	}
}

// Mint drives a mint button for owner and waits for the transaction. If ctx
// ends first the mint is cancelled and nothing is recorded.
func (s *ticketService) Mint(ctx context.Context, eventID, owner string) (*dto.MintResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "ticket.mint")
	defer span.End()
	span.SetAttributes(
		attribute.String("event.id", eventID),
		attribute.String("wallet.address", owner),
	)

	event, err := s.catalog.GetByID(ctx, eventID)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}

	key := ticketKey(owner, eventID)
	if !s.begin(key) {
		s.metrics.MintRejected("in_progress")
		return nil, domain.ErrMintInProgress
	}
	defer s.end(key)

	button := mintflow.NewButton(*event, s.registry.For(owner), s.gateway, true,
		mintflow.WithOwner(owner),
		mintflow.WithLogger(s.log),
		mintflow.OnMinted(func(r *mintflow.Receipt) { s.remember(key, r) }),
	)
	defer button.Close()

	if err := button.Click(ctx); err != nil {
		s.metrics.MintRejected(rejectReason(err))
		return nil, err
	}

	start := time.Now()
	state, receipt, err := button.Wait(ctx)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		s.metrics.MintResolved(failureOutcome(err), time.Since(start))
		return nil, err
	}
	s.metrics.MintResolved("minted", time.Since(start))

	// the mint is recorded, so announce it even if the caller has gone
	if err := s.publisher.PublishTicketMinted(context.WithoutCancel(ctx), receipt); err != nil {
		s.log.Error("failed to publish ticket minted",
			zap.String("event_id", eventID),
			zap.String("tx_hash", receipt.TxHash),
			zap.Error(err),
		)
	}

	return &dto.MintResponse{
		Card:    render.Card(*event, render.DefaultFlags(), true, state.View(), s.loc),
		Receipt: dto.ToReceiptResponse(receipt),
	}, nil
}

// ListMinted renders the owner's minted tickets in catalog order
func (s *ticketService) ListMinted(ctx context.Context, owner string) (*render.GridView, error) {
	ctx, span := telemetry.StartSpan(ctx, "ticket.list")
	defer span.End()

	events, err := s.catalog.List(ctx)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}

	store := s.registry.For(owner)
	seen := make(map[string]bool)
	cards := make([]render.CardView, 0, store.Len())
	for _, e := range events {
		if seen[e.ID] || !store.IsMinted(e.ID) {
			continue
		}
		seen[e.ID] = true
		cards = append(cards, render.Card(e, ticketFlags, true, mintflow.StateMinted.View(), s.loc))
	}

	grid := render.TicketGrid(cards, render.DefaultColumns)
	return &grid, nil
}

// GetTicket renders the ticket card of an event the owner has minted
func (s *ticketService) GetTicket(ctx context.Context, eventID, owner string) (*render.TicketView, error) {
	ctx, span := telemetry.StartSpan(ctx, "ticket.get")
	defer span.End()

	event, err := s.catalog.GetByID(ctx, eventID)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}
	if !s.registry.For(owner).IsMinted(eventID) {
		return nil, domain.ErrTicketNotMinted
	}

	ticketID := ""
	s.mu.Lock()
	if r, ok := s.receipts[ticketKey(owner, eventID)]; ok {
		ticketID = r.TokenID
	}
	s.mu.Unlock()

	view := render.TicketCard(*event, ticketID, owner, s.loc, s.clock())
	return &view, nil
}

func (s *ticketService) begin(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[key]; busy {
		return false
	}
	s.inflight[key] = struct{}{}
	return true
}

func (s *ticketService) end(key string) {
	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()
}

func (s *ticketService) remember(key string, r *mintflow.Receipt) {
	s.mu.Lock()
	s.receipts[key] = r
	s.mu.Unlock()
}

func ticketKey(owner, eventID string) string {
	return strings.ToLower(owner) + "|" + eventID
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyMinted):
		return "already_minted"
	case errors.Is(err, domain.ErrNotMintable):
		return "not_mintable"
	case errors.Is(err, domain.ErrMintInProgress):
		return "in_progress"
	default:
		return "rejected"
	}
}

func failureOutcome(err error) string {
	if errors.Is(err, domain.ErrMintCancelled) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "cancelled"
	}
	return "failed"
}
