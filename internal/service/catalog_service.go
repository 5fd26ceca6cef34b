package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ravkun27/nftix/internal/catalog"
	"github.com/ravkun27/nftix/internal/domain"
	"github.com/ravkun27/nftix/internal/dto"
	"github.com/ravkun27/nftix/internal/metrics"
	"github.com/ravkun27/nftix/internal/mint"
	"github.com/ravkun27/nftix/internal/mintflow"
	"github.com/ravkun27/nftix/internal/render"
	"github.com/ravkun27/nftix/pkg/logger"
	"github.com/ravkun27/nftix/pkg/telemetry"
)

// catalogService implements CatalogService
type catalogService struct {
	repo     catalog.Reloader
	registry *mint.Registry
	metrics  *metrics.Metrics
	loc      *time.Location
	log      *logger.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(repo catalog.Reloader, registry *mint.Registry, m *metrics.Metrics, loc *time.Location, log *logger.Logger) CatalogService {
	if loc == nil {
		loc = time.UTC
	}
	return &catalogService{
		repo:     repo,
		registry: registry,
		metrics:  m,
		loc:      loc,
		log:      log.Named("catalog"),
	}
}

// ListEvents returns the catalog, filtered by status when one is given
func (s *catalogService) ListEvents(ctx context.Context, filter *dto.EventListFilter) ([]domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "catalog.list")
	defer span.End()

	events, err := s.repo.List(ctx)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	if filter != nil {
		if status, ok := filter.StatusFilter(); ok {
			events = catalog.FilterByStatus(events, status)
		}
	}

	span.SetAttributes(attribute.Int("catalog.events", len(events)))
	return events, nil
}

// GetEvent returns one event
func (s *catalogService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "catalog.get")
	defer span.End()
	span.SetAttributes(attribute.String("event.id", id))

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}
	return event, nil
}

// GetCard renders the card of one event
func (s *catalogService) GetCard(ctx context.Context, id, viewer string) (*render.CardView, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	card := s.card(*event, render.DefaultFlags(), viewer)
	return &card, nil
}

// GetGrid renders the catalog grid
func (s *catalogService) GetGrid(ctx context.Context, query *dto.GridQuery, viewer string) (*render.GridView, error) {
	if query == nil {
		query = &dto.GridQuery{}
	}

	events, err := s.ListEvents(ctx, &query.EventListFilter)
	if err != nil {
		return nil, err
	}

	flags := query.Flags()
	cards := make([]render.CardView, len(events))
	for i, e := range events {
		cards[i] = s.card(e, flags, viewer)
	}

	grid := render.Grid(cards, query.Columns)
	return &grid, nil
}

// Reload re-reads the catalog source and refreshes the catalog gauges
func (s *catalogService) Reload(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "catalog.reload")
	defer span.End()

	start := time.Now()
	err := s.repo.Reload(ctx)
	s.metrics.CatalogReload(err)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		s.log.Error("catalog reload failed", zap.Error(err))
		return fmt.Errorf("failed to reload catalog: %w", err)
	}

	events, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}

	byStatus := make(map[string]int)
	for _, e := range events {
		byStatus[string(e.Status)]++
	}
	s.metrics.ObserveCatalog(byStatus)

	s.log.Debug("catalog reloaded",
		zap.Int("events", len(events)),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

func (s *catalogService) card(e domain.Event, flags render.Flags, viewer string) render.CardView {
	connected := viewer != ""
	minted := connected && s.registry.For(viewer).IsMinted(e.ID)
	state := mintflow.InitialState(e, minted, connected)
	return render.Card(e, flags, minted, state.View(), s.loc)
}
