package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravkun27/nftix/internal/catalog"
	"github.com/ravkun27/nftix/internal/domain"
	"github.com/ravkun27/nftix/internal/dto"
	"github.com/ravkun27/nftix/internal/metrics"
	"github.com/ravkun27/nftix/internal/mint"
	"github.com/ravkun27/nftix/internal/mintflow"
	"github.com/ravkun27/nftix/pkg/logger"
)

func newTestCatalogService(t *testing.T) (CatalogService, *mint.Registry) {
	registry := mint.NewRegistry()
	svc := NewCatalogService(newTestCatalog(t), registry, metrics.New(), time.UTC, logger.Nop())
	return svc, registry
}

func TestCatalogService_ListEvents(t *testing.T) {
	svc, _ := newTestCatalogService(t)
	ctx := context.Background()

	all, err := svc.ListEvents(ctx, &dto.EventListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	minting, err := svc.ListEvents(ctx, &dto.EventListFilter{Status: "minting"})
	require.NoError(t, err)
	require.Len(t, minting, 2)
	assert.Equal(t, "cyber", minting[0].ID)
	assert.Equal(t, "later", minting[1].ID)

	none, err := svc.ListEvents(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, none, 4)
}

func TestCatalogService_GetEvent(t *testing.T) {
	svc, _ := newTestCatalogService(t)

	event, err := svc.GetEvent(context.Background(), "neon")
	require.NoError(t, err)
	assert.Equal(t, "Neon Nights", event.Title)

	_, err = svc.GetEvent(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestCatalogService_GetCard_ButtonFollowsViewer(t *testing.T) {
	svc, registry := newTestCatalogService(t)
	ctx := context.Background()

	card, err := svc.GetCard(ctx, "cyber", "")
	require.NoError(t, err)
	assert.Equal(t, string(mintflow.StateDisconnected), card.Button.State)
	assert.Equal(t, "CONNECT WALLET", card.Button.Label)
	assert.False(t, card.Minted)
	assert.Equal(t, "250 LEFT", card.SupplyBadge)
	assert.Equal(t, []string{"#ai", "#web3"}, card.Tags)

	card, err = svc.GetCard(ctx, "cyber", testOwner)
	require.NoError(t, err)
	assert.Equal(t, string(mintflow.StateReadyToMint), card.Button.State)

	registry.For(testOwner).Mint("cyber")
	card, err = svc.GetCard(ctx, "cyber", testOwner)
	require.NoError(t, err)
	assert.True(t, card.Minted)
	assert.Equal(t, "MINTED", card.Button.Label)
	assert.True(t, card.Button.Disabled)

	card, err = svc.GetCard(ctx, "neon", testOwner)
	require.NoError(t, err)
	assert.Equal(t, "SOON", card.Button.Label)

	_, err = svc.GetCard(ctx, "missing", "")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestCatalogService_GetGrid(t *testing.T) {
	svc, _ := newTestCatalogService(t)
	off := false

	grid, err := svc.GetGrid(context.Background(), &dto.GridQuery{
		EventListFilter: dto.EventListFilter{Status: "minting"},
		Columns:         2,
		ShowPrice:       &off,
	}, "")
	require.NoError(t, err)

	assert.Equal(t, 2, grid.Columns)
	assert.Nil(t, grid.Empty)
	require.Len(t, grid.Cards, 2)
	assert.Nil(t, grid.Cards[0].Price)
	assert.NotEmpty(t, grid.Cards[0].SupplyBadge)
}

func TestCatalogService_GetGrid_EmptyState(t *testing.T) {
	svc, _ := newTestCatalogService(t)

	grid, err := svc.GetGrid(context.Background(), &dto.GridQuery{
		EventListFilter: dto.EventListFilter{Status: "live"},
	}, "")
	require.NoError(t, err)
	assert.Empty(t, grid.Cards)
	require.NotNil(t, grid.Empty)
	assert.Equal(t, "No Events Available", grid.Empty.Title)
	assert.Equal(t, 3, grid.Columns)
}

type failingSource struct{}

func (failingSource) Name() string { return "failing" }

func (failingSource) Load(ctx context.Context) ([]catalog.RawRecord, error) {
	return nil, errors.New("source down")
}

func TestCatalogService_Reload(t *testing.T) {
	svc, _ := newTestCatalogService(t)
	assert.NoError(t, svc.Reload(context.Background()))

	repo := catalog.NewSourceRepository(failingSource{}, logger.Nop()).
		WithRetryPolicy(fastRetry())
	broken := NewCatalogService(repo, mint.NewRegistry(), metrics.New(), nil, logger.Nop())
	assert.Error(t, broken.Reload(context.Background()))

	events, err := broken.ListEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, events)
}
