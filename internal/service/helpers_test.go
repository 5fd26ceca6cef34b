package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ravkun27/nftix/internal/catalog"
	"github.com/ravkun27/nftix/internal/mintflow"
	"github.com/ravkun27/nftix/pkg/logger"
	"github.com/ravkun27/nftix/pkg/retry"
)

const testOwner = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

// MockGateway is a mock implementation of mintflow.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Submit(ctx context.Context, req *mintflow.MintRequest) (*mintflow.Receipt, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mintflow.Receipt), args.Error(1)
}

// MockPublisher is a mock implementation of publisher.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishTicketMinted(ctx context.Context, r *mintflow.Receipt) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

func testRecords() []catalog.RawRecord {
	return []catalog.RawRecord{
		{
			"id":       "cyber",
			"title":    "CyberCon 2025",
			"date":     "2025-08-10T20:30:00Z",
			"supply":   250,
			"price":    49.5,
			"currency": "ETH",
			"tags":     []any{"ai", "web3", "summit"},
			"status":   "minting",
		},
		{"id": "neon", "title": "Neon Nights", "status": "upcoming", "date": "2025-09-01T18:00:00Z"},
		{"id": "synth", "title": "Synthwave Live", "status": "sold-out", "supply": 0},
		{"id": "later", "title": "Later Drop", "status": "minting"},
	}
}

func newTestCatalog(t *testing.T) *catalog.SourceRepository {
	t.Helper()
	repo := catalog.NewSourceRepository(&catalog.StaticSource{Records: testRecords()}, logger.Nop())
	require.NoError(t, repo.Reload(context.Background()))
	return repo
}

func fastRetry() retry.Policy {
	return retry.Policy{Attempts: 2, Base: time.Millisecond, Cap: time.Millisecond}
}
