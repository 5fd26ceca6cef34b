package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravkun27/nftix/internal/dto"
	"github.com/ravkun27/nftix/internal/handler"
	"github.com/ravkun27/nftix/internal/publisher"
	"github.com/ravkun27/nftix/pkg/config"
)

const catalogJSON = `[
  {"id": "evt-1", "title": "CyberCon 2025", "status": "minting", "supply": 250},
  {"name": "Neon Nights", "status": "upcoming"}
]`

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte(catalogJSON), 0o600))

	return &config.Config{
		App:     config.AppConfig{Name: "nftix", Environment: "test"},
		JWT:     config.JWTConfig{Secret: "test-secret", Issuer: "nftix", SessionTTL: time.Hour},
		Catalog: config.CatalogConfig{Source: "file", Path: path},
		Mint:    config.MintConfig{SuccessRate: 1},
	}
}

func TestNewContainer_FileSource(t *testing.T) {
	c, err := NewContainer(&ContainerConfig{Config: testConfig(t)})
	require.NoError(t, err)
	defer c.Close()

	assert.Contains(t, c.Source.Name(), "file:")
	assert.IsType(t, &publisher.NoOpPublisher{}, c.Publisher)
	assert.NotNil(t, c.Metrics)
	assert.Nil(t, c.Handlers.MintGuard)

	ctx := context.Background()
	require.NoError(t, c.CatalogService.Reload(ctx))

	events, err := c.CatalogService.ListEvents(ctx, &dto.EventListFilter{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "evt-1", events[0].ID)
	assert.Equal(t, "event-2", events[1].ID)
	assert.Equal(t, "Neon Nights", events[1].Title)
}

func TestNewContainer_RoutesServeCatalog(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, err := NewContainer(&ContainerConfig{Config: testConfig(t)})
	require.NoError(t, err)
	require.NoError(t, c.CatalogService.Reload(context.Background()))

	router := gin.New()
	handler.RegisterRoutes(router, c.Handlers)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/events/evt-1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CyberCon 2025")
}

func TestNewContainer_PostgresSourceNeedsDB(t *testing.T) {
	cfg := testConfig(t)
	cfg.Catalog.Source = "postgres"

	_, err := NewContainer(&ContainerConfig{Config: cfg})
	assert.Error(t, err)
}

func TestNewContainer_RejectsUnknownSource(t *testing.T) {
	cfg := testConfig(t)
	cfg.Catalog.Source = "s3"

	_, err := NewContainer(&ContainerConfig{Config: cfg})
	assert.Error(t, err)

	_, err = NewContainer(nil)
	assert.Error(t, err)
}
