package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Catalog(t *testing.T) {
	m := New()

	m.ObserveCatalog(map[string]int{"minting": 2, "upcoming": 1})
	assert.Equal(t, 2.0, testutil.ToFloat64(m.catalogEvents.WithLabelValues("minting")))

	m.ObserveCatalog(map[string]int{"live": 1})
	assert.Equal(t, 0.0, testutil.ToFloat64(m.catalogEvents.WithLabelValues("minting")))

	m.CatalogReload(nil)
	m.CatalogReload(errors.New("boom"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogReloads.WithLabelValues("error")))
}

func TestMetrics_MintAndWallet(t *testing.T) {
	m := New()

	m.MintResolved("minted", 2*time.Second)
	m.MintRejected("not_mintable")
	m.WalletAction("connect", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.mintAttempts.WithLabelValues("minted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mintAttempts.WithLabelValues("not_mintable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.walletSessions.WithLabelValues("connect", "ok")))

	done := m.StreamOpened()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.countdownStreams))
	done()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.countdownStreams))
}

func TestMetrics_MiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/api/v1/events/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/events/evt-1", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/api/v1/events/:id", "204")))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "nftix_http_requests_total"))
}
