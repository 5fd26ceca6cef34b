package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ravkun27/nftix/internal/countdown"
	"github.com/ravkun27/nftix/internal/dto"
	"github.com/ravkun27/nftix/internal/metrics"
	"github.com/ravkun27/nftix/internal/service"
	"github.com/ravkun27/nftix/pkg/response"
)

// CatalogHandler handles catalog HTTP requests
type CatalogHandler struct {
	catalog service.CatalogService
	metrics *metrics.Metrics

	// countdown stream pacing
	interval time.Duration
	clock    func() time.Time
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog service.CatalogService, m *metrics.Metrics) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalog,
		metrics:  m,
		interval: time.Second,
		clock:    time.Now,
	}
}

// List handles GET /events
func (h *CatalogHandler) List(c *gin.Context) {
	var filter dto.EventListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if valid, msg := filter.Validate(); !valid {
		response.BadRequest(c, msg)
		return
	}

	events, err := h.catalog.ListEvents(c.Request.Context(), &filter)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, dto.EventListResponse{Events: events}, response.ListMeta{
		Total:  len(events),
		Status: filter.Status,
	})
}

// Grid handles GET /events/grid
func (h *CatalogHandler) Grid(c *gin.Context) {
	var query dto.GridQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if valid, msg := query.Validate(); !valid {
		response.BadRequest(c, msg)
		return
	}

	grid, err := h.catalog.GetGrid(c.Request.Context(), &query, Viewer(c))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, grid)
}

// Get handles GET /events/:id
func (h *CatalogHandler) Get(c *gin.Context) {
	event, err := h.catalog.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, event)
}

// Card handles GET /events/:id/card
func (h *CatalogHandler) Card(c *gin.Context) {
	card, err := h.catalog.GetCard(c.Request.Context(), c.Param("id"), Viewer(c))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, card)
}

// Countdown handles GET /events/:id/countdown. It streams a tick event with
// the remaining time once per second and a done event once the event starts.
func (h *CatalogHandler) Countdown(c *gin.Context) {
	ctx := c.Request.Context()
	event, err := h.catalog.GetEvent(ctx, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	closeStream := h.metrics.StreamOpened()
	defer closeStream()

	// streams outlive the server write timeout
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	target := event.StartsAt()
	done := gin.H{"eventId": event.ID}

	first := countdown.Remaining(h.clock(), target)
	c.SSEvent("tick", first)
	if first.IsZero() {
		c.SSEvent("done", done)
		return
	}

	ticks := make(chan countdown.Parts, 1)
	timer := countdown.StartWith(target, h.interval, h.clock, func(p countdown.Parts) {
		select {
		case ticks <- p:
		default:
		}
	})
	defer timer.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case p := <-ticks:
			c.SSEvent("tick", p)
			if p.IsZero() {
				c.SSEvent("done", done)
				return false
			}
			return true
		case <-timer.Done():
			// the zero tick may have been dropped behind a queued one
			select {
			case p := <-ticks:
				if !p.IsZero() {
					c.SSEvent("tick", p)
				}
			default:
			}
			c.SSEvent("tick", countdown.Parts{})
			c.SSEvent("done", done)
			return false
		}
	})
}
