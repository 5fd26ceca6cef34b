package dto

import (
	"strings"

	"github.com/ravkun27/nftix/internal/domain"
	"github.com/ravkun27/nftix/internal/render"
)

// EventListFilter holds the query for GET /events
type EventListFilter struct {
	Status string `form:"status"`
}

// Validate validates the EventListFilter
func (f *EventListFilter) Validate() (bool, string) {
	if _, ok := parseStatusFilter(f.Status); !ok {
		return false, "Invalid status filter"
	}
	return true, ""
}

// StatusFilter returns the requested status, if any
func (f *EventListFilter) StatusFilter() (domain.EventStatus, bool) {
	status, ok := parseStatusFilter(f.Status)
	return status, ok && status != ""
}

// GridQuery holds the query for GET /events/grid
type GridQuery struct {
	EventListFilter
	Columns    int   `form:"columns"`
	ShowPrice  *bool `form:"show_price"`
	ShowSupply *bool `form:"show_supply"`
	ShowTags   *bool `form:"show_tags"`
}

// Validate validates the GridQuery
func (q *GridQuery) Validate() (bool, string) {
	if ok, msg := q.EventListFilter.Validate(); !ok {
		return false, msg
	}
	if q.Columns < 0 {
		return false, "Columns cannot be negative"
	}
	return true, ""
}

// Flags resolves the card sections to show, defaulting each to on
func (q *GridQuery) Flags() render.Flags {
	flags := render.DefaultFlags()
	if q.ShowPrice != nil {
		flags.ShowPrice = *q.ShowPrice
	}
	if q.ShowSupply != nil {
		flags.ShowSupply = *q.ShowSupply
	}
	if q.ShowTags != nil {
		flags.ShowTags = *q.ShowTags
	}
	return flags
}

// Filters must name a known status exactly. Unlike catalog records, an
// unknown filter is a client error rather than a fallback to upcoming.
func parseStatusFilter(s string) (domain.EventStatus, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", true
	}
	status := domain.EventStatus(s)
	return status, status.IsValid()
}

// EventListResponse is the catalog listing
type EventListResponse struct {
	Events []domain.Event `json:"events"`
}
