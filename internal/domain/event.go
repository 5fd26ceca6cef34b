package domain

import (
	"strings"
	"time"
)

// EventStatus is the lifecycle stage of an event
type EventStatus string

const (
	EventStatusMinting  EventStatus = "minting"
	EventStatusUpcoming EventStatus = "upcoming"
	EventStatusOngoing  EventStatus = "ongoing"
	EventStatusSoldOut  EventStatus = "sold-out"
	EventStatusLive     EventStatus = "live"
)

// validStatuses is the closed set of statuses a catalog record may carry
var validStatuses = map[EventStatus]struct{}{
	EventStatusMinting:  {},
	EventStatusUpcoming: {},
	EventStatusOngoing:  {},
	EventStatusSoldOut:  {},
	EventStatusLive:     {},
}

// ParseEventStatus maps free-form input onto the closed status set.
// Anything unrecognized resolves to upcoming.
func ParseEventStatus(s string) EventStatus {
	status := EventStatus(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := validStatuses[status]; ok {
		return status
	}
	return EventStatusUpcoming
}

// IsValid returns true if the status belongs to the closed set
func (s EventStatus) IsValid() bool {
	_, ok := validStatuses[s]
	return ok
}

// IsMintable returns true if tickets for the event can be minted
func (s EventStatus) IsMintable() bool {
	return s == EventStatusMinting
}

// Event is a fully populated catalog entry
type Event struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Location        string      `json:"location"`
	Date            string      `json:"date"` // RFC3339, UTC
	Image           string      `json:"image"`
	Organizer       string      `json:"organizer"`
	Supply          int         `json:"supply"`
	Price           float64     `json:"price"`
	Currency        string      `json:"currency"`
	ContractAddress string      `json:"contractAddress"`
	GradientID      int         `json:"gradientId"`
	Tags            []string    `json:"tags"`
	Status          EventStatus `json:"status"`
}

// StartsAt parses the event date. Normalized events always carry a valid
// RFC3339 date; the zero time is returned otherwise.
func (e *Event) StartsAt() time.Time {
	t, err := time.Parse(time.RFC3339, e.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// IsMintable returns true if the event is currently minting
func (e *Event) IsMintable() bool {
	return e.Status.IsMintable()
}
