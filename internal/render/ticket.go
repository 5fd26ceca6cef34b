package render

import (
	"time"

	"github.com/ravkun27/nftix/internal/countdown"
	"github.com/ravkun27/nftix/internal/domain"
)

const (
	TicketBrand        = "NFTiX"
	TicketSubtitle     = "DIGITAL ACCESS TOKEN"
	TicketBackTitle    = "ACCESS PROTOCOL"
	UnassignedOwner    = "UNASSIGNED"
	TicketStatusActive = "ACTIVE"
)

// TicketFront is the face of the animated ticket card
type TicketFront struct {
	Brand     string          `json:"brand"`
	Subtitle  string          `json:"subtitle"`
	TicketID  string          `json:"ticketId"`
	EventName string          `json:"eventName"`
	Location  string          `json:"location"`
	Gradient  string          `json:"gradient"`
	Countdown countdown.Parts `json:"countdown"`
}

// TicketBack is the flipped side of the ticket card
type TicketBack struct {
	Title     string `json:"title"`
	EventName string `json:"eventName"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
	Owner     string `json:"owner"`
}

// TicketView is an NFT ticket card
type TicketView struct {
	EventID string      `json:"eventId"`
	Front   TicketFront `json:"front"`
	Back    TicketBack  `json:"back"`
}

// TicketCard renders the ticket for an event. An empty owner shows as UNASSIGNED.
func TicketCard(e domain.Event, ticketID, owner string, loc *time.Location, now time.Time) TicketView {
	startsAt := e.StartsAt()
	if owner == "" {
		owner = UnassignedOwner
	}

	return TicketView{
		EventID: e.ID,
		Front: TicketFront{
			Brand:     TicketBrand,
			Subtitle:  TicketSubtitle,
			TicketID:  "#" + ticketID,
			EventName: e.Title,
			Location:  e.Location,
			Gradient:  pickGradient(TicketGradients, e.GradientID),
			Countdown: countdown.Remaining(now, startsAt),
		},
		Back: TicketBack{
			Title:     TicketBackTitle,
			EventName: e.Title,
			Timestamp: FormatDate(startsAt, Full, loc).Full,
			Status:    TicketStatusActive,
			Owner:     owner,
		},
	}
}
