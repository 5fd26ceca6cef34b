package render

import (
	"strconv"
	"time"

	"github.com/ravkun27/nftix/internal/domain"
)

// MaxCardTags is how many tags a card shows
const MaxCardTags = 2

// Flags toggle optional card sections
type Flags struct {
	ShowPrice  bool `json:"showPrice"`
	ShowSupply bool `json:"showSupply"`
	ShowTags   bool `json:"showTags"`
}

// DefaultFlags shows every section
func DefaultFlags() Flags {
	return Flags{ShowPrice: true, ShowSupply: true, ShowTags: true}
}

// ButtonView is the rendered mint button
type ButtonView struct {
	State    string `json:"state"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

// CardView is everything a client needs to draw an event card
type CardView struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	Location        string             `json:"location"`
	Organizer       string             `json:"organizer"`
	Image           string             `json:"image,omitempty"`
	HasImage        bool               `json:"hasImage"`
	Gradient        string             `json:"gradient"`
	Status          domain.EventStatus `json:"status"`
	StatusStyle     StatusStyle        `json:"statusStyle"`
	SupplyBadge     string             `json:"supplyBadge,omitempty"`
	Price           *float64           `json:"price,omitempty"`
	Currency        string             `json:"currency,omitempty"`
	Tags            []string           `json:"tags,omitempty"`
	Date            DateParts          `json:"date"`
	Timestamp       string             `json:"timestamp"`
	ContractAddress string             `json:"contractAddress"`
	Minted          bool               `json:"minted"`
	Button          ButtonView         `json:"button"`
}

// SupplyBadge renders the remaining supply. It looks at supply only, so a
// minting event with zero supply still reads SOLD OUT.
func SupplyBadge(supply int) string {
	if supply > 0 {
		return strconv.Itoa(supply) + " LEFT"
	}
	return "SOLD OUT"
}

// CardTags returns at most MaxCardTags tags, each prefixed with '#'
func CardTags(tags []string) []string {
	n := len(tags)
	if n > MaxCardTags {
		n = MaxCardTags
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = "#" + tags[i]
	}
	return out
}

// Card derives the display descriptor of one event
func Card(e domain.Event, flags Flags, minted bool, button ButtonView, loc *time.Location) CardView {
	date := FormatDate(e.StartsAt(), Full, loc)

	view := CardView{
		ID:              e.ID,
		Title:           e.Title,
		Location:        e.Location,
		Organizer:       e.Organizer,
		Image:           e.Image,
		HasImage:        e.Image != "",
		Gradient:        pickGradient(CardGradients, e.GradientID),
		Status:          e.Status,
		StatusStyle:     StyleFor(e.Status),
		Date:            date.Short,
		Timestamp:       date.Full,
		ContractAddress: e.ContractAddress,
		Minted:          minted,
		Button:          button,
	}

	if flags.ShowSupply {
		view.SupplyBadge = SupplyBadge(e.Supply)
	}
	if flags.ShowPrice {
		price := e.Price
		view.Price = &price
		view.Currency = e.Currency
	}
	if flags.ShowTags && len(e.Tags) > 0 {
		view.Tags = CardTags(e.Tags)
	}

	return view
}
