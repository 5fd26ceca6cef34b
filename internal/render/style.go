package render

import "github.com/ravkun27/nftix/internal/domain"

// StatusStyle is the Tailwind class set of a status badge
type StatusStyle struct {
	Text       string `json:"text"`
	Background string `json:"background"`
	Border     string `json:"border"`
	Shadow     string `json:"shadow"`
}

// Classes joins the style into a single class attribute value
func (s StatusStyle) Classes() string {
	return s.Text + " " + s.Background + " " + s.Border + " " + s.Shadow
}

func paletteStyle(color string) StatusStyle {
	return StatusStyle{
		Text:       "text-" + color + "-300",
		Background: "bg-" + color + "-500/20",
		Border:     "border-" + color + "-400/60",
		Shadow:     "shadow-" + color + "-400/20",
	}
}

var (
	statusStyles = map[domain.EventStatus]StatusStyle{
		domain.EventStatusMinting:  paletteStyle("green"),
		domain.EventStatusUpcoming: paletteStyle("yellow"),
		domain.EventStatusOngoing:  paletteStyle("cyan"),
		domain.EventStatusSoldOut:  paletteStyle("red"),
	}

	// NeutralStyle covers live and any status without its own palette
	NeutralStyle = paletteStyle("gray")
)

// StyleFor maps a status onto its badge style
func StyleFor(status domain.EventStatus) StatusStyle {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return NeutralStyle
}

// CardGradients are the header backgrounds of catalog cards
var CardGradients = []string{
	"from-cyan-500/30 via-blue-600/20 to-purple-700/30",
	"from-pink-500/30 via-purple-600/20 to-blue-700/30",
	"from-green-400/30 via-cyan-500/20 to-blue-600/30",
	"from-orange-500/30 via-red-600/20 to-pink-700/30",
	"from-purple-500/30 via-indigo-600/20 to-cyan-700/30",
}

// TicketGradients are the accent gradients of NFT ticket cards
var TicketGradients = []string{
	"from-cyan-400 via-blue-500 to-purple-600",
	"from-green-400 via-cyan-500 to-blue-600",
	"from-pink-400 via-purple-500 to-indigo-600",
	"from-orange-400 via-red-500 to-pink-600",
	"from-yellow-400 via-orange-500 to-red-600",
}

// GradientIndex wraps id into [0, n), negatives included
func GradientIndex(id, n int) int {
	if n <= 0 {
		return 0
	}
	return ((id % n) + n) % n
}

func pickGradient(presets []string, id int) string {
	return presets[GradientIndex(id, len(presets))]
}
