package render

import (
	"strings"
	"time"
)

// Verbosity selects how much of a date FormatDate renders
type Verbosity int

const (
	// Short is the card-front label: month, day and clock time
	Short Verbosity = iota
	// Full is the back-of-card timestamp
	Full
)

// DateParts is the card-front date badge
type DateParts struct {
	Month string `json:"month"`
	Day   int    `json:"day"`
	Time  string `json:"time"`
}

// FormattedDate holds whichever rendering was asked for
type FormattedDate struct {
	Short DateParts `json:"short"`
	Full  string    `json:"full,omitempty"`
}

const (
	clockLayout = "03:04 PM"
	fullLayout  = "01/02/2006 " + clockLayout
)

// FormatDate renders t in loc. Short fills Short only, Full fills both.
func FormatDate(t time.Time, v Verbosity, loc *time.Location) FormattedDate {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)

	out := FormattedDate{
		Short: DateParts{
			Month: strings.ToUpper(local.Format("Jan")),
			Day:   local.Day(),
			Time:  local.Format(clockLayout),
		},
	}
	if v == Full {
		out.Full = local.Format(fullLayout)
	}
	return out
}
