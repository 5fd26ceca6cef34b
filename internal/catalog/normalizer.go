package catalog

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ravkun27/nftix/internal/domain"
)

// RawRecord is a loosely typed catalog entry as decoded from JSON, YAML or JSONB
type RawRecord map[string]any

// accepted date layouts, tried in order
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Normalize maps raw records onto fully populated events, one per record and
// in the same order. It never fails: malformed fields fall back to defaults.
func Normalize(records []RawRecord, now time.Time) []domain.Event {
	events := make([]domain.Event, len(records))
	for i, rec := range records {
		events[i] = NormalizeRecord(rec, i, now)
	}
	return events
}

// NormalizeRecord normalizes the record found at 0-based catalog index.
func NormalizeRecord(rec RawRecord, index int, now time.Time) domain.Event {
	position := index + 1

	e := domain.Event{
		ID:              domain.DefaultID(position),
		Title:           domain.DefaultTitle(position),
		Description:     domain.DefaultDescription,
		Location:        domain.DefaultLocation,
		Date:            now.UTC().Format(time.RFC3339),
		Image:           domain.DefaultImage,
		Organizer:       domain.DefaultOrganizer,
		Supply:          domain.DefaultSupply,
		Price:           domain.DefaultPrice,
		Currency:        domain.DefaultCurrency,
		ContractAddress: domain.DefaultContractAddress,
		GradientID:      index,
		Tags:            []string{},
		Status:          domain.DefaultStatus,
	}

	if rec == nil {
		return e
	}

	if id, ok := scalarString(rec["id"]); ok && id != "" {
		e.ID = id
	}

	// title wins over the legacy name field
	if title, ok := nonBlank(rec["title"]); ok {
		e.Title = title
	} else if name, ok := nonBlank(rec["name"]); ok {
		e.Title = name
	}

	if s, ok := rec["description"].(string); ok {
		e.Description = s
	}
	if s, ok := nonBlank(rec["location"]); ok {
		e.Location = s
	}
	if t, ok := parseDate(rec["date"]); ok {
		e.Date = t.UTC().Format(time.RFC3339)
	}
	if s, ok := rec["image"].(string); ok {
		e.Image = strings.TrimSpace(s)
	}
	if s, ok := nonBlank(rec["organizer"]); ok {
		e.Organizer = s
	}
	if n, ok := number(rec["supply"]); ok && n >= 0 {
		e.Supply = int(math.Min(n, math.MaxInt32))
	}
	if n, ok := number(rec["price"]); ok && n >= 0 {
		e.Price = n
	}
	if s, ok := nonBlank(rec["currency"]); ok {
		e.Currency = s
	}
	if s, ok := nonBlank(rec["contractAddress"]); ok {
		e.ContractAddress = s
	}
	if n, ok := number(rec["gradientId"]); ok && math.Abs(n) <= math.MaxInt32 {
		e.GradientID = int(n)
	}
	if tags, ok := rec["tags"].([]any); ok {
		for _, t := range tags {
			if s, ok := t.(string); ok {
				e.Tags = append(e.Tags, s)
			}
		}
	}
	if s, ok := rec["status"].(string); ok {
		e.Status = domain.ParseEventStatus(s)
	}

	return e
}

// FilterByStatus keeps the events with the given status, preserving order
func FilterByStatus(events []domain.Event, status domain.EventStatus) []domain.Event {
	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

func nonBlank(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// scalarString renders a scalar the way it would appear as a JSON key
func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x), true
	case json.Number:
		return x.String(), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "", false
		}
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		return "", false
	}
}

// number accepts numeric values and numeric strings, rejecting NaN and ±Inf
func number(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseDate accepts ISO-8601 strings, YAML timestamps and Unix milliseconds
func parseDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		ms, ok := number(v)
		if !ok || math.Abs(ms) > 8.64e15 {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(ms)), true
	}
}
