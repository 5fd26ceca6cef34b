package catalog

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravkun27/nftix/internal/domain"
)

var fixedNow = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

func TestNormalize_EmptyRecordGetsEveryDefault(t *testing.T) {
	events := Normalize([]RawRecord{{}}, fixedNow)
	require.Len(t, events, 1)

	e := events[0]
	assert.Equal(t, "event-1", e.ID)
	assert.Equal(t, "Untitled Event 1", e.Title)
	assert.Equal(t, "", e.Description)
	assert.Equal(t, "TBD", e.Location)
	assert.Equal(t, "2025-07-01T12:00:00Z", e.Date)
	assert.Equal(t, "", e.Image)
	assert.Equal(t, "Unknown", e.Organizer)
	assert.Equal(t, 100, e.Supply)
	assert.Equal(t, 0.0, e.Price)
	assert.Equal(t, "USDC", e.Currency)
	assert.Equal(t, "0x0", e.ContractAddress)
	assert.Equal(t, 0, e.GradientID)
	assert.NotNil(t, e.Tags)
	assert.Empty(t, e.Tags)
	assert.Equal(t, domain.EventStatusUpcoming, e.Status)
}

func TestNormalize_NilRecordAndNullFields(t *testing.T) {
	records := []RawRecord{
		nil,
		{"id": nil, "title": nil, "supply": nil, "tags": nil, "status": nil, "date": nil},
	}

	events := Normalize(records, fixedNow)
	require.Len(t, events, 2)
	assert.Equal(t, "Untitled Event 1", events[0].Title)
	assert.Equal(t, "Untitled Event 2", events[1].Title)
	assert.Equal(t, "event-2", events[1].ID)
	assert.Equal(t, 1, events[1].GradientID)
	assert.Equal(t, 100, events[1].Supply)
}

func TestNormalize_WrongTypedFieldsDegradeToDefaults(t *testing.T) {
	rec := RawRecord{
		"id":              map[string]any{"nested": true},
		"title":           42,
		"description":     []any{"x"},
		"location":        false,
		"date":            "next tuesday",
		"organizer":       3.5,
		"supply":          "lots",
		"price":           -10,
		"currency":        "",
		"contractAddress": 7,
		"gradientId":      "blue",
		"tags":            "a,b",
		"status":          99,
	}

	e := Normalize([]RawRecord{rec}, fixedNow)[0]
	assert.Equal(t, "event-1", e.ID)
	assert.Equal(t, "Untitled Event 1", e.Title)
	assert.Equal(t, "", e.Description)
	assert.Equal(t, "TBD", e.Location)
	assert.Equal(t, "2025-07-01T12:00:00Z", e.Date)
	assert.Equal(t, "Unknown", e.Organizer)
	assert.Equal(t, 100, e.Supply)
	assert.Equal(t, 0.0, e.Price)
	assert.Equal(t, "USDC", e.Currency)
	assert.Equal(t, "0x0", e.ContractAddress)
	assert.Equal(t, 0, e.GradientID)
	assert.Empty(t, e.Tags)
	assert.Equal(t, domain.EventStatusUpcoming, e.Status)
}

func TestNormalize_FullRecord(t *testing.T) {
	rec := RawRecord{
		"id":              "evt-cyber",
		"title":           "CyberCon 2025",
		"description":     "The premier event for blockchain and AI innovators.",
		"location":        "Neo Tokyo, Dome 3",
		"date":            "2025-08-10T20:30:00+09:00",
		"image":           "https://example.com/cyber.png",
		"organizer":       "NFTiX Labs",
		"supply":          250.0,
		"price":           49.5,
		"currency":        "ETH",
		"contractAddress": "0xabc",
		"gradientId":      3.0,
		"tags":            []any{"ai", "web3", "summit"},
		"status":          "minting",
	}

	e := Normalize([]RawRecord{rec}, fixedNow)[0]
	assert.Equal(t, "evt-cyber", e.ID)
	assert.Equal(t, "CyberCon 2025", e.Title)
	assert.Equal(t, "2025-08-10T11:30:00Z", e.Date)
	assert.Equal(t, 250, e.Supply)
	assert.Equal(t, 49.5, e.Price)
	assert.Equal(t, "ETH", e.Currency)
	assert.Equal(t, 3, e.GradientID)
	assert.Equal(t, []string{"ai", "web3", "summit"}, e.Tags)
	assert.Equal(t, domain.EventStatusMinting, e.Status)
}

func TestNormalize_IDCoercion(t *testing.T) {
	records := []RawRecord{
		{"id": 7.0},
		{"id": 7.5},
		{"id": json.Number("12")},
		{"id": true},
		{"id": " abc "},
		{"id": ""},
		{"id": 3},
	}

	events := Normalize(records, fixedNow)
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{"7", "7.5", "12", "true", "abc", "event-6", "3"}, ids)
}

func TestNormalize_TitleWinsOverName(t *testing.T) {
	events := Normalize([]RawRecord{
		{"title": "Title", "name": "Name"},
		{"name": "Legacy Name"},
		{"title": "   ", "name": "Fallback"},
		{},
	}, fixedNow)

	assert.Equal(t, "Title", events[0].Title)
	assert.Equal(t, "Legacy Name", events[1].Title)
	assert.Equal(t, "Fallback", events[2].Title)
	assert.Equal(t, "Untitled Event 4", events[3].Title)
}

func TestNormalize_UnknownStatusIsUpcoming(t *testing.T) {
	e := Normalize([]RawRecord{{"status": "weird"}}, fixedNow)[0]
	assert.Equal(t, domain.EventStatusUpcoming, e.Status)
}

func TestNormalize_GradientDefaultsToIndex(t *testing.T) {
	events := Normalize([]RawRecord{{}, {}, {"gradientId": 7}}, fixedNow)
	assert.Equal(t, 0, events[0].GradientID)
	assert.Equal(t, 1, events[1].GradientID)
	assert.Equal(t, 7, events[2].GradientID)
}

func TestNormalize_NumericEdgeCases(t *testing.T) {
	events := Normalize([]RawRecord{
		{"supply": 2.9, "price": "12.25"},
		{"supply": -1, "price": math.NaN()},
		{"supply": "0", "price": math.Inf(1)},
		{"supply": int64(5), "gradientId": -3},
	}, fixedNow)

	assert.Equal(t, 2, events[0].Supply)
	assert.Equal(t, 12.25, events[0].Price)
	assert.Equal(t, 100, events[1].Supply)
	assert.Equal(t, 0.0, events[1].Price)
	assert.Equal(t, 0, events[2].Supply)
	assert.Equal(t, 0.0, events[2].Price)
	assert.Equal(t, 5, events[3].Supply)
	assert.Equal(t, -3, events[3].GradientID)
}

func TestNormalize_SupplyClampsLargeValues(t *testing.T) {
	events := Normalize([]RawRecord{
		{"supply": 5e9},
		{"supply": "9999999999"},
		{"supply": float64(math.MaxInt32)},
	}, fixedNow)

	assert.Equal(t, math.MaxInt32, events[0].Supply)
	assert.Equal(t, math.MaxInt32, events[1].Supply)
	assert.Equal(t, math.MaxInt32, events[2].Supply)
}

func TestNormalize_DateForms(t *testing.T) {
	events := Normalize([]RawRecord{
		{"date": "2025-08-10"},
		{"date": "2025-09-14T18:00:00"},
		{"date": 1754857800000.0},
		{"date": time.Date(2025, 10, 2, 9, 0, 0, 0, time.UTC)},
		{"date": ""},
	}, fixedNow)

	assert.Equal(t, "2025-08-10T00:00:00Z", events[0].Date)
	assert.Equal(t, "2025-09-14T18:00:00Z", events[1].Date)
	assert.Equal(t, "2025-08-10T20:30:00Z", events[2].Date)
	assert.Equal(t, "2025-10-02T09:00:00Z", events[3].Date)
	assert.Equal(t, "2025-07-01T12:00:00Z", events[4].Date)
}

func TestNormalize_TagsDropNonStrings(t *testing.T) {
	e := Normalize([]RawRecord{{"tags": []any{"music", 1, nil, "live"}}}, fixedNow)[0]
	assert.Equal(t, []string{"music", "live"}, e.Tags)
}

func TestNormalize_SameLengthNeverPanics(t *testing.T) {
	records := []RawRecord{
		{}, nil, {"tags": []any{nil}}, {"date": map[string]any{}}, {"price": []any{}},
	}
	assert.NotPanics(t, func() {
		events := Normalize(records, fixedNow)
		assert.Len(t, events, len(records))
		for _, e := range events {
			assert.NotEmpty(t, e.ID)
			assert.NotEmpty(t, e.Title)
			assert.NotEmpty(t, e.Date)
			assert.NotNil(t, e.Tags)
			assert.True(t, e.Status.IsValid())
		}
	})
}

func TestFilterByStatus_KeepsOriginalOrder(t *testing.T) {
	events := Normalize([]RawRecord{
		{"id": "a", "status": "minting"},
		{"id": "b", "status": "upcoming"},
		{"id": "c", "status": "sold-out"},
		{"id": "d", "status": "minting"},
	}, fixedNow)

	minting := FilterByStatus(events, domain.EventStatusMinting)
	require.Len(t, minting, 2)
	assert.Equal(t, "a", minting[0].ID)
	assert.Equal(t, "d", minting[1].ID)
}
