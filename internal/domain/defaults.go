package domain

import "fmt"

// Default values applied by the catalog normalizer
const (
	DefaultDescription     = ""
	DefaultLocation        = "TBD"
	DefaultImage           = ""
	DefaultOrganizer       = "Unknown"
	DefaultSupply          = 100
	DefaultPrice           = 0.0
	DefaultCurrency        = "USDC"
	DefaultContractAddress = "0x0"
	DefaultStatus          = EventStatusUpcoming
)

// DefaultTitle is the placeholder title for the record at 1-based position n
func DefaultTitle(n int) string {
	return fmt.Sprintf("Untitled Event %d", n)
}

// DefaultID is the identity given to a record at 1-based position n without an id
func DefaultID(n int) string {
	return fmt.Sprintf("event-%d", n)
}
