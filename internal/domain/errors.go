package domain

import "errors"

// Domain errors
var (
	// Catalog errors
	ErrEventNotFound = errors.New("event not found")
	ErrCatalogEmpty  = errors.New("catalog source returned no records")

	// Mint errors
	ErrNotMintable     = errors.New("event is not open for minting")
	ErrAlreadyMinted   = errors.New("ticket already minted")
	ErrMintInProgress  = errors.New("mint already in progress")
	ErrMintFailed      = errors.New("mint transaction failed")
	ErrMintCancelled   = errors.New("mint cancelled")
	ErrTicketNotMinted = errors.New("ticket not minted")

	// Wallet errors
	ErrWalletNotConnected = errors.New("wallet not connected")
	ErrInvalidAddress     = errors.New("invalid wallet address")
	ErrChecksumMismatch   = errors.New("wallet address checksum mismatch")
	ErrInvalidSession     = errors.New("invalid wallet session")
	ErrSessionExpired     = errors.New("wallet session expired")
)

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrTicketNotMinted)
}

// IsWalletError checks if the error comes from the wallet boundary
func IsWalletError(err error) bool {
	return errors.Is(err, ErrWalletNotConnected) ||
		errors.Is(err, ErrInvalidAddress) ||
		errors.Is(err, ErrChecksumMismatch)
}

// IsSessionError checks if the error is a session token error
func IsSessionError(err error) bool {
	return errors.Is(err, ErrInvalidSession) ||
		errors.Is(err, ErrSessionExpired)
}

// IsConflictError checks if the error is a state conflict
func IsConflictError(err error) bool {
	return errors.Is(err, ErrNotMintable) ||
		errors.Is(err, ErrAlreadyMinted) ||
		errors.Is(err, ErrMintInProgress)
}
