package dto

import (
	"strings"
	"time"

	"github.com/ravkun27/nftix/internal/wallet"
)

// ConnectWalletRequest represents the request to connect a wallet
type ConnectWalletRequest struct {
	Address string `json:"address" binding:"required"`
}

// Validate validates the ConnectWalletRequest
func (r *ConnectWalletRequest) Validate() (bool, string) {
	if strings.TrimSpace(r.Address) == "" {
		return false, "Wallet address is required"
	}
	return true, ""
}

// AccountResponse is the current wallet account
type AccountResponse struct {
	Address      string `json:"address,omitempty"`
	ShortAddress string `json:"shortAddress,omitempty"`
	IsConnected  bool   `json:"isConnected"`
}

// SessionResponse is returned after a successful connect
type SessionResponse struct {
	Token     string          `json:"token"`
	ExpiresAt string          `json:"expiresAt"`
	Account   AccountResponse `json:"account"`
}

// ToAccountResponse converts an account to its response form
func ToAccountResponse(a wallet.Account) AccountResponse {
	if !a.IsConnected {
		return AccountResponse{}
	}
	return AccountResponse{
		Address:      a.Address,
		ShortAddress: wallet.ShortAddress(a.Address),
		IsConnected:  true,
	}
}

// ToSessionResponse converts a session to its response form
func ToSessionResponse(s *wallet.Session) *SessionResponse {
	return &SessionResponse{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt.UTC().Format(time.RFC3339),
		Account:   ToAccountResponse(s.Account()),
	}
}
