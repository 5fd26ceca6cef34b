package dto

import (
	"time"

	"github.com/ravkun27/nftix/internal/mintflow"
	"github.com/ravkun27/nftix/internal/render"
)

// ReceiptResponse is a confirmed mint transaction
type ReceiptResponse struct {
	TokenID  string `json:"tokenId"`
	TxHash   string `json:"txHash"`
	Owner    string `json:"owner"`
	MintedAt string `json:"mintedAt"`
}

// MintResponse is the card after a confirmed mint, plus its receipt
type MintResponse struct {
	Card    render.CardView  `json:"card"`
	Receipt *ReceiptResponse `json:"receipt,omitempty"`
}

// ToReceiptResponse converts a receipt to its response form
func ToReceiptResponse(r *mintflow.Receipt) *ReceiptResponse {
	if r == nil {
		return nil
	}
	return &ReceiptResponse{
		TokenID:  r.TokenID,
		TxHash:   r.TxHash,
		Owner:    r.Owner,
		MintedAt: r.MintedAt.UTC().Format(time.RFC3339),
	}
}
