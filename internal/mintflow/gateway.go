package mintflow

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ravkun27/nftix/internal/domain"
)

// MintRequest asks the chain to mint one ticket
type MintRequest struct {
	EventID         string
	ContractAddress string
	Owner           string
}

// Receipt describes a confirmed mint
type Receipt struct {
	EventID  string    `json:"eventId"`
	TokenID  string    `json:"tokenId"`
	TxHash   string    `json:"txHash"`
	Owner    string    `json:"owner"`
	MintedAt time.Time `json:"mintedAt"`
}

// Gateway submits mint transactions and waits for confirmation
type Gateway interface {
	Submit(ctx context.Context, req *MintRequest) (*Receipt, error)
}

// SimulatedConfig holds configuration for the simulated chain
type SimulatedConfig struct {
	// Delay stands in for waiting on a real blockchain transaction
	Delay time.Duration

	// SuccessRate is the probability a submission confirms (0.0 to 1.0)
	SuccessRate float64

	// FailureReasons are reported on rejected submissions
	FailureReasons []string
}

// DefaultSimulatedConfig returns the reference 2s, always-succeeding chain
func DefaultSimulatedConfig() *SimulatedConfig {
	return &SimulatedConfig{
		Delay:       2000 * time.Millisecond,
		SuccessRate: 1,
		FailureReasons: []string{
			"execution_reverted",
			"gas_estimation_failed",
			"nonce_too_low",
			"transaction_underpriced",
		},
	}
}

// SimulatedGateway pretends to mint on chain. No transaction leaves the process.
type SimulatedGateway struct {
	config *SimulatedConfig
	roll   func() float64
	clock  func() time.Time
}

// NewSimulatedGateway creates a SimulatedGateway
func NewSimulatedGateway(config *SimulatedConfig) *SimulatedGateway {
	if config == nil {
		config = DefaultSimulatedConfig()
	}
	if config.SuccessRate < 0 {
		config.SuccessRate = 0
	}
	if config.SuccessRate > 1 {
		config.SuccessRate = 1
	}
	if len(config.FailureReasons) == 0 {
		config.FailureReasons = DefaultSimulatedConfig().FailureReasons
	}

	return &SimulatedGateway{
		config: config,
		roll:   rand.Float64,
		clock:  time.Now,
	}
}

// Submit waits out the configured delay and then confirms or rejects the mint.
// It returns ctx.Err() if ctx is done first.
func (g *SimulatedGateway) Submit(ctx context.Context, req *MintRequest) (*Receipt, error) {
	if req == nil {
		return nil, fmt.Errorf("mint request is required")
	}

	if g.config.Delay > 0 {
		timer := time.NewTimer(g.config.Delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if g.roll() >= g.config.SuccessRate {
		reason := g.config.FailureReasons[rand.Intn(len(g.config.FailureReasons))]
		return nil, fmt.Errorf("%w: %s", domain.ErrMintFailed, reason)
	}

	return &Receipt{
		EventID:  req.EventID,
		TokenID:  strings.ToUpper(uuid.New().String()[:8]),
		TxHash:   newTxHash(),
		Owner:    req.Owner,
		MintedAt: g.clock().UTC(),
	}, nil
}

// newTxHash builds a 32-byte hex hash from two random UUIDs
func newTxHash() string {
	a, b := uuid.New(), uuid.New()
	return fmt.Sprintf("0x%x%x", a[:], b[:])
}
