package mintflow

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravkun27/nftix/internal/domain"
)

func TestDefaultSimulatedConfig(t *testing.T) {
	cfg := DefaultSimulatedConfig()

	assert.Equal(t, 2000*time.Millisecond, cfg.Delay)
	assert.Equal(t, 1.0, cfg.SuccessRate)
	assert.NotEmpty(t, cfg.FailureReasons)
}

func TestNewSimulatedGateway_ClampsSuccessRate(t *testing.T) {
	assert.Equal(t, 1.0, NewSimulatedGateway(&SimulatedConfig{SuccessRate: 3}).config.SuccessRate)
	assert.Equal(t, 0.0, NewSimulatedGateway(&SimulatedConfig{SuccessRate: -1}).config.SuccessRate)
	assert.NotNil(t, NewSimulatedGateway(nil).config)
}

func TestSimulatedGateway_Submit(t *testing.T) {
	g := NewSimulatedGateway(&SimulatedConfig{SuccessRate: 1})
	fixed := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	g.clock = func() time.Time { return fixed }

	r, err := g.Submit(context.Background(), &MintRequest{EventID: "evt-1", Owner: "0xabc"})
	require.NoError(t, err)
	assert.Equal(t, "evt-1", r.EventID)
	assert.Equal(t, "0xabc", r.Owner)
	assert.Equal(t, fixed, r.MintedAt)
	assert.True(t, strings.HasPrefix(r.TxHash, "0x"))
	assert.Len(t, r.TxHash, 66)
	assert.Len(t, r.TokenID, 8)
}

func TestSimulatedGateway_Reject(t *testing.T) {
	g := NewSimulatedGateway(&SimulatedConfig{SuccessRate: 0.5})
	g.roll = func() float64 { return 0.9 }

	_, err := g.Submit(context.Background(), &MintRequest{EventID: "evt-1"})
	assert.ErrorIs(t, err, domain.ErrMintFailed)
}

func TestSimulatedGateway_CanceledDuringDelay(t *testing.T) {
	g := NewSimulatedGateway(&SimulatedConfig{Delay: time.Hour, SuccessRate: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Submit(ctx, &MintRequest{EventID: "evt-1"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulatedGateway_NilRequest(t *testing.T) {
	_, err := NewSimulatedGateway(nil).Submit(context.Background(), nil)
	assert.Error(t, err)
}
