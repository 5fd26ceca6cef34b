package mintflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ravkun27/nftix/internal/domain"
	"github.com/ravkun27/nftix/internal/mint"
)

// MockGateway is a mock implementation of Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Submit(ctx context.Context, req *MintRequest) (*Receipt, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Receipt), args.Error(1)
}

func mintingEvent() domain.Event {
	return domain.Event{ID: "evt-1", Status: domain.EventStatusMinting, ContractAddress: "0xabc"}
}

func fastGateway(successRate float64) *SimulatedGateway {
	return NewSimulatedGateway(&SimulatedConfig{Delay: 5 * time.Millisecond, SuccessRate: successRate})
}

func TestStateLabels(t *testing.T) {
	tests := []struct {
		state    State
		label    string
		disabled bool
	}{
		{StateDisconnected, "CONNECT WALLET", false},
		{StateReadyToMint, "MINT", false},
		{StateMinting, "MINTING...", true},
		{StateMinted, "MINTED", true},
		{StateUnavailable, "SOON", true},
	}
	for _, tt := range tests {
		view := tt.state.View()
		assert.Equal(t, tt.label, view.Label)
		assert.Equal(t, tt.disabled, view.Disabled)
		assert.Equal(t, string(tt.state), view.State)
	}
}

func TestInitialState(t *testing.T) {
	minting := mintingEvent()
	upcoming := domain.Event{ID: "evt-2", Status: domain.EventStatusUpcoming}

	assert.Equal(t, StateMinted, InitialState(upcoming, true, false))
	assert.Equal(t, StateUnavailable, InitialState(upcoming, false, true))
	assert.Equal(t, StateReadyToMint, InitialState(minting, false, true))
	assert.Equal(t, StateDisconnected, InitialState(minting, false, false))
}

func TestButton_FullMintFlow(t *testing.T) {
	store := mint.NewStore()
	var hooked *Receipt
	b := NewButton(mintingEvent(), store, fastGateway(1), false,
		WithOwner("0xOwner"),
		OnMinted(func(r *Receipt) { hooked = r }),
	)
	defer b.Close()

	assert.Equal(t, StateDisconnected, b.State())
	assert.ErrorIs(t, b.Click(context.Background()), domain.ErrWalletNotConnected)

	assert.Equal(t, StateReadyToMint, b.Connect(nil))
	assert.Equal(t, "MINT", b.View().Label)

	require.NoError(t, b.Click(context.Background()))
	assert.Equal(t, StateMinting, b.State())
	assert.ErrorIs(t, b.Click(context.Background()), domain.ErrMintInProgress)

	state, receipt, err := b.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateMinted, state)
	require.NotNil(t, receipt)
	assert.Equal(t, "evt-1", receipt.EventID)
	assert.Equal(t, "0xOwner", receipt.Owner)
	assert.Len(t, receipt.TxHash, 66)
	assert.Same(t, receipt, hooked)

	assert.True(t, store.IsMinted("evt-1"))
	assert.True(t, b.View().Disabled)
	assert.Equal(t, "MINTED", b.View().Label)

	// minted is sticky
	assert.Equal(t, StateMinted, b.Disconnect())
	assert.ErrorIs(t, b.Click(context.Background()), domain.ErrAlreadyMinted)
}

func TestButton_StartsMintedFromStore(t *testing.T) {
	store := mint.NewStore()
	store.Mint("evt-1")

	b := NewButton(mintingEvent(), store, fastGateway(1), true)
	assert.Equal(t, StateMinted, b.State())
}

func TestButton_FailureAllowsRetry(t *testing.T) {
	gw := new(MockGateway)
	gw.On("Submit", mock.Anything, mock.Anything).Return(nil, errors.New("rpc unavailable")).Once()
	gw.On("Submit", mock.Anything, mock.Anything).Return(&Receipt{EventID: "evt-1", TxHash: "0x1"}, nil).Once()

	store := mint.NewStore()
	b := NewButton(mintingEvent(), store, gw, true)
	defer b.Close()

	require.NoError(t, b.Click(context.Background()))
	state, _, err := b.Wait(context.Background())
	assert.ErrorIs(t, err, domain.ErrMintFailed)
	assert.Equal(t, StateReadyToMint, state)
	assert.False(t, store.IsMinted("evt-1"))

	require.NoError(t, b.Click(context.Background()))
	state, _, err = b.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateMinted, state)
	assert.True(t, store.IsMinted("evt-1"))
	gw.AssertExpectations(t)
}

func TestButton_SimulatedRejection(t *testing.T) {
	store := mint.NewStore()
	b := NewButton(mintingEvent(), store, fastGateway(0), true)
	defer b.Close()

	require.NoError(t, b.Click(context.Background()))
	state, receipt, err := b.Wait(context.Background())

	assert.ErrorIs(t, err, domain.ErrMintFailed)
	assert.Nil(t, receipt)
	assert.Equal(t, StateReadyToMint, state)
	assert.False(t, store.IsMinted("evt-1"))
}

func TestButton_CloseCancelsPendingMint(t *testing.T) {
	store := mint.NewStore()
	gw := NewSimulatedGateway(&SimulatedConfig{Delay: time.Hour, SuccessRate: 1})
	b := NewButton(mintingEvent(), store, gw, true)

	require.NoError(t, b.Click(context.Background()))

	closed := make(chan struct{})
	go func() {
		b.Close()
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not cancel the pending mint")
	}

	_, _, err := b.Wait(context.Background())
	assert.ErrorIs(t, err, domain.ErrMintCancelled)
	assert.False(t, store.IsMinted("evt-1"))
	assert.ErrorIs(t, b.Click(context.Background()), domain.ErrMintCancelled)

	b.Close()
}

func TestButton_WaitHonorsContext(t *testing.T) {
	gw := NewSimulatedGateway(&SimulatedConfig{Delay: time.Hour, SuccessRate: 1})
	b := NewButton(mintingEvent(), mint.NewStore(), gw, true)
	defer b.Close()

	require.NoError(t, b.Click(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	state, _, err := b.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StateMinting, state)
}

func TestButton_WaitAfterCancelReportsRecordedMint(t *testing.T) {
	gw := NewSimulatedGateway(&SimulatedConfig{Delay: 0, SuccessRate: 1})

	for i := 0; i < 100; i++ {
		store := mint.NewStore()
		b := NewButton(mintingEvent(), store, gw, true)

		ctx, cancel := context.WithCancel(context.Background())
		require.NoError(t, b.Click(ctx))
		require.Eventually(t, func() bool { return store.IsMinted("evt-1") }, time.Second, time.Millisecond)
		cancel()

		state, receipt, err := b.Wait(ctx)
		require.NoError(t, err, "iteration %d", i)
		assert.Equal(t, StateMinted, state)
		assert.NotNil(t, receipt)
		b.Close()
	}
}

func TestButton_UnavailableEvent(t *testing.T) {
	e := domain.Event{ID: "evt-2", Status: domain.EventStatusSoldOut}
	b := NewButton(e, mint.NewStore(), fastGateway(1), true)

	assert.Equal(t, StateUnavailable, b.State())
	assert.Equal(t, "SOON", b.View().Label)
	assert.ErrorIs(t, b.Click(context.Background()), domain.ErrNotMintable)
	assert.Equal(t, StateUnavailable, b.Connect(nil))
}

func TestButton_ConnectFailureKeepsState(t *testing.T) {
	b := NewButton(mintingEvent(), mint.NewStore(), fastGateway(1), false)

	assert.Equal(t, StateDisconnected, b.Connect(errors.New("user rejected request")))
	assert.Equal(t, StateReadyToMint, b.Connect(nil))
	assert.Equal(t, StateDisconnected, b.Disconnect())
}

func TestButton_WaitWithoutPending(t *testing.T) {
	b := NewButton(mintingEvent(), mint.NewStore(), fastGateway(1), true)

	state, receipt, err := b.Wait(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, receipt)
	assert.Equal(t, StateReadyToMint, state)
}
