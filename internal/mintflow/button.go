package mintflow

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/ravkun27/nftix/internal/domain"
	"github.com/ravkun27/nftix/internal/mint"
	"github.com/ravkun27/nftix/internal/render"
	"github.com/ravkun27/nftix/pkg/logger"
)

// State of a card's mint button
type State string

const (
	StateDisconnected State = "disconnected"
	StateReadyToMint  State = "ready-to-mint"
	StateMinting      State = "minting"
	StateMinted       State = "minted"
	StateUnavailable  State = "unavailable"
)

var stateLabels = map[State]string{
	StateDisconnected: "CONNECT WALLET",
	StateReadyToMint:  "MINT",
	StateMinting:      "MINTING...",
	StateMinted:       "MINTED",
	StateUnavailable:  "SOON",
}

// Label is the button caption
func (s State) Label() string {
	return stateLabels[s]
}

// Disabled reports whether the button accepts clicks
func (s State) Disabled() bool {
	return s == StateMinting || s == StateMinted || s == StateUnavailable
}

// View renders the state for a card
func (s State) View() render.ButtonView {
	return render.ButtonView{State: string(s), Label: s.Label(), Disabled: s.Disabled()}
}

// InitialState derives the state a button starts in
func InitialState(e domain.Event, minted, connected bool) State {
	switch {
	case minted:
		return StateMinted
	case !e.IsMintable():
		return StateUnavailable
	case connected:
		return StateReadyToMint
	default:
		return StateDisconnected
	}
}

// Button drives one card's mint flow. A confirmed mint is recorded in the
// store exactly once; a failed one returns to ready-to-mint so the holder can
// retry. Close cancels a pending mint, which then changes nothing.
type Button struct {
	event   domain.Event
	owner   string
	store   *mint.Store
	gateway Gateway
	log     *logger.Logger

	onMinted func(*Receipt)

	mu      sync.Mutex
	state   State
	closed  bool
	pending *pendingMint
}

type pendingMint struct {
	cancel  context.CancelFunc
	done    chan struct{}
	receipt *Receipt
	err     error
}

// Option configures a Button
type Option func(*Button)

// WithOwner sets the wallet address the ticket is minted for
func WithOwner(address string) Option {
	return func(b *Button) { b.owner = address }
}

// WithLogger sets the logger
func WithLogger(log *logger.Logger) Option {
	return func(b *Button) { b.log = log }
}

// OnMinted registers a hook that runs after the store records the mint
func OnMinted(fn func(*Receipt)) Option {
	return func(b *Button) { b.onMinted = fn }
}

// NewButton creates a button in its initial state
func NewButton(e domain.Event, store *mint.Store, gateway Gateway, connected bool, opts ...Option) *Button {
	b := &Button{
		event:   e,
		store:   store,
		gateway: gateway,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.state = InitialState(e, store.IsMinted(e.ID), connected)
	return b
}

// State returns the current state
func (b *Button) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// View renders the current state
func (b *Button) View() render.ButtonView {
	return b.State().View()
}

// Connect reports the outcome of a wallet connect attempt. A failure is
// logged and leaves the state unchanged.
func (b *Button) Connect(err error) State {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.log.Warn("wallet connect failed",
			zap.String("event_id", b.event.ID),
			zap.Error(err),
		)
		return b.state
	}
	if b.state == StateDisconnected && !b.closed {
		b.state = StateReadyToMint
	}
	return b.state
}

// Disconnect returns a ready button to disconnected
func (b *Button) Disconnect() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateReadyToMint && !b.closed {
		b.state = StateDisconnected
	}
	return b.state
}

// Click starts the mint transaction. It only succeeds from ready-to-mint.
// The transaction runs until it resolves, ctx is done or Close is called.
func (b *Button) Click(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return domain.ErrMintCancelled
	}

	switch b.state {
	case StateMinted:
		return domain.ErrAlreadyMinted
	case StateMinting:
		return domain.ErrMintInProgress
	case StateUnavailable:
		return domain.ErrNotMintable
	case StateDisconnected:
		return domain.ErrWalletNotConnected
	}
	if !b.event.IsMintable() {
		return domain.ErrNotMintable
	}

	mintCtx, cancel := context.WithCancel(ctx)
	p := &pendingMint{cancel: cancel, done: make(chan struct{})}
	b.pending = p
	b.state = StateMinting

	b.log.Info("mint submitted",
		zap.String("event_id", b.event.ID),
		zap.String("owner", b.owner),
	)

	go b.run(mintCtx, p)
	return nil
}

func (b *Button) run(ctx context.Context, p *pendingMint) {
	defer close(p.done)
	defer p.cancel()

	receipt, err := b.gateway.Submit(ctx, &MintRequest{
		EventID:         b.event.ID,
		ContractAddress: b.event.ContractAddress,
		Owner:           b.owner,
	})

	b.mu.Lock()
	if b.closed || ctx.Err() != nil {
		b.mu.Unlock()
		p.err = domain.ErrMintCancelled
		b.log.Info("mint cancelled", zap.String("event_id", b.event.ID))
		return
	}

	if err != nil {
		b.state = StateReadyToMint
		b.mu.Unlock()

		if !errors.Is(err, domain.ErrMintFailed) {
			err = errors.Join(domain.ErrMintFailed, err)
		}
		p.err = err
		b.log.Warn("mint failed",
			zap.String("event_id", b.event.ID),
			zap.Error(err),
		)
		return
	}

	b.store.Mint(b.event.ID)
	b.state = StateMinted
	b.mu.Unlock()

	p.receipt = receipt
	b.log.Info("mint confirmed",
		zap.String("event_id", b.event.ID),
		zap.String("tx_hash", receipt.TxHash),
	)
	if b.onMinted != nil {
		b.onMinted(receipt)
	}
}

// Wait blocks until the pending mint resolves or ctx is done. With nothing
// pending it returns the current state immediately.
func (b *Button) Wait(ctx context.Context) (State, *Receipt, error) {
	b.mu.Lock()
	p := b.pending
	b.mu.Unlock()

	if p == nil {
		return b.State(), nil, nil
	}

	// a resolved mint wins over a context that ended afterwards
	select {
	case <-p.done:
		return b.State(), p.receipt, p.err
	default:
	}

	select {
	case <-p.done:
		return b.State(), p.receipt, p.err
	case <-ctx.Done():
		if b.State() == StateMinted {
			<-p.done
			return b.State(), p.receipt, p.err
		}
		return b.State(), nil, ctx.Err()
	}
}

// Close tears the button down, cancelling any pending mint and waiting for it
// to exit. Idempotent.
func (b *Button) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	p := b.pending
	b.mu.Unlock()

	if p != nil {
		p.cancel()
		<-p.done
	}
}
