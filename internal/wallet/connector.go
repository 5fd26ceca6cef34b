package wallet

import (
	"context"
	"strings"
	"sync"

	"github.com/ravkun27/nftix/internal/domain"
)

// Account is the wallet identity currently attached to a session
type Account struct {
	Address     string `json:"address,omitempty"`
	IsConnected bool   `json:"isConnected"`
}

// Connector connects and disconnects wallets. Implementations wrap an
// external wallet provider.
type Connector interface {
	Connect(ctx context.Context, hint string) (Account, error)
	Disconnect(ctx context.Context, address string) error
}

// InjectedConnector trusts the address reported by the browser's injected
// provider after validating its form. It proves nothing about ownership.
type InjectedConnector struct {
	mu        sync.Mutex
	connected map[string]struct{}
}

// NewInjectedConnector creates an InjectedConnector
func NewInjectedConnector() *InjectedConnector {
	return &InjectedConnector{connected: make(map[string]struct{})}
}

// Connect validates hint as an address and marks it connected
func (c *InjectedConnector) Connect(ctx context.Context, hint string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}

	address, err := NormalizeAddress(hint)
	if err != nil {
		return Account{}, err
	}

	c.mu.Lock()
	c.connected[strings.ToLower(address)] = struct{}{}
	c.mu.Unlock()

	return Account{Address: address, IsConnected: true}, nil
}

// Disconnect forgets the address. Disconnecting an unknown address is an error.
func (c *InjectedConnector) Disconnect(ctx context.Context, address string) error {
	key := strings.ToLower(strings.TrimSpace(address))

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.connected[key]; !ok {
		return domain.ErrWalletNotConnected
	}
	delete(c.connected, key)
	return nil
}

// IsConnected reports whether address has an open connection
func (c *InjectedConnector) IsConnected(address string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.connected[strings.ToLower(strings.TrimSpace(address))]
	return ok
}
