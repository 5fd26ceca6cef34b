package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ravkun27/nftix/internal/domain"
	"github.com/ravkun27/nftix/internal/dto"
	"github.com/ravkun27/nftix/internal/metrics"
	"github.com/ravkun27/nftix/internal/wallet"
	"github.com/ravkun27/nftix/pkg/logger"
	"github.com/ravkun27/nftix/pkg/telemetry"
)

// WalletConnector is a wallet.Connector that can also report live connections
type WalletConnector interface {
	wallet.Connector
	IsConnected(address string) bool
}

// walletService implements WalletService
type walletService struct {
	connector WalletConnector
	sessions  *wallet.SessionManager
	metrics   *metrics.Metrics
	log       *logger.Logger
}

// NewWalletService creates a new WalletService
func NewWalletService(connector WalletConnector, sessions *wallet.SessionManager, m *metrics.Metrics, log *logger.Logger) WalletService {
	return &walletService{
		connector: connector,
		sessions:  sessions,
		metrics:   m,
		log:       log.Named("wallet"),
	}
}

// Connect validates the address and issues a session. A failed connect
// leaves the wallet disconnected.
func (s *walletService) Connect(ctx context.Context, req *dto.ConnectWalletRequest) (*wallet.Session, error) {
	ctx, span := telemetry.StartSpan(ctx, "wallet.connect")
	defer span.End()

	account, err := s.connector.Connect(ctx, req.Address)
	s.metrics.WalletAction("connect", err)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		s.log.Warn("wallet connect failed", zap.Error(err))
		return nil, err
	}

	session, err := s.sessions.Issue(account)
	if err != nil {
		// the connect did not complete, so do not leave the address marked connected
		_ = s.connector.Disconnect(ctx, account.Address)
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	s.log.Info("wallet connected",
		zap.String("address", account.Address),
		zap.String("session_id", session.ID),
	)
	return session, nil
}

// Disconnect ends the connection behind the session
func (s *walletService) Disconnect(ctx context.Context, session *wallet.Session) error {
	ctx, span := telemetry.StartSpan(ctx, "wallet.disconnect")
	defer span.End()

	err := s.connector.Disconnect(ctx, session.Address)
	s.metrics.WalletAction("disconnect", err)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return err
	}

	s.log.Info("wallet disconnected",
		zap.String("address", session.Address),
		zap.String("session_id", session.ID),
	)
	return nil
}

// Authenticate validates a session token. Once the wallet disconnects, its
// sessions stop authenticating.
func (s *walletService) Authenticate(ctx context.Context, token string) (*wallet.Session, error) {
	session, err := s.sessions.Validate(token)
	if err != nil {
		return nil, err
	}
	if !s.connector.IsConnected(session.Address) {
		return nil, fmt.Errorf("%w: wallet disconnected", domain.ErrInvalidSession)
	}
	return session, nil
}
