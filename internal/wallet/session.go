package wallet

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ravkun27/nftix/internal/domain"
)

// Session is a signed wallet session
type Session struct {
	ID        string    `json:"sessionId"`
	Address   string    `json:"address"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Account returns the connected account the session stands for
func (s *Session) Account() Account {
	return Account{Address: s.Address, IsConnected: s.Address != ""}
}

// SessionManager issues and validates HS256 session tokens
type SessionManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	clock  func() time.Time
}

// NewSessionManager creates a SessionManager
func NewSessionManager(secret, issuer string, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SessionManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		clock:  time.Now,
	}
}

// Issue signs a session for a connected account
func (m *SessionManager) Issue(account Account) (*Session, error) {
	if !account.IsConnected || account.Address == "" {
		return nil, domain.ErrWalletNotConnected
	}

	now := m.clock()
	session := &Session{
		ID:        uuid.New().String(),
		Address:   account.Address,
		ExpiresAt: now.Add(m.ttl),
	}

	claims := jwt.MapClaims{
		"sub": session.Address,
		"jti": session.ID,
		"iss": m.issuer,
		"iat": now.Unix(),
		"exp": session.ExpiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}
	session.Token = signed
	return session, nil
}

// Validate parses a token and returns the session it carries
func (m *SessionManager) Validate(tokenString string) (*Session, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, domain.ErrInvalidSession
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.clock),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrSessionExpired
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidSession
	}

	address, _ := claims["sub"].(string)
	if address == "" {
		return nil, domain.ErrInvalidSession
	}
	id, _ := claims["jti"].(string)

	session := &Session{ID: id, Address: address, Token: tokenString}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		session.ExpiresAt = exp.Time
	}
	return session, nil
}
