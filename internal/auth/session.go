// Package auth manages the backend session used for favorite writes. Tokens
// come from a GoTrue-style endpoint; the access token is a JWT whose sub
// claim identifies the user.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoSession is returned when no token pair has been established.
	ErrNoSession = errors.New("auth: no active session")

	// ErrIdentityMismatch is returned when the session's user does not
	// match the user an operation was requested for.
	ErrIdentityMismatch = errors.New("auth: session user mismatch")
)

// refreshLeeway is how close to expiry a token may get before Refresh
// exchanges it.
const refreshLeeway = time.Minute

// Config holds session endpoint settings.
type Config struct {
	// TokenURL is the refresh endpoint, e.g. https://host/auth/v1/token.
	TokenURL string
	// APIKey is sent as the apikey header alongside the token grant.
	APIKey string
}

// Session holds an access/refresh token pair and refreshes it on demand.
// Safe for concurrent use.
type Session struct {
	cfg    Config
	client *http.Client
	now    func() time.Time

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
	userID       string
}

// NewSession creates a session manager. A nil client falls back to a default
// with a 10-second timeout.
func NewSession(cfg Config, client *http.Client) *Session {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Session{cfg: cfg, client: client, now: time.Now}
}

// SetTokens installs a token pair, extracting the user ID from the access
// token's sub claim. Signature verification happens server-side; the claim is
// read here only to catch caller mix-ups early.
func (s *Session) SetTokens(accessToken, refreshToken string) error {
	claims, exp, err := parseClaims(accessToken)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = accessToken
	s.refreshToken = refreshToken
	s.userID = claims
	s.expiresAt = exp
	return nil
}

// UserID returns the authenticated user's ID, or "" without a session.
func (s *Session) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// AccessToken returns the current access token.
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// VerifyUser checks that the session belongs to userID.
func (s *Session) VerifyUser(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID == "" {
		return ErrNoSession
	}
	if s.userID != userID {
		return fmt.Errorf("%w: have %s, want %s", ErrIdentityMismatch, s.userID, userID)
	}
	return nil
}

// Refresh exchanges the refresh token when the access token is expired or
// about to expire. A still-fresh token is left alone.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.refreshToken == "" {
		s.mu.Unlock()
		return ErrNoSession
	}
	if s.now().Add(refreshLeeway).Before(s.expiresAt) {
		s.mu.Unlock()
		return nil
	}
	refreshToken := s.refreshToken
	s.mu.Unlock()

	body, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return err
	}

	url := s.cfg.TokenURL + "?grant_type=refresh_token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("apikey", s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("refresh session: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}
	if payload.AccessToken == "" {
		return errors.New("auth: refresh response missing access token")
	}

	return s.SetTokens(payload.AccessToken, payload.RefreshToken)
}

// parseClaims reads the sub claim and expiry from a JWT without verifying
// the signature.
func parseClaims(token string) (sub string, exp time.Time, err error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return "", time.Time{}, fmt.Errorf("parse access token: %w", err)
	}

	sub, err = claims.GetSubject()
	if err != nil || sub == "" {
		return "", time.Time{}, errors.New("auth: access token missing sub claim")
	}

	if expClaim, err := claims.GetExpirationTime(); err == nil && expClaim != nil {
		exp = expClaim.Time
	}
	return sub, exp, nil
}
