// Package pasetotoken issues and verifies the PASETO v4 access tokens the
// office backend authenticates with. Tokens carry the user document id and
// email; roles are always read fresh from the store, never from the token.
package pasetotoken

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	paseto "aidanwoods.dev/go-paseto"

	"github.com/ceprunsa/consultorio_backend/config"
)

// CtxKeyClaims is the fiber Locals key the auth middleware stores verified
// claims under.
const CtxKeyClaims = "auth.claims"

const defaultAccessTTL = 8 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

type Mode string

const (
	ModeLocal  Mode = "local"  // v4.local, symmetric encryption
	ModePublic Mode = "public" // v4.public, ed25519 signatures
)

// Claims is what the rest of the app sees after verification.
type Claims struct {
	UserID  string
	Email   string
	TokenID string

	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Manager issues (when it holds the issuing key) and verifies access tokens.
// A public-mode deployment configured with only the public key is verify-only.
type Manager struct {
	mode     Mode
	issuer   string
	audience string
	ttl      time.Duration

	symmetric *paseto.V4SymmetricKey
	secret    *paseto.V4AsymmetricSecretKey
	public    *paseto.V4AsymmetricPublicKey

	parser paseto.Parser
}

// NewPasetoManager builds a Manager from the authentication config.
func NewPasetoManager(cfg *config.Config) (*Manager, error) {
	p := cfg.Authentication.Paseto

	m := &Manager{
		mode:     Mode(p.Mode),
		issuer:   p.Issuer,
		audience: p.Audience,
		ttl:      time.Duration(p.AccessTTLMinutes) * time.Minute,
	}
	if m.issuer == "" || m.audience == "" {
		return nil, fmt.Errorf("paseto: issuer and audience are required")
	}
	if m.ttl <= 0 {
		m.ttl = defaultAccessTTL
	}

	switch m.mode {
	case ModeLocal:
		k, err := paseto.V4SymmetricKeyFromHex(strings.TrimSpace(p.LocalKeyHex))
		if err != nil {
			return nil, fmt.Errorf("paseto: bad local key: %w", err)
		}
		m.symmetric = &k

	case ModePublic:
		if sec := strings.TrimSpace(p.SecretKeyHex); sec != "" {
			sk, err := paseto.NewV4AsymmetricSecretKeyFromHex(sec)
			if err != nil {
				return nil, fmt.Errorf("paseto: bad secret key: %w", err)
			}
			m.secret = &sk
			pk := sk.Public()
			m.public = &pk
		}
		if pub := strings.TrimSpace(p.PublicKeyHex); pub != "" {
			pk, err := paseto.NewV4AsymmetricPublicKeyFromHex(pub)
			if err != nil {
				return nil, fmt.Errorf("paseto: bad public key: %w", err)
			}
			m.public = &pk
		}
		if m.public == nil {
			return nil, fmt.Errorf("paseto: public mode needs a secret or public key")
		}

	default:
		return nil, fmt.Errorf("paseto: unknown mode %q", p.Mode)
	}

	m.parser = paseto.NewParser()
	m.parser.AddRule(paseto.IssuedBy(m.issuer))
	m.parser.AddRule(paseto.ForAudience(m.audience))
	m.parser.AddRule(paseto.NotExpired())

	return m, nil
}

// IssueAccess mints an access token for a user. Used by the operator token
// command and by whatever login front-end sits ahead of this service.
func (m *Manager) IssueAccess(userID, email string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("paseto: userID is required")
	}

	now := time.Now()
	tok := paseto.NewToken()
	tok.SetIssuer(m.issuer)
	tok.SetAudience(m.audience)
	tok.SetSubject(userID)
	tok.SetJti(randomHex(16))
	tok.SetIssuedAt(now)
	tok.SetNotBefore(now)
	tok.SetExpiration(now.Add(m.ttl))
	tok.SetString("uid", userID)
	tok.SetString("email", email)

	switch m.mode {
	case ModeLocal:
		return tok.V4Encrypt(*m.symmetric, nil), nil
	case ModePublic:
		if m.secret == nil {
			return "", fmt.Errorf("paseto: verify-only deployment cannot issue tokens")
		}
		return tok.V4Sign(*m.secret, nil), nil
	}
	return "", fmt.Errorf("paseto: unknown mode %q", m.mode)
}

// Verify parses and validates a token string and extracts the app claims.
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	var (
		tok *paseto.Token
		err error
	)
	switch m.mode {
	case ModeLocal:
		tok, err = m.parser.ParseV4Local(*m.symmetric, tokenStr, nil)
	case ModePublic:
		tok, err = m.parser.ParseV4Public(*m.public, tokenStr, nil)
	default:
		return nil, fmt.Errorf("paseto: unknown mode %q", m.mode)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims := &Claims{}
	if claims.UserID, err = tok.GetString("uid"); err != nil {
		return nil, fmt.Errorf("%w: missing uid claim", ErrInvalidToken)
	}
	claims.Email, _ = tok.GetString("email")
	claims.TokenID, _ = tok.GetJti()
	claims.IssuedAt, _ = tok.GetIssuedAt()
	claims.ExpiresAt, _ = tok.GetExpiration()
	return claims, nil
}

func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
