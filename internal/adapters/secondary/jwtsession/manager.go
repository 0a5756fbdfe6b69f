package jwtsession

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"portfolio-service/internal/config"
	"portfolio-service/internal/core/domain"
	ports "portfolio-service/internal/core/ports/output"
)

const issuer = "portfolio-service"

// sessionClaims is the signed payload of the admin session cookie.
type sessionClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

type manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager returns a SessionManager that signs HS256 tokens with the
// configured secret.
func NewManager(cfg *config.SessionConfig) ports.SessionManager {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &manager{secret: []byte(cfg.Secret), ttl: ttl}
}

func (m *manager) TTL() time.Duration {
	return m.ttl
}

func (m *manager) Issue(admin *domain.Admin, now time.Time) (string, domain.Session, error) {
	if admin == nil || admin.ID == uuid.Nil {
		return "", domain.Session{}, errors.New("session requires an admin")
	}

	now = now.UTC().Truncate(time.Second)
	session := domain.Session{
		AdminID:   admin.ID,
		Username:  admin.Username,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   admin.ID.String(),
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			ID:        uuid.NewString(),
		},
		Username: admin.Username,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", domain.Session{}, fmt.Errorf("sign session: %w", err)
	}
	return token, session, nil
}

func (m *manager) Parse(token string, now time.Time) (domain.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Session{}, domain.ErrSessionMissing
	}

	var parsed sessionClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", domain.ErrSessionInvalid, err)
	}

	adminID, err := uuid.Parse(parsed.Subject)
	if err != nil || parsed.ExpiresAt == nil || parsed.IssuedAt == nil || parsed.Issuer != issuer {
		return domain.Session{}, domain.ErrSessionInvalid
	}

	session := domain.Session{
		AdminID:   adminID,
		Username:  parsed.Username,
		IssuedAt:  parsed.IssuedAt.Time.UTC(),
		ExpiresAt: parsed.ExpiresAt.Time.UTC(),
	}
	if !session.ExpiresAt.After(now.UTC()) {
		return domain.Session{}, domain.ErrSessionExpired
	}
	return session, nil
}
