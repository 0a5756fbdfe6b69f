package ports

import (
	"time"

	"portfolio-service/internal/core/domain"
)

// SessionManager issues and verifies the signed admin session token carried in
// the session cookie.
type SessionManager interface {
	Issue(admin *domain.Admin, now time.Time) (string, domain.Session, error)
	Parse(token string, now time.Time) (domain.Session, error)
	TTL() time.Duration
}
