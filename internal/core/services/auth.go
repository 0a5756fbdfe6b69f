package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"portfolio-service/internal/core/domain"
	"portfolio-service/internal/core/ports/output"
)

const minPasswordLength = 8

// AdminBootstrap is the account created by SetupAdmin when no admin exists.
type AdminBootstrap struct {
	Username string
	Email    string
	Password string
}

type LoginResult struct {
	Admin   *domain.Admin
	Token   string
	Session domain.Session
}

type AuthService struct {
	admins    ports.AdminRepository
	sessions  ports.SessionManager
	bootstrap AdminBootstrap
	now       func() time.Time
}

func NewAuthService(admins ports.AdminRepository, sessions ports.SessionManager, bootstrap AdminBootstrap) *AuthService {
	return &AuthService{
		admins:    admins,
		sessions:  sessions,
		bootstrap: bootstrap,
		now:       time.Now,
	}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrMissingCredentials
	}

	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			log.WithField("username", username).Warn("login attempt for unknown admin")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		log.WithField("username", username).Warn("login attempt with wrong password")
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.admins.UpdateLastLogin(ctx, admin.ID); err != nil {
		log.WithError(err).WithField("admin_id", admin.ID).Warn("failed to record last login")
	}

	token, session, err := s.sessions.Issue(admin, s.now())
	if err != nil {
		return nil, err
	}

	log.WithField("username", admin.Username).Info("admin logged in")
	return &LoginResult{Admin: admin, Token: token, Session: session}, nil
}

// CheckSession decodes and validates the raw session cookie value.
func (s *AuthService) CheckSession(token string) (domain.Session, error) {
	if strings.TrimSpace(token) == "" {
		return domain.Session{}, domain.ErrSessionMissing
	}
	return s.sessions.Parse(token, s.now())
}

func (s *AuthService) SessionTTL() time.Duration {
	return s.sessions.TTL()
}

func (s *AuthService) ChangePassword(ctx context.Context, adminID uuid.UUID, current, next string) error {
	if current == "" || next == "" {
		return domain.ErrMissingCredentials
	}
	if len(next) < minPasswordLength {
		return domain.ErrWeakPassword
	}

	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(current)); err != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.admins.UpdatePassword(ctx, adminID, string(hash))
}

// SetupAdmin creates the first admin account from the bootstrap settings. It
// refuses once any admin exists.
func (s *AuthService) SetupAdmin(ctx context.Context) (*domain.Admin, error) {
	count, err := s.admins.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.ErrAdminExists
	}
	if s.bootstrap.Password == "" {
		return nil, domain.ErrBootstrapDisabled
	}
	return s.CreateAdmin(ctx, s.bootstrap.Username, s.bootstrap.Email, s.bootstrap.Password)
}

func (s *AuthService) CreateAdmin(ctx context.Context, username, email, password string) (*domain.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrMissingCredentials
	}
	if len(password) < minPasswordLength {
		return nil, domain.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := &domain.Admin{
		ID:           uuid.New(),
		CreatedAt:    s.now(),
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: string(hash),
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, err
	}

	log.WithField("username", admin.Username).Info("admin account created")
	return admin, nil
}
