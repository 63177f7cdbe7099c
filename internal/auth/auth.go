package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/router-for-me/calculator-api/internal/config"
	"github.com/router-for-me/calculator-api/internal/models"
	"github.com/router-for-me/calculator-api/internal/security"
	"github.com/router-for-me/calculator-api/internal/store"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrInvalidCredentials covers both unknown usernames and wrong passwords.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrUnauthorized indicates a missing, malformed, forged or expired token.
	ErrUnauthorized = errors.New("could not validate credentials")
	// ErrSubjectNotFound indicates a valid token whose user no longer exists.
	ErrSubjectNotFound = fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
)

// dummyHash is compared against when the username is unknown so that both
// failure branches spend the same bcrypt time.
var dummyHash = mustHash("calculator-api-dummy-password")

// UserLookup is the slice of the user store the flow depends on.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (models.User, error)
}

// Service turns credentials into identities and tokens into users.
type Service struct {
	users  UserLookup
	secret string
	ttl    time.Duration
}

// NewService constructs a Service using the configured signing key and expiry.
func NewService(users UserLookup, jwtCfg config.JWTConfig) *Service {
	return &Service{users: users, secret: jwtCfg.Secret, ttl: jwtCfg.Expiry}
}

// TTL returns the lifetime of issued tokens.
func (s *Service) TTL() time.Duration { return s.ttl }

// Authenticate verifies username and password against the stored hash.
func (s *Service) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	user, errFind := s.users.GetByUsername(ctx, username)
	if errFind != nil {
		if !errors.Is(errFind, store.ErrNotFound) {
			return models.User{}, errFind
		}
		security.VerifyPassword(password, dummyHash)
		return models.User{}, ErrInvalidCredentials
	}
	if !security.VerifyPassword(password, user.PasswordHash) {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and issues a bearer token whose subject is the username.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, errAuth := s.Authenticate(ctx, username, password)
	if errAuth != nil {
		return "", errAuth
	}
	token, errIssue := security.IssueToken(s.secret, user.Username, s.ttl)
	if errIssue != nil {
		return "", fmt.Errorf("issue token: %w", errIssue)
	}
	return token, nil
}

// ResolveCurrentUser verifies token and loads the user named by its subject.
func (s *Service) ResolveCurrentUser(ctx context.Context, token string) (models.User, error) {
	claims, errParse := security.ParseToken(s.secret, token)
	if errParse != nil {
		return models.User{}, ErrUnauthorized
	}
	user, errFind := s.users.GetByUsername(ctx, claims.Subject)
	if errFind != nil {
		if errors.Is(errFind, store.ErrNotFound) {
			log.WithField("subject", claims.Subject).Debug("auth: token subject no longer exists")
			return models.User{}, ErrSubjectNotFound
		}
		return models.User{}, errFind
	}
	return user, nil
}

func mustHash(password string) string {
	hash, err := security.HashPassword(password)
	if err != nil {
		panic(fmt.Sprintf("auth: hash dummy password: %v", err))
	}
	return hash
}
