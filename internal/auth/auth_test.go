package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/router-for-me/calculator-api/internal/config"
	"github.com/router-for-me/calculator-api/internal/models"
	"github.com/router-for-me/calculator-api/internal/security"
	"github.com/router-for-me/calculator-api/internal/store"
)

type fakeUsers struct {
	byName map[string]models.User
	err    error
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	user, ok := f.byName[username]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return user, nil
}

func newTestService(t *testing.T) (*Service, *fakeUsers) {
	t.Helper()
	hash, err := security.HashPassword("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	users := &fakeUsers{byName: map[string]models.User{
		"alice": {ID: 1, Username: "alice", Email: "alice@x.com", PasswordHash: hash},
	}}
	return NewService(users, config.JWTConfig{Secret: "test-secret", Expiry: 30 * time.Minute}), users
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Authenticate(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.ID != 1 {
		t.Fatalf("expected user 1, got %d", user.ID)
	}

	_, errWrong := svc.Authenticate(ctx, "alice", "wrongpassword")
	_, errUnknown := svc.Authenticate(ctx, "mallory", "password123")
	if !errors.Is(errWrong, ErrInvalidCredentials) || !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v and %v", errWrong, errUnknown)
	}
	if errWrong.Error() != errUnknown.Error() {
		t.Fatalf("failure causes must be indistinguishable: %q vs %q", errWrong, errUnknown)
	}
}

func TestAuthenticate_StoreFailure(t *testing.T) {
	svc, users := newTestService(t)
	users.err = errors.New("db down")
	if _, err := svc.Authenticate(context.Background(), "alice", "password123"); errors.Is(err, ErrInvalidCredentials) || err == nil {
		t.Fatalf("expected storage error to surface, got %v", err)
	}
}

func TestLoginAndResolve(t *testing.T) {
	svc, users := newTestService(t)
	ctx := context.Background()

	token, err := svc.Login(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}

	user, err := svc.ResolveCurrentUser(ctx, token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if user.Username != "alice" {
		t.Fatalf("expected alice, got %q", user.Username)
	}

	if _, errLogin := svc.Login(ctx, "alice", "nope"); !errors.Is(errLogin, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", errLogin)
	}

	delete(users.byName, "alice")
	_, errGone := svc.ResolveCurrentUser(ctx, token)
	if !errors.Is(errGone, ErrSubjectNotFound) || !errors.Is(errGone, ErrUnauthorized) {
		t.Fatalf("expected ErrSubjectNotFound, got %v", errGone)
	}
}

func TestResolveCurrentUser_InvalidTokens(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	expired, err := security.IssueToken("test-secret", "alice", -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	forged, err := security.IssueToken("other-secret", "alice", time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	for name, token := range map[string]string{"expired": expired, "forged": forged, "garbage": "abc"} {
		_, errResolve := svc.ResolveCurrentUser(ctx, token)
		if !errors.Is(errResolve, ErrUnauthorized) || errors.Is(errResolve, ErrSubjectNotFound) {
			t.Fatalf("%s: expected ErrUnauthorized, got %v", name, errResolve)
		}
	}
}
