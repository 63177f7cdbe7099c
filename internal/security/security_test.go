package security

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestHashPassword_SaltedAndVerifiable(t *testing.T) {
	const password = "password123"

	first, err := HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == password || second == password {
		t.Fatalf("hash must not equal the plain password")
	}
	if first == second {
		t.Fatalf("expected distinct hashes for the same password")
	}
	if !VerifyPassword(password, first) || !VerifyPassword(password, second) {
		t.Fatalf("expected both hashes to verify")
	}
}

func TestVerifyPassword_Rejects(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if VerifyPassword("wrong-horse", hash) {
		t.Fatalf("wrong password verified")
	}
	if VerifyPassword("", hash) {
		t.Fatalf("empty password verified")
	}
	for _, malformed := range []string{"", "not-a-hash", "$2a$10$short"} {
		if VerifyPassword("correct-horse", malformed) {
			t.Fatalf("malformed hash %q verified", malformed)
		}
	}
}

func TestHashPassword_LongInput(t *testing.T) {
	long := strings.Repeat("x", 200)
	hash, err := HashPassword(long)
	if err != nil {
		t.Fatalf("hash long password: %v", err)
	}
	if !VerifyPassword(long, hash) {
		t.Fatalf("expected long password to verify")
	}
}

func TestIssueAndParseToken(t *testing.T) {
	token, err := IssueToken("secret", "alice", 30*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "alice" {
		t.Fatalf("expected subject alice, got %q", claims.Subject)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected expiry in the future, got %v", claims.ExpiresAt)
	}
}

func TestParseToken_Invalid(t *testing.T) {
	valid, err := IssueToken("secret", "alice", time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	expired, err := IssueToken("secret", "alice", -time.Minute)
	if err != nil {
		t.Fatalf("issue expired: %v", err)
	}
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "alice"}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	otherAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	cases := map[string]struct {
		secret string
		token  string
	}{
		"wrong secret":   {"other", valid},
		"expired":        {"secret", expired},
		"malformed":      {"secret", "not.a.jwt"},
		"empty":          {"secret", ""},
		"tampered":       {"secret", valid + "x"},
		"missing expiry": {"secret", noExpiry},
		"other method":   {"secret", otherAlg},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, errParse := ParseToken(tc.secret, tc.token); !errors.Is(errParse, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", errParse)
			}
		})
	}
}

func TestIssueToken_MissingSecret(t *testing.T) {
	if _, err := IssueToken("  ", "alice", time.Minute); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}
