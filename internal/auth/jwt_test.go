package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestParse_ValidHS256(t *testing.T) {
	secret := []byte("test-secret")
	token, err := Issue(secret, Claims{SessionID: "sess-1"}, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := Parse(secret, token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.SessionID != "sess-1" || claims.Subject != "sess-1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestIssue_RequiresSessionID(t *testing.T) {
	if _, err := Issue([]byte("s"), Claims{}, time.Hour); !errors.Is(err, ErrMissingSession) {
		t.Fatalf("err = %v, want ErrMissingSession", err)
	}
}

func TestParse_Rejects(t *testing.T) {
	secret := []byte("test-secret")
	now := time.Now()

	sign := func(method jwt.SigningMethod, claims Claims) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, claims).SignedString(secret)
		if err != nil {
			t.Fatalf("SignedString: %v", err)
		}
		return s
	}
	valid := jwt.RegisteredClaims{
		Issuer:    Issuer,
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	expired, _ := Issue(secret, Claims{SessionID: "sess-1"}, -time.Minute)
	otherKey, _ := Issue([]byte("other"), Claims{SessionID: "sess-1"}, time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{"unexpected algorithm", sign(jwt.SigningMethodHS384, Claims{SessionID: "sess-1", RegisteredClaims: valid})},
		{"wrong issuer", sign(jwt.SigningMethodHS256, Claims{SessionID: "sess-1", RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone", ExpiresAt: valid.ExpiresAt}})},
		{"no expiry", sign(jwt.SigningMethodHS256, Claims{SessionID: "sess-1", RegisteredClaims: jwt.RegisteredClaims{Issuer: Issuer}})},
		{"no session", sign(jwt.SigningMethodHS256, Claims{RegisteredClaims: valid})},
		{"expired", expired},
		{"wrong key", otherKey},
		{"garbage", "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(secret, tt.token); err == nil {
				t.Fatal("expected parse to fail")
			}
		})
	}
}
