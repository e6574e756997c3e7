package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewAuthService(nil, "test-secret")

	token, err := svc.issueToken(42, "alice")
	if err != nil {
		t.Fatalf("issueToken error: %v", err)
	}

	claims, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("claims.UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("claims.Username = %q, want %q", claims.Username, "alice")
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	issuer := NewAuthService(nil, "secret-a")
	verifier := NewAuthService(nil, "secret-b")

	token, err := issuer.issueToken(1, "bob")
	if err != nil {
		t.Fatalf("issueToken error: %v", err)
	}

	if _, err := verifier.VerifyToken(token); err == nil {
		t.Error("expected verification to fail with a different secret")
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	svc := NewAuthService(nil, "test-secret")

	claims := Claims{
		UserID:   7,
		Username: "carol",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-48 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	if _, err := svc.VerifyToken(token); err == nil {
		t.Error("expected verification to fail for an expired token")
	}
}

func TestVerifyToken_Garbage(t *testing.T) {
	svc := NewAuthService(nil, "test-secret")

	if _, err := svc.VerifyToken("not-a-token"); err == nil {
		t.Error("expected verification to fail for a malformed token")
	}
}
