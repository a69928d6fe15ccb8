package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vacae/vacae-backend/internal/auth"
)

func newTestVerifier() *auth.Verifier {
	return auth.NewVerifier(auth.VerifierConfig{
		SigningKey: "test-signing-key",
		Issuer:     "https://id.vacae.test",
		Audience:   "vacae-api",
	})
}

func TestVerifier_RoundTrip(t *testing.T) {
	v := newTestVerifier()

	token, expiresAt, err := v.GenerateAccessToken("user-123")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	if time.Until(expiresAt) > auth.AccessTokenExpiry {
		t.Errorf("expiry too far in the future: %v", expiresAt)
	}

	userID, err := v.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if userID != "user-123" {
		t.Errorf("expected user-123, got %q", userID)
	}
}

func TestVerifier_RejectsWrongKey(t *testing.T) {
	token, _, err := newTestVerifier().GenerateAccessToken("user-123")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	other := auth.NewVerifier(auth.VerifierConfig{
		SigningKey: "different-key",
		Issuer:     "https://id.vacae.test",
		Audience:   "vacae-api",
	})

	_, err = other.ValidateAccessToken(token)
	if !errors.Is(err, auth.ErrInvalidAccessToken) {
		t.Errorf("expected ErrInvalidAccessToken, got %v", err)
	}
}

func TestVerifier_RejectsWrongAudience(t *testing.T) {
	issuing := auth.NewVerifier(auth.VerifierConfig{
		SigningKey: "test-signing-key",
		Issuer:     "https://id.vacae.test",
		Audience:   "some-other-api",
	})
	token, _, err := issuing.GenerateAccessToken("user-123")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	_, err = newTestVerifier().ValidateAccessToken(token)
	if !errors.Is(err, auth.ErrInvalidAccessToken) {
		t.Errorf("expected ErrInvalidAccessToken, got %v", err)
	}
}

func TestVerifier_RejectsExpiredToken(t *testing.T) {
	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://id.vacae.test",
			Subject:   "user-123",
			Audience:  jwt.ClaimStrings{"vacae-api"},
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		UserID: "user-123",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
	if err != nil {
		t.Fatalf("signing token failed: %v", err)
	}

	_, err = newTestVerifier().ValidateAccessToken(token)
	if !errors.Is(err, auth.ErrAccessTokenExpired) {
		t.Errorf("expected ErrAccessTokenExpired, got %v", err)
	}
}

func TestVerifier_RejectsMissingUserID(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Issuer:    "https://id.vacae.test",
		Subject:   "user-123",
		Audience:  jwt.ClaimStrings{"vacae-api"},
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
	if err != nil {
		t.Fatalf("signing token failed: %v", err)
	}

	_, err = newTestVerifier().ValidateAccessToken(token)
	if !errors.Is(err, auth.ErrInvalidAccessToken) {
		t.Errorf("expected ErrInvalidAccessToken, got %v", err)
	}
}
