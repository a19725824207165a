package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}

func TestVerifyValidToken(t *testing.T) {
	v := NewTokenVerifier("shared-secret")
	tokenString := signToken(t, jwt.SigningMethodHS256, "shared-secret", jwt.RegisteredClaims{
		Subject:   "user_2abc",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	claims, err := v.Verify(tokenString)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if claims.Subject != "user_2abc" {
		t.Errorf("Expected subject user_2abc, got %s", claims.Subject)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	v := NewTokenVerifier("shared-secret")
	tokenString := signToken(t, jwt.SigningMethodHS256, "shared-secret", jwt.RegisteredClaims{
		Subject:   "user_2abc",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})

	if _, err := v.Verify(tokenString); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("Expected ErrExpiredToken, got: %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	v := NewTokenVerifier("shared-secret")
	tokenString := signToken(t, jwt.SigningMethodHS256, "other-secret", jwt.RegisteredClaims{
		Subject:   "user_2abc",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	if _, err := v.Verify(tokenString); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Expected ErrInvalidToken, got: %v", err)
	}
}

func TestVerifyMissingSubject(t *testing.T) {
	v := NewTokenVerifier("shared-secret")
	tokenString := signToken(t, jwt.SigningMethodHS256, "shared-secret", jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	if _, err := v.Verify(tokenString); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Expected ErrInvalidToken for empty subject, got: %v", err)
	}
}

func TestVerifyGarbageToken(t *testing.T) {
	v := NewTokenVerifier("shared-secret")
	if _, err := v.Verify("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Expected ErrInvalidToken, got: %v", err)
	}
}
