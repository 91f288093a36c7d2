package util

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-with-enough-length"

func signHS256(t *testing.T, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func validClaims(sub string) Claims {
	return Claims{
		Email: "author@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestValidateJWT_HMAC(t *testing.T) {
	claims, err := ValidateJWT(signHS256(t, validClaims("user-1")), testSecret)
	if err != nil {
		t.Fatalf("ValidateJWT returned error: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "author@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateJWT_Rejects(t *testing.T) {
	expired := validClaims("user-1")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	noExpiry := validClaims("user-1")
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{name: "wrong secret", token: signHS256(t, validClaims("user-1")), secret: "other-secret"},
		{name: "expired", token: signHS256(t, expired), secret: testSecret},
		{name: "no expiry", token: signHS256(t, noExpiry), secret: testSecret},
		{name: "garbage", token: "not-a-token", secret: testSecret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateJWT(tt.token, tt.secret); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestValidateJWT_RequiresSubject(t *testing.T) {
	_, err := ValidateJWT(signHS256(t, validClaims("")), testSecret)
	if !errors.Is(err, ErrMissingSubject) {
		t.Fatalf("expected ErrMissingSubject, got %v", err)
	}
}

func TestValidateJWT_ECDSA(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	pemKey := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodES256, validClaims("user-2")).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	claims, err := ValidateJWT(signed, pemKey)
	if err != nil {
		t.Fatalf("ValidateJWT returned error: %v", err)
	}
	if claims.Subject != "user-2" {
		t.Fatalf("expected subject user-2, got %s", claims.Subject)
	}
	if _, err := ValidateJWT(signed, testSecret); err == nil {
		t.Fatal("expected error for non-PEM key material")
	}
}
