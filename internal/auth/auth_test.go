package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const secret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	tok, err := MakeToken("uid-1", "owner@rodeo.qa", secret)
	if err != nil {
		t.Fatalf("make token: %v", err)
	}
	c, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if c.UserID != "uid-1" || c.Email != "owner@rodeo.qa" {
		t.Errorf("claims mismatch: %+v", c)
	}

	// ~15 min
	diff := time.Until(c.ExpiresAt.Time)
	if diff < 14*time.Minute || diff > 16*time.Minute {
		t.Errorf("expected ~15min expiry, got %v", diff)
	}
}

func TestParseTokenRejects(t *testing.T) {
	tok, _ := MakeToken("uid", "a@b.com", secret)

	if _, err := ParseToken(tok, "wrong-secret"); err == nil {
		t.Error("expected error for wrong secret")
	}
	if _, err := ParseToken("not.a.token", secret); err == nil {
		t.Error("expected error for garbage token")
	}

	// alg none must not pass
	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "uid"})
	raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := ParseToken(raw, secret); err == nil {
		t.Error("expected error for alg none")
	}
}

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		email, admin string
		want         bool
	}{
		{"mastaisshakh@gmail.com", "mastaisshakh@gmail.com", true},
		{" MastaIsshakh@Gmail.com ", "mastaisshakh@gmail.com", true},
		{"someone@gmail.com", "mastaisshakh@gmail.com", false},
		{"", "mastaisshakh@gmail.com", false},
		{"", "", false},
		{"a@b.com", "", false},
	}
	for _, tt := range tests {
		if got := IsAdmin(tt.email, tt.admin); got != tt.want {
			t.Errorf("IsAdmin(%q, %q) = %v, want %v", tt.email, tt.admin, got, tt.want)
		}
	}
}

func TestPasswordHash(t *testing.T) {
	h, err := HashPassword("testpass123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(h, "testpass123") {
		t.Error("expected password to match")
	}
	if CheckPassword(h, "nope") {
		t.Error("expected mismatch")
	}
}

func TestRefreshTokenGeneration(t *testing.T) {
	now := time.Now()
	rt, err := NewRefreshToken(now)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(rt.Raw) != 64 { // 32 bytes hex
		t.Errorf("expected 64 char raw token, got %d", len(rt.Raw))
	}
	if HashRefreshToken(rt.Raw) != rt.Hash {
		t.Error("hash mismatch")
	}
	if !rt.ExpiresAt.Equal(now.Add(RefreshTTL)) {
		t.Errorf("expires %v", rt.ExpiresAt)
	}
	other, _ := NewRefreshToken(now)
	if other.Raw == rt.Raw {
		t.Error("tokens repeat")
	}
}

func TestParseTokenChecksClaims(t *testing.T) {
	sign := func(c Claims) string {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
		if err != nil {
			t.Fatal(err)
		}
		return raw
	}
	exp := jwt.NewNumericDate(time.Now().Add(time.Minute))

	tests := map[string]Claims{
		"foreign issuer": {UserID: "uid", RegisteredClaims: jwt.RegisteredClaims{Issuer: "elsewhere", ExpiresAt: exp}},
		"no expiry":      {UserID: "uid", RegisteredClaims: jwt.RegisteredClaims{Issuer: Issuer}},
		"expired":        {UserID: "uid", RegisteredClaims: jwt.RegisteredClaims{Issuer: Issuer, ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))}},
		"no user":        {RegisteredClaims: jwt.RegisteredClaims{Issuer: Issuer, ExpiresAt: exp}},
	}
	for name, c := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseToken(sign(c), secret); err == nil {
				t.Error("expected rejection")
			}
		})
	}
}
