package crypto

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestIssuer(t *testing.T, secret string) *TokenIssuer {
	t.Helper()
	iss, err := NewTokenIssuer(secret, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer() unexpected error: %v", err)
	}
	return iss
}

func signClaims(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString() unexpected error: %v", err)
	}
	return s
}

func TestNewTokenIssuer_MissingSecret(t *testing.T) {
	if _, err := NewTokenIssuer("", time.Hour); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("NewTokenIssuer() error = %v, want %v", err, ErrMissingSecret)
	}
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	iss := newTestIssuer(t, "test-secret")

	token, err := iss.Issue("7f0b2c1e-user")
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	got, err := iss.Verify(token)
	if err != nil {
		t.Fatalf("Verify() unexpected error: %v", err)
	}
	if got != "7f0b2c1e-user" {
		t.Errorf("Verify() = %q, want %q", got, "7f0b2c1e-user")
	}
}

func TestIssue_ThirtyDayExpiry(t *testing.T) {
	iss := newTestIssuer(t, "test-secret")
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	iss.now = func() time.Time { return fixed }

	token, err := iss.Issue("u1")
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		t.Fatalf("ParseUnverified() unexpected error: %v", err)
	}
	if want := fixed.Add(30 * 24 * time.Hour); !claims.ExpiresAt.Time.Equal(want) {
		t.Errorf("exp = %v, want %v", claims.ExpiresAt.Time, want)
	}
}

func TestVerify_Rejects(t *testing.T) {
	secret := "test-secret"
	now := time.Now()
	valid := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{tokenAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}

	wrongIssuer := valid
	wrongIssuer.Issuer = "someone-else"

	wrongAudience := valid
	wrongAudience.Audience = jwt.ClaimStrings{"other-api"}

	noExpiry := valid
	noExpiry.ExpiresAt = nil

	foreign := newTestIssuer(t, "another-secret")
	foreignToken, err := foreign.Issue("u1")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-valid-token"},
		{name: "empty", token: ""},
		{name: "other secret", token: foreignToken},
		{name: "wrong issuer", token: signClaims(t, secret, Claims{RegisteredClaims: wrongIssuer, UserID: "u1"})},
		{name: "wrong audience", token: signClaims(t, secret, Claims{RegisteredClaims: wrongAudience, UserID: "u1"})},
		{name: "no expiry", token: signClaims(t, secret, Claims{RegisteredClaims: noExpiry, UserID: "u1"})},
		{name: "no user id", token: signClaims(t, secret, Claims{RegisteredClaims: valid})},
	}

	iss := newTestIssuer(t, secret)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := iss.Verify(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want %v", err, ErrInvalidToken)
			}
		})
	}
}

func TestVerify_Expired(t *testing.T) {
	iss := newTestIssuer(t, "test-secret")

	token, err := iss.Issue("u1")
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	iss.now = func() time.Time { return time.Now().Add(31 * 24 * time.Hour) }
	if _, err := iss.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want %v", err, ErrInvalidToken)
	}
}
