package crypto

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestTokenService(t *testing.T, secret string) *TokenService {
	t.Helper()
	svc, err := NewTokenService(secret, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService() unexpected error: %v", err)
	}
	return svc
}

func TestNewTokenServiceEmptySecret(t *testing.T) {
	_, err := NewTokenService("", time.Hour)
	if !errors.Is(err, ErrEmptySecret) {
		t.Fatalf("NewTokenService() error = %v, want ErrEmptySecret", err)
	}
}

func TestIssueAndVerify(t *testing.T) {
	svc := newTestTokenService(t, "test-secret")

	token, err := svc.Issue("user-a")
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty string")
	}

	sub, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify() unexpected error: %v", err)
	}
	if sub != "user-a" {
		t.Errorf("Verify() subject = %q, want %q", sub, "user-a")
	}
}

func TestIssueSetsSevenDayExpiry(t *testing.T) {
	svc := newTestTokenService(t, "test-secret")
	fixed := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	token, err := svc.Issue("user-a")
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		t.Fatalf("ParseUnverified() unexpected error: %v", err)
	}
	if got := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time); got != 7*24*time.Hour {
		t.Errorf("lifetime = %v, want 168h", got)
	}
}

func TestVerifyInvalid(t *testing.T) {
	svc := newTestTokenService(t, "test-secret")

	_, err := svc.Verify("not-a-valid-token")
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := newTestTokenService(t, "correct-secret").Issue("user-a")
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	_, err = newTestTokenService(t, "wrong-secret").Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	svc := newTestTokenService(t, "test-secret")
	issuedAt := time.Now().Add(-8 * 24 * time.Hour)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.Issue("user-a")
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	svc.now = time.Now
	_, err = svc.Verify(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Verify() error = %v, want ErrExpiredToken", err)
	}
}

func TestVerifyStillValidJustBeforeExpiry(t *testing.T) {
	svc := newTestTokenService(t, "test-secret")
	issuedAt := time.Now().Add(-7*24*time.Hour + time.Minute)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.Issue("user-a")
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.Verify(token); err != nil {
		t.Errorf("Verify() unexpected error: %v", err)
	}
}

func signClaims(t *testing.T, method jwt.SigningMethod, claims jwt.RegisteredClaims, key any) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("SignedString() unexpected error: %v", err)
	}
	return token
}

func TestVerifyRejectsForeignClaims(t *testing.T) {
	secret := "test-secret"
	svc := newTestTokenService(t, secret)
	now := time.Now()

	base := jwt.RegisteredClaims{
		Subject:   "user-a",
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{tokenAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}

	wrongIssuer := base
	wrongIssuer.Issuer = "wrong-issuer"

	wrongAudience := base
	wrongAudience.Audience = jwt.ClaimStrings{"wrong-audience"}

	noExpiry := base
	noExpiry.ExpiresAt = nil

	noSubject := base
	noSubject.Subject = ""

	tests := []struct {
		name  string
		token string
	}{
		{"wrong issuer", signClaims(t, jwt.SigningMethodHS256, wrongIssuer, []byte(secret))},
		{"wrong audience", signClaims(t, jwt.SigningMethodHS256, wrongAudience, []byte(secret))},
		{"missing expiry", signClaims(t, jwt.SigningMethodHS256, noExpiry, []byte(secret))},
		{"missing subject", signClaims(t, jwt.SigningMethodHS256, noSubject, []byte(secret))},
		{"none algorithm", signClaims(t, jwt.SigningMethodNone, base, jwt.UnsafeAllowNoneSignatureType)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Verify(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
