package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/store"
)

const testPassword = "correct-horse"

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func testService(t *testing.T) (*Service, *store.Memory, *clock) {
	t.Helper()
	hash, err := HashPassword(testPassword, bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	mem := store.NewMemory()
	if err := mem.Save(context.Background(), models.DefaultDocument(hash)); err != nil {
		t.Fatal(err)
	}
	c := &clock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewService(store.NewRepo(mem), Options{
		Secret: []byte("0123456789abcdef0123456789abcdef"),
		Cost:   bcrypt.MinCost,
		Now:    c.now,
	})
	return svc, mem, c
}

func TestLogin_CorrectPasswordVerifiesUntilExpiry(t *testing.T) {
	svc, _, c := testService(t)

	token, err := svc.Login(context.Background(), testPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify fresh token: %v", err)
	}
	if !claims.Admin || claims.ID == "" {
		t.Errorf("claims = %+v", claims)
	}
	if got := claims.ExpiresAt.Sub(c.t); got != DefaultTokenTTL {
		t.Errorf("ttl = %v, want %v", got, DefaultTokenTTL)
	}

	c.t = c.t.Add(DefaultTokenTTL - time.Minute)
	if _, err := svc.Verify(token); err != nil {
		t.Errorf("token rejected before expiry: %v", err)
	}

	c.t = c.t.Add(2 * time.Minute)
	if _, err := svc.Verify(token); !errors.Is(err, apperr.ErrInvalidToken) {
		t.Errorf("expired token: err = %v, want ErrInvalidToken", err)
	}
}

func TestLogin_WrongPasswordAlwaysFails(t *testing.T) {
	svc, _, _ := testService(t)
	for i, pw := range []string{"wrong", testPassword + " ", strings.ToUpper(testPassword), "wrong", "correct-hors"} {
		_, err := svc.Login(context.Background(), pw)
		if !errors.Is(err, apperr.ErrInvalidCredentials) {
			t.Errorf("attempt %d (%q): err = %v, want ErrInvalidCredentials", i, pw, err)
		}
	}
	// Still works after repeated failures.
	if _, err := svc.Login(context.Background(), testPassword); err != nil {
		t.Errorf("Login after failures: %v", err)
	}
}

func TestLogin_NoPlaintextFallback(t *testing.T) {
	svc, mem, _ := testService(t)
	// A document whose "hash" is actually a plaintext password must not log in.
	doc, _ := mem.Load(context.Background())
	doc.AdminPasswordHash = testPassword
	_ = mem.Save(context.Background(), doc)

	if _, err := svc.Login(context.Background(), testPassword); !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Errorf("plaintext comparison accepted: err = %v", err)
	}
}

func TestLogin_EmptyPassword(t *testing.T) {
	svc, _, _ := testService(t)
	if _, err := svc.Login(context.Background(), ""); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestVerify_Rejections(t *testing.T) {
	svc, _, c := testService(t)
	good, _ := svc.Login(context.Background(), testPassword)

	sign := func(method jwt.SigningMethod, key any, claims Claims) string {
		tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
		if err != nil {
			t.Fatal(err)
		}
		return tok
	}
	exp := jwt.NewNumericDate(c.t.Add(time.Hour))

	cases := map[string]struct {
		token string
		want  error
	}{
		"empty":        {"", apperr.ErrMissingToken},
		"garbage":      {"not.a.token", apperr.ErrInvalidToken},
		"tampered":     {good[:len(good)-2] + "xx", apperr.ErrInvalidToken},
		"other secret": {sign(jwt.SigningMethodHS256, []byte("another-secret-another-secret!!"), Claims{Admin: true, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}}), apperr.ErrInvalidToken},
		"not admin":    {sign(jwt.SigningMethodHS256, svc.secret, Claims{Admin: false, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}}), apperr.ErrInvalidToken},
		"no expiry":    {sign(jwt.SigningMethodHS256, svc.secret, Claims{Admin: true}), apperr.ErrInvalidToken},
		"alg none":     {sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, Claims{Admin: true, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}}), apperr.ErrInvalidToken},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Verify(tc.token); !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":  "abc",
		"bearer abc":  "abc",
		"Basic abc":   "",
		"Bearer":      "",
		"":            "",
		"Bearer  abc": "abc",
	}
	for in, want := range cases {
		if got := BearerToken(in); got != want {
			t.Errorf("BearerToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestChangePassword(t *testing.T) {
	svc, mem, _ := testService(t)
	ctx := context.Background()

	if err := svc.ChangePassword(ctx, "wrong-old", "new-password-1"); !errors.Is(err, ErrIncorrectPassword) {
		t.Fatalf("wrong old password: err = %v", err)
	}
	if err := svc.ChangePassword(ctx, testPassword, "short"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("weak password: err = %v", err)
	}
	if err := svc.ChangePassword(ctx, "", "new-password-1"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("missing old password: err = %v", err)
	}
	if mem.Saves() != 1 {
		t.Errorf("failed changes persisted: saves = %d", mem.Saves())
	}

	if err := svc.ChangePassword(ctx, testPassword, "new-password-1"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := svc.Login(ctx, testPassword); !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Error("old password still accepted")
	}
	if _, err := svc.Login(ctx, "new-password-1"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

func TestSetPassword(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()
	if err := svc.SetPassword(ctx, "1234567"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("short password: err = %v", err)
	}
	if err := svc.SetPassword(ctx, strings.Repeat("a", 73)); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("overlong password: err = %v", err)
	}
	if err := svc.SetPassword(ctx, "reset-password"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if _, err := svc.Login(ctx, "reset-password"); err != nil {
		t.Errorf("Login after reset: %v", err)
	}
}

func TestHashPassword_Salted(t *testing.T) {
	a, _ := HashPassword("same-password", bcrypt.MinCost)
	b, _ := HashPassword("same-password", bcrypt.MinCost)
	if a == b {
		t.Error("identical hashes: salt missing")
	}
	if !CheckPassword(a, "same-password") || !CheckPassword(b, "same-password") {
		t.Error("hash does not verify")
	}
	if CheckPassword("", "") {
		t.Error("empty hash must never verify")
	}
}
