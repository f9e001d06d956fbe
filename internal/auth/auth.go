package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/store"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

// ErrIncorrectPassword is returned when the current password does not match
// during a password change.
var ErrIncorrectPassword = apperr.New(apperr.ErrInvalidCredentials, "Current password is incorrect")

// Claims is the token payload.
type Claims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

// Options configures a Service.
type Options struct {
	Secret []byte
	TTL    time.Duration
	Cost   int
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Service implements login, token verification and password changes.
type Service struct {
	repo   *store.Repo
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

// NewService creates an auth service backed by repo.
func NewService(repo *store.Repo, opts Options) *Service {
	s := &Service{
		repo:   repo,
		secret: opts.Secret,
		ttl:    opts.TTL,
		cost:   opts.Cost,
		now:    opts.Now,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTokenTTL
	}
	if s.cost == 0 {
		s.cost = DefaultCost
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Login checks password against the stored hash and returns a signed token.
func (s *Service) Login(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", apperr.Invalid("Password is required")
	}
	doc, err := s.repo.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("auth: login: %w", err)
	}
	if doc.AdminPasswordHash == "" {
		return "", errors.New("auth: login: no admin password configured")
	}
	if !CheckPassword(doc.AdminPasswordHash, password) {
		return "", apperr.New(apperr.ErrInvalidCredentials, "Invalid password")
	}
	return s.issue()
}

func (s *Service) issue() (string, error) {
	now := s.now()
	claims := Claims{
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return token, nil
}

// Verify validates the signature, algorithm, expiry and admin claim of token.
func (s *Service) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, apperr.ErrMissingToken
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidToken, err)
	}
	if !claims.Admin {
		return nil, apperr.ErrInvalidToken
	}
	return claims, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// ChangePassword replaces the admin password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return apperr.Invalid("Both old and new passwords are required")
	}
	if err := validateNewPassword(newPassword); err != nil {
		return err
	}
	return s.repo.Mutate(ctx, func(doc *models.ContentDocument) error {
		if !CheckPassword(doc.AdminPasswordHash, oldPassword) {
			return ErrIncorrectPassword
		}
		hash, err := HashPassword(newPassword, s.cost)
		if err != nil {
			return err
		}
		doc.AdminPasswordHash = hash
		return nil
	})
}

// SetPassword replaces the admin password without checking the current one.
// It backs the offline reset command.
func (s *Service) SetPassword(ctx context.Context, newPassword string) error {
	if err := validateNewPassword(newPassword); err != nil {
		return err
	}
	hash, err := HashPassword(newPassword, s.cost)
	if err != nil {
		return err
	}
	return s.repo.Mutate(ctx, func(doc *models.ContentDocument) error {
		doc.AdminPasswordHash = hash
		return nil
	})
}

func validateNewPassword(pw string) error {
	if len([]rune(pw)) < MinPasswordLength {
		return apperr.Invalid("New password must be at least %d characters long", MinPasswordLength)
	}
	if len(pw) > maxPasswordBytes {
		return apperr.Invalid("New password must be at most %d bytes long", maxPasswordBytes)
	}
	return nil
}
