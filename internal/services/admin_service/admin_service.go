package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"sunami_park/internal/lib/jwt"
	"sunami_park/internal/lib/logger/sl"
	"sunami_park/internal/metrics"
	"sunami_park/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// RevealThreshold is how many logo clicks open the hidden login form.
const RevealThreshold = 5

var ErrInvalidCredentials = errors.New("invalid credentials")

// Credentials carries the configured admin identity. PasswordHash is a
// bcrypt hash; PasswordChecksum is the legacy rolling-hash digest kept for
// credentials issued before bcrypt.
type Credentials struct {
	Username         string
	PasswordHash     string
	PasswordChecksum string
}

// AdminService runs the hidden admin gate: the logo click counter, the
// login check and the session token issue.
type AdminService struct {
	log      *slog.Logger
	gate     repository.GateRepository
	creds    Credentials
	secret   string
	tokenTTL time.Duration
}

func NewAdminService(
	log *slog.Logger,
	gate repository.GateRepository,
	creds Credentials,
	secret string,
	tokenTTL time.Duration,
) *AdminService {
	return &AdminService{
		log:      log,
		gate:     gate,
		creds:    creds,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// LogoClick counts one logo click for the visitor. The fifth click reveals
// the login form and resets the counter, so dismissing and starting over
// takes five clicks again.
func (s *AdminService) LogoClick(ctx context.Context, visitorID string) (revealed bool, clicks int64, err error) {
	const op = "service.AdminService.LogoClick"
	log := s.log.With(slog.String("op", op))

	clicks, err = s.gate.IncrClicks(ctx, visitorID)
	if err != nil {
		log.Error("failed to count click", sl.Err(err))
		return false, 0, fmt.Errorf("%s: %w", op, err)
	}

	if clicks < RevealThreshold {
		return false, clicks, nil
	}

	if err := s.gate.ResetClicks(ctx, visitorID); err != nil {
		log.Error("failed to reset click counter", sl.Err(err))
	}

	log.Info("admin login revealed")

	return true, clicks, nil
}

// Dismiss hides the login form again and resets the visitor's counter.
func (s *AdminService) Dismiss(ctx context.Context, visitorID string) error {
	const op = "service.AdminService.Dismiss"

	if err := s.gate.ResetClicks(ctx, visitorID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Login verifies the credentials and issues a signed admin token. The
// bcrypt hash is checked first; the legacy checksum only when no hash is
// configured.
func (s *AdminService) Login(ctx context.Context, visitorID, username, password string) (string, error) {
	const op = "service.AdminService.Login"
	log := s.log.With(slog.String("op", op))

	if !s.verify(username, password) {
		metrics.AdminLoginsTotal.WithLabelValues("failure").Inc()
		log.Warn("failed login attempt", slog.String("username", username))
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if err := s.gate.ResetClicks(ctx, visitorID); err != nil {
		log.Error("failed to reset click counter", sl.Err(err))
	}

	token, err := jwt.NewAdminToken(username, s.secret, s.tokenTTL)
	if err != nil {
		log.Error("failed to issue token", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	metrics.AdminLoginsTotal.WithLabelValues("success").Inc()
	log.Info("admin logged in")

	return token, nil
}

func (s *AdminService) verify(username, password string) bool {
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.creds.Username)) != 1 {
		return false
	}

	if s.creds.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword(
			[]byte(s.creds.PasswordHash), []byte(password)) == nil
	}

	digest := Checksum(password)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(s.creds.PasswordChecksum)) == 1
}

// Checksum is the legacy password digest: a 32-bit rolling hash rendered
// as lowercase hex. Kept only to verify checksums issued before bcrypt.
func Checksum(s string) string {
	var hash int32
	for _, r := range s {
		hash = (hash << 5) - hash + int32(r)
	}

	v := int64(hash)
	if v < 0 {
		v = -v
	}

	return strconv.FormatInt(v, 16)
}
