// Package otp issues and verifies the one-time passcodes used for account
// verification and password resets. Codes are 6-digit TOTP values over a
// per-challenge secret with a 5 minute period; a challenge is single-use and
// expires with its period.
package otp

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	potp "github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/secmon-lab/warden/pkg/domain/interfaces"
	"github.com/secmon-lab/warden/pkg/domain/model"
)

const (
	issuer = "warden"
	// codeTTL is both the TOTP period and the challenge lifetime
	codeTTL = 5 * time.Minute
)

var validateOpts = totp.ValidateOpts{
	Period: uint(codeTTL / time.Second),
	// One period of skew tolerates codes issued just before a window rollover
	Skew:      1,
	Digits:    potp.DigitsSix,
	Algorithm: potp.AlgorithmSHA1,
}

// Service issues and verifies per-email OTP challenges
type Service struct {
	repo interfaces.Repository
}

// New creates a new OTP service
func New(repo interfaces.Repository) *Service {
	return &Service{repo: repo}
}

// Issue creates a fresh challenge for the email and returns the 6-digit code.
// Any previous challenge for the same email is replaced.
func (s *Service) Issue(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", goerr.New("email is required")
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: email,
		Period:      validateOpts.Period,
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate OTP secret")
	}

	code, err := totp.GenerateCodeCustom(key.Secret(), time.Now(), validateOpts)
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate OTP code")
	}

	pending := &model.PendingOTP{
		Email:     email,
		Secret:    key.Secret(),
		ExpiresAt: time.Now().Add(codeTTL),
	}
	if err := s.repo.SaveOTP(ctx, pending); err != nil {
		return "", goerr.Wrap(err, "failed to save OTP challenge")
	}

	return code, nil
}

// Verify checks the code against the pending challenge for the email. A
// missing, expired or mismatched challenge verifies false without error; a
// successful verification consumes the challenge.
func (s *Service) Verify(ctx context.Context, email, code string) (bool, error) {
	if email == "" || code == "" {
		return false, nil
	}

	pending, err := s.repo.GetOTP(ctx, email)
	if err != nil {
		return false, goerr.Wrap(err, "failed to load OTP challenge")
	}
	if pending == nil {
		return false, nil
	}

	if pending.IsExpired() {
		// Purge so the expired secret cannot be retried
		if err := s.repo.DeleteOTP(ctx, email); err != nil {
			return false, goerr.Wrap(err, "failed to purge expired OTP")
		}
		return false, nil
	}

	ok, err := totp.ValidateCustom(code, pending.Secret, time.Now(), validateOpts)
	if err != nil {
		return false, goerr.Wrap(err, "failed to validate OTP code")
	}
	if !ok {
		return false, nil
	}

	// Single-use: consume on success
	if err := s.repo.DeleteOTP(ctx, email); err != nil {
		return false, goerr.Wrap(err, "failed to consume OTP challenge")
	}

	return true, nil
}
