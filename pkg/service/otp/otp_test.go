package otp_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/warden/pkg/domain/model"
	"github.com/secmon-lab/warden/pkg/repository"
	"github.com/secmon-lab/warden/pkg/service/otp"
)

func TestIssueAndVerify(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	svc := otp.New(repo)

	code, err := svc.Issue(ctx, "analyst@warden.example")
	gt.NoError(t, err).Required()
	gt.Equal(t, 6, len(code))

	ok, err := svc.Verify(ctx, "analyst@warden.example", code)
	gt.NoError(t, err)
	gt.B(t, ok).True()

	// Single-use: a second attempt with the same code fails
	ok, err = svc.Verify(ctx, "analyst@warden.example", code)
	gt.NoError(t, err)
	gt.B(t, ok).False()
}

func TestVerifyWrongCode(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	svc := otp.New(repo)

	code, err := svc.Issue(ctx, "analyst@warden.example")
	gt.NoError(t, err).Required()

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	ok, err := svc.Verify(ctx, "analyst@warden.example", wrong)
	gt.NoError(t, err)
	gt.B(t, ok).False()

	// The challenge survives a failed attempt
	ok, err = svc.Verify(ctx, "analyst@warden.example", code)
	gt.NoError(t, err)
	gt.B(t, ok).True()
}

func TestVerifyUnknownEmail(t *testing.T) {
	ctx := context.Background()
	svc := otp.New(repository.NewMemory())

	ok, err := svc.Verify(ctx, "nobody@warden.example", "123456")
	gt.NoError(t, err)
	gt.B(t, ok).False()
}

func TestReissueReplacesChallenge(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	svc := otp.New(repo)

	first, err := svc.Issue(ctx, "analyst@warden.example")
	gt.NoError(t, err).Required()
	second, err := svc.Issue(ctx, "analyst@warden.example")
	gt.NoError(t, err).Required()

	// The first secret is gone; only the fresh code can verify. The codes may
	// collide by chance, in which case both checks pass trivially.
	if first != second {
		ok, err := svc.Verify(ctx, "analyst@warden.example", first)
		gt.NoError(t, err)
		gt.B(t, ok).False()
	}

	ok, err := svc.Verify(ctx, "analyst@warden.example", second)
	gt.NoError(t, err)
	gt.B(t, ok).True()
}

func TestExpiredChallengePurged(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	svc := otp.New(repo)

	code, err := svc.Issue(ctx, "analyst@warden.example")
	gt.NoError(t, err).Required()

	// Backdate the challenge past its lifetime
	gt.NoError(t, repo.SaveOTP(ctx, &model.PendingOTP{
		Email:     "analyst@warden.example",
		Secret:    "JBSWY3DPEHPK3PXP",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	ok, err := svc.Verify(ctx, "analyst@warden.example", code)
	gt.NoError(t, err)
	gt.B(t, ok).False()

	pending, err := repo.GetOTP(ctx, "analyst@warden.example")
	gt.NoError(t, err)
	gt.Nil(t, pending)
}
