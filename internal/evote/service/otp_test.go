package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOTPInitiateAndVerify(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	v := f.voter(t, "alice@example.com", 1)

	require.NoError(t, f.otp.Initiate(ctx, f.project.ID, "  Alice@Example.com "))
	require.Len(t, f.mailer.Messages(), 1)

	msg, _ := f.mailer.Last()
	require.Equal(t, "alice@example.com", msg.To)

	got, err := f.otp.Verify(ctx, f.project.ID, "ALICE@example.com", f.lastCode(t))
	require.NoError(t, err)
	require.Equal(t, v.ID, got.ID)

	t.Run("code is consumed", func(t *testing.T) {
		_, err := f.otp.Verify(ctx, f.project.ID, "alice@example.com", f.lastCode(t))
		require.ErrorIs(t, err, ErrInvalidCode)
	})
}

func TestOTPExpiryBoundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		elapsed time.Duration
		wantErr error
	}{
		{"one second before expiry", 15*time.Minute - time.Second, nil},
		{"exactly at expiry", 15 * time.Minute, ErrInvalidCode},
		{"sixteen minutes later", 16 * time.Minute, ErrInvalidCode},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			ctx := context.Background()
			f.voter(t, "bob@example.com", 1)

			issuedAt := f.clock.Now()
			require.NoError(t, f.otp.Initiate(ctx, f.project.ID, "bob@example.com"))

			f.clock.Set(issuedAt.Add(tc.elapsed))
			_, err := f.otp.Verify(ctx, f.project.ID, "bob@example.com", f.lastCode(t))
			if tc.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestOTPReissueInvalidatesPreviousCode(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.voter(t, "carol@example.com", 1)

	require.NoError(t, f.otp.Initiate(ctx, f.project.ID, "carol@example.com"))
	first := f.lastCode(t)

	// Force distinct codes so the assertion below is meaningful.
	for {
		f.clock.Advance(time.Second)
		require.NoError(t, f.otp.Initiate(ctx, f.project.ID, "carol@example.com"))
		if f.lastCode(t) != first {
			break
		}
	}
	second := f.lastCode(t)

	_, err := f.otp.Verify(ctx, f.project.ID, "carol@example.com", first)
	require.ErrorIs(t, err, ErrInvalidCode)

	_, err = f.otp.Verify(ctx, f.project.ID, "carol@example.com", second)
	require.NoError(t, err)
}

func TestOTPAttemptLockout(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.voter(t, "dave@example.com", 1)

	require.NoError(t, f.otp.Initiate(ctx, f.project.ID, "dave@example.com"))
	code := f.lastCode(t)
	wrong := otherCode(code)

	for range DefaultOTPMaxAttempts {
		_, err := f.otp.Verify(ctx, f.project.ID, "dave@example.com", wrong)
		require.ErrorIs(t, err, ErrInvalidCode)
	}

	// Even the right code is refused once locked.
	_, err := f.otp.Verify(ctx, f.project.ID, "dave@example.com", code)
	require.ErrorIs(t, err, ErrTooManyAttempts)

	// A fresh code resets the counter.
	require.NoError(t, f.otp.Initiate(ctx, f.project.ID, "dave@example.com"))
	_, err = f.otp.Verify(ctx, f.project.ID, "dave@example.com", f.lastCode(t))
	require.NoError(t, err)
}

// verifyConcurrently releases n Verify calls at once and collects their errors.
func verifyConcurrently(f *fixture, n int, email, code string) []error {
	ctx := context.Background()
	start := make(chan struct{})
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, errs[i] = f.otp.Verify(ctx, f.project.ID, email, code)
		}()
	}
	close(start)
	wg.Wait()
	return errs
}

func TestOTPConcurrentGuessesRespectCap(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	v := f.voter(t, "gina@example.com", 1)

	require.NoError(t, f.otp.Initiate(ctx, f.project.ID, "gina@example.com"))
	wrong := otherCode(f.lastCode(t))

	var invalid, locked int
	for _, err := range verifyConcurrently(f, 40, "gina@example.com", wrong) {
		switch {
		case errors.Is(err, ErrInvalidCode):
			invalid++
		case errors.Is(err, ErrTooManyAttempts):
			locked++
		default:
			t.Fatalf("unexpected verify result: %v", err)
		}
	}
	require.Equal(t, DefaultOTPMaxAttempts, invalid)
	require.Equal(t, 40-DefaultOTPMaxAttempts, locked)

	record, err := f.store.OTPCodes().GetCodeByVoter(ctx, v.ID)
	require.NoError(t, err)
	require.Equal(t, DefaultOTPMaxAttempts, record.Attempts)
}

func TestOTPConcurrentCorrectCodeSucceedsOnce(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.voter(t, "hank@example.com", 1)

	for trial := range 10 {
		f.clock.Advance(time.Second)
		require.NoError(t, f.otp.Initiate(ctx, f.project.ID, "hank@example.com"))
		code := f.lastCode(t)

		var ok int
		for _, err := range verifyConcurrently(f, 8, "hank@example.com", code) {
			if err == nil {
				ok++
				continue
			}
			if !errors.Is(err, ErrInvalidCode) && !errors.Is(err, ErrTooManyAttempts) {
				t.Fatalf("trial %d: unexpected verify result: %v", trial, err)
			}
		}
		require.Equal(t, 1, ok, "trial %d", trial)
	}
}

func TestOTPUnknownEmailSendsNoMail(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.otp.Initiate(ctx, f.project.ID, "stranger@example.com"))
	require.Empty(t, f.mailer.Messages())

	_, err := f.otp.Verify(ctx, f.project.ID, "stranger@example.com", "123456")
	require.ErrorIs(t, err, ErrInvalidCode)
}

func TestOTPIsScopedToProject(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.voter(t, "erin@example.com", 1)

	other, err := f.admin.CreateProject(ctx, "Other")
	require.NoError(t, err)

	require.NoError(t, f.otp.Initiate(ctx, other.ID, "erin@example.com"))
	require.Empty(t, f.mailer.Messages())
}

func TestOTPInputValidation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	require.ErrorIs(t, f.otp.Initiate(ctx, f.project.ID, "not-an-email"), ErrInvalidEmail)

	_, err := f.otp.Verify(ctx, f.project.ID, "bad", "123456")
	require.ErrorIs(t, err, ErrInvalidEmail)

	for _, code := range []string{"", "12345", "1234567", "12a456", "１２３４５６"} {
		_, err := f.otp.Verify(ctx, f.project.ID, "ok@example.com", code)
		require.ErrorIs(t, err, ErrInvalidCodeFormat, code)
	}
}

func TestOTPMailFailureIsReported(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.voter(t, "frank@example.com", 1)

	f.mailer.Err = errors.New("relay down")
	err := f.otp.Initiate(ctx, f.project.ID, "frank@example.com")
	require.ErrorIs(t, err, f.mailer.Err)
}
