package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/evote/internal/evote/domain"
	"github.com/aussiebroadwan/evote/internal/evote/mail"
	"github.com/aussiebroadwan/evote/internal/evote/store"
	"github.com/aussiebroadwan/evote/pkg/cryptox"
	"github.com/aussiebroadwan/evote/pkg/idx"
	"github.com/aussiebroadwan/evote/pkg/slogx"
	"github.com/pquerna/otp"
)

const (
	DefaultOTPTTL         = 15 * time.Minute
	DefaultOTPMaxAttempts = 5

	otpDigits = otp.DigitsSix
)

type OTPService struct {
	Store  store.Store
	Mailer mail.Sender

	TTL         time.Duration // zero means DefaultOTPTTL
	MaxAttempts int           // zero means DefaultOTPMaxAttempts
	Now         func() time.Time
}

func (s *OTPService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultOTPTTL
}

func (s *OTPService) maxAttempts() int {
	if s.MaxAttempts > 0 {
		return s.MaxAttempts
	}
	return DefaultOTPMaxAttempts
}

// Initiate issues a fresh code to a registered voter and mails it. Any code
// issued earlier stops working. An address that is not registered in the
// project gets the same nil result without any mail being sent.
func (s *OTPService) Initiate(ctx context.Context, projectID, email string) error {
	log := slogx.FromContext(ctx)

	// 1. Normalise and validate the address
	email = domain.NormalizeEmail(email)
	if !domain.ValidEmail(email) {
		return ErrInvalidEmail
	}

	// 2. Only pre-registered voters receive codes
	voter, err := s.Store.Voters().GetVoterByEmail(ctx, projectID, email)
	if errors.Is(err, store.ErrNotFound) {
		log.Warn("otp requested for unregistered email", slog.String("project_id", projectID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup voter: %w", err)
	}

	// 3. Generate the code
	code, err := cryptox.GenerateNumericCode(otpDigits)
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	// 4. Replace any earlier code
	now := nowOr(s.Now)
	record := domain.OneTimeCode{
		ID:        idx.NewAt(now).String(),
		VoterID:   voter.ID,
		Email:     voter.Email,
		CodeHash:  cryptox.FingerprintToken(code),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl()),
	}
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.OTPCodes().DeleteCodesForVoter(ctx, voter.ID); err != nil {
			return err
		}
		return tx.OTPCodes().CreateCode(ctx, record)
	})
	if err != nil {
		return fmt.Errorf("store code: %w", err)
	}

	// 5. Deliver exactly one mail
	msg, err := mail.OTPMessage(voter.Email, voter.Name, code, s.ttl())
	if err != nil {
		return err
	}
	if err := s.Mailer.Send(ctx, msg); err != nil {
		log.Error("failed to send otp mail", slog.String("voter_id", voter.ID), slog.Any("error", err))
		return fmt.Errorf("send otp mail: %w", err)
	}

	log.Info("otp issued",
		slog.String("voter_id", voter.ID),
		slog.Time("expires_at", record.ExpiresAt),
	)
	return nil
}

// Verify checks code against the voter's outstanding code and consumes it
// on success. Every failure other than malformed input or lockout reports
// ErrInvalidCode so callers cannot tell which check failed.
func (s *OTPService) Verify(ctx context.Context, projectID, email, code string) (domain.Voter, error) {
	log := slogx.FromContext(ctx)

	// 1. Input shape
	email = domain.NormalizeEmail(email)
	if !domain.ValidEmail(email) {
		return domain.Voter{}, ErrInvalidEmail
	}
	if !cryptox.IsNumericCode(code, otpDigits) {
		return domain.Voter{}, ErrInvalidCodeFormat
	}

	// 2. Voter
	voter, err := s.Store.Voters().GetVoterByEmail(ctx, projectID, email)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Voter{}, ErrInvalidCode
	}
	if err != nil {
		return domain.Voter{}, fmt.Errorf("lookup voter: %w", err)
	}

	// 3. Outstanding, unexpired code
	record, err := s.Store.OTPCodes().GetCodeByVoter(ctx, voter.ID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Voter{}, ErrInvalidCode
	}
	if err != nil {
		return domain.Voter{}, fmt.Errorf("lookup code: %w", err)
	}
	if record.Email != voter.Email || record.Expired(nowOr(s.Now)) {
		return domain.Voter{}, ErrInvalidCode
	}

	// 4. Reserve an attempt. The counter is claimed before comparing so
	// concurrent guesses cannot exceed the cap between read and write.
	if record.Attempts >= s.maxAttempts() {
		log.Warn("otp locked after too many attempts", slog.String("voter_id", voter.ID))
		return domain.Voter{}, ErrTooManyAttempts
	}
	claimed, err := s.Store.OTPCodes().ClaimAttempt(ctx, record.ID, s.maxAttempts())
	if errors.Is(err, store.ErrNotFound) {
		return domain.Voter{}, s.unclaimable(ctx, voter.ID, record.ID)
	}
	if err != nil {
		return domain.Voter{}, fmt.Errorf("record attempt: %w", err)
	}

	// 5. Compare
	if !cryptox.EqualFingerprint(cryptox.FingerprintToken(code), claimed.CodeHash) {
		log.Info("otp mismatch", slog.String("voter_id", voter.ID), slog.Int("attempts", claimed.Attempts))
		return domain.Voter{}, ErrInvalidCode
	}

	// 6. Consume. Only the caller whose delete removes the row wins.
	err = s.Store.OTPCodes().DeleteCode(ctx, record.ID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Voter{}, ErrInvalidCode
	}
	if err != nil {
		return domain.Voter{}, fmt.Errorf("consume code: %w", err)
	}

	log.Info("otp verified", slog.String("voter_id", voter.ID))
	return voter, nil
}

// unclaimable explains a failed attempt reservation: the code is either
// exhausted and still on file, or was consumed or replaced meanwhile.
func (s *OTPService) unclaimable(ctx context.Context, voterID, codeID string) error {
	current, err := s.Store.OTPCodes().GetCodeByVoter(ctx, voterID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidCode
	}
	if err != nil {
		return fmt.Errorf("lookup code: %w", err)
	}
	if current.ID != codeID {
		return ErrInvalidCode
	}
	slogx.FromContext(ctx).Warn("otp locked after too many attempts", slog.String("voter_id", voterID))
	return ErrTooManyAttempts
}
