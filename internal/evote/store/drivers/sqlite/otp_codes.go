package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/evote/internal/evote/domain"
)

type otpCodesRepo struct {
	q dbtx
}

const otpColumns = `id, voter_id, email, code_hash, attempts, created_at, expires_at`

func scanCode(row rowScanner) (domain.OneTimeCode, error) {
	var (
		c                domain.OneTimeCode
		created, expires int64
	)
	if err := row.Scan(&c.ID, &c.VoterID, &c.Email, &c.CodeHash, &c.Attempts, &created, &expires); err != nil {
		return domain.OneTimeCode{}, err
	}
	c.CreatedAt = fromMillis(created)
	c.ExpiresAt = fromMillis(expires)
	return c, nil
}

func (r *otpCodesRepo) CreateCode(ctx context.Context, c domain.OneTimeCode) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO otp_codes (`+otpColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.VoterID, c.Email, c.CodeHash, c.Attempts, toMillis(c.CreatedAt), toMillis(c.ExpiresAt),
	)
	return mapConstraint(err)
}

func (r *otpCodesRepo) GetCodeByVoter(ctx context.Context, voterID string) (domain.OneTimeCode, error) {
	c, err := scanCode(r.q.QueryRowContext(ctx,
		`SELECT `+otpColumns+` FROM otp_codes WHERE voter_id = ?`, voterID,
	))
	if err != nil {
		return domain.OneTimeCode{}, mapNotFound(err)
	}
	return c, nil
}

func (r *otpCodesRepo) ClaimAttempt(ctx context.Context, id string, maxAttempts int) (domain.OneTimeCode, error) {
	c, err := scanCode(r.q.QueryRowContext(ctx,
		`UPDATE otp_codes SET attempts = attempts + 1
		 WHERE id = ? AND attempts < ?
		 RETURNING `+otpColumns,
		id, maxAttempts,
	))
	if err != nil {
		return domain.OneTimeCode{}, mapNotFound(err)
	}
	return c, nil
}

func (r *otpCodesRepo) DeleteCode(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM otp_codes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *otpCodesRepo) DeleteCodesForVoter(ctx context.Context, voterID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM otp_codes WHERE voter_id = ?`, voterID)
	return err
}

func (r *otpCodesRepo) DeleteExpiredCodes(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM otp_codes WHERE expires_at <= ?`, toMillis(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
