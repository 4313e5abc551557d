package sqlite

import (
	"context"

	"github.com/aussiebroadwan/evote/internal/evote/domain"
)

type adminsRepo struct {
	q dbtx
}

func (r *adminsRepo) CreateAdmin(ctx context.Context, a domain.Admin) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO admins (id, username, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		a.ID, a.Username, a.PasswordHash, toMillis(a.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *adminsRepo) GetAdminByUsername(ctx context.Context, username string) (domain.Admin, error) {
	var (
		a       domain.Admin
		created int64
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM admins WHERE username = ?`, username,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &created)
	if err != nil {
		return domain.Admin{}, mapNotFound(err)
	}
	a.CreatedAt = fromMillis(created)
	return a, nil
}

func (r *adminsRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}
