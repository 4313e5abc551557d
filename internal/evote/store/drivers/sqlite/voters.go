package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/evote/internal/evote/domain"
)

type votersRepo struct {
	q dbtx
}

const voterColumns = `id, project_id, email, name, company, voting_weight, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVoter(row rowScanner) (domain.Voter, error) {
	var (
		v                domain.Voter
		status           string
		created, updated int64
	)
	err := row.Scan(&v.ID, &v.ProjectID, &v.Email, &v.Name, &v.Company, &v.VotingWeight, &status, &created, &updated)
	if err != nil {
		return domain.Voter{}, err
	}
	v.Status = domain.VoterStatus(status)
	v.CreatedAt = fromMillis(created)
	v.UpdatedAt = fromMillis(updated)
	return v, nil
}

func collectVoters(rows *sql.Rows) ([]domain.Voter, error) {
	defer rows.Close()

	var out []domain.Voter
	for rows.Next() {
		v, err := scanVoter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *votersRepo) CreateVoter(ctx context.Context, v domain.Voter) error {
	status := v.Status
	if status == "" {
		status = domain.VoterInvited
	}
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO voters (`+voterColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.ProjectID, v.Email, v.Name, v.Company, v.VotingWeight, string(status),
		toMillis(v.CreatedAt), toMillis(v.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *votersRepo) GetVoterByID(ctx context.Context, id string) (domain.Voter, error) {
	v, err := scanVoter(r.q.QueryRowContext(ctx,
		`SELECT `+voterColumns+` FROM voters WHERE id = ?`, id,
	))
	if err != nil {
		return domain.Voter{}, mapNotFound(err)
	}
	return v, nil
}

func (r *votersRepo) GetVoterByEmail(ctx context.Context, projectID, email string) (domain.Voter, error) {
	v, err := scanVoter(r.q.QueryRowContext(ctx,
		`SELECT `+voterColumns+` FROM voters WHERE project_id = ? AND email = ?`, projectID, email,
	))
	if err != nil {
		return domain.Voter{}, mapNotFound(err)
	}
	return v, nil
}

func (r *votersRepo) ListVoters(ctx context.Context, projectID string) ([]domain.Voter, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+voterColumns+` FROM voters WHERE project_id = ? ORDER BY email`, projectID,
	)
	if err != nil {
		return nil, err
	}
	return collectVoters(rows)
}

func (r *votersRepo) ListVotersByCompany(ctx context.Context, projectID, company string) ([]domain.Voter, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+voterColumns+` FROM voters WHERE project_id = ? AND company = ? ORDER BY email`,
		projectID, company,
	)
	if err != nil {
		return nil, err
	}
	return collectVoters(rows)
}

func (r *votersRepo) UpdateVoterWeight(ctx context.Context, id string, weight float64, now time.Time) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE voters SET voting_weight = ?, updated_at = ? WHERE id = ?`,
		weight, toMillis(now), id,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *votersRepo) MarkVoted(ctx context.Context, id string, now time.Time) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE voters SET status = 'voted', updated_at = ? WHERE id = ?`,
		toMillis(now), id,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
