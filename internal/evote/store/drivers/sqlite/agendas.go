package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/evote/internal/evote/domain"
)

type agendasRepo struct {
	q dbtx
}

const agendaColumns = `id, project_id, title, description, status, created_at, updated_at`

func scanAgenda(row rowScanner) (domain.Agenda, error) {
	var (
		a                domain.Agenda
		status           string
		created, updated int64
	)
	if err := row.Scan(&a.ID, &a.ProjectID, &a.Title, &a.Description, &status, &created, &updated); err != nil {
		return domain.Agenda{}, err
	}
	a.Status = domain.AgendaStatus(status)
	a.CreatedAt = fromMillis(created)
	a.UpdatedAt = fromMillis(updated)
	return a, nil
}

func (r *agendasRepo) CreateAgenda(ctx context.Context, a domain.Agenda) error {
	status := a.Status
	if status == "" {
		status = domain.AgendaDraft
	}
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO agendas (`+agendaColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ProjectID, a.Title, a.Description, string(status), toMillis(a.CreatedAt), toMillis(a.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *agendasRepo) GetAgenda(ctx context.Context, id string) (domain.Agenda, error) {
	a, err := scanAgenda(r.q.QueryRowContext(ctx,
		`SELECT `+agendaColumns+` FROM agendas WHERE id = ?`, id,
	))
	if err != nil {
		return domain.Agenda{}, mapNotFound(err)
	}
	return a, nil
}

func (r *agendasRepo) ListAgendas(ctx context.Context, projectID string) ([]domain.Agenda, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+agendaColumns+` FROM agendas WHERE project_id = ? ORDER BY created_at, id`, projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Agenda
	for rows.Next() {
		a, err := scanAgenda(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *agendasRepo) UpdateAgendaStatus(ctx context.Context, id string, status domain.AgendaStatus, now time.Time) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE agendas SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), toMillis(now), id,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
