package sqlite

import (
	"context"

	"github.com/aussiebroadwan/evote/internal/evote/domain"
)

type projectsRepo struct {
	q dbtx
}

func (r *projectsRepo) CreateProject(ctx context.Context, p domain.Project) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO projects (id, name, created_at) VALUES (?, ?, ?)`,
		p.ID, p.Name, toMillis(p.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *projectsRepo) GetProject(ctx context.Context, id string) (domain.Project, error) {
	var (
		p       domain.Project
		created int64
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM projects WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &created)
	if err != nil {
		return domain.Project{}, mapNotFound(err)
	}
	p.CreatedAt = fromMillis(created)
	return p, nil
}

func (r *projectsRepo) ListProjects(ctx context.Context) ([]domain.Project, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, name, created_at FROM projects ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Project
	for rows.Next() {
		var (
			p       domain.Project
			created int64
		)
		if err := rows.Scan(&p.ID, &p.Name, &created); err != nil {
			return nil, err
		}
		p.CreatedAt = fromMillis(created)
		out = append(out, p)
	}
	return out, rows.Err()
}
