package sqlite

import (
	"context"

	"github.com/aussiebroadwan/evote/internal/evote/domain"
)

type optionsRepo struct {
	q dbtx
}

func (r *optionsRepo) CreateOption(ctx context.Context, o domain.AgendaOption) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO agenda_options (id, agenda_id, title, resolution, required_approval, position, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.AgendaID, o.Title, o.Resolution, o.RequiredApproval, o.Position, toMillis(o.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *optionsRepo) ListOptions(ctx context.Context, agendaID string) ([]domain.AgendaOption, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, agenda_id, title, resolution, required_approval, position, created_at
		 FROM agenda_options WHERE agenda_id = ? ORDER BY position, id`, agendaID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AgendaOption
	for rows.Next() {
		var (
			o       domain.AgendaOption
			created int64
		)
		if err := rows.Scan(&o.ID, &o.AgendaID, &o.Title, &o.Resolution, &o.RequiredApproval, &o.Position, &created); err != nil {
			return nil, err
		}
		o.CreatedAt = fromMillis(created)
		out = append(out, o)
	}
	return out, rows.Err()
}
