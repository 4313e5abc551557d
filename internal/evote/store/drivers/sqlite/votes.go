package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/evote/internal/evote/domain"
)

type votesRepo struct {
	q dbtx
}

const voteColumns = `id, agenda_id, option_id, voter_id, decision, weight, cast_at`

func collectVotes(rows *sql.Rows) ([]domain.Vote, error) {
	defer rows.Close()

	var out []domain.Vote
	for rows.Next() {
		var (
			v        domain.Vote
			decision string
			cast     int64
		)
		if err := rows.Scan(&v.ID, &v.AgendaID, &v.OptionID, &v.VoterID, &decision, &v.Weight, &cast); err != nil {
			return nil, err
		}
		d, err := domain.ParseDecision(decision)
		if err != nil {
			return nil, err
		}
		v.Decision = d
		v.CastAt = fromMillis(cast)
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *votesRepo) CreateVote(ctx context.Context, v domain.Vote) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO votes (`+voteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.AgendaID, v.OptionID, v.VoterID, v.Decision.String(), v.Weight, toMillis(v.CastAt),
	)
	return mapConstraint(err)
}

func (r *votesRepo) DeleteVotes(ctx context.Context, voterID, agendaID string) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM votes WHERE voter_id = ? AND agenda_id = ?`, voterID, agendaID,
	)
	return err
}

func (r *votesRepo) ListVotesByVoter(ctx context.Context, voterID, agendaID string) ([]domain.Vote, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+voteColumns+` FROM votes WHERE voter_id = ? AND agenda_id = ? ORDER BY option_id`,
		voterID, agendaID,
	)
	if err != nil {
		return nil, err
	}
	return collectVotes(rows)
}

func (r *votesRepo) ListVotesByAgenda(ctx context.Context, agendaID string) ([]domain.Vote, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+voteColumns+` FROM votes WHERE agenda_id = ? ORDER BY option_id, voter_id`, agendaID,
	)
	if err != nil {
		return nil, err
	}
	return collectVotes(rows)
}
