package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vncsmyrnk/votebot/internal/core/domain"
	"github.com/vncsmyrnk/votebot/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{db: db}
}

const voteColumns = `id, voter_id, target_id, points_team_up_to_win, points_act_to_deliver, points_disrupt_to_grow,
	comment, period_start, created_at, modified_at`

func (r *voteRepository) Upsert(ctx context.Context, vote *domain.Vote) (*domain.Vote, error) {
	query := `
		INSERT INTO votes (id, voter_id, target_id, points_team_up_to_win, points_act_to_deliver, points_disrupt_to_grow,
			comment, period_start, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (voter_id, target_id, period_start) DO UPDATE
		SET points_team_up_to_win = excluded.points_team_up_to_win,
		    points_act_to_deliver = excluded.points_act_to_deliver,
		    points_disrupt_to_grow = excluded.points_disrupt_to_grow,
		    comment = CASE
		        WHEN excluded.comment = '' THEN votes.comment
		        WHEN votes.comment = '' THEN excluded.comment
		        ELSE votes.comment || char(10) || excluded.comment
		    END,
		    modified_at = excluded.modified_at
		RETURNING ` + voteColumns

	saved, err := scanVote(r.db.QueryRowContext(ctx, query,
		vote.ID.String(),
		vote.VoterID,
		vote.TargetID,
		vote.Points[domain.CategoryTeamUpToWin],
		vote.Points[domain.CategoryActToDeliver],
		vote.Points[domain.CategoryDisruptToGrow],
		vote.Comment,
		toMicros(vote.PeriodStart),
		toMicros(vote.CreatedAt),
		toMicros(vote.ModifiedAt),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert vote: %w", err)
	}
	return saved, nil
}

func (r *voteRepository) ListByVoter(ctx context.Context, voterID string, period domain.Period) ([]*domain.Vote, error) {
	query := `SELECT ` + voteColumns + ` FROM votes
		WHERE voter_id = ? AND created_at BETWEEN ? AND ?
		ORDER BY created_at ASC, id ASC`
	return r.list(ctx, query, voterID, toMicros(period.Start), toMicros(period.End))
}

func (r *voteRepository) ListByTarget(ctx context.Context, targetID string, period domain.Period) ([]*domain.Vote, error) {
	query := `SELECT ` + voteColumns + ` FROM votes
		WHERE target_id = ? AND created_at BETWEEN ? AND ?
		ORDER BY created_at ASC, id ASC`
	return r.list(ctx, query, targetID, toMicros(period.Start), toMicros(period.End))
}

func (r *voteRepository) ListModifiedSince(ctx context.Context, since time.Time) ([]*domain.Vote, error) {
	query := `SELECT ` + voteColumns + ` FROM votes
		WHERE modified_at >= ?
		ORDER BY modified_at ASC, id ASC`
	return r.list(ctx, query, toMicros(since))
}

func (r *voteRepository) SumPointsForTarget(ctx context.Context, targetID string, period domain.Period) (domain.Points, error) {
	query := `
		SELECT COALESCE(SUM(points_team_up_to_win), 0),
		       COALESCE(SUM(points_act_to_deliver), 0),
		       COALESCE(SUM(points_disrupt_to_grow), 0)
		FROM votes
		WHERE target_id = ? AND created_at BETWEEN ? AND ?
	`
	var teamUp, act, disrupt int
	err := r.db.QueryRowContext(ctx, query, targetID, toMicros(period.Start), toMicros(period.End)).
		Scan(&teamUp, &act, &disrupt)
	if err != nil {
		return nil, fmt.Errorf("failed to sum points: %w", err)
	}
	return pointsOf(teamUp, act, disrupt), nil
}

func (r *voteRepository) SumPointsByTarget(ctx context.Context, period domain.Period) (map[string]domain.Points, error) {
	query := `
		SELECT target_id,
		       SUM(points_team_up_to_win),
		       SUM(points_act_to_deliver),
		       SUM(points_disrupt_to_grow)
		FROM votes
		WHERE created_at BETWEEN ? AND ?
		GROUP BY target_id
	`
	rows, err := r.db.QueryContext(ctx, query, toMicros(period.Start), toMicros(period.End))
	if err != nil {
		return nil, fmt.Errorf("failed to sum points by target: %w", err)
	}
	defer rows.Close()

	sums := make(map[string]domain.Points)
	for rows.Next() {
		var targetID string
		var teamUp, act, disrupt int
		if err := rows.Scan(&targetID, &teamUp, &act, &disrupt); err != nil {
			return nil, fmt.Errorf("failed to scan points: %w", err)
		}
		sums[targetID] = pointsOf(teamUp, act, disrupt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating points: %w", err)
	}
	return sums, nil
}

func (r *voteRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Vote, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	var votes []*domain.Vote
	for rows.Next() {
		vote, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, vote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating votes: %w", err)
	}
	return votes, nil
}

func scanVote(row scanner) (*domain.Vote, error) {
	vote := &domain.Vote{}
	var teamUp, act, disrupt int
	var periodStart, createdAt, modifiedAt int64
	err := row.Scan(
		&vote.ID,
		&vote.VoterID,
		&vote.TargetID,
		&teamUp,
		&act,
		&disrupt,
		&vote.Comment,
		&periodStart,
		&createdAt,
		&modifiedAt,
	)
	if err != nil {
		return nil, err
	}
	vote.Points = pointsOf(teamUp, act, disrupt)
	vote.PeriodStart = fromMicros(periodStart)
	vote.CreatedAt = fromMicros(createdAt)
	vote.ModifiedAt = fromMicros(modifiedAt)
	return vote, nil
}

func pointsOf(teamUp, act, disrupt int) domain.Points {
	return domain.Points{
		domain.CategoryTeamUpToWin:   teamUp,
		domain.CategoryActToDeliver:  act,
		domain.CategoryDisruptToGrow: disrupt,
	}
}
