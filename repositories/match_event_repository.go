package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
)

var ErrMatchEventInvalid = errors.New("match event references unknown match, team or player")

type MatchEventRepository interface {
	Create(ctx context.Context, exec SQLExecutor, event *models.MatchEvent) error
	ListByMatch(ctx context.Context, matchID int) ([]*models.MatchEvent, error)
}

type postgresMatchEventRepository struct {
	db *sql.DB
}

func NewPostgresMatchEventRepository(db *sql.DB) MatchEventRepository {
	return &postgresMatchEventRepository{db: db}
}

func (r *postgresMatchEventRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchEventRepository) Create(ctx context.Context, exec SQLExecutor, event *models.MatchEvent) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO match_events
			(match_id, event_type, minute, team_id, player_id, related_player_id,
			 description, goal_type, is_penalty_scored, event_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	var eventData interface{}
	if len(event.EventData) > 0 {
		eventData = []byte(event.EventData)
	}

	err := executor.QueryRowContext(ctx, query,
		event.MatchID, event.EventType, event.Minute, event.TeamID,
		event.PlayerID, event.RelatedPlayerID,
		event.Description, event.GoalType, event.IsPenaltyScored, eventData,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrMatchEventInvalid
		}
		return err
	}
	return nil
}

func (r *postgresMatchEventRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.MatchEvent, error) {
	query := `
		SELECT id, match_id, event_type, minute, team_id, player_id, related_player_id,
		       description, goal_type, is_penalty_scored, event_data, created_at
		FROM match_events
		WHERE match_id = $1
		ORDER BY minute ASC, created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*models.MatchEvent, 0)
	for rows.Next() {
		var e models.MatchEvent
		var eventData sql.NullString
		if err := rows.Scan(
			&e.ID, &e.MatchID, &e.EventType, &e.Minute, &e.TeamID, &e.PlayerID, &e.RelatedPlayerID,
			&e.Description, &e.GoalType, &e.IsPenaltyScored, &eventData, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		if eventData.Valid {
			e.EventData = []byte(eventData.String)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
