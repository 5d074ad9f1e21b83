package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/events"
	"github.com/Dosada05/league-system/models"
)

var ErrPlayerStatNotFound = errors.New("player match stat not found")

// TopScorer — строка списка бомбардиров турнира.
type TopScorer struct {
	PlayerID   int    `json:"player_id"`
	PlayerName string `json:"player_name"`
	TeamID     int    `json:"team_id"`
	TeamName   string `json:"team_name"`
	Goals      int    `json:"goals"`
	Assists    int    `json:"assists"`
	Matches    int    `json:"matches"`
}

type PlayerStatRepository interface {
	// ApplyDelta применяет дельту атомарно: upsert с арифметикой на стороне
	// БД. Счётчики складываются, minutes_played берётся как GREATEST —
	// конкурирующие события не затирают инкременты друг друга.
	ApplyDelta(ctx context.Context, exec SQLExecutor, matchID int, delta events.PlayerDelta) error
	GetByMatchAndPlayer(ctx context.Context, matchID, playerID int) (*models.PlayerMatchStat, error)
	ListByMatch(ctx context.Context, matchID int) ([]*models.PlayerMatchStat, error)
	TopScorersByTournament(ctx context.Context, tournamentID, limit int) ([]*TopScorer, error)
}

type postgresPlayerStatRepository struct {
	db *sql.DB
}

func NewPostgresPlayerStatRepository(db *sql.DB) PlayerStatRepository {
	return &postgresPlayerStatRepository{db: db}
}

func (r *postgresPlayerStatRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPlayerStatRepository) ApplyDelta(ctx context.Context, exec SQLExecutor, matchID int, delta events.PlayerDelta) error {
	executor := r.getExecutor(exec)

	minutes := 0
	if delta.MinutesPlayed != nil {
		minutes = *delta.MinutesPlayed
	}

	query := `
		INSERT INTO player_match_stats
			(match_id, player_id, goals, assists, shots, shots_on_target,
			 yellow_cards, red_cards, minutes_played, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (match_id, player_id) DO UPDATE SET
			goals           = player_match_stats.goals + EXCLUDED.goals,
			assists         = player_match_stats.assists + EXCLUDED.assists,
			shots           = player_match_stats.shots + EXCLUDED.shots,
			shots_on_target = player_match_stats.shots_on_target + EXCLUDED.shots_on_target,
			yellow_cards    = player_match_stats.yellow_cards + EXCLUDED.yellow_cards,
			red_cards       = player_match_stats.red_cards + EXCLUDED.red_cards,
			minutes_played  = GREATEST(player_match_stats.minutes_played, EXCLUDED.minutes_played),
			updated_at      = NOW()`

	_, err := executor.ExecContext(ctx, query,
		matchID, delta.PlayerID,
		delta.Goals, delta.Assists, delta.Shots, delta.ShotsOnTarget,
		delta.YellowCards, delta.RedCards, minutes,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrMatchEventInvalid
		}
		return err
	}
	return nil
}

const playerStatColumns = `id, match_id, player_id, goals, assists, shots, shots_on_target,
	yellow_cards, red_cards, minutes_played, updated_at`

func scanPlayerStat(rowScanner interface{ Scan(...interface{}) error }) (*models.PlayerMatchStat, error) {
	var s models.PlayerMatchStat
	err := rowScanner.Scan(
		&s.ID, &s.MatchID, &s.PlayerID, &s.Goals, &s.Assists, &s.Shots, &s.ShotsOnTarget,
		&s.YellowCards, &s.RedCards, &s.MinutesPlayed, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerStatNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresPlayerStatRepository) GetByMatchAndPlayer(ctx context.Context, matchID, playerID int) (*models.PlayerMatchStat, error) {
	query := `SELECT ` + playerStatColumns + ` FROM player_match_stats WHERE match_id = $1 AND player_id = $2`
	return scanPlayerStat(r.db.QueryRowContext(ctx, query, matchID, playerID))
}

func (r *postgresPlayerStatRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.PlayerMatchStat, error) {
	query := `SELECT ` + playerStatColumns + ` FROM player_match_stats WHERE match_id = $1 ORDER BY player_id ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]*models.PlayerMatchStat, 0)
	for rows.Next() {
		s, errScan := scanPlayerStat(rows)
		if errScan != nil {
			return nil, errScan
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *postgresPlayerStatRepository) TopScorersByTournament(ctx context.Context, tournamentID, limit int) ([]*TopScorer, error) {
	query := `
		SELECT s.player_id,
		       p.first_name || ' ' || p.last_name,
		       p.team_id,
		       t.name,
		       SUM(s.goals),
		       SUM(s.assists),
		       COUNT(DISTINCT s.match_id)
		FROM player_match_stats s
		JOIN matches m ON m.id = s.match_id
		JOIN players p ON p.id = s.player_id
		JOIN teams t ON t.id = p.team_id
		WHERE m.tournament_id = $1
		GROUP BY s.player_id, p.first_name, p.last_name, p.team_id, t.name
		HAVING SUM(s.goals) > 0
		ORDER BY SUM(s.goals) DESC, SUM(s.assists) DESC, s.player_id ASC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, tournamentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scorers := make([]*TopScorer, 0)
	for rows.Next() {
		var ts TopScorer
		if err := rows.Scan(&ts.PlayerID, &ts.PlayerName, &ts.TeamID, &ts.TeamName, &ts.Goals, &ts.Assists, &ts.Matches); err != nil {
			return nil, err
		}
		scorers = append(scorers, &ts)
	}
	return scorers, rows.Err()
}
