package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
)

var ErrStandingNotFound = errors.New("team standing not found")

type StandingRepository interface {
	// Upsert перезаписывает строку таблицы по ключу (tournament_id, team_id).
	// Агрегатор идемпотентен, поэтому любая из конкурирующих записей даёт
	// один и тот же результат.
	Upsert(ctx context.Context, exec SQLExecutor, standing *models.TeamStanding) error
	// SeedZero создаёт нулевую строку при регистрации команды в турнире.
	SeedZero(ctx context.Context, exec SQLExecutor, tournamentID, teamID int) error
	ListByTournament(ctx context.Context, tournamentID int, ranked bool) ([]*models.TeamStanding, error)
	DeleteByTournament(ctx context.Context, tournamentID int) error
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

func (r *postgresStandingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresStandingRepository) Upsert(ctx context.Context, exec SQLExecutor, standing *models.TeamStanding) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO team_standings
			(tournament_id, team_id, matches_played, wins, draws, losses,
			 goals_for, goals_against, goal_difference, points, form, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		ON CONFLICT (tournament_id, team_id) DO UPDATE SET
			matches_played  = EXCLUDED.matches_played,
			wins            = EXCLUDED.wins,
			draws           = EXCLUDED.draws,
			losses          = EXCLUDED.losses,
			goals_for       = EXCLUDED.goals_for,
			goals_against   = EXCLUDED.goals_against,
			goal_difference = EXCLUDED.goal_difference,
			points          = EXCLUDED.points,
			form            = EXCLUDED.form,
			updated_at      = NOW()
		RETURNING id, updated_at`

	return executor.QueryRowContext(ctx, query,
		standing.TournamentID, standing.TeamID, standing.MatchesPlayed,
		standing.Wins, standing.Draws, standing.Losses,
		standing.GoalsFor, standing.GoalsAgainst, standing.GoalDifference,
		standing.Points, standing.Form,
	).Scan(&standing.ID, &standing.UpdatedAt)
}

func (r *postgresStandingRepository) SeedZero(ctx context.Context, exec SQLExecutor, tournamentID, teamID int) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO team_standings (tournament_id, team_id, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (tournament_id, team_id) DO NOTHING`
	_, err := executor.ExecContext(ctx, query, tournamentID, teamID)
	return err
}

func (r *postgresStandingRepository) ListByTournament(ctx context.Context, tournamentID int, ranked bool) ([]*models.TeamStanding, error) {
	query := `
		SELECT id, tournament_id, team_id, matches_played, wins, draws, losses,
		       goals_for, goals_against, goal_difference, points, form, updated_at
		FROM team_standings
		WHERE tournament_id = $1`
	if ranked {
		// Порядок совпадает с сортировкой агрегатора; team_id замыкает
		// для детерминированной таблицы.
		query += ` ORDER BY points DESC, goal_difference DESC, goals_for DESC, team_id ASC`
	} else {
		query += ` ORDER BY team_id ASC`
	}

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	standings := make([]*models.TeamStanding, 0)
	for rows.Next() {
		var s models.TeamStanding
		if err := rows.Scan(
			&s.ID, &s.TournamentID, &s.TeamID, &s.MatchesPlayed, &s.Wins, &s.Draws, &s.Losses,
			&s.GoalsFor, &s.GoalsAgainst, &s.GoalDifference, &s.Points, &s.Form, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		standings = append(standings, &s)
	}
	return standings, rows.Err()
}

func (r *postgresStandingRepository) DeleteByTournament(ctx context.Context, tournamentID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM team_standings WHERE tournament_id = $1`, tournamentID)
	return err
}
