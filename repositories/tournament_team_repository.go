package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrTournamentTeamNotFound = errors.New("tournament team registration not found")
	ErrRegistrationConflict   = errors.New("team is already registered for this tournament")
	ErrRegistrationInvalid    = errors.New("tournament or team does not exist")
)

type TournamentTeamRepository interface {
	Register(ctx context.Context, exec SQLExecutor, tt *models.TournamentTeam) error
	ListTeamIDs(ctx context.Context, tournamentID int) ([]int, error)
	Exists(ctx context.Context, tournamentID, teamID int) (bool, error)
	Unregister(ctx context.Context, tournamentID, teamID int) error
	CountByTournament(ctx context.Context, tournamentID int) (int, error)
}

type postgresTournamentTeamRepository struct {
	db *sql.DB
}

func NewPostgresTournamentTeamRepository(db *sql.DB) TournamentTeamRepository {
	return &postgresTournamentTeamRepository{db: db}
}

func (r *postgresTournamentTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentTeamRepository) Register(ctx context.Context, exec SQLExecutor, tt *models.TournamentTeam) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournament_teams (tournament_id, team_id)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query, tt.TournamentID, tt.TeamID).Scan(&tt.ID, &tt.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrRegistrationConflict
		}
		if isForeignKeyViolation(err) {
			return ErrRegistrationInvalid
		}
		return err
	}
	return nil
}

func (r *postgresTournamentTeamRepository) ListTeamIDs(ctx context.Context, tournamentID int) ([]int, error) {
	query := `
		SELECT team_id FROM tournament_teams
		WHERE tournament_id = $1
		ORDER BY team_id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresTournamentTeamRepository) Exists(ctx context.Context, tournamentID, teamID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM tournament_teams WHERE tournament_id = $1 AND team_id = $2
		)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, tournamentID, teamID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *postgresTournamentTeamRepository) Unregister(ctx context.Context, tournamentID, teamID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM tournament_teams WHERE tournament_id = $1 AND team_id = $2`,
		tournamentID, teamID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentTeamNotFound)
}

func (r *postgresTournamentTeamRepository) CountByTournament(ctx context.Context, tournamentID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tournament_teams WHERE tournament_id = $1`, tournamentID,
	).Scan(&count)
	return count, err
}
