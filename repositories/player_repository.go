package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
	"github.com/lib/pq"
)

var (
	ErrPlayerNotFound    = errors.New("player not found")
	ErrPlayerTeamInvalid = errors.New("player team conflict or invalid")
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error)
	CountByTeams(ctx context.Context, teamIDs []int) (map[int]int, error)
	Update(ctx context.Context, player *models.Player) error
	UpdatePhotoKey(ctx context.Context, id int, photoKey *string) error
	Delete(ctx context.Context, id int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (team_id, first_name, last_name, position, shirt_number)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		player.TeamID, player.FirstName, player.LastName, player.Position, player.ShirtNumber,
	).Scan(&player.ID, &player.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrPlayerTeamInvalid
		}
		return err
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `
		SELECT id, team_id, first_name, last_name, position, shirt_number, photo_key, created_at
		FROM players
		WHERE id = $1`

	var p models.Player
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.TeamID, &p.FirstName, &p.LastName, &p.Position, &p.ShirtNumber, &p.PhotoKey, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresPlayerRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error) {
	query := `
		SELECT id, team_id, first_name, last_name, position, shirt_number, photo_key, created_at
		FROM players
		WHERE team_id = $1
		ORDER BY shirt_number ASC NULLS LAST, last_name ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.TeamID, &p.FirstName, &p.LastName, &p.Position, &p.ShirtNumber, &p.PhotoKey, &p.CreatedAt); err != nil {
			return nil, err
		}
		players = append(players, &p)
	}
	return players, rows.Err()
}

// CountByTeams возвращает размер заявки для каждой команды из списка.
func (r *postgresPlayerRepository) CountByTeams(ctx context.Context, teamIDs []int) (map[int]int, error) {
	counts := make(map[int]int, len(teamIDs))
	if len(teamIDs) == 0 {
		return counts, nil
	}

	query := `
		SELECT team_id, COUNT(*)
		FROM players
		WHERE team_id = ANY($1)
		GROUP BY team_id`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(teamIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var teamID, count int
		if err := rows.Scan(&teamID, &count); err != nil {
			return nil, err
		}
		counts[teamID] = count
	}
	return counts, rows.Err()
}

func (r *postgresPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players SET team_id = $1, first_name = $2, last_name = $3, position = $4, shirt_number = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		player.TeamID, player.FirstName, player.LastName, player.Position, player.ShirtNumber, player.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrPlayerTeamInvalid
		}
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) UpdatePhotoKey(ctx context.Context, id int, photoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE players SET photo_key = $1 WHERE id = $2`, photoKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}
