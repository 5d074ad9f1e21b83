package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
)

var ErrCommentaryInvalid = errors.New("commentary references unknown match or event")

type CommentaryRepository interface {
	Create(ctx context.Context, exec SQLExecutor, c *models.Commentary) error
	ListByMatch(ctx context.Context, matchID int, importantOnly bool) ([]*models.Commentary, error)
}

type postgresCommentaryRepository struct {
	db *sql.DB
}

func NewPostgresCommentaryRepository(db *sql.DB) CommentaryRepository {
	return &postgresCommentaryRepository{db: db}
}

func (r *postgresCommentaryRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresCommentaryRepository) Create(ctx context.Context, exec SQLExecutor, c *models.Commentary) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO commentaries (match_id, minute, text, is_important, event_id, author_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		c.MatchID, c.Minute, c.Text, c.IsImportant, c.EventID, c.AuthorID,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrCommentaryInvalid
		}
		return err
	}
	return nil
}

func (r *postgresCommentaryRepository) ListByMatch(ctx context.Context, matchID int, importantOnly bool) ([]*models.Commentary, error) {
	query := `
		SELECT id, match_id, minute, text, is_important, event_id, author_id, created_at
		FROM commentaries
		WHERE match_id = $1`
	if importantOnly {
		query += ` AND is_important = TRUE`
	}
	// Свежие комментарии первыми: лента матча читается сверху вниз.
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*models.Commentary, 0)
	for rows.Next() {
		var c models.Commentary
		if err := rows.Scan(&c.ID, &c.MatchID, &c.Minute, &c.Text, &c.IsImportant, &c.EventID, &c.AuthorID, &c.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
