package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/events"
	"github.com/Dosada05/league-system/models"
)

type MatchStatRepository interface {
	// ApplyDelta применяет накопленную дельту одной стороны атомарным
	// upsert-ом. Вызывается MatchStatFlusher-ом на flush, поэтому значение
	// всегда прибавляется к актуальному состоянию строки, а не к снапшоту.
	ApplyDelta(ctx context.Context, matchID int, delta events.StatDelta) error
	GetByMatch(ctx context.Context, matchID int) (*models.MatchStat, error)
}

type postgresMatchStatRepository struct {
	db *sql.DB
}

func NewPostgresMatchStatRepository(db *sql.DB) MatchStatRepository {
	return &postgresMatchStatRepository{db: db}
}

func (r *postgresMatchStatRepository) ApplyDelta(ctx context.Context, matchID int, delta events.StatDelta) error {
	if delta.IsZero() {
		return nil
	}

	var query string
	if delta.Home {
		query = `
		INSERT INTO match_stats
			(match_id, shots_home, shots_on_target_home, corners_home, fouls_home,
			 offsides_home, yellow_cards_home, red_cards_home, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (match_id) DO UPDATE SET
			shots_home           = match_stats.shots_home + EXCLUDED.shots_home,
			shots_on_target_home = match_stats.shots_on_target_home + EXCLUDED.shots_on_target_home,
			corners_home         = match_stats.corners_home + EXCLUDED.corners_home,
			fouls_home           = match_stats.fouls_home + EXCLUDED.fouls_home,
			offsides_home        = match_stats.offsides_home + EXCLUDED.offsides_home,
			yellow_cards_home    = match_stats.yellow_cards_home + EXCLUDED.yellow_cards_home,
			red_cards_home       = match_stats.red_cards_home + EXCLUDED.red_cards_home,
			updated_at           = NOW()`
	} else {
		query = `
		INSERT INTO match_stats
			(match_id, shots_away, shots_on_target_away, corners_away, fouls_away,
			 offsides_away, yellow_cards_away, red_cards_away, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (match_id) DO UPDATE SET
			shots_away           = match_stats.shots_away + EXCLUDED.shots_away,
			shots_on_target_away = match_stats.shots_on_target_away + EXCLUDED.shots_on_target_away,
			corners_away         = match_stats.corners_away + EXCLUDED.corners_away,
			fouls_away           = match_stats.fouls_away + EXCLUDED.fouls_away,
			offsides_away        = match_stats.offsides_away + EXCLUDED.offsides_away,
			yellow_cards_away    = match_stats.yellow_cards_away + EXCLUDED.yellow_cards_away,
			red_cards_away       = match_stats.red_cards_away + EXCLUDED.red_cards_away,
			updated_at           = NOW()`
	}

	_, err := r.db.ExecContext(ctx, query,
		matchID, delta.Shots, delta.ShotsOnTarget, delta.Corners, delta.Fouls,
		delta.Offsides, delta.YellowCards, delta.RedCards,
	)
	if err != nil && isForeignKeyViolation(err) {
		return ErrMatchNotFound
	}
	return err
}

// GetByMatch возвращает счётчики матча; если событий ещё не было,
// отдаётся нулевая строка — клиенту незачем различать эти случаи.
func (r *postgresMatchStatRepository) GetByMatch(ctx context.Context, matchID int) (*models.MatchStat, error) {
	query := `
		SELECT id, match_id, shots_home, shots_away, shots_on_target_home, shots_on_target_away,
		       corners_home, corners_away, fouls_home, fouls_away, offsides_home, offsides_away,
		       yellow_cards_home, yellow_cards_away, red_cards_home, red_cards_away, updated_at
		FROM match_stats
		WHERE match_id = $1`

	var s models.MatchStat
	err := r.db.QueryRowContext(ctx, query, matchID).Scan(
		&s.ID, &s.MatchID, &s.ShotsHome, &s.ShotsAway, &s.ShotsOnTargetHome, &s.ShotsOnTargetAway,
		&s.CornersHome, &s.CornersAway, &s.FoulsHome, &s.FoulsAway, &s.OffsidesHome, &s.OffsidesAway,
		&s.YellowCardsHome, &s.YellowCardsAway, &s.RedCardsHome, &s.RedCardsAway, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.MatchStat{MatchID: matchID}, nil
		}
		return nil, err
	}
	return &s, nil
}
