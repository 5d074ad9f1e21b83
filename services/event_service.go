package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/league-system/events"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

// EventInput — payload события от комментатора/админа.
type EventInput struct {
	EventType       models.EventType `json:"event_type"`
	Minute          int              `json:"minute"`
	TeamID          int              `json:"team_id"`
	PlayerID        *int             `json:"player_id,omitempty"`
	RelatedPlayerID *int             `json:"related_player_id,omitempty"`
	Description     *string          `json:"description,omitempty"`
	GoalType        *string          `json:"goal_type,omitempty"`
	IsPenaltyScored *bool            `json:"is_penalty_scored,omitempty"`
	EventData       json.RawMessage  `json:"event_data,omitempty"`
}

type EventService interface {
	// ProcessEvent применяет одно событие матча: сохраняет факт, статистику
	// игроков и счёт в одной транзакции, ставит дельту счётчиков матча в
	// окно коалесирования и при необходимости пишет автокомментарий.
	// Второе значение — был ли создан автокомментарий.
	ProcessEvent(ctx context.Context, matchID int, input EventInput) (*models.MatchEvent, bool, error)
	ListMatchEvents(ctx context.Context, matchID int) ([]*models.MatchEvent, error)
	GetMatchStats(ctx context.Context, matchID int) (*models.MatchStat, error)
	ListPlayerMatchStats(ctx context.Context, matchID int) ([]*models.PlayerMatchStat, error)
}

type eventService struct {
	db             *sql.DB
	matchRepo      repositories.MatchRepository
	eventRepo      repositories.MatchEventRepository
	playerStatRepo repositories.PlayerStatRepository
	matchStatRepo  repositories.MatchStatRepository
	playerRepo     repositories.PlayerRepository
	teamRepo       repositories.TeamRepository
	commentaryRepo repositories.CommentaryRepository
	flusher        *MatchStatFlusher
	logger         *slog.Logger
}

func NewEventService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	eventRepo repositories.MatchEventRepository,
	playerStatRepo repositories.PlayerStatRepository,
	matchStatRepo repositories.MatchStatRepository,
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	commentaryRepo repositories.CommentaryRepository,
	flusher *MatchStatFlusher,
	logger *slog.Logger,
) EventService {
	return &eventService{
		db:             db,
		matchRepo:      matchRepo,
		eventRepo:      eventRepo,
		playerStatRepo: playerStatRepo,
		matchStatRepo:  matchStatRepo,
		playerRepo:     playerRepo,
		teamRepo:       teamRepo,
		commentaryRepo: commentaryRepo,
		flusher:        flusher,
		logger:         logger,
	}
}

func (s *eventService) ProcessEvent(ctx context.Context, matchID int, input EventInput) (*models.MatchEvent, bool, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, false, ErrMatchNotFound
		}
		return nil, false, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}
	if !match.Status.IsLive() {
		return nil, false, fmt.Errorf("%w: match %d is %s", ErrMatchNotLive, matchID, match.Status)
	}

	fx, err := events.Apply(events.Input{
		EventType:       input.EventType,
		Minute:          input.Minute,
		TeamID:          input.TeamID,
		PlayerID:        input.PlayerID,
		RelatedPlayerID: input.RelatedPlayerID,
	}, match)
	if err != nil {
		// Все ошибки Apply — ошибки входных данных, не состояния сервера.
		return nil, false, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	autoText, hasAuto, err := s.buildAutoCommentary(ctx, input)
	if err != nil {
		return nil, false, err
	}

	event := &models.MatchEvent{
		MatchID:         matchID,
		EventType:       input.EventType,
		Minute:          input.Minute,
		TeamID:          input.TeamID,
		PlayerID:        input.PlayerID,
		RelatedPlayerID: input.RelatedPlayerID,
		Description:     input.Description,
		GoalType:        input.GoalType,
		IsPenaltyScored: input.IsPenaltyScored,
		EventData:       input.EventData,
	}

	// Событие, статистика игроков, счёт и автокомментарий — одна
	// транзакция: частично применённое событие хуже отклонённого.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.eventRepo.Create(ctx, tx, event); err != nil {
		return nil, false, fmt.Errorf("failed to store event: %w", err)
	}
	for _, delta := range fx.PlayerDeltas {
		if err := s.playerStatRepo.ApplyDelta(ctx, tx, matchID, delta); err != nil {
			return nil, false, fmt.Errorf("failed to apply player stat delta (player %d): %w", delta.PlayerID, err)
		}
	}
	if fx.Score != nil {
		if err := s.matchRepo.IncrementScore(ctx, tx, matchID, fx.Score.Home, fx.Score.Delta); err != nil {
			return nil, false, fmt.Errorf("failed to increment score: %w", err)
		}
	}
	if hasAuto {
		commentary := &models.Commentary{
			MatchID:     matchID,
			Minute:      input.Minute,
			Text:        autoText,
			IsImportant: true,
			EventID:     &event.ID,
		}
		if err := s.commentaryRepo.Create(ctx, tx, commentary); err != nil {
			return nil, false, fmt.Errorf("failed to store auto commentary: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit event: %w", err)
	}

	// Счётчики матча идут через окно коалесирования, вне транзакции:
	// это best-effort оптимизация, а не часть корректности события.
	if fx.Stat != nil {
		s.flusher.Add(matchID, *fx.Stat)
	}

	// Минута матча подтягивается к минуте события, best-effort.
	if err := s.matchRepo.UpdateMinute(ctx, matchID, input.Minute); err != nil {
		s.logger.Warn("failed to update match minute",
			slog.Int("match_id", matchID), slog.Any("error", err))
	}

	return event, hasAuto, nil
}

// buildAutoCommentary готовит текст автокомментария для важных событий.
// Имена игрока и команды загружаются до транзакции.
func (s *eventService) buildAutoCommentary(ctx context.Context, input EventInput) (string, bool, error) {
	if !events.IsImportant(input.EventType) {
		return "", false, nil
	}

	playerName := "Unknown player"
	if input.PlayerID != nil {
		player, err := s.playerRepo.GetByID(ctx, *input.PlayerID)
		if err != nil {
			if errors.Is(err, repositories.ErrPlayerNotFound) {
				return "", false, ErrPlayerNotFound
			}
			return "", false, fmt.Errorf("failed to load player %d: %w", *input.PlayerID, err)
		}
		playerName = player.FullName()
	}

	team, err := s.teamRepo.GetByID(ctx, input.TeamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return "", false, ErrTeamNotFound
		}
		return "", false, fmt.Errorf("failed to load team %d: %w", input.TeamID, err)
	}

	text, ok := events.AutoCommentary(input.EventType, input.Minute, playerName, team.Name)
	return text, ok, nil
}

func (s *eventService) ListMatchEvents(ctx context.Context, matchID int) ([]*models.MatchEvent, error) {
	if err := s.ensureMatchExists(ctx, matchID); err != nil {
		return nil, err
	}
	return s.eventRepo.ListByMatch(ctx, matchID)
}

func (s *eventService) GetMatchStats(ctx context.Context, matchID int) (*models.MatchStat, error) {
	if err := s.ensureMatchExists(ctx, matchID); err != nil {
		return nil, err
	}
	// Отдаём актуальное состояние: недолитое окно сбрасывается до чтения.
	s.flusher.Flush(matchID)
	return s.matchStatRepo.GetByMatch(ctx, matchID)
}

func (s *eventService) ListPlayerMatchStats(ctx context.Context, matchID int) ([]*models.PlayerMatchStat, error) {
	if err := s.ensureMatchExists(ctx, matchID); err != nil {
		return nil, err
	}
	return s.playerStatRepo.ListByMatch(ctx, matchID)
}

func (s *eventService) ensureMatchExists(ctx context.Context, matchID int) error {
	if _, err := s.matchRepo.GetByID(ctx, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to load match %d: %w", matchID, err)
	}
	return nil
}
