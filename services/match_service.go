package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

type CreateMatchInput struct {
	TournamentID int       `json:"tournament_id"`
	HomeTeamID   int       `json:"home_team_id"`
	AwayTeamID   int       `json:"away_team_id"`
	MatchDate    time.Time `json:"match_date"`
}

type MatchService interface {
	Create(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error)
	// UpdateStatus проверяет допустимость перехода; достижение full_time
	// сбрасывает окно статистики матча и запускает пересчёт таблицы.
	UpdateStatus(ctx context.Context, id int, status models.MatchStatus) (*models.Match, error)
	UpdateMinute(ctx context.Context, id, minute int) error
	SetPenalties(ctx context.Context, id, homePens, awayPens int) error
	Delete(ctx context.Context, id int) error
}

type matchService struct {
	matchRepo        repositories.MatchRepository
	tournamentRepo   repositories.TournamentRepository
	ttRepo           repositories.TournamentTeamRepository
	standingsService StandingsService
	flusher          *MatchStatFlusher
	logger           *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	ttRepo repositories.TournamentTeamRepository,
	standingsService StandingsService,
	flusher *MatchStatFlusher,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo:        matchRepo,
		tournamentRepo:   tournamentRepo,
		ttRepo:           ttRepo,
		standingsService: standingsService,
		flusher:          flusher,
		logger:           logger,
	}
}

func (s *matchService) Create(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	if input.HomeTeamID == input.AwayTeamID {
		return nil, ErrMatchSameTeam
	}
	if _, err := s.tournamentRepo.GetByID(ctx, input.TournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", input.TournamentID, err)
	}

	for _, teamID := range []int{input.HomeTeamID, input.AwayTeamID} {
		registered, err := s.ttRepo.Exists(ctx, input.TournamentID, teamID)
		if err != nil {
			return nil, fmt.Errorf("failed to check registration of team %d: %w", teamID, err)
		}
		if !registered {
			return nil, fmt.Errorf("%w: team %d", ErrTeamNotInTournament, teamID)
		}
	}

	match := &models.Match{
		TournamentID: input.TournamentID,
		HomeTeamID:   input.HomeTeamID,
		AwayTeamID:   input.AwayTeamID,
		MatchDate:    input.MatchDate,
		Status:       models.MatchStatusScheduled,
	}
	if err := s.matchRepo.Create(ctx, match); err != nil {
		if errors.Is(err, repositories.ErrMatchTeamInvalid) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	return match, nil
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error) {
	if status != nil {
		normalized := models.NormalizeMatchStatus(*status)
		if !normalized.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrMatchInvalidStatus, *status)
		}
		status = &normalized
	}
	return s.matchRepo.ListByTournament(ctx, tournamentID, status)
}

func (s *matchService) UpdateStatus(ctx context.Context, id int, status models.MatchStatus) (*models.Match, error) {
	status = models.NormalizeMatchStatus(status)
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrMatchInvalidStatus, status)
	}

	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	if !models.CanTransitionMatchStatus(match.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrMatchInvalidStatusTransition, match.Status, status)
	}

	if err := s.matchRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update match status: %w", err)
	}
	match.Status = status

	if status.IsFinished() {
		// Последнее окно статистики не должно пережить финальный свисток.
		s.flusher.Flush(id)

		// Таблица пересчитывается немедленно; ошибка пересчёта не
		// откатывает завершение матча — агрегатор идемпотентен, и
		// следующий запуск восстановит таблицу.
		if _, err := s.standingsService.Recalculate(ctx, match.TournamentID, true); err != nil {
			s.logger.Error("failed to recalculate standings after full time",
				slog.Int("match_id", id),
				slog.Int("tournament_id", match.TournamentID),
				slog.Any("error", err),
			)
		}
	}

	return match, nil
}

func (s *matchService) UpdateMinute(ctx context.Context, id, minute int) error {
	if minute < 0 {
		return fmt.Errorf("%w: minute must not be negative", ErrValidationFailed)
	}
	err := s.matchRepo.UpdateMinute(ctx, id, minute)
	if errors.Is(err, repositories.ErrMatchNotFound) {
		return ErrMatchNotFound
	}
	return err
}

func (s *matchService) SetPenalties(ctx context.Context, id, homePens, awayPens int) error {
	if homePens < 0 || awayPens < 0 {
		return fmt.Errorf("%w: penalty scores must not be negative", ErrValidationFailed)
	}
	err := s.matchRepo.SetPenalties(ctx, id, homePens, awayPens)
	if errors.Is(err, repositories.ErrMatchNotFound) {
		return ErrMatchNotFound
	}
	return err
}

func (s *matchService) Delete(ctx context.Context, id int) error {
	err := s.matchRepo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrMatchNotFound) {
		return ErrMatchNotFound
	}
	return err
}
