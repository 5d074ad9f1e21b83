package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

type CreateTournamentInput struct {
	Name      string    `json:"name"`
	Season    string    `json:"season"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, status *models.TournamentStatus) ([]*models.Tournament, error)
	Update(ctx context.Context, id int, input CreateTournamentInput) (*models.Tournament, error)
	UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) error
	Delete(ctx context.Context, id int) error

	// RegisterTeam регистрирует команду и засевает нулевую строку таблицы
	// в одной транзакции: команда без строки в таблице не существует.
	RegisterTeam(ctx context.Context, tournamentID, teamID int) (*models.TournamentTeam, error)
	UnregisterTeam(ctx context.Context, tournamentID, teamID int) error

	// AutoUpdateStatusesByDates — для планировщика: активирует наступившие
	// и завершает истекшие турниры.
	AutoUpdateStatusesByDates(ctx context.Context) error
}

type tournamentService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	ttRepo         repositories.TournamentTeamRepository
	teamRepo       repositories.TeamRepository
	standingRepo   repositories.StandingRepository
	logger         *slog.Logger
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	ttRepo repositories.TournamentTeamRepository,
	teamRepo repositories.TeamRepository,
	standingRepo repositories.StandingRepository,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		db:             db,
		tournamentRepo: tournamentRepo,
		ttRepo:         ttRepo,
		teamRepo:       teamRepo,
		standingRepo:   standingRepo,
		logger:         logger,
	}
}

func validateTournamentInput(input CreateTournamentInput) error {
	if input.Name == "" {
		return fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	if input.Season == "" {
		return fmt.Errorf("%w: tournament season is required", ErrValidationFailed)
	}
	if !input.EndDate.After(input.StartDate) {
		return ErrTournamentInvalidDateRange
	}
	return nil
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	if err := validateTournamentInput(input); err != nil {
		return nil, err
	}

	tournament := &models.Tournament{
		Name:      input.Name,
		Season:    input.Season,
		Status:    models.TournamentStatusUpcoming,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	teams, err := s.teamRepo.ListByTournament(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament teams: %w", err)
	}
	tournament.Teams = make([]models.Team, 0, len(teams))
	for _, t := range teams {
		tournament.Teams = append(tournament.Teams, *t)
	}
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, status *models.TournamentStatus) ([]*models.Tournament, error) {
	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrTournamentInvalidStatus, *status)
	}
	return s.tournamentRepo.List(ctx, status)
}

func (s *tournamentService) Update(ctx context.Context, id int, input CreateTournamentInput) (*models.Tournament, error) {
	if err := validateTournamentInput(input); err != nil {
		return nil, err
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	tournament.Name = input.Name
	tournament.Season = input.Season
	tournament.StartDate = input.StartDate
	tournament.EndDate = input.EndDate

	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, fmt.Errorf("failed to update tournament: %w", err)
	}
	return tournament, nil
}

func (s *tournamentService) UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrTournamentInvalidStatus, status)
	}
	err := s.tournamentRepo.UpdateStatus(ctx, id, status)
	if errors.Is(err, repositories.ErrTournamentNotFound) {
		return ErrTournamentNotFound
	}
	return err
}

func (s *tournamentService) Delete(ctx context.Context, id int) error {
	err := s.tournamentRepo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrTournamentNotFound) {
		return ErrTournamentNotFound
	}
	return err
}

func (s *tournamentService) RegisterTeam(ctx context.Context, tournamentID, teamID int) (*models.TournamentTeam, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	switch tournament.Status {
	case models.TournamentStatusUpcoming, models.TournamentStatusActive:
		// ok
	default:
		return nil, fmt.Errorf("%w: tournament is %s", ErrTournamentRegistrationClosed, tournament.Status)
	}

	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	tt := &models.TournamentTeam{TournamentID: tournamentID, TeamID: teamID}
	if err := s.ttRepo.Register(ctx, tx, tt); err != nil {
		if errors.Is(err, repositories.ErrRegistrationConflict) {
			return nil, ErrRegistrationConflict
		}
		return nil, fmt.Errorf("failed to register team: %w", err)
	}
	if err := s.standingRepo.SeedZero(ctx, tx, tournamentID, teamID); err != nil {
		return nil, fmt.Errorf("failed to seed standing: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit registration: %w", err)
	}
	return tt, nil
}

func (s *tournamentService) UnregisterTeam(ctx context.Context, tournamentID, teamID int) error {
	err := s.ttRepo.Unregister(ctx, tournamentID, teamID)
	if errors.Is(err, repositories.ErrTournamentTeamNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *tournamentService) AutoUpdateStatusesByDates(ctx context.Context) error {
	now := time.Now()

	activated, err := s.tournamentRepo.ActivateDue(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to activate due tournaments: %w", err)
	}
	completed, err := s.tournamentRepo.CompleteDue(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to complete due tournaments: %w", err)
	}

	if activated > 0 || completed > 0 {
		s.logger.Info("tournament statuses updated by schedule",
			slog.Int64("activated", activated),
			slog.Int64("completed", completed),
		)
	}
	return nil
}
