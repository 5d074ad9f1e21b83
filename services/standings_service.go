package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/standings"
	"golang.org/x/sync/errgroup"
)

// RecalculateResult — итог пересчёта таблицы.
type RecalculateResult struct {
	TeamsUpdated     int `json:"teamsUpdated"`
	MatchesProcessed int `json:"matchesProcessed"`
}

// TableRow — строка таблицы в формате выдачи API.
type TableRow struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	ShortName      string  `json:"short_name"`
	Position       int     `json:"position"`
	Played         int     `json:"played"`
	Won            int     `json:"won"`
	Drawn          int     `json:"drawn"`
	Lost           int     `json:"lost"`
	GoalsFor       int     `json:"goalsFor"`
	GoalsAgainst   int     `json:"goalsAgainst"`
	GoalDifference int     `json:"goalDifference"`
	Points         int     `json:"points"`
	Form           string  `json:"form"`
	WinPercentage  float64 `json:"winPercentage"`
	GoalsPerGame   float64 `json:"goalsPerGame"`
	PlayersCount   int     `json:"playersCount"`
}

type StandingsService interface {
	// Recalculate полностью перестраивает таблицу турнира по завершённым
	// матчам. Идемпотентен: повторный запуск по тем же данным даёт те же
	// строки; конкурирующие запуски сходятся к одинаковому результату.
	Recalculate(ctx context.Context, tournamentID int, recalculateForm bool) (*RecalculateResult, error)
	GetTable(ctx context.Context, tournamentID int) ([]*TableRow, error)
	TopScorers(ctx context.Context, tournamentID, limit int) ([]*repositories.TopScorer, error)
}

type standingsService struct {
	tournamentRepo repositories.TournamentRepository
	ttRepo         repositories.TournamentTeamRepository
	matchRepo      repositories.MatchRepository
	standingRepo   repositories.StandingRepository
	teamRepo       repositories.TeamRepository
	playerRepo     repositories.PlayerRepository
	playerStatRepo repositories.PlayerStatRepository
	logger         *slog.Logger
}

func NewStandingsService(
	tournamentRepo repositories.TournamentRepository,
	ttRepo repositories.TournamentTeamRepository,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	playerStatRepo repositories.PlayerStatRepository,
	logger *slog.Logger,
) StandingsService {
	return &standingsService{
		tournamentRepo: tournamentRepo,
		ttRepo:         ttRepo,
		matchRepo:      matchRepo,
		standingRepo:   standingRepo,
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
		playerStatRepo: playerStatRepo,
		logger:         logger,
	}
}

func (s *standingsService) Recalculate(ctx context.Context, tournamentID int, recalculateForm bool) (*RecalculateResult, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}

	teamIDs, err := s.ttRepo.ListTeamIDs(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament roster: %w", err)
	}

	finished := models.MatchStatusFullTime
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, &finished)
	if err != nil {
		return nil, fmt.Errorf("failed to load finished matches: %w", err)
	}

	results := make([]standings.MatchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, standings.MatchResult{
			HomeTeamID: m.HomeTeamID,
			AwayTeamID: m.AwayTeamID,
			HomeScore:  m.HomeScore,
			AwayScore:  m.AwayScore,
			Date:       m.MatchDate,
		})
	}

	rows, err := standings.Compute(teamIDs, results, standings.Options{
		TrackForm: recalculateForm,
		Logger:    s.logger,
	})
	if err != nil {
		if errors.Is(err, standings.ErrNoTeams) {
			return nil, ErrStandingsUnavailable
		}
		return nil, fmt.Errorf("failed to compute standings: %w", err)
	}

	for _, row := range rows {
		standing := &models.TeamStanding{
			TournamentID:   tournamentID,
			TeamID:         row.TeamID,
			MatchesPlayed:  row.Played,
			Wins:           row.Wins,
			Draws:          row.Draws,
			Losses:         row.Losses,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDifference: row.GoalDifference,
			Points:         row.Points,
		}
		if recalculateForm {
			form := row.Form
			standing.Form = &form
		}
		if err := s.standingRepo.Upsert(ctx, nil, standing); err != nil {
			return nil, fmt.Errorf("failed to upsert standing for team %d: %w", row.TeamID, err)
		}
	}

	return &RecalculateResult{
		TeamsUpdated:     len(rows),
		MatchesProcessed: len(results),
	}, nil
}

func (s *standingsService) GetTable(ctx context.Context, tournamentID int) ([]*TableRow, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}

	var (
		rows  []*models.TeamStanding
		teams []*models.Team
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.standingRepo.ListByTournament(gCtx, tournamentID, true)
		return err
	})
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.ListByTournament(gCtx, tournamentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load standings data: %w", err)
	}

	if len(rows) == 0 {
		return nil, ErrStandingsUnavailable
	}

	teamByID := make(map[int]*models.Team, len(teams))
	teamIDs := make([]int, 0, len(teams))
	for _, t := range teams {
		teamByID[t.ID] = t
		teamIDs = append(teamIDs, t.ID)
	}

	playersCount, err := s.playerRepo.CountByTeams(ctx, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count players: %w", err)
	}

	table := make([]*TableRow, 0, len(rows))
	for i, st := range rows {
		row := &TableRow{
			ID:             st.TeamID,
			Position:       i + 1,
			Played:         st.MatchesPlayed,
			Won:            st.Wins,
			Drawn:          st.Draws,
			Lost:           st.Losses,
			GoalsFor:       st.GoalsFor,
			GoalsAgainst:   st.GoalsAgainst,
			GoalDifference: st.GoalDifference,
			Points:         st.Points,
			PlayersCount:   playersCount[st.TeamID],
		}
		if st.Form != nil {
			row.Form = *st.Form
		}
		if team, ok := teamByID[st.TeamID]; ok {
			row.Name = team.Name
			row.ShortName = team.ShortName
		}
		if st.MatchesPlayed > 0 {
			row.WinPercentage = roundTo(float64(st.Wins)/float64(st.MatchesPlayed)*100, 1)
			row.GoalsPerGame = roundTo(float64(st.GoalsFor)/float64(st.MatchesPlayed), 2)
		}
		table = append(table, row)
	}
	return table, nil
}

func (s *standingsService) TopScorers(ctx context.Context, tournamentID, limit int) ([]*repositories.TopScorer, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.playerStatRepo.TopScorersByTournament(ctx, tournamentID, limit)
}
