package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Dosada05/league-system/events"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

// --- фейки репозиториев ---

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
}

func (r *fakeTournamentRepo) Create(ctx context.Context, t *models.Tournament) error { return nil }
func (r *fakeTournamentRepo) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return t, nil
}
func (r *fakeTournamentRepo) List(ctx context.Context, status *models.TournamentStatus) ([]*models.Tournament, error) {
	return nil, nil
}
func (r *fakeTournamentRepo) Update(ctx context.Context, t *models.Tournament) error { return nil }
func (r *fakeTournamentRepo) UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) error {
	return nil
}
func (r *fakeTournamentRepo) Delete(ctx context.Context, id int) error { return nil }
func (r *fakeTournamentRepo) ActivateDue(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}
func (r *fakeTournamentRepo) CompleteDue(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

type fakeTournamentTeamRepo struct {
	teamIDs []int
}

func (r *fakeTournamentTeamRepo) Register(ctx context.Context, exec repositories.SQLExecutor, tt *models.TournamentTeam) error {
	return nil
}
func (r *fakeTournamentTeamRepo) ListTeamIDs(ctx context.Context, tournamentID int) ([]int, error) {
	return r.teamIDs, nil
}
func (r *fakeTournamentTeamRepo) Exists(ctx context.Context, tournamentID, teamID int) (bool, error) {
	for _, id := range r.teamIDs {
		if id == teamID {
			return true, nil
		}
	}
	return false, nil
}
func (r *fakeTournamentTeamRepo) Unregister(ctx context.Context, tournamentID, teamID int) error {
	return nil
}
func (r *fakeTournamentTeamRepo) CountByTournament(ctx context.Context, tournamentID int) (int, error) {
	return len(r.teamIDs), nil
}

type fakeMatchRepo struct {
	matches []*models.Match
}

func (r *fakeMatchRepo) Create(ctx context.Context, m *models.Match) error { return nil }
func (r *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	for _, m := range r.matches {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}
func (r *fakeMatchRepo) ListByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for _, m := range r.matches {
		if m.TournamentID != tournamentID {
			continue
		}
		if status != nil && m.Status != *status {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}
func (r *fakeMatchRepo) UpdateStatus(ctx context.Context, id int, status models.MatchStatus) error {
	return nil
}
func (r *fakeMatchRepo) UpdateMinute(ctx context.Context, id, minute int) error { return nil }
func (r *fakeMatchRepo) IncrementScore(ctx context.Context, exec repositories.SQLExecutor, id int, home bool, delta int) error {
	return nil
}
func (r *fakeMatchRepo) SetPenalties(ctx context.Context, id, homePens, awayPens int) error {
	return nil
}
func (r *fakeMatchRepo) Delete(ctx context.Context, id int) error { return nil }

type fakeStandingRepo struct {
	upserts []*models.TeamStanding
	ranked  []*models.TeamStanding
}

func (r *fakeStandingRepo) Upsert(ctx context.Context, exec repositories.SQLExecutor, st *models.TeamStanding) error {
	r.upserts = append(r.upserts, st)
	return nil
}
func (r *fakeStandingRepo) SeedZero(ctx context.Context, exec repositories.SQLExecutor, tournamentID, teamID int) error {
	return nil
}
func (r *fakeStandingRepo) ListByTournament(ctx context.Context, tournamentID int, ranked bool) ([]*models.TeamStanding, error) {
	return r.ranked, nil
}
func (r *fakeStandingRepo) DeleteByTournament(ctx context.Context, tournamentID int) error {
	return nil
}

type fakeTeamRepo struct {
	teams []*models.Team
}

func (r *fakeTeamRepo) Create(ctx context.Context, t *models.Team) error { return nil }
func (r *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	for _, t := range r.teams {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}
func (r *fakeTeamRepo) List(ctx context.Context) ([]*models.Team, error) { return r.teams, nil }
func (r *fakeTeamRepo) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Team, error) {
	return r.teams, nil
}
func (r *fakeTeamRepo) Update(ctx context.Context, t *models.Team) error { return nil }
func (r *fakeTeamRepo) UpdateCrestKey(ctx context.Context, id int, crestKey *string) error {
	return nil
}
func (r *fakeTeamRepo) Delete(ctx context.Context, id int) error { return nil }

type fakePlayerRepo struct {
	counts map[int]int
}

func (r *fakePlayerRepo) Create(ctx context.Context, p *models.Player) error { return nil }
func (r *fakePlayerRepo) GetByID(ctx context.Context, id int) (*models.Player, error) {
	return nil, repositories.ErrPlayerNotFound
}
func (r *fakePlayerRepo) ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error) {
	return nil, nil
}
func (r *fakePlayerRepo) CountByTeams(ctx context.Context, teamIDs []int) (map[int]int, error) {
	return r.counts, nil
}
func (r *fakePlayerRepo) Update(ctx context.Context, p *models.Player) error { return nil }
func (r *fakePlayerRepo) UpdatePhotoKey(ctx context.Context, id int, photoKey *string) error {
	return nil
}
func (r *fakePlayerRepo) Delete(ctx context.Context, id int) error { return nil }

type fakePlayerStatRepo struct {
	scorers []*repositories.TopScorer
	limit   int
}

func (r *fakePlayerStatRepo) ApplyDelta(ctx context.Context, exec repositories.SQLExecutor, matchID int, delta events.PlayerDelta) error {
	return nil
}
func (r *fakePlayerStatRepo) GetByMatchAndPlayer(ctx context.Context, matchID, playerID int) (*models.PlayerMatchStat, error) {
	return nil, repositories.ErrPlayerStatNotFound
}
func (r *fakePlayerStatRepo) ListByMatch(ctx context.Context, matchID int) ([]*models.PlayerMatchStat, error) {
	return nil, nil
}
func (r *fakePlayerStatRepo) TopScorersByTournament(ctx context.Context, tournamentID, limit int) ([]*repositories.TopScorer, error) {
	r.limit = limit
	return r.scorers, nil
}

// --- сборка сервиса на фейках ---

type standingsFixture struct {
	service      StandingsService
	standingRepo *fakeStandingRepo
	statRepo     *fakePlayerStatRepo
}

func newStandingsFixture(teamIDs []int, matches []*models.Match) *standingsFixture {
	standingRepo := &fakeStandingRepo{}
	statRepo := &fakePlayerStatRepo{}
	service := NewStandingsService(
		&fakeTournamentRepo{tournaments: map[int]*models.Tournament{
			1: {ID: 1, Name: "Premier League", Status: models.TournamentStatusActive},
		}},
		&fakeTournamentTeamRepo{teamIDs: teamIDs},
		&fakeMatchRepo{matches: matches},
		standingRepo,
		&fakeTeamRepo{teams: []*models.Team{
			{ID: 10, Name: "United", ShortName: "UTD"},
			{ID: 20, Name: "City", ShortName: "CIT"},
		}},
		&fakePlayerRepo{counts: map[int]int{10: 22, 20: 25}},
		statRepo,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return &standingsFixture{service: service, standingRepo: standingRepo, statRepo: statRepo}
}

func finishedMatch(tournamentID, home, away, hs, as int) *models.Match {
	return &models.Match{
		TournamentID: tournamentID,
		HomeTeamID:   home,
		AwayTeamID:   away,
		HomeScore:    hs,
		AwayScore:    as,
		Status:       models.MatchStatusFullTime,
		MatchDate:    time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC),
	}
}

func TestStandingsServiceRecalculate(t *testing.T) {
	f := newStandingsFixture([]int{10, 20}, []*models.Match{
		finishedMatch(1, 10, 20, 2, 1),
		// Матч в другом статусе не должен попасть в расчёт.
		{TournamentID: 1, HomeTeamID: 10, AwayTeamID: 20, Status: models.MatchStatusSecondHalf},
	})

	result, err := f.service.Recalculate(context.Background(), 1, true)
	if err != nil {
		t.Fatalf("Recalculate: %v", err)
	}
	if result.TeamsUpdated != 2 {
		t.Errorf("TeamsUpdated = %d, want 2", result.TeamsUpdated)
	}
	if result.MatchesProcessed != 1 {
		t.Errorf("MatchesProcessed = %d, want 1", result.MatchesProcessed)
	}

	if len(f.standingRepo.upserts) != 2 {
		t.Fatalf("got %d upserts, want 2", len(f.standingRepo.upserts))
	}
	winner := f.standingRepo.upserts[0]
	if winner.TeamID != 10 || winner.Points != 3 || winner.Wins != 1 {
		t.Errorf("first upsert = %+v, want team 10 with 3 points", winner)
	}
	if winner.Form == nil || *winner.Form != "W" {
		t.Errorf("winner form = %v, want W", winner.Form)
	}
	if winner.GoalDifference != winner.GoalsFor-winner.GoalsAgainst {
		t.Errorf("goal difference invariant broken: %+v", winner)
	}
}

func TestStandingsServiceRecalculateWithoutForm(t *testing.T) {
	f := newStandingsFixture([]int{10, 20}, []*models.Match{finishedMatch(1, 10, 20, 0, 0)})

	if _, err := f.service.Recalculate(context.Background(), 1, false); err != nil {
		t.Fatalf("Recalculate: %v", err)
	}
	for _, st := range f.standingRepo.upserts {
		if st.Form != nil {
			t.Errorf("form should stay nil when not requested, got %q for team %d", *st.Form, st.TeamID)
		}
	}
}

func TestStandingsServiceRecalculateNoTeams(t *testing.T) {
	f := newStandingsFixture(nil, nil)

	_, err := f.service.Recalculate(context.Background(), 1, true)
	if !errors.Is(err, ErrStandingsUnavailable) {
		t.Fatalf("err = %v, want ErrStandingsUnavailable", err)
	}
}

func TestStandingsServiceRecalculateUnknownTournament(t *testing.T) {
	f := newStandingsFixture([]int{10}, nil)

	_, err := f.service.Recalculate(context.Background(), 99, true)
	if !errors.Is(err, ErrTournamentNotFound) {
		t.Fatalf("err = %v, want ErrTournamentNotFound", err)
	}
}

func TestStandingsServiceGetTable(t *testing.T) {
	form := "WWDLW"
	f := newStandingsFixture([]int{10, 20}, nil)
	f.standingRepo.ranked = []*models.TeamStanding{
		{TournamentID: 1, TeamID: 20, MatchesPlayed: 4, Wins: 3, Draws: 1, GoalsFor: 8, GoalsAgainst: 2, GoalDifference: 6, Points: 10, Form: &form},
		{TournamentID: 1, TeamID: 10, MatchesPlayed: 4, Wins: 1, Draws: 1, Losses: 2, GoalsFor: 3, GoalsAgainst: 6, GoalDifference: -3, Points: 4},
	}

	table, err := f.service.GetTable(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetTable: %v", err)
	}
	if len(table) != 2 {
		t.Fatalf("got %d rows, want 2", len(table))
	}

	top := table[0]
	if top.ID != 20 || top.Position != 1 {
		t.Errorf("top row = %+v, want team 20 at position 1", top)
	}
	if top.Name != "City" || top.ShortName != "CIT" {
		t.Errorf("team names not populated: %+v", top)
	}
	if top.Form != "WWDLW" {
		t.Errorf("form = %q, want WWDLW", top.Form)
	}
	if top.WinPercentage != 75.0 {
		t.Errorf("win percentage = %v, want 75.0", top.WinPercentage)
	}
	if top.GoalsPerGame != 2.0 {
		t.Errorf("goals per game = %v, want 2.0", top.GoalsPerGame)
	}
	if top.PlayersCount != 25 {
		t.Errorf("players count = %d, want 25", top.PlayersCount)
	}

	if table[1].Position != 2 {
		t.Errorf("second row position = %d, want 2", table[1].Position)
	}
}

func TestStandingsServiceGetTableEmpty(t *testing.T) {
	f := newStandingsFixture([]int{10}, nil)

	_, err := f.service.GetTable(context.Background(), 1)
	if !errors.Is(err, ErrStandingsUnavailable) {
		t.Fatalf("err = %v, want ErrStandingsUnavailable", err)
	}
}

func TestStandingsServiceTopScorersLimitClamped(t *testing.T) {
	f := newStandingsFixture([]int{10}, nil)
	f.statRepo.scorers = []*repositories.TopScorer{{PlayerID: 7, PlayerName: "Eric Cantona", Goals: 12}}

	scorers, err := f.service.TopScorers(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("TopScorers: %v", err)
	}
	if len(scorers) != 1 {
		t.Fatalf("got %d scorers, want 1", len(scorers))
	}
	if f.statRepo.limit != 10 {
		t.Errorf("limit passed to repository = %d, want default 10", f.statRepo.limit)
	}

	if _, err := f.service.TopScorers(context.Background(), 1, 500); err != nil {
		t.Fatalf("TopScorers: %v", err)
	}
	if f.statRepo.limit != 10 {
		t.Errorf("oversized limit should clamp to 10, got %d", f.statRepo.limit)
	}
}
