package standings

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func day(n int) time.Time {
	return time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func rowByTeam(t *testing.T, rows []Row, teamID int) Row {
	t.Helper()
	for _, r := range rows {
		if r.TeamID == teamID {
			return r
		}
	}
	t.Fatalf("team %d not found in table", teamID)
	return Row{}
}

func TestCompute_NoTeams(t *testing.T) {
	_, err := Compute(nil, nil, Options{})
	if !errors.Is(err, ErrNoTeams) {
		t.Fatalf("want ErrNoTeams, got %v", err)
	}
}

func TestCompute_SingleMatch(t *testing.T) {
	// Home 2-1 Away
	rows, err := Compute([]int{1, 2}, []MatchResult{
		{HomeTeamID: 1, AwayTeamID: 2, HomeScore: 2, AwayScore: 1, Date: day(0)},
	}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	home := rowByTeam(t, rows, 1)
	if home.Played != 1 || home.Wins != 1 || home.Points != 3 ||
		home.GoalsFor != 2 || home.GoalsAgainst != 1 || home.GoalDifference != 1 {
		t.Errorf("home row wrong: %+v", home)
	}
	away := rowByTeam(t, rows, 2)
	if away.Played != 1 || away.Losses != 1 || away.Points != 0 ||
		away.GoalsFor != 1 || away.GoalsAgainst != 2 || away.GoalDifference != -1 {
		t.Errorf("away row wrong: %+v", away)
	}
	if rows[0].TeamID != 1 || rows[0].Position != 1 {
		t.Errorf("expected team 1 first, got %+v", rows[0])
	}
}

func TestCompute_SecondMatchDraw(t *testing.T) {
	rows, err := Compute([]int{1, 2}, []MatchResult{
		{HomeTeamID: 1, AwayTeamID: 2, HomeScore: 2, AwayScore: 1, Date: day(0)},
		{HomeTeamID: 2, AwayTeamID: 1, HomeScore: 2, AwayScore: 2, Date: day(7)},
	}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	home := rowByTeam(t, rows, 1)
	if home.Played != 2 || home.Wins != 1 || home.Draws != 1 || home.Points != 4 ||
		home.GoalsFor != 4 || home.GoalsAgainst != 3 || home.GoalDifference != 1 {
		t.Errorf("team 1 row wrong: %+v", home)
	}
	away := rowByTeam(t, rows, 2)
	if away.Played != 2 || away.Draws != 1 || away.Losses != 1 || away.Points != 1 ||
		away.GoalsFor != 3 || away.GoalsAgainst != 4 || away.GoalDifference != -1 {
		t.Errorf("team 2 row wrong: %+v", away)
	}
	if rows[0].TeamID != 1 {
		t.Errorf("expected team 1 first on 4 > 1 points, got team %d", rows[0].TeamID)
	}
}

func TestCompute_Invariants(t *testing.T) {
	teams := []int{10, 20, 30, 40}
	matches := []MatchResult{
		{HomeTeamID: 10, AwayTeamID: 20, HomeScore: 3, AwayScore: 0, Date: day(0)},
		{HomeTeamID: 30, AwayTeamID: 40, HomeScore: 1, AwayScore: 1, Date: day(0)},
		{HomeTeamID: 20, AwayTeamID: 30, HomeScore: 2, AwayScore: 2, Date: day(3)},
		{HomeTeamID: 40, AwayTeamID: 10, HomeScore: 0, AwayScore: 2, Date: day(3)},
		{HomeTeamID: 10, AwayTeamID: 30, HomeScore: 1, AwayScore: 2, Date: day(6)},
	}

	rows, err := Compute(teams, matches, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decisive, drawn := 0, 0
	for _, m := range matches {
		if m.HomeScore == m.AwayScore {
			drawn++
		} else {
			decisive++
		}
	}

	totalPoints := 0
	for _, r := range rows {
		totalPoints += r.Points
		if r.GoalDifference != r.GoalsFor-r.GoalsAgainst {
			t.Errorf("team %d: gd %d != gf %d - ga %d", r.TeamID, r.GoalDifference, r.GoalsFor, r.GoalsAgainst)
		}
		if r.Played != r.Wins+r.Draws+r.Losses {
			t.Errorf("team %d: played %d != w+d+l %d", r.TeamID, r.Played, r.Wins+r.Draws+r.Losses)
		}
	}
	if want := 3*decisive + 2*drawn; totalPoints != want {
		t.Errorf("total points: want %d, got %d", want, totalPoints)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	teams := []int{1, 2, 3}
	matches := []MatchResult{
		{HomeTeamID: 1, AwayTeamID: 2, HomeScore: 2, AwayScore: 0, Date: day(0)},
		{HomeTeamID: 2, AwayTeamID: 3, HomeScore: 1, AwayScore: 1, Date: day(1)},
		{HomeTeamID: 3, AwayTeamID: 1, HomeScore: 0, AwayScore: 0, Date: day(2)},
	}

	first, err := Compute(teams, matches, Options{TrackForm: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Compute(teams, matches, Options{TrackForm: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("two runs over the same input diverged:\n%+v\n%+v", first, second)
	}
}

func TestCompute_TeamWithoutMatchesGetsZeroRow(t *testing.T) {
	rows, err := Compute([]int{1, 2, 3}, []MatchResult{
		{HomeTeamID: 1, AwayTeamID: 2, HomeScore: 1, AwayScore: 0, Date: day(0)},
	}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	idle := rowByTeam(t, rows, 3)
	if idle.Played != 0 || idle.Points != 0 || idle.GoalDifference != 0 {
		t.Errorf("idle team should have a zero row, got %+v", idle)
	}
	if idle.Position != 3 {
		t.Errorf("idle team should be last, got position %d", idle.Position)
	}
}

func TestCompute_SkipsMatchWithUnknownTeam(t *testing.T) {
	rows, err := Compute([]int{1, 2}, []MatchResult{
		{HomeTeamID: 1, AwayTeamID: 2, HomeScore: 1, AwayScore: 0, Date: day(0)},
		{HomeTeamID: 1, AwayTeamID: 99, HomeScore: 5, AwayScore: 0, Date: day(1)},
	}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	home := rowByTeam(t, rows, 1)
	if home.Played != 1 || home.GoalsFor != 1 {
		t.Errorf("match with unknown team must be skipped, got %+v", home)
	}
}

func TestCompute_Tiebreaks(t *testing.T) {
	// Teams 1 and 2 end level on points; 2 has the better goal difference.
	// Teams 3 and 4 are level on points and GD; 3 has more goals for.
	rows, err := Compute([]int{1, 2, 3, 4}, []MatchResult{
		{HomeTeamID: 2, AwayTeamID: 3, HomeScore: 3, AwayScore: 0, Date: day(0)},
		{HomeTeamID: 1, AwayTeamID: 4, HomeScore: 1, AwayScore: 0, Date: day(0)},
		{HomeTeamID: 3, AwayTeamID: 4, HomeScore: 2, AwayScore: 2, Date: day(3)},
	}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := []int{rows[0].TeamID, rows[1].TeamID, rows[2].TeamID, rows[3].TeamID}
	want := []int{2, 1, 3, 4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order: want %v, got %v", want, got)
	}
	for i, r := range rows {
		if r.Position != i+1 {
			t.Errorf("row %d: position %d", i, r.Position)
		}
	}
}

func TestCompute_Form(t *testing.T) {
	// Six rounds for team 1: W L D W W L (oldest to newest).
	matches := []MatchResult{
		{HomeTeamID: 1, AwayTeamID: 2, HomeScore: 1, AwayScore: 0, Date: day(0)},  // W
		{HomeTeamID: 2, AwayTeamID: 1, HomeScore: 2, AwayScore: 0, Date: day(7)},  // L
		{HomeTeamID: 1, AwayTeamID: 2, HomeScore: 1, AwayScore: 1, Date: day(14)}, // D
		{HomeTeamID: 2, AwayTeamID: 1, HomeScore: 0, AwayScore: 3, Date: day(21)}, // W
		{HomeTeamID: 1, AwayTeamID: 2, HomeScore: 2, AwayScore: 1, Date: day(28)}, // W
		{HomeTeamID: 2, AwayTeamID: 1, HomeScore: 1, AwayScore: 0, Date: day(35)}, // L
	}
	rows, err := Compute([]int{1, 2}, matches, Options{TrackForm: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Newest first, capped at 5: L W W D L.
	if form := rowByTeam(t, rows, 1).Form; form != "LWWDL" {
		t.Errorf("team 1 form: want LWWDL, got %q", form)
	}
	if form := rowByTeam(t, rows, 2).Form; form != "WLLDW" {
		t.Errorf("team 2 form: want WLLDW, got %q", form)
	}
}

func TestCompute_FormOffWhenNotRequested(t *testing.T) {
	rows, err := Compute([]int{1, 2}, []MatchResult{
		{HomeTeamID: 1, AwayTeamID: 2, HomeScore: 1, AwayScore: 0, Date: day(0)},
	}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range rows {
		if r.Form != "" {
			t.Errorf("form should be empty when not requested, got %q", r.Form)
		}
	}
}
