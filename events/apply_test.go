package events

import (
	"errors"
	"strings"
	"testing"

	"github.com/Dosada05/league-system/models"
)

const (
	homeTeam = 100
	awayTeam = 200
)

func testMatch() *models.Match {
	return &models.Match{
		ID:         1,
		HomeTeamID: homeTeam,
		AwayTeamID: awayTeam,
		Status:     models.MatchStatusFirstHalf,
	}
}

func intp(v int) *int { return &v }

func TestValidate_UnknownEventType(t *testing.T) {
	in := Input{EventType: "throw_in", Minute: 10, TeamID: homeTeam}
	if err := in.Validate(); !errors.Is(err, ErrUnknownEventType) {
		t.Fatalf("want ErrUnknownEventType, got %v", err)
	}
}

func TestValidate_PlayerRequiredPerType(t *testing.T) {
	needPlayer := []models.EventType{
		models.EventGoal, models.EventOwnGoal, models.EventPenaltyGoal,
		models.EventPenaltyMiss, models.EventYellowCard, models.EventRedCard,
		models.EventSecondYellow, models.EventSubstitutionIn, models.EventSubstitutionOut,
	}
	for _, et := range needPlayer {
		in := Input{EventType: et, Minute: 10, TeamID: homeTeam}
		if err := in.Validate(); !errors.Is(err, ErrPlayerRequired) {
			t.Errorf("%s without player: want ErrPlayerRequired, got %v", et, err)
		}
	}

	// Corner does not reference a player at all.
	in := Input{EventType: models.EventCorner, Minute: 10, TeamID: homeTeam}
	if err := in.Validate(); err != nil {
		t.Errorf("corner without player should be valid, got %v", err)
	}

	// Substitution needs the outgoing player too.
	in = Input{EventType: models.EventSubstitutionIn, Minute: 60, TeamID: homeTeam, PlayerID: intp(7)}
	if err := in.Validate(); !errors.Is(err, ErrRelatedPlayerRequired) {
		t.Errorf("substitution_in without related player: want ErrRelatedPlayerRequired, got %v", err)
	}
}

func TestApply_TeamNotInMatch(t *testing.T) {
	in := Input{EventType: models.EventCorner, Minute: 5, TeamID: 999}
	if _, err := Apply(in, testMatch()); !errors.Is(err, ErrTeamNotInMatch) {
		t.Fatalf("want ErrTeamNotInMatch, got %v", err)
	}
}

func TestApply_Goal(t *testing.T) {
	in := Input{
		EventType: models.EventGoal, Minute: 23, TeamID: homeTeam,
		PlayerID: intp(7), RelatedPlayerID: intp(10),
	}
	fx, err := Apply(in, testMatch())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fx.PlayerDeltas) != 2 {
		t.Fatalf("want 2 player deltas, got %d", len(fx.PlayerDeltas))
	}
	scorer := fx.PlayerDeltas[0]
	if scorer.PlayerID != 7 || scorer.Goals != 1 || scorer.Shots != 1 || scorer.ShotsOnTarget != 1 {
		t.Errorf("scorer delta wrong: %+v", scorer)
	}
	assist := fx.PlayerDeltas[1]
	if assist.PlayerID != 10 || assist.Assists != 1 || assist.Goals != 0 {
		t.Errorf("assist delta wrong: %+v", assist)
	}
	if fx.Score == nil || !fx.Score.Home || fx.Score.Delta != 1 {
		t.Errorf("score delta wrong: %+v", fx.Score)
	}
	if fx.Stat == nil || !fx.Stat.Home || fx.Stat.Shots != 1 || fx.Stat.ShotsOnTarget != 1 {
		t.Errorf("stat delta wrong: %+v", fx.Stat)
	}
}

func TestApply_GoalWithoutAssist(t *testing.T) {
	in := Input{EventType: models.EventGoal, Minute: 23, TeamID: awayTeam, PlayerID: intp(9)}
	fx, err := Apply(in, testMatch())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fx.PlayerDeltas) != 1 {
		t.Fatalf("want 1 player delta, got %d", len(fx.PlayerDeltas))
	}
	if fx.Score.Home {
		t.Error("away goal must credit the away side")
	}
}

func TestApply_OwnGoalCreditsOppositeSide(t *testing.T) {
	in := Input{EventType: models.EventOwnGoal, Minute: 40, TeamID: homeTeam, PlayerID: intp(4)}
	fx, err := Apply(in, testMatch())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fx.Score == nil || fx.Score.Home || fx.Score.Delta != 1 {
		t.Errorf("own goal by home team must increment away score, got %+v", fx.Score)
	}
	if len(fx.PlayerDeltas) != 1 {
		t.Fatalf("want 1 player delta, got %d", len(fx.PlayerDeltas))
	}
	if d := fx.PlayerDeltas[0]; d.Goals != 0 || d.Shots != 1 {
		t.Errorf("own goal must credit a shot but no goal, got %+v", d)
	}
	if fx.Stat != nil {
		t.Errorf("own goal must not touch match stats, got %+v", fx.Stat)
	}
}

func TestApply_PenaltyMiss(t *testing.T) {
	in := Input{EventType: models.EventPenaltyMiss, Minute: 70, TeamID: awayTeam, PlayerID: intp(11)}
	fx, err := Apply(in, testMatch())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fx.Score != nil {
		t.Errorf("penalty miss must not change the score, got %+v", fx.Score)
	}
	if d := fx.PlayerDeltas[0]; d.Shots != 1 || d.Goals != 0 || d.ShotsOnTarget != 0 {
		t.Errorf("shooter delta wrong: %+v", d)
	}
	if fx.Stat == nil || fx.Stat.Home || fx.Stat.Shots != 1 || fx.Stat.ShotsOnTarget != 0 {
		t.Errorf("stat delta wrong: %+v", fx.Stat)
	}
}

func TestApply_SecondYellow(t *testing.T) {
	in := Input{EventType: models.EventSecondYellow, Minute: 88, TeamID: homeTeam, PlayerID: intp(5)}
	fx, err := Apply(in, testMatch())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := fx.PlayerDeltas[0]
	if d.YellowCards != 1 || d.RedCards != 1 {
		t.Errorf("second yellow must add both cards in one delta, got %+v", d)
	}
	if fx.Stat == nil || fx.Stat.RedCards != 1 || fx.Stat.YellowCards != 0 {
		t.Errorf("second yellow aliases to the red card counter, got %+v", fx.Stat)
	}
}

func TestApply_Substitution(t *testing.T) {
	in := Input{
		EventType: models.EventSubstitutionIn, Minute: 60, TeamID: homeTeam,
		PlayerID: intp(14), RelatedPlayerID: intp(9),
	}
	fx, err := Apply(in, testMatch())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fx.Score != nil || fx.Stat != nil {
		t.Error("substitution must not touch score or match stats")
	}
	if len(fx.PlayerDeltas) != 2 {
		t.Fatalf("want deltas for both players, got %d", len(fx.PlayerDeltas))
	}
	for _, d := range fx.PlayerDeltas {
		if d.MinutesPlayed == nil || *d.MinutesPlayed != 60 {
			t.Errorf("minutes played must be set to the minute, got %+v", d)
		}
		if d.Goals+d.Assists+d.Shots+d.YellowCards+d.RedCards != 0 {
			t.Errorf("substitution must only touch minutes, got %+v", d)
		}
	}
}

func TestApply_GenericCounters(t *testing.T) {
	cases := []struct {
		eventType models.EventType
		check     func(StatDelta) bool
	}{
		{models.EventCorner, func(d StatDelta) bool { return d.Corners == 1 }},
		{models.EventFreeKick, func(d StatDelta) bool { return d.Fouls == 1 }},
		{models.EventOffside, func(d StatDelta) bool { return d.Offsides == 1 }},
	}
	for _, tc := range cases {
		in := Input{EventType: tc.eventType, Minute: 15, TeamID: awayTeam}
		fx, err := Apply(in, testMatch())
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.eventType, err)
		}
		if fx.Stat == nil || fx.Stat.Home || !tc.check(*fx.Stat) {
			t.Errorf("%s: stat delta wrong: %+v", tc.eventType, fx.Stat)
		}
		if fx.Score != nil || len(fx.PlayerDeltas) != 0 {
			t.Errorf("%s: must only touch match stats", tc.eventType)
		}
	}
}

func TestApply_NoCounterEvents(t *testing.T) {
	for _, et := range []models.EventType{models.EventVARDecision, models.EventInjury} {
		in := Input{EventType: et, Minute: 30, TeamID: homeTeam}
		fx, err := Apply(in, testMatch())
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", et, err)
		}
		if fx.Score != nil || fx.Stat != nil || len(fx.PlayerDeltas) != 0 {
			t.Errorf("%s: expected no effects, got %+v", et, fx)
		}
	}
}

func TestStatDelta_Add(t *testing.T) {
	sum := StatDelta{Home: true, Shots: 1, ShotsOnTarget: 1}.
		Add(StatDelta{Shots: 1}).
		Add(StatDelta{Corners: 2, YellowCards: 1})
	if sum.Shots != 2 || sum.ShotsOnTarget != 1 || sum.Corners != 2 || sum.YellowCards != 1 {
		t.Errorf("sum wrong: %+v", sum)
	}
	if (StatDelta{}).IsZero() != true || sum.IsZero() {
		t.Error("IsZero is wrong")
	}
}

func TestAutoCommentary(t *testing.T) {
	important := []models.EventType{
		models.EventGoal, models.EventOwnGoal, models.EventPenaltyGoal,
		models.EventPenaltyMiss, models.EventRedCard,
	}
	for _, et := range important {
		if !IsImportant(et) {
			t.Errorf("%s should be important", et)
		}
		text, ok := AutoCommentary(et, 55, "John Doe", "FC Test")
		if !ok || !strings.Contains(text, "John Doe") || !strings.Contains(text, "55") {
			t.Errorf("%s: bad commentary %q", et, text)
		}
	}
	if IsImportant(models.EventCorner) {
		t.Error("corner should not be important")
	}
	if _, ok := AutoCommentary(models.EventYellowCard, 10, "p", "t"); ok {
		t.Error("yellow card should not produce auto commentary")
	}
}
