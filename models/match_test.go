package models

import "testing"

func TestNormalizeMatchStatus(t *testing.T) {
	if got := NormalizeMatchStatus("finished"); got != MatchStatusFullTime {
		t.Errorf("NormalizeMatchStatus(finished) = %q, want %q", got, MatchStatusFullTime)
	}
	if got := NormalizeMatchStatus(MatchStatusHalfTime); got != MatchStatusHalfTime {
		t.Errorf("NormalizeMatchStatus(half_time) = %q, want unchanged", got)
	}
}

func TestMatchStatusValid(t *testing.T) {
	for _, s := range []MatchStatus{
		MatchStatusScheduled, MatchStatusFirstHalf, MatchStatusHalfTime,
		MatchStatusSecondHalf, MatchStatusExtraTime, MatchStatusPenalties,
		MatchStatusFullTime, MatchStatusPostponed, MatchStatusCancelled,
	} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if MatchStatus("finished").Valid() {
		t.Error("raw finished status must pass through NormalizeMatchStatus first")
	}
	if MatchStatus("abandoned").Valid() {
		t.Error("unknown status should be invalid")
	}
}

func TestMatchStatusIsLive(t *testing.T) {
	live := []MatchStatus{MatchStatusFirstHalf, MatchStatusSecondHalf, MatchStatusExtraTime, MatchStatusPenalties}
	for _, s := range live {
		if !s.IsLive() {
			t.Errorf("%q should be live", s)
		}
	}
	if MatchStatusHalfTime.IsLive() {
		t.Error("half_time reported as live: events must not be accepted during the break")
	}
	for _, s := range []MatchStatus{MatchStatusScheduled, MatchStatusFullTime, MatchStatusPostponed, MatchStatusCancelled} {
		if s.IsLive() {
			t.Errorf("%q should not be live", s)
		}
	}
}

func TestCanTransitionMatchStatus(t *testing.T) {
	cases := []struct {
		from, to MatchStatus
		want     bool
	}{
		{MatchStatusScheduled, MatchStatusFirstHalf, true},
		{MatchStatusScheduled, MatchStatusPostponed, true},
		{MatchStatusScheduled, MatchStatusFullTime, false},
		{MatchStatusFirstHalf, MatchStatusHalfTime, true},
		{MatchStatusHalfTime, MatchStatusSecondHalf, true},
		{MatchStatusHalfTime, MatchStatusFullTime, false},
		{MatchStatusSecondHalf, MatchStatusFullTime, true},
		{MatchStatusSecondHalf, MatchStatusExtraTime, true},
		{MatchStatusExtraTime, MatchStatusPenalties, true},
		{MatchStatusPenalties, MatchStatusFullTime, true},
		{MatchStatusPostponed, MatchStatusScheduled, true},
		// Финальные статусы терминальны.
		{MatchStatusFullTime, MatchStatusSecondHalf, false},
		{MatchStatusCancelled, MatchStatusScheduled, false},
		// Откат по ходу матча запрещён.
		{MatchStatusSecondHalf, MatchStatusFirstHalf, false},
	}
	for _, c := range cases {
		if got := CanTransitionMatchStatus(c.from, c.to); got != c.want {
			t.Errorf("CanTransitionMatchStatus(%q, %q) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestMatchSideOf(t *testing.T) {
	m := &Match{HomeTeamID: 100, AwayTeamID: 200}

	if home, ok := m.SideOf(100); !ok || !home {
		t.Errorf("SideOf(100) = (%v, %v), want (true, true)", home, ok)
	}
	if home, ok := m.SideOf(200); !ok || home {
		t.Errorf("SideOf(200) = (%v, %v), want (false, true)", home, ok)
	}
	if _, ok := m.SideOf(300); ok {
		t.Error("SideOf(300) should not match either side")
	}
}
