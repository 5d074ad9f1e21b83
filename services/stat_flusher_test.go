package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/league-system/events"
)

type recordingStatRepo struct {
	mu      sync.Mutex
	applied map[int][]events.StatDelta
}

func newRecordingStatRepo() *recordingStatRepo {
	return &recordingStatRepo{applied: make(map[int][]events.StatDelta)}
}

func (r *recordingStatRepo) ApplyDelta(_ context.Context, matchID int, delta events.StatDelta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied[matchID] = append(r.applied[matchID], delta)
	return nil
}

func (r *recordingStatRepo) deltas(matchID int) []events.StatDelta {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.StatDelta(nil), r.applied[matchID]...)
}

func TestMatchStatFlusher_CoalescesBurst(t *testing.T) {
	repo := newRecordingStatRepo()
	f := NewMatchStatFlusher(repo, 20*time.Millisecond, nil)
	defer f.Close()

	// Three home shots logged within the window must land as one write.
	f.Add(1, events.StatDelta{Home: true, Shots: 1})
	f.Add(1, events.StatDelta{Home: true, Shots: 1, ShotsOnTarget: 1})
	f.Add(1, events.StatDelta{Home: true, Shots: 1})

	time.Sleep(80 * time.Millisecond)

	got := repo.deltas(1)
	if len(got) != 1 {
		t.Fatalf("want 1 coalesced write, got %d: %+v", len(got), got)
	}
	if got[0].Shots != 3 || got[0].ShotsOnTarget != 1 || !got[0].Home {
		t.Errorf("coalesced delta wrong: %+v", got[0])
	}
}

func TestMatchStatFlusher_SidesFlushSeparately(t *testing.T) {
	repo := newRecordingStatRepo()
	f := NewMatchStatFlusher(repo, 20*time.Millisecond, nil)
	defer f.Close()

	f.Add(1, events.StatDelta{Home: true, Corners: 1})
	f.Add(1, events.StatDelta{Home: false, Fouls: 2})

	time.Sleep(80 * time.Millisecond)

	got := repo.deltas(1)
	if len(got) != 2 {
		t.Fatalf("want one write per side, got %d: %+v", len(got), got)
	}
	var home, away bool
	for _, d := range got {
		if d.Home && d.Corners == 1 {
			home = true
		}
		if !d.Home && d.Fouls == 2 {
			away = true
		}
	}
	if !home || !away {
		t.Errorf("sides mixed up: %+v", got)
	}
}

func TestMatchStatFlusher_KeyedByMatch(t *testing.T) {
	repo := newRecordingStatRepo()
	f := NewMatchStatFlusher(repo, time.Hour, nil)
	defer f.Close()

	f.Add(1, events.StatDelta{Home: true, Shots: 1})
	f.Add(2, events.StatDelta{Home: true, Corners: 1})

	// Flushing one match must not drain the other's batch.
	f.Flush(1)

	if got := repo.deltas(1); len(got) != 1 || got[0].Shots != 1 {
		t.Errorf("match 1 flush wrong: %+v", got)
	}
	if got := repo.deltas(2); len(got) != 0 {
		t.Errorf("match 2 flushed too early: %+v", got)
	}
}

func TestMatchStatFlusher_CloseFlushesPending(t *testing.T) {
	repo := newRecordingStatRepo()
	f := NewMatchStatFlusher(repo, time.Hour, nil)

	f.Add(7, events.StatDelta{Home: false, YellowCards: 1})
	f.Close()

	if got := repo.deltas(7); len(got) != 1 || got[0].YellowCards != 1 {
		t.Errorf("Close must flush the last window, got %+v", got)
	}
}

func TestMatchStatFlusher_IgnoresZeroDelta(t *testing.T) {
	repo := newRecordingStatRepo()
	f := NewMatchStatFlusher(repo, 10*time.Millisecond, nil)
	defer f.Close()

	f.Add(1, events.StatDelta{Home: true})
	time.Sleep(40 * time.Millisecond)

	if got := repo.deltas(1); len(got) != 0 {
		t.Errorf("zero delta must not be persisted, got %+v", got)
	}
}

func TestMatchStatFlusher_FlushIsIdempotent(t *testing.T) {
	repo := newRecordingStatRepo()
	f := NewMatchStatFlusher(repo, time.Hour, nil)
	defer f.Close()

	f.Add(3, events.StatDelta{Home: true, Offsides: 1})
	f.Flush(3)
	f.Flush(3)

	if got := repo.deltas(3); len(got) != 1 {
		t.Errorf("double flush must write once, got %+v", got)
	}
}
