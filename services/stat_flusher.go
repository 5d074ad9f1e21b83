package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/league-system/events"
)

// MatchStatFlusher коалесирует записи статистики матча: шквал событий в
// пределах окна превращается в один upsert на сторону. Батчи и таймеры
// ключуются по id матча, чтобы разные матчи не блокировали flush друг друга.
//
// Потеря инкрементов внутри окна исключена конструктивно: flush не пишет
// снапшот, а отдаёт накопленную дельту в атомарный
// `SET col = col + delta` (см. MatchStatRepository.ApplyDelta).
type MatchStatFlusher struct {
	repo     matchStatDeltaApplier
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	pending map[int]*pendingMatchStats
	closed  bool
}

// matchStatDeltaApplier — то, что флушеру нужно от репозитория.
type matchStatDeltaApplier interface {
	ApplyDelta(ctx context.Context, matchID int, delta events.StatDelta) error
}

type pendingMatchStats struct {
	home  events.StatDelta
	away  events.StatDelta
	timer *time.Timer
}

func NewMatchStatFlusher(repo matchStatDeltaApplier, interval time.Duration, logger *slog.Logger) *MatchStatFlusher {
	return &MatchStatFlusher{
		repo:     repo,
		interval: interval,
		logger:   logger,
		pending:  make(map[int]*pendingMatchStats),
	}
}

// Add складывает дельту в батч матча и взводит таймер окна, если батча
// ещё не было. Нулевые дельты игнорируются.
func (f *MatchStatFlusher) Add(matchID int, delta events.StatDelta) {
	if delta.IsZero() {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		// После Close пишем сразу, окна больше нет.
		go f.apply(matchID, delta)
		return
	}

	batch, ok := f.pending[matchID]
	if !ok {
		batch = &pendingMatchStats{}
		batch.timer = time.AfterFunc(f.interval, func() { f.Flush(matchID) })
		f.pending[matchID] = batch
	}
	if delta.Home {
		batch.home = batch.home.Add(delta)
		batch.home.Home = true
	} else {
		batch.away = batch.away.Add(delta)
	}
}

// Flush немедленно сбрасывает батч одного матча. Безопасен к повторному
// вызову и к гонке с таймером: батч снимается под мьютексом.
func (f *MatchStatFlusher) Flush(matchID int) {
	f.mu.Lock()
	batch, ok := f.pending[matchID]
	if ok {
		batch.timer.Stop()
		delete(f.pending, matchID)
	}
	f.mu.Unlock()

	if !ok {
		return
	}
	f.flushBatch(matchID, batch)
}

// Close останавливает таймеры и сбрасывает все накопленные батчи.
// Вызывается при остановке процесса, чтобы не потерять последнее окно.
func (f *MatchStatFlusher) Close() {
	f.mu.Lock()
	f.closed = true
	batches := f.pending
	f.pending = make(map[int]*pendingMatchStats)
	f.mu.Unlock()

	for matchID, batch := range batches {
		batch.timer.Stop()
		f.flushBatch(matchID, batch)
	}
}

func (f *MatchStatFlusher) flushBatch(matchID int, batch *pendingMatchStats) {
	if !batch.home.IsZero() {
		f.apply(matchID, batch.home)
	}
	if !batch.away.IsZero() {
		f.apply(matchID, batch.away)
	}
}

func (f *MatchStatFlusher) apply(matchID int, delta events.StatDelta) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := f.repo.ApplyDelta(ctx, matchID, delta); err != nil && f.logger != nil {
		f.logger.Error("failed to flush match stats",
			slog.Int("match_id", matchID),
			slog.Any("error", err),
		)
	}
}
