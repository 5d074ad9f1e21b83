// Package standings derives a ranked league table from finished match
// results. The computation is a pure fold: re-running it over the same
// input always produces the same table.
package standings

import (
	"errors"
	"log/slog"
	"sort"
	"time"
)

var ErrNoTeams = errors.New("no teams registered for tournament")

const (
	pointsWin  = 3
	pointsDraw = 1

	// formLength — сколько последних результатов попадает в строку формы.
	formLength = 5
)

// MatchResult — завершённый матч в том виде, в каком его видит агрегатор.
// Вызывающая сторона обязана передавать только матчи со статусом full_time.
type MatchResult struct {
	HomeTeamID int
	AwayTeamID int
	HomeScore  int
	AwayScore  int
	Date       time.Time
}

// Row — строка таблицы для одной команды.
type Row struct {
	TeamID         int
	Position       int
	Played         int
	Wins           int
	Draws          int
	Losses         int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
	Form           string
}

type Options struct {
	// TrackForm включает расчёт строки формы (последние 5, новые первыми).
	TrackForm bool
	// Logger получает предупреждения о пропущенных матчах. Может быть nil.
	Logger *slog.Logger
}

// Compute строит таблицу для набора команд турнира по завершённым матчам.
// Команды без сыгранных матчей присутствуют в таблице с нулевой строкой.
// Матч, ссылающийся на команду вне состава, пропускается с предупреждением:
// одна битая строка не должна ронять всю таблицу.
func Compute(teamIDs []int, matches []MatchResult, opts Options) ([]Row, error) {
	if len(teamIDs) == 0 {
		return nil, ErrNoTeams
	}

	index := make(map[int]*Row, len(teamIDs))
	for _, id := range teamIDs {
		index[id] = &Row{TeamID: id}
	}

	for _, m := range matches {
		home, okHome := index[m.HomeTeamID]
		away, okAway := index[m.AwayTeamID]
		if !okHome || !okAway {
			if opts.Logger != nil {
				opts.Logger.Warn("match references team outside tournament roster, skipping",
					slog.Int("home_team_id", m.HomeTeamID),
					slog.Int("away_team_id", m.AwayTeamID),
				)
			}
			continue
		}

		home.Played++
		away.Played++

		home.GoalsFor += m.HomeScore
		home.GoalsAgainst += m.AwayScore
		away.GoalsFor += m.AwayScore
		away.GoalsAgainst += m.HomeScore

		switch {
		case m.HomeScore > m.AwayScore:
			home.Wins++
			home.Points += pointsWin
			away.Losses++
		case m.HomeScore < m.AwayScore:
			away.Wins++
			away.Points += pointsWin
			home.Losses++
		default:
			home.Draws++
			away.Draws++
			home.Points += pointsDraw
			away.Points += pointsDraw
		}
	}

	rows := make([]Row, 0, len(teamIDs))
	for _, id := range teamIDs {
		r := index[id]
		r.GoalDifference = r.GoalsFor - r.GoalsAgainst
		rows = append(rows, *r)
	}

	if opts.TrackForm {
		applyForm(rows, index, matches)
	}

	// Points desc, then goal difference, then goals for. Beyond that the
	// order is stable by team id — никакого head-to-head в источнике нет.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].GoalDifference != rows[j].GoalDifference {
			return rows[i].GoalDifference > rows[j].GoalDifference
		}
		if rows[i].GoalsFor != rows[j].GoalsFor {
			return rows[i].GoalsFor > rows[j].GoalsFor
		}
		return rows[i].TeamID < rows[j].TeamID
	})

	for i := range rows {
		rows[i].Position = i + 1
	}

	return rows, nil
}

// applyForm заполняет строку формы: символы {W, D, L}, самые свежие первыми.
func applyForm(rows []Row, index map[int]*Row, matches []MatchResult) {
	sorted := make([]MatchResult, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	forms := make(map[int][]byte, len(index))
	for _, m := range sorted {
		if _, ok := index[m.HomeTeamID]; ok {
			forms[m.HomeTeamID] = appendFormChar(forms[m.HomeTeamID], m.HomeScore, m.AwayScore)
		}
		if _, ok := index[m.AwayTeamID]; ok {
			forms[m.AwayTeamID] = appendFormChar(forms[m.AwayTeamID], m.AwayScore, m.HomeScore)
		}
	}

	for i := range rows {
		rows[i].Form = string(forms[rows[i].TeamID])
	}
}

func appendFormChar(form []byte, scored, conceded int) []byte {
	if len(form) >= formLength {
		return form
	}
	switch {
	case scored > conceded:
		return append(form, 'W')
	case scored < conceded:
		return append(form, 'L')
	default:
		return append(form, 'D')
	}
}
