package models

import "time"

// MatchStatus соответствует ENUM match_status в БД.
type MatchStatus string

const (
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusFirstHalf  MatchStatus = "first_half"
	MatchStatusHalfTime   MatchStatus = "half_time"
	MatchStatusSecondHalf MatchStatus = "second_half"
	MatchStatusExtraTime  MatchStatus = "extra_time"
	MatchStatusPenalties  MatchStatus = "penalties"
	MatchStatusFullTime   MatchStatus = "full_time"
	MatchStatusPostponed  MatchStatus = "postponed"
	MatchStatusCancelled  MatchStatus = "cancelled"
)

// NormalizeMatchStatus приводит статус к каноническому значению.
// Старые клиенты присылают "finished" вместо "full_time".
func NormalizeMatchStatus(s MatchStatus) MatchStatus {
	if s == "finished" {
		return MatchStatusFullTime
	}
	return s
}

func (s MatchStatus) Valid() bool {
	switch s {
	case MatchStatusScheduled, MatchStatusFirstHalf, MatchStatusHalfTime,
		MatchStatusSecondHalf, MatchStatusExtraTime, MatchStatusPenalties,
		MatchStatusFullTime, MatchStatusPostponed, MatchStatusCancelled:
		return true
	}
	return false
}

// IsLive сообщает, идёт ли игра, то есть принимаются ли события.
// В перерыве (half_time) событий не бывает.
func (s MatchStatus) IsLive() bool {
	switch s {
	case MatchStatusFirstHalf, MatchStatusSecondHalf,
		MatchStatusExtraTime, MatchStatusPenalties:
		return true
	}
	return false
}

// IsFinished — матч завершён и участвует в расчёте таблицы.
func (s MatchStatus) IsFinished() bool {
	return s == MatchStatusFullTime
}

// validMatchTransitions перечисляет допустимые переходы статуса матча.
var validMatchTransitions = map[MatchStatus][]MatchStatus{
	MatchStatusScheduled:  {MatchStatusFirstHalf, MatchStatusPostponed, MatchStatusCancelled},
	MatchStatusFirstHalf:  {MatchStatusHalfTime, MatchStatusFullTime, MatchStatusCancelled},
	MatchStatusHalfTime:   {MatchStatusSecondHalf, MatchStatusCancelled},
	MatchStatusSecondHalf: {MatchStatusExtraTime, MatchStatusPenalties, MatchStatusFullTime, MatchStatusCancelled},
	MatchStatusExtraTime:  {MatchStatusPenalties, MatchStatusFullTime, MatchStatusCancelled},
	MatchStatusPenalties:  {MatchStatusFullTime, MatchStatusCancelled},
	MatchStatusPostponed:  {MatchStatusScheduled, MatchStatusCancelled},
}

// CanTransitionMatchStatus проверяет переход from -> to.
func CanTransitionMatchStatus(from, to MatchStatus) bool {
	for _, allowed := range validMatchTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type Match struct {
	ID            int         `json:"id" db:"id"`
	TournamentID  int         `json:"tournament_id" db:"tournament_id"`
	HomeTeamID    int         `json:"home_team_id" db:"home_team_id"`
	AwayTeamID    int         `json:"away_team_id" db:"away_team_id"`
	MatchDate     time.Time   `json:"match_date" db:"match_date"`
	Status        MatchStatus `json:"status" db:"status"`
	CurrentMinute int         `json:"current_minute" db:"current_minute"`
	HomeScore     int         `json:"home_score" db:"home_score"`
	AwayScore     int         `json:"away_score" db:"away_score"`
	HomePenalties *int        `json:"home_penalties,omitempty" db:"home_penalties"`
	AwayPenalties *int        `json:"away_penalties,omitempty" db:"away_penalties"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`

	HomeTeam *Team `json:"home_team,omitempty" db:"-"`
	AwayTeam *Team `json:"away_team,omitempty" db:"-"`
}

// SideOf возвращает (isHome, ok) для команды в этом матче.
func (m *Match) SideOf(teamID int) (bool, bool) {
	switch teamID {
	case m.HomeTeamID:
		return true, true
	case m.AwayTeamID:
		return false, true
	}
	return false, false
}
