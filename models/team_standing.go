package models

import "time"

// TeamStanding — строка турнирной таблицы для пары (турнир, команда).
// Полностью пересчитывается агрегатором; инвариант:
// goal_difference == goals_for - goals_against.
type TeamStanding struct {
	ID             int       `json:"id" db:"id"`
	TournamentID   int       `json:"tournament_id" db:"tournament_id"`
	TeamID         int       `json:"team_id" db:"team_id"`
	MatchesPlayed  int       `json:"matches_played" db:"matches_played"`
	Wins           int       `json:"wins" db:"wins"`
	Draws          int       `json:"draws" db:"draws"`
	Losses         int       `json:"losses" db:"losses"`
	GoalsFor       int       `json:"goals_for" db:"goals_for"`
	GoalsAgainst   int       `json:"goals_against" db:"goals_against"`
	GoalDifference int       `json:"goal_difference" db:"goal_difference"`
	Points         int       `json:"points" db:"points"`
	Form           *string   `json:"form,omitempty" db:"form"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`

	Team *Team `json:"team,omitempty" db:"-"`
}
