package models

import (
	"encoding/json"
	"time"
)

// EventType — закрытый набор типов событий матча (ENUM event_type в БД).
type EventType string

const (
	EventGoal            EventType = "goal"
	EventOwnGoal         EventType = "own_goal"
	EventPenaltyGoal     EventType = "penalty_goal"
	EventPenaltyMiss     EventType = "penalty_miss"
	EventYellowCard      EventType = "yellow_card"
	EventRedCard         EventType = "red_card"
	EventSecondYellow    EventType = "second_yellow"
	EventSubstitutionIn  EventType = "substitution_in"
	EventSubstitutionOut EventType = "substitution_out"
	EventInjury          EventType = "injury"
	EventVARDecision     EventType = "var_decision"
	EventCorner          EventType = "corner"
	EventFreeKick        EventType = "free_kick"
	EventOffside         EventType = "offside"
)

func (t EventType) Valid() bool {
	switch t {
	case EventGoal, EventOwnGoal, EventPenaltyGoal, EventPenaltyMiss,
		EventYellowCard, EventRedCard, EventSecondYellow,
		EventSubstitutionIn, EventSubstitutionOut,
		EventInjury, EventVARDecision, EventCorner, EventFreeKick, EventOffside:
		return true
	}
	return false
}

// RequiresPlayer — для этих типов player_id обязателен.
func (t EventType) RequiresPlayer() bool {
	switch t {
	case EventGoal, EventOwnGoal, EventPenaltyGoal, EventPenaltyMiss,
		EventYellowCard, EventRedCard, EventSecondYellow,
		EventSubstitutionIn, EventSubstitutionOut:
		return true
	}
	return false
}

// RequiresRelatedPlayer — для замены обязателен и уходящий игрок.
func (t EventType) RequiresRelatedPlayer() bool {
	return t == EventSubstitutionIn
}

// MatchEvent — единичный факт, произошедший в матче. Append-only.
type MatchEvent struct {
	ID              int             `json:"id" db:"id"`
	MatchID         int             `json:"match_id" db:"match_id"`
	EventType       EventType       `json:"event_type" db:"event_type"`
	Minute          int             `json:"minute" db:"minute"`
	TeamID          int             `json:"team_id" db:"team_id"`
	PlayerID        *int            `json:"player_id,omitempty" db:"player_id"`
	RelatedPlayerID *int            `json:"related_player_id,omitempty" db:"related_player_id"`
	Description     *string         `json:"description,omitempty" db:"description"`
	GoalType        *string         `json:"goal_type,omitempty" db:"goal_type"`
	IsPenaltyScored *bool           `json:"is_penalty_scored,omitempty" db:"is_penalty_scored"`
	EventData       json.RawMessage `json:"event_data,omitempty" db:"event_data"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// Commentary — строка комментария, ручная или сгенерированная движком.
type Commentary struct {
	ID          int       `json:"id" db:"id"`
	MatchID     int       `json:"match_id" db:"match_id"`
	Minute      int       `json:"minute" db:"minute"`
	Text        string    `json:"text" db:"text"`
	IsImportant bool      `json:"is_important" db:"is_important"`
	EventID     *int      `json:"event_id,omitempty" db:"event_id"`
	AuthorID    *int      `json:"author_id,omitempty" db:"author_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
