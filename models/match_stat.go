package models

import "time"

// PlayerMatchStat — одна строка на пару (матч, игрок). Создаётся лениво
// первым событием игрока в матче, далее счётчики только растут;
// minutes_played обновляется по правилу max(current, new).
type PlayerMatchStat struct {
	ID            int       `json:"id" db:"id"`
	MatchID       int       `json:"match_id" db:"match_id"`
	PlayerID      int       `json:"player_id" db:"player_id"`
	Goals         int       `json:"goals" db:"goals"`
	Assists       int       `json:"assists" db:"assists"`
	Shots         int       `json:"shots" db:"shots"`
	ShotsOnTarget int       `json:"shots_on_target" db:"shots_on_target"`
	YellowCards   int       `json:"yellow_cards" db:"yellow_cards"`
	RedCards      int       `json:"red_cards" db:"red_cards"`
	MinutesPlayed int       `json:"minutes_played" db:"minutes_played"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`

	Player *Player `json:"player,omitempty" db:"-"`
}

// MatchStat — агрегатные счётчики матча по сторонам. Одна строка на матч,
// создаётся лениво, пишется батчами (см. services.MatchStatFlusher).
type MatchStat struct {
	ID                int       `json:"id" db:"id"`
	MatchID           int       `json:"match_id" db:"match_id"`
	ShotsHome         int       `json:"shots_home" db:"shots_home"`
	ShotsAway         int       `json:"shots_away" db:"shots_away"`
	ShotsOnTargetHome int       `json:"shots_on_target_home" db:"shots_on_target_home"`
	ShotsOnTargetAway int       `json:"shots_on_target_away" db:"shots_on_target_away"`
	CornersHome       int       `json:"corners_home" db:"corners_home"`
	CornersAway       int       `json:"corners_away" db:"corners_away"`
	FoulsHome         int       `json:"fouls_home" db:"fouls_home"`
	FoulsAway         int       `json:"fouls_away" db:"fouls_away"`
	OffsidesHome      int       `json:"offsides_home" db:"offsides_home"`
	OffsidesAway      int       `json:"offsides_away" db:"offsides_away"`
	YellowCardsHome   int       `json:"yellow_cards_home" db:"yellow_cards_home"`
	YellowCardsAway   int       `json:"yellow_cards_away" db:"yellow_cards_away"`
	RedCardsHome      int       `json:"red_cards_home" db:"red_cards_home"`
	RedCardsAway      int       `json:"red_cards_away" db:"red_cards_away"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}
