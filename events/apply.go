// Package events maps a single match event onto the state mutations it
// implies: per-player stat deltas, a score change and side-qualified match
// counters. The mapping is pure; persistence belongs to the caller.
package events

import (
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrUnknownEventType      = errors.New("unknown event type")
	ErrTeamRequired          = errors.New("team_id is required")
	ErrTeamNotInMatch        = errors.New("team does not play in this match")
	ErrPlayerRequired        = errors.New("player_id is required for this event type")
	ErrRelatedPlayerRequired = errors.New("related_player_id is required for this event type")
	ErrMinuteInvalid         = errors.New("minute must not be negative")
)

// Input — событие в том виде, в каком его прислал клиент.
type Input struct {
	EventType       models.EventType
	Minute          int
	TeamID          int
	PlayerID        *int
	RelatedPlayerID *int
}

// Validate проверяет событие на границе: закрытый enum, обязательные поля.
// Неизвестный тип — это ошибка запроса, а не повод молча пропустить событие.
func (in Input) Validate() error {
	if !in.EventType.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownEventType, in.EventType)
	}
	if in.Minute < 0 {
		return ErrMinuteInvalid
	}
	if in.TeamID == 0 {
		return ErrTeamRequired
	}
	if in.EventType.RequiresPlayer() && in.PlayerID == nil {
		return fmt.Errorf("%w: %s", ErrPlayerRequired, in.EventType)
	}
	if in.EventType.RequiresRelatedPlayer() && in.RelatedPlayerID == nil {
		return fmt.Errorf("%w: %s", ErrRelatedPlayerRequired, in.EventType)
	}
	return nil
}

// PlayerDelta — аддитивные приращения счётчиков игрока в матче.
// MinutesPlayed применяется по правилу max(current, new), не аддитивно.
type PlayerDelta struct {
	PlayerID      int
	Goals         int
	Assists       int
	Shots         int
	ShotsOnTarget int
	YellowCards   int
	RedCards      int
	MinutesPlayed *int
}

// ScoreDelta — какой стороне матча прибавить гол.
type ScoreDelta struct {
	Home  bool
	Delta int
}

// StatDelta — приращения счётчиков матча для одной стороны.
type StatDelta struct {
	Home          bool
	Shots         int
	ShotsOnTarget int
	Corners       int
	Fouls         int
	Offsides      int
	YellowCards   int
	RedCards      int
}

// IsZero — все счётчики нулевые, писать нечего.
func (d StatDelta) IsZero() bool {
	return d.Shots == 0 && d.ShotsOnTarget == 0 && d.Corners == 0 &&
		d.Fouls == 0 && d.Offsides == 0 && d.YellowCards == 0 && d.RedCards == 0
}

// Add покомпонентно складывает две дельты одной стороны.
func (d StatDelta) Add(other StatDelta) StatDelta {
	d.Shots += other.Shots
	d.ShotsOnTarget += other.ShotsOnTarget
	d.Corners += other.Corners
	d.Fouls += other.Fouls
	d.Offsides += other.Offsides
	d.YellowCards += other.YellowCards
	d.RedCards += other.RedCards
	return d
}

// Effects — полный набор мутаций, порождённых одним событием.
type Effects struct {
	PlayerDeltas []PlayerDelta
	Score        *ScoreDelta
	Stat         *StatDelta
}

// Apply детерминированно раскладывает событие на мутации состояния.
// Сторона (home/away) определяется по составу матча; для автогола счёт
// прибавляется противоположной стороне, статистика не меняется.
func Apply(in Input, match *models.Match) (Effects, error) {
	if err := in.Validate(); err != nil {
		return Effects{}, err
	}

	home, ok := match.SideOf(in.TeamID)
	if !ok {
		return Effects{}, fmt.Errorf("%w: team %d, match %d", ErrTeamNotInMatch, in.TeamID, match.ID)
	}

	var fx Effects

	switch in.EventType {
	case models.EventGoal, models.EventPenaltyGoal:
		fx.PlayerDeltas = append(fx.PlayerDeltas, PlayerDelta{
			PlayerID: *in.PlayerID, Goals: 1, Shots: 1, ShotsOnTarget: 1,
		})
		if in.RelatedPlayerID != nil {
			fx.PlayerDeltas = append(fx.PlayerDeltas, PlayerDelta{
				PlayerID: *in.RelatedPlayerID, Assists: 1,
			})
		}
		fx.Score = &ScoreDelta{Home: home, Delta: 1}
		fx.Stat = &StatDelta{Home: home, Shots: 1, ShotsOnTarget: 1}

	case models.EventOwnGoal:
		// Удар засчитывается игроку, гол — противоположной стороне.
		fx.PlayerDeltas = append(fx.PlayerDeltas, PlayerDelta{
			PlayerID: *in.PlayerID, Shots: 1,
		})
		fx.Score = &ScoreDelta{Home: !home, Delta: 1}

	case models.EventPenaltyMiss:
		fx.PlayerDeltas = append(fx.PlayerDeltas, PlayerDelta{
			PlayerID: *in.PlayerID, Shots: 1,
		})
		fx.Stat = &StatDelta{Home: home, Shots: 1}

	case models.EventYellowCard:
		fx.PlayerDeltas = append(fx.PlayerDeltas, PlayerDelta{
			PlayerID: *in.PlayerID, YellowCards: 1,
		})
		fx.Stat = &StatDelta{Home: home, YellowCards: 1}

	case models.EventRedCard:
		fx.PlayerDeltas = append(fx.PlayerDeltas, PlayerDelta{
			PlayerID: *in.PlayerID, RedCards: 1,
		})
		fx.Stat = &StatDelta{Home: home, RedCards: 1}

	case models.EventSecondYellow:
		// Вторая жёлтая — обе карточки одним применением.
		fx.PlayerDeltas = append(fx.PlayerDeltas, PlayerDelta{
			PlayerID: *in.PlayerID, YellowCards: 1, RedCards: 1,
		})
		fx.Stat = &StatDelta{Home: home, RedCards: 1}

	case models.EventSubstitutionIn:
		minute := in.Minute
		fx.PlayerDeltas = append(fx.PlayerDeltas,
			PlayerDelta{PlayerID: *in.PlayerID, MinutesPlayed: &minute},
			PlayerDelta{PlayerID: *in.RelatedPlayerID, MinutesPlayed: &minute},
		)

	case models.EventSubstitutionOut:
		minute := in.Minute
		fx.PlayerDeltas = append(fx.PlayerDeltas, PlayerDelta{
			PlayerID: *in.PlayerID, MinutesPlayed: &minute,
		})

	case models.EventCorner:
		fx.Stat = &StatDelta{Home: home, Corners: 1}

	case models.EventFreeKick:
		fx.Stat = &StatDelta{Home: home, Fouls: 1}

	case models.EventOffside:
		fx.Stat = &StatDelta{Home: home, Offsides: 1}

	case models.EventVARDecision, models.EventInjury:
		// Фиксируются как факт матча, счётчиков для них нет.

	default:
		// Validate уже отклонил всё вне enum; сюда попадать не должны.
		return Effects{}, fmt.Errorf("%w: %q", ErrUnknownEventType, in.EventType)
	}

	return fx, nil
}
