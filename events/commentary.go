package events

import (
	"fmt"

	"github.com/Dosada05/league-system/models"
)

// commentaryTemplates — шаблоны автокомментария для "важных" типов событий.
// Аргументы: минута, игрок, команда.
var commentaryTemplates = map[models.EventType]string{
	models.EventGoal:        "%d' GOAL! %s scores for %s!",
	models.EventOwnGoal:     "%d' Own goal! %s turns it into his own net, %s concede.",
	models.EventPenaltyGoal: "%d' GOAL! %s converts the penalty for %s!",
	models.EventPenaltyMiss: "%d' Penalty missed! %s fails to convert for %s.",
	models.EventRedCard:     "%d' RED CARD! %s of %s is sent off.",
}

// IsImportant — события, для которых движок сам пишет строку комментария.
func IsImportant(t models.EventType) bool {
	_, ok := commentaryTemplates[t]
	return ok
}

// AutoCommentary синтезирует человекочитаемую строку для важного события.
// Второе значение — false, если для типа автокомментарий не предусмотрен.
func AutoCommentary(t models.EventType, minute int, playerName, teamName string) (string, bool) {
	tmpl, ok := commentaryTemplates[t]
	if !ok {
		return "", false
	}
	return fmt.Sprintf(tmpl, minute, playerName, teamName), true
}
