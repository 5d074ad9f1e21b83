package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed    = errors.New("validation failed")
	ErrPasswordTooShort    = errors.New("password is too short")
	ErrTeamNameRequired    = errors.New("team name is required")
	ErrMatchNotLive        = errors.New("match is not live, events are not accepted")
	ErrMatchAlreadyStarted = errors.New("match has already started")
	ErrMatchSameTeam       = errors.New("a team cannot play against itself")
	ErrTeamNotInTournament = errors.New("team is not registered for this tournament")
	ErrCrestUnavailable    = errors.New("image storage is not configured")

	// Статусы и переходы
	ErrMatchInvalidStatus           = errors.New("invalid match status provided")
	ErrMatchInvalidStatusTransition = errors.New("invalid match status transition")
	ErrTournamentInvalidStatus      = errors.New("invalid tournament status provided")
	ErrTournamentInvalidDateRange   = errors.New("tournament end date must be after start date")
	ErrTournamentRegistrationClosed = errors.New("tournament does not accept team registrations")
	ErrStandingsUnavailable         = errors.New("no standings available: no teams registered")

	// Ошибки конфликтов
	ErrTeamNameConflict       = errors.New("team name is already in use")
	ErrRegistrationConflict   = errors.New("team is already registered for this tournament")
	ErrTournamentNameConflict = errors.New("tournament name already exists")
	ErrUserEmailConflict      = errors.New("email address is already in use")

	// Ошибки аутентификации и авторизации
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Ошибки, специфичные для сущностей
	ErrUserNotFound       = errors.New("user not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
)
