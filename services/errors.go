package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed        = errors.New("validation failed")
	ErrPasswordTooShort        = errors.New("password is too short")
	ErrClubNameRequired        = errors.New("club name is required")
	ErrSameClubsInMatch        = errors.New("home and away club must differ")
	ErrNegativeScore           = errors.New("score must be a non-negative integer")
	ErrMatchNotFinished        = errors.New("match result is only defined for finished matches")
	ErrMinutesOutOfRange       = errors.New("minutes played exceed the maximum match duration")
	ErrInvalidParticipation    = errors.New("invalid participation flag")
	ErrNegativeStatisticValue  = errors.New("statistic counters must be non-negative")
	ErrTournamentInvalidDates  = errors.New("tournament end date must be after start date")
	ErrTournamentInvalidStatus = errors.New("invalid tournament status provided")

	// Ошибки конфликтов
	ErrUserEmailConflict      = errors.New("email address is already in use")
	ErrClubNameConflict       = errors.New("club name is already in use")
	ErrTournamentNameConflict = errors.New("tournament name already exists")
	ErrStatisticDuplicate     = errors.New("player already has a statistic entry for this match")

	// Ошибки аутентификации и авторизации
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Ошибки, специфичные для сущностей
	ErrUserNotFound       = errors.New("user not found")
	ErrClubNotFound       = errors.New("club not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrStatisticNotFound  = errors.New("match statistic not found")

	// Ошибки движка пересчёта. Чтение/запись отдаются вызывающему как есть,
	// движок сам не ретраит.
	ErrFactReadFailed       = errors.New("failed to read authoritative facts")
	ErrAggregateReadFailed  = errors.New("failed to read aggregate rows")
	ErrAggregateWriteFailed = errors.New("failed to persist aggregate rows")

	// ErrAggregatesStale предупреждает на пути сохранения: факт записан, но
	// последующий пересчёт упал. Джоба сверки починит агрегаты позже.
	ErrAggregatesStale = errors.New("result saved, standings may be temporarily out of date")
)
