package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed          = errors.New("validation failed")
	ErrPasswordTooShort          = errors.New("password is too short")
	ErrRegistrationNotOpen       = errors.New("tournament registration is not open")
	ErrRegistrationClosed        = errors.New("tournament registration has closed")
	ErrTournamentFull            = errors.New("tournament registration is full")
	ErrTournamentStarted         = errors.New("tournament has already started")
	ErrTournamentCompleted       = errors.New("tournament has ended")
	ErrTeamSizeOutOfBounds       = errors.New("team size does not meet tournament requirements")
	ErrVerificationRequired      = errors.New("account verification is required for this tournament")
	ErrRegionRestricted          = errors.New("tournament is restricted to specific regions")
	ErrTeamRequired              = errors.New("this tournament requires a team registration")
	ErrSoloRequired              = errors.New("this tournament requires a solo registration")
	ErrPaymentNotSubmitted       = errors.New("payment has not been submitted")
	ErrRegistrationNotConfirmed  = errors.New("registration is not confirmed")
	ErrRegistrationNotCancelable = errors.New("registration can no longer be cancelled")

	// Ошибки конфликтов
	ErrUserEmailConflict      = errors.New("email address is already in use")
	ErrRegistrationConflict   = errors.New("user or team is already registered for this tournament")
	ErrTournamentNameConflict = errors.New("tournament name already exists")

	// Ошибки аутентификации и авторизации
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")
	ErrCaptainActionForbidden = errors.New("only the team captain can register the team")

	// Ошибки, специфичные для сущностей
	ErrUserNotFound         = errors.New("user not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrTournamentNotFound   = errors.New("tournament not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrPaymentNotFound      = errors.New("payment not found")

	// Ошибки турниров
	ErrTournamentInvalidWindow   = errors.New("tournament registration window is inverted")
	ErrTournamentInvalidCapacity = errors.New("tournament capacity limit must not be negative")
	ErrTournamentInvalidStatus   = errors.New("invalid tournament status provided")
)
