package services

import (
	"errors"
	"sort"
	"strings"
)

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed      = errors.New("validation failed")
	ErrWeakPassword          = errors.New("password must have at least 8 characters, should include uppercase, lower case, special characters, and numbers")
	ErrAddressRequired       = errors.New("address is required for organizers")
	ErrInvalidUserType       = errors.New("invalid user type")
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrHackathonInvalidType  = errors.New("invalid hackathon type")
	ErrHackathonInvalidDates = errors.New("registration must open before it closes and close no later than the event date")
	ErrInvalidListType       = errors.New("invalid list type")
	ErrRegistrationClosed    = errors.New("registration for this hackathon is closed")
	ErrRegistrationMismatch  = errors.New("registration kind does not match the hackathon")
	ErrTeamSizeInvalid       = errors.New("team size is outside the allowed range")
	ErrSoloMembersNotAllowed = errors.New("solo registrations cannot include team members")
	ErrInvalidProposalFile   = errors.New("proposal must be a PDF file no larger than 5 MB")
	ErrInvalidProposalStatus = errors.New("invalid proposal status")

	// Ошибки конфликтов
	ErrUserEmailConflict    = errors.New("email address is already in use")
	ErrUserUsernameConflict = errors.New("username is already in use")
	ErrRegistrationConflict = errors.New("you have already registered for this hackathon")

	// Ошибки аутентификации и авторизации
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")

	ErrUserNotFound      = errors.New("user not found")
	ErrHackathonNotFound = errors.New("hackathon not found")
	ErrProposalNotFound  = errors.New("proposal not found")
)

// ValidationErrors maps a JSON field name to the reason it was rejected.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+v[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Unwrap() error { return ErrValidationFailed }
