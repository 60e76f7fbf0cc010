package apperrors

import (
	"errors"
	"fmt"
)

// Validierungsfehler
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnsupportedKind = errors.New("resource kind cannot be created")
	ErrUnknownKind     = errors.New("unknown resource kind")
)

// Authentifizierungsfehler
var (
	// ErrUnauthorized: der Server hat den Bearer-Token abgelehnt (401).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotAuthenticated: lokal ist keine Sitzung vorhanden.
	ErrNotAuthenticated = errors.New("not logged in")
)

// Netzwerk-, Server- und Datenfehler
var (
	ErrUnavailable     = errors.New("backend unavailable")
	ErrNoResolvableURL = errors.New("no valid URL attached")
	ErrNotFound        = errors.New("not found")
)

// ValidationError beschreibt ein ungültiges Formularfeld.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError erstellt einen Validierungsfehler für ein Feld.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// RemoteError ist eine Nicht-2xx-Antwort des Backends (außer 401).
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend responded with status %d", e.Status)
	}
	return fmt.Sprintf("backend responded with status %d: %s", e.Status, e.Message)
}

// IsAuth meldet, ob err einen fehlenden oder abgelehnten Login bedeutet.
func IsAuth(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotAuthenticated)
}

// RemoteMessage liefert die Server-Meldung eines RemoteError, sonst fallback.
func RemoteMessage(err error, fallback string) string {
	var re *RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return fallback
}
