package models

import (
	"fmt"
	"strings"
)

// JobSearchStatus ist der Bewerbungsstatus im Profil.
type JobSearchStatus string

const (
	JobSearchActive  JobSearchStatus = "ACTIVO"
	JobSearchPassive JobSearchStatus = "PASIVO"
	JobSearchClosed  JobSearchStatus = "CERRADO"
)

// ParseJobSearchStatus akzeptiert nur die drei bekannten Werte (Groß/Klein egal).
func ParseJobSearchStatus(s string) (JobSearchStatus, error) {
	st := JobSearchStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case JobSearchActive, JobSearchPassive, JobSearchClosed:
		return st, nil
	}
	return "", fmt.Errorf("unknown job search status %q", s)
}

func (s JobSearchStatus) Label() string {
	switch s {
	case JobSearchActive:
		return "Actively looking"
	case JobSearchPassive:
		return "Open to offers"
	case JobSearchClosed:
		return "Not available"
	}
	return ""
}

// Location ist der Wohnort im Profil.
type Location struct {
	City    string `json:"ciudad"`
	Country string `json:"pais"`
}

// User ist das Profil eines Mitglieds.
type User struct {
	ID        string          `json:"_id,omitempty"`
	Name      string          `json:"nombre"`
	Email     string          `json:"email,omitempty"`
	Headline  string          `json:"titular,omitempty"`
	Summary   string          `json:"resumen,omitempty"`
	Location  *Location       `json:"ubicacion,omitempty"`
	Skills    []string        `json:"habilidades,omitempty"`
	JobSearch JobSearchStatus `json:"estado_busqueda,omitempty"`
}

// LocationLabel formatiert den Wohnort oder meldet, dass keiner gesetzt ist.
func (u User) LocationLabel() string {
	if u.Location == nil || u.Location.City == "" {
		return "Location not set"
	}
	return fmt.Sprintf("%s, %s", u.Location.City, u.Location.Country)
}

// HeadlineLabel gibt den Titel oder eine Aufforderung zurück.
func (u User) HeadlineLabel() string {
	if u.Headline == "" {
		return "Add a professional headline!"
	}
	return u.Headline
}

// SummaryLabel gibt die Beschreibung oder einen Platzhalter zurück.
func (u User) SummaryLabel() string {
	if u.Summary == "" {
		return "This user has not written a description yet."
	}
	return u.Summary
}

// ProfileUpdate ist der Request-Body für PUT /api/usuarios/perfil.
type ProfileUpdate struct {
	Headline  string          `json:"titular"`
	Summary   string          `json:"resumen"`
	JobSearch JobSearchStatus `json:"estado_busqueda"`
	Location  Location        `json:"ubicacion"`
	Skills    []string        `json:"habilidades"`
}

// Credentials ist der Request-Body für den Login.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration ist der Request-Body für die Registrierung.
type Registration struct {
	Name     string `json:"nombre" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult ist die Antwort des Login-Endpunkts.
type LoginResult struct {
	Token string `json:"token"`
	Name  string `json:"nombre"`
}
