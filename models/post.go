package models

import "time"

// Comment ist ein Kommentar unter einer Publikation.
type Comment struct {
	Content   string    `json:"contenido"`
	Anonymous bool      `json:"es_anonimo"`
	User      *Author   `json:"usuario_id,omitempty"`
	CreatedAt time.Time `json:"fecha_creacion"`
}

// AuthorName: anonym, sonst der Name, sonst "Unknown user".
func (c Comment) AuthorName() string {
	if c.Anonymous {
		return "Anonymous user"
	}
	if c.User != nil && c.User.Name != "" {
		return c.User.Name
	}
	return "Unknown user"
}

// Post ist eine Publikation im Feed.
type Post struct {
	ID          string    `json:"_id"`
	Content     string    `json:"contenido"`
	Anonymous   bool      `json:"es_anonimo"`
	DisplayName string    `json:"nombre_display,omitempty"`
	CreatedAt   time.Time `json:"fecha_creacion"`
	Comments    []Comment `json:"comentarios,omitempty"`
}

// AuthorName gibt den Anzeigenamen oder "User" zurück.
func (p Post) AuthorName() string {
	if p.DisplayName == "" {
		return "User"
	}
	return p.DisplayName
}

// PostDraft ist der Request-Body für POST /api/publicaciones.
type PostDraft struct {
	Content   string `json:"contenido"`
	Anonymous bool   `json:"es_anonimo"`
}
