package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Kind ist der Typ einer Ressource, wie ihn das Backend im Feld "tipo" liefert.
type Kind string

const (
	KindThesis  Kind = "TESIS"
	KindArticle Kind = "ARTICULO"
	KindVideo   Kind = "VIDEO"
	KindEvent   Kind = "EVENTO"
)

// Kinds ist die geschlossene Menge bekannter Ressourcentypen.
var Kinds = []Kind{KindThesis, KindArticle, KindVideo, KindEvent}

// Group ist eine der beiden Anzeigegruppen des Katalogs.
type Group string

const (
	GroupResearch Group = "research"
	GroupMedia    Group = "media"
)

// Group ordnet den Typ seiner Anzeigegruppe zu. Unbekannte Typen haben keine.
func (k Kind) Group() (Group, bool) {
	switch k {
	case KindThesis, KindArticle:
		return GroupResearch, true
	case KindVideo, KindEvent:
		return GroupMedia, true
	}
	return "", false
}

// Known meldet, ob k zur geschlossenen Typmenge gehört.
func (k Kind) Known() bool {
	_, ok := k.Group()
	return ok
}

// Label gibt einen lesbaren Namen zurück.
func (k Kind) Label() string {
	switch k {
	case KindThesis:
		return "Thesis"
	case KindArticle:
		return "Article"
	case KindVideo:
		return "Video"
	case KindEvent:
		return "Event"
	}
	return string(k)
}

// ParseKind akzeptiert den Wire-Wert ("TESIS") oder den lesbaren Namen ("thesis").
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	for _, k := range Kinds {
		if strings.EqualFold(s, string(k)) || strings.EqualFold(s, k.Label()) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown resource kind %q", s)
}

// ParseGroup akzeptiert "research"/"media" sowie die alten Tab-Namen.
func ParseGroup(s string) (Group, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "research", "investigaciones":
		return GroupResearch, nil
	case "media", "videos":
		return GroupMedia, nil
	}
	return "", fmt.Errorf("unknown catalog group %q", s)
}

// Platform ist die Videoplattform eines Media-Eintrags.
type Platform string

const (
	PlatformYouTube Platform = "YouTube"
	PlatformVimeo   Platform = "Vimeo"
)

// Valid meldet, ob p eine der unterstützten Plattformen ist.
func (p Platform) Valid() bool {
	return p == PlatformYouTube || p == PlatformVimeo
}

// Details ist die typabhängige Nutzlast einer Ressource.
// Implementiert von ResearchDetails und MediaDetails.
type Details interface {
	Group() Group
}

// ResearchDetails gehört zu Thesis und Article.
type ResearchDetails struct {
	Institution string `json:"universidad"`
	DocumentURL string `json:"url_pdf"`
}

func (ResearchDetails) Group() Group { return GroupResearch }

// MediaDetails gehört zu Video und Event. MeetingLink ist nur Fallback für VideoURL.
type MediaDetails struct {
	VideoURL    string   `json:"url_video"`
	Duration    string   `json:"duracion"`
	Platform    Platform `json:"plataforma"`
	MeetingLink string   `json:"link_reunion,omitempty"`
}

func (MediaDetails) Group() Group { return GroupMedia }

// DecodeDetails liest raw in die Variante, die kind vorgibt.
// Felder der anderen Variante werden dabei verworfen.
func DecodeDetails(kind Kind, raw json.RawMessage) (Details, error) {
	group, ok := kind.Group()
	if !ok {
		return nil, nil
	}
	empty := len(raw) == 0 || string(raw) == "null"
	switch group {
	case GroupResearch:
		var d ResearchDetails
		if !empty {
			if err := json.Unmarshal(raw, &d); err != nil {
				return nil, fmt.Errorf("decode research details: %w", err)
			}
		}
		return d, nil
	default:
		var d MediaDetails
		if !empty {
			if err := json.Unmarshal(raw, &d); err != nil {
				return nil, fmt.Errorf("decode media details: %w", err)
			}
		}
		return d, nil
	}
}

// Author ist der (ggf. vom Backend aufgelöste) Verfasser. Das Backend liefert
// entweder ein Objekt oder nur die ID als String.
type Author struct {
	ID   string `json:"_id,omitempty"`
	Name string `json:"nombre,omitempty"`
}

func (a *Author) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &a.ID)
	}
	type plain Author
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*a = Author(p)
	return nil
}

// Resource ist ein Eintrag im Wissenskatalog.
type Resource struct {
	ID        string
	Kind      Kind
	Title     string
	Tags      []string
	Details   Details
	Author    *Author
	CreatedAt time.Time
}

type resourceWire struct {
	ID        string          `json:"_id,omitempty"`
	Kind      Kind            `json:"tipo"`
	Title     string          `json:"titulo"`
	Tags      []string        `json:"tags"`
	Details   json.RawMessage `json:"detalles,omitempty"`
	Author    *Author         `json:"autor_id,omitempty"`
	CreatedAt *time.Time      `json:"createdAt,omitempty"`
}

func (r *Resource) UnmarshalJSON(b []byte) error {
	var w resourceWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	details, err := DecodeDetails(w.Kind, w.Details)
	if err != nil {
		return err
	}
	*r = Resource{
		ID:      w.ID,
		Kind:    w.Kind,
		Title:   w.Title,
		Tags:    w.Tags,
		Details: details,
		Author:  w.Author,
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if w.CreatedAt != nil {
		r.CreatedAt = *w.CreatedAt
	}
	return nil
}

func (r Resource) MarshalJSON() ([]byte, error) {
	w := resourceWire{
		ID:     r.ID,
		Kind:   r.Kind,
		Title:  r.Title,
		Tags:   r.Tags,
		Author: r.Author,
	}
	if w.Tags == nil {
		w.Tags = []string{}
	}
	if r.Details != nil {
		raw, err := json.Marshal(r.Details)
		if err != nil {
			return nil, err
		}
		w.Details = raw
	}
	if !r.CreatedAt.IsZero() {
		w.CreatedAt = &r.CreatedAt
	}
	return json.Marshal(w)
}

// Research liefert die Research-Details, falls vorhanden.
func (r Resource) Research() (ResearchDetails, bool) {
	d, ok := r.Details.(ResearchDetails)
	return d, ok
}

// Media liefert die Media-Details, falls vorhanden.
func (r Resource) Media() (MediaDetails, bool) {
	d, ok := r.Details.(MediaDetails)
	return d, ok
}

// AuthorName gibt den Namen des Verfassers oder "Anonymous" zurück.
func (r Resource) AuthorName() string {
	if r.Author == nil || r.Author.Name == "" {
		return "Anonymous"
	}
	return r.Author.Name
}

// Meta ist die typabhängige Kurzinfo der Katalogkarte.
func (r Resource) Meta() string {
	switch r.Kind {
	case KindThesis:
		if d, _ := r.Research(); d.Institution != "" {
			return d.Institution
		}
		return "Unknown university"
	case KindVideo:
		if d, _ := r.Media(); d.Duration != "" {
			return d.Duration
		}
		return "?? min"
	}
	return ""
}

// ResourceDraft ist der Request-Body für das Anlegen einer Ressource.
type ResourceDraft struct {
	Title   string
	Kind    Kind
	Tags    []string
	Details Details
}

func (d ResourceDraft) MarshalJSON() ([]byte, error) {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(struct {
		Title   string   `json:"titulo"`
		Kind    Kind     `json:"tipo"`
		Tags    []string `json:"tags"`
		Details Details  `json:"detalles"`
	}{d.Title, d.Kind, tags, d.Details})
}
