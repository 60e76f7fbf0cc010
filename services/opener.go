package services

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"academia/apperrors"
	"academia/config"
	"academia/models"
)

// OpenMode beschreibt, wie der Inhalt einer Ressource geöffnet wird.
type OpenMode int

const (
	OpenNone OpenMode = iota
	OpenDocumentViewer
	OpenNewTab
)

func (m OpenMode) String() string {
	switch m {
	case OpenDocumentViewer:
		return "document_viewer"
	case OpenNewTab:
		return "new_tab"
	}
	return "none"
}

func (m OpenMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// NoURLNotice ist der Hinweis, wenn keine URL auflösbar ist.
const NoURLNotice = "This resource has no valid URL attached."

// documentExtensions sind die Endungen, die im Dokumenten-Viewer landen.
var documentExtensions = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true,
	".ppt": true, ".pptx": true,
	".xls": true, ".xlsx": true,
}

// Window beschreibt das Zielfenster.
type Window struct {
	Name     string `json:"name"`
	Features string `json:"features"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Top      int    `json:"top,omitempty"`
	Left     int    `json:"left,omitempty"`
}

// OpenAction ist das Ergebnis der Auflösung: was wohin geöffnet wird.
type OpenAction struct {
	Mode   OpenMode `json:"mode"`
	Source string   `json:"source,omitempty"`
	Target string   `json:"target,omitempty"`
	Window Window   `json:"window"`
	Notice string   `json:"notice,omitempty"`
}

// Opener entscheidet zwischen Dokumenten-Viewer und neuem Tab.
type Opener struct {
	Config *config.Config
}

func NewOpener(cfg *config.Config) *Opener {
	return &Opener{Config: cfg}
}

// ResolveURL wählt die URL einer Ressource: bei Research das Dokument,
// bei Media das Video und ersatzweise den Meeting-Link.
func ResolveURL(kind models.Kind, details models.Details) (string, error) {
	if !kind.Known() {
		return "", fmt.Errorf("kind %q: %w", kind, apperrors.ErrNoResolvableURL)
	}
	var u string
	switch d := details.(type) {
	case models.ResearchDetails:
		u = d.DocumentURL
	case models.MediaDetails:
		u = d.VideoURL
		if u == "" {
			u = d.MeetingLink
		}
	}
	if u == "" {
		return "", apperrors.ErrNoResolvableURL
	}
	return u, nil
}

// IsDocumentURL meldet, ob der Pfad von raw auf eine Office- oder PDF-Endung endet.
// Query und Fragment werden ignoriert.
func IsDocumentURL(raw string) bool {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	} else if i := strings.IndexAny(raw, "?#"); i >= 0 {
		p = raw[:i]
	}
	return documentExtensions[strings.ToLower(path.Ext(p))]
}

// Resolve berechnet die Öffnen-Aktion für r. Ohne URL ist die Aktion OpenNone
// mit Hinweis, und der Fehler ist ErrNoResolvableURL.
func (o *Opener) Resolve(r models.Resource) (OpenAction, error) {
	u, err := ResolveURL(r.Kind, r.Details)
	if err != nil {
		return OpenAction{Mode: OpenNone, Notice: NoURLNotice}, err
	}
	if IsDocumentURL(u) {
		return o.documentViewer(u), nil
	}
	return OpenAction{
		Mode:   OpenNewTab,
		Source: u,
		Target: u,
		Window: Window{Name: "_blank", Features: "noopener,noreferrer"},
	}, nil
}

func (o *Opener) documentViewer(u string) OpenAction {
	w, h := o.Config.PopupWidth, o.Config.PopupHeight
	left := max((o.Config.ScreenWidth-w)/2, 0)
	top := max((o.Config.ScreenHeight-h)/2, 0)
	return OpenAction{
		Mode:   OpenDocumentViewer,
		Source: u,
		Target: fmt.Sprintf("%s?url=%s&embedded=true", o.Config.ViewerBaseURL, url.QueryEscape(u)),
		Window: Window{
			Name:     "VisorDocumento",
			Features: fmt.Sprintf("width=%d,height=%d,top=%d,left=%d,scrollbars=yes", w, h, top, left),
			Width:    w,
			Height:   h,
			Top:      top,
			Left:     left,
		},
	}
}
