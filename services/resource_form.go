package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"academia/apperrors"
	"academia/backend"
	"academia/models"
)

// Hinweise des Formulars.
const (
	NoticePublished    = "Resource published"
	NoticeCreateFailed = "Could not create resource"
)

// RefreshFunc lädt nach einem erfolgreichen Anlegen die Liste neu.
type RefreshFunc func(ctx context.Context) error

// Created ist das Ergebnis eines erfolgreichen Submit.
type Created struct {
	Resource *models.Resource
}

// ResourceForm ist der Zustand des Formulars zum Anlegen einer Ressource.
// Es hält beide Detail-Varianten; gesendet wird nur die zum Typ passende.
type ResourceForm struct {
	Resources backend.Resources
	Session   *Session
	Logger    *zap.Logger

	Kind        models.Kind
	Title       string
	RawTags     string
	Institution string
	DocumentURL string
	VideoURL    string
	Duration    string
	Platform    models.Platform

	// Notice ist der Hinweis nach dem letzten Submit.
	Notice string
}

// NewResourceForm erstellt ein leeres Formular (Thesis, YouTube).
func NewResourceForm(resources backend.Resources, session *Session, logger *zap.Logger) *ResourceForm {
	f := &ResourceForm{Resources: resources, Session: session, Logger: logger}
	f.Reset()
	return f
}

// Reset setzt alle Felder auf die Anfangswerte.
func (f *ResourceForm) Reset() {
	f.Kind = models.KindThesis
	f.Title = ""
	f.RawTags = ""
	f.Institution = ""
	f.DocumentURL = ""
	f.VideoURL = ""
	f.Duration = ""
	f.Platform = models.PlatformYouTube
}

func creatable(k models.Kind) error {
	switch k {
	case models.KindThesis, models.KindVideo:
		return nil
	case models.KindArticle, models.KindEvent:
		return fmt.Errorf("%s: %w", k.Label(), apperrors.ErrUnsupportedKind)
	}
	return fmt.Errorf("%q: %w", k, apperrors.ErrUnknownKind)
}

// SetKind wählt den Typ. Nur Thesis und Video können angelegt werden.
func (f *ResourceForm) SetKind(k models.Kind) error {
	if err := creatable(k); err != nil {
		return err
	}
	f.Kind = k
	return nil
}

// Validate prüft das Formular vor dem Senden.
func (f *ResourceForm) Validate() error {
	if err := creatable(f.Kind); err != nil {
		return err
	}
	if strings.TrimSpace(f.Title) == "" {
		return apperrors.NewValidationError("title", "title is required")
	}
	if f.Kind == models.KindVideo {
		if strings.TrimSpace(f.VideoURL) == "" {
			return apperrors.NewValidationError("video_url", "video link is required")
		}
		if !f.Platform.Valid() {
			return apperrors.NewValidationError("platform", fmt.Sprintf("unsupported platform %q", f.Platform))
		}
	}
	return nil
}

// Draft baut den Request-Body. Die Details enthalten nur die Felder des gewählten Typs.
func (f *ResourceForm) Draft() (models.ResourceDraft, error) {
	if err := f.Validate(); err != nil {
		return models.ResourceDraft{}, err
	}
	draft := models.ResourceDraft{
		Title: f.Title,
		Kind:  f.Kind,
		Tags:  NormalizeTags(f.RawTags),
	}
	switch f.Kind {
	case models.KindThesis:
		draft.Details = models.ResearchDetails{Institution: f.Institution, DocumentURL: f.DocumentURL}
	case models.KindVideo:
		draft.Details = models.MediaDetails{VideoURL: f.VideoURL, Duration: f.Duration, Platform: f.Platform}
	}
	return draft, nil
}

// Submit sendet das Formular mit genau einem authentifizierten Aufruf.
// Bei Erfolg wird refresh aufgerufen und das Formular zurückgesetzt;
// bei einem Fehler bleiben alle Felder erhalten und refresh wird nicht aufgerufen.
func (f *ResourceForm) Submit(ctx context.Context, refresh RefreshFunc) (*Created, error) {
	draft, err := f.Draft()
	if err != nil {
		f.Notice = err.Error()
		return nil, err
	}
	token, err := f.Session.RequireToken()
	if err != nil {
		f.Notice = NoticeCreateFailed
		return nil, err
	}

	log := f.Logger.With(zap.String("kind", string(draft.Kind)))
	res, err := f.Resources.CreateResource(ctx, token, draft)
	if err != nil {
		f.Session.Check(err)
		f.Notice = NoticeCreateFailed
		log.Warn("Resource creation failed", zap.Error(err))
		return nil, err
	}
	log.Info("Resource created", zap.String("id", res.ID))

	if refresh != nil {
		if rerr := refresh(ctx); rerr != nil {
			log.Warn("Catalog refresh after create failed", zap.Error(rerr))
		}
	}
	f.Reset()
	f.Notice = NoticePublished
	return &Created{Resource: res}, nil
}
