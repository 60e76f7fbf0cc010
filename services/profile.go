package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"academia/apperrors"
	"academia/backend"
	"academia/models"
)

// ProfileForm ist der editierbare Zustand des eigenen Profils.
type ProfileForm struct {
	Headline  string
	Summary   string
	City      string
	Country   string
	Skills    string
	JobSearch string
}

// FormFromUser füllt das Formular aus einem Profil vor.
func FormFromUser(u *models.User) ProfileForm {
	f := ProfileForm{
		Headline:  u.Headline,
		Summary:   u.Summary,
		Skills:    strings.Join(u.Skills, ", "),
		JobSearch: string(u.JobSearch),
	}
	if u.Location != nil {
		f.City = u.Location.City
		f.Country = u.Location.Country
	}
	if f.JobSearch == "" {
		f.JobSearch = string(models.JobSearchPassive)
	}
	return f
}

// Update baut den Request-Body. Leere Fähigkeiten werden verworfen.
func (f ProfileForm) Update() (models.ProfileUpdate, error) {
	status, err := models.ParseJobSearchStatus(f.JobSearch)
	if err != nil {
		return models.ProfileUpdate{}, apperrors.NewValidationError("job_search", err.Error())
	}
	return models.ProfileUpdate{
		Headline:  f.Headline,
		Summary:   f.Summary,
		JobSearch: status,
		Location:  models.Location{City: f.City, Country: f.Country},
		Skills:    normalizeSkills(f.Skills),
	}, nil
}

// ProfileService lädt und speichert das eigene Profil.
type ProfileService struct {
	Users   backend.Users
	Session *Session
	Logger  *zap.Logger
}

func NewProfileService(users backend.Users, session *Session, logger *zap.Logger) *ProfileService {
	return &ProfileService{Users: users, Session: session, Logger: logger}
}

// Load holt das Profil und ein vorbefülltes Formular.
func (p *ProfileService) Load(ctx context.Context) (*models.User, ProfileForm, error) {
	token, err := p.Session.RequireToken()
	if err != nil {
		return nil, ProfileForm{}, err
	}
	u, err := p.Users.Profile(ctx, token)
	if err != nil {
		p.Logger.Warn("Failed to load profile", zap.Error(err))
		return nil, ProfileForm{}, p.Session.Check(err)
	}
	return u, FormFromUser(u), nil
}

// Save sendet das Formular und liefert das gespeicherte Profil.
func (p *ProfileService) Save(ctx context.Context, form ProfileForm) (*models.User, error) {
	update, err := form.Update()
	if err != nil {
		return nil, err
	}
	token, err := p.Session.RequireToken()
	if err != nil {
		return nil, err
	}
	u, err := p.Users.UpdateProfile(ctx, token, update)
	if err != nil {
		p.Logger.Warn("Failed to update profile", zap.Error(err))
		return nil, p.Session.Check(err)
	}
	p.Logger.Info("Profile updated")
	return u, nil
}
