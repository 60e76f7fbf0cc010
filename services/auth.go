package services

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"academia/apperrors"
	"academia/backend"
	"academia/models"
)

// AuthService kümmert sich um Login, Registrierung und Kontolöschung.
type AuthService struct {
	Users    backend.Users
	Session  *Session
	Logger   *zap.Logger
	validate *validator.Validate
}

func NewAuthService(users backend.Users, session *Session, logger *zap.Logger) *AuthService {
	return &AuthService{
		Users:    users,
		Session:  session,
		Logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// validationError übersetzt den ersten Fehler des Validators in einen ValidationError.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return apperrors.NewValidationError(field, field+" is required")
	case "email":
		return apperrors.NewValidationError(field, "not a valid email address")
	}
	return apperrors.NewValidationError(field, "invalid value")
}

// Login meldet an und speichert Token und Namen.
func (a *AuthService) Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if err := a.validate.Struct(creds); err != nil {
		return nil, validationError(err)
	}
	res, err := a.Users.Login(ctx, creds)
	if err != nil {
		a.Logger.Warn("Login failed", zap.String("email", creds.Email), zap.Error(err))
		return nil, err
	}
	if err := a.Session.Save(res.Token, res.Name); err != nil {
		return nil, err
	}
	a.Logger.Info("Logged in", zap.String("user", res.Name))
	return res, nil
}

// Register legt ein Konto an und liefert die Bestätigung des Servers.
// Die Sitzung bleibt unverändert.
func (a *AuthService) Register(ctx context.Context, reg models.Registration) (string, error) {
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Name = strings.TrimSpace(reg.Name)
	if err := a.validate.Struct(reg); err != nil {
		return "", validationError(err)
	}
	msg, err := a.Users.Register(ctx, reg)
	if err != nil {
		a.Logger.Warn("Registration failed", zap.String("email", reg.Email), zap.Error(err))
		return "", err
	}
	return msg, nil
}

// Logout löscht die lokale Sitzung.
func (a *AuthService) Logout() error {
	return a.Session.Clear()
}

// DeleteAccount löscht das Konto und danach die Sitzung.
func (a *AuthService) DeleteAccount(ctx context.Context) error {
	token, err := a.Session.RequireToken()
	if err != nil {
		return err
	}
	if err := a.Users.DeleteAccount(ctx, token); err != nil {
		return a.Session.Check(err)
	}
	a.Logger.Info("Account deleted")
	return a.Session.Clear()
}
