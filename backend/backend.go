package backend

import (
	"context"

	"academia/models"
)

// Resources ist der Katalog-Endpunkt des Backends.
type Resources interface {
	// ListResources liefert den vollständigen, ungefilterten Katalog.
	ListResources(ctx context.Context) ([]models.Resource, error)

	// CreateResource legt eine Ressource an und gibt sie so zurück, wie der Server sie gespeichert hat.
	CreateResource(ctx context.Context, token string, draft models.ResourceDraft) (*models.Resource, error)
}

// Users umfasst Login, Registrierung und Profil.
type Users interface {
	Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error)
	Register(ctx context.Context, reg models.Registration) (string, error)
	Profile(ctx context.Context, token string) (*models.User, error)
	UpdateProfile(ctx context.Context, token string, update models.ProfileUpdate) (*models.User, error)
	DeleteAccount(ctx context.Context, token string) error
}

// Posts ist der Feed-Endpunkt.
type Posts interface {
	ListPosts(ctx context.Context, token string) ([]models.Post, error)
	CreatePost(ctx context.Context, token string, draft models.PostDraft) (*models.Post, error)
}
