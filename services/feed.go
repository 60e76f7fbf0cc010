package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"academia/apperrors"
	"academia/backend"
	"academia/models"
)

const NoticePostFailed = "Could not publish post"

// FeedService liest und schreibt Publikationen.
type FeedService struct {
	Posts   backend.Posts
	Session *Session
	Logger  *zap.Logger
}

func NewFeedService(posts backend.Posts, session *Session, logger *zap.Logger) *FeedService {
	return &FeedService{Posts: posts, Session: session, Logger: logger}
}

// Load holt den Feed. Ein abgelehnter Token löscht die Sitzung.
func (s *FeedService) Load(ctx context.Context) ([]models.Post, error) {
	token, err := s.Session.RequireToken()
	if err != nil {
		return nil, err
	}
	posts, err := s.Posts.ListPosts(ctx, token)
	if err != nil {
		s.Logger.Warn("Failed to load feed", zap.Error(err))
		return nil, s.Session.Check(err)
	}
	return posts, nil
}

// PostForm ist das Formular für eine neue Publikation.
type PostForm struct {
	Feed      *FeedService
	Content   string
	Anonymous bool
	Notice    string
}

func (s *FeedService) NewPostForm() *PostForm {
	return &PostForm{Feed: s}
}

// Submit veröffentlicht den Inhalt. Leerer Inhalt wird ignoriert (nil, nil).
func (f *PostForm) Submit(ctx context.Context, refresh RefreshFunc) (*models.Post, error) {
	if strings.TrimSpace(f.Content) == "" {
		return nil, nil
	}
	token, err := f.Feed.Session.RequireToken()
	if err != nil {
		f.Notice = NoticePostFailed
		return nil, err
	}
	post, err := f.Feed.Posts.CreatePost(ctx, token, models.PostDraft{Content: f.Content, Anonymous: f.Anonymous})
	if err != nil {
		f.Feed.Session.Check(err)
		f.Notice = apperrors.RemoteMessage(err, NoticePostFailed)
		f.Feed.Logger.Warn("Failed to publish post", zap.Error(err))
		return nil, err
	}
	if refresh != nil {
		if rerr := refresh(ctx); rerr != nil {
			f.Feed.Logger.Warn("Feed refresh after post failed", zap.Error(rerr))
		}
	}
	f.Content = ""
	f.Anonymous = false
	f.Notice = ""
	return post, nil
}

// FormatAge zeigt das Alter eines Beitrags: unter 24 Stunden "<n>h", sonst das Datum.
func FormatAge(now, t time.Time) string {
	d := now.Sub(t)
	if d < 24*time.Hour {
		if d < 0 {
			d = 0
		}
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return t.Format("02/01/2006")
}
