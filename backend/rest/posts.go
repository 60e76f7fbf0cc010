package rest

import (
	"bytes"
	"context"
	"net/http"

	"go.uber.org/zap"

	"academia/models"
)

const postsPath = "/api/publicaciones"

// ListPosts holt den Feed. Ist die Antwort kein Array, gilt der Feed als leer.
func (c *Client) ListPosts(ctx context.Context, token string) ([]models.Post, error) {
	data, err := c.call(ctx, "list_posts", http.MethodGet, postsPath, token, nil)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		c.Logger.Warn("Feed response is not an array, treating as empty")
		return []models.Post{}, nil
	}
	var posts []models.Post
	if err := decode("list_posts", trimmed, &posts); err != nil {
		return nil, err
	}
	c.Logger.Debug("Feed fetched", zap.Int("count", len(posts)))
	return posts, nil
}

func (c *Client) CreatePost(ctx context.Context, token string, draft models.PostDraft) (*models.Post, error) {
	data, err := c.call(ctx, "create_post", http.MethodPost, postsPath, token, draft)
	if err != nil {
		return nil, err
	}
	var p models.Post
	if err := decode("create_post", data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
