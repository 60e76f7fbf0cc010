package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"academia/models"
)

const resourcesPath = "/api/recursos"

// ListResources holt den kompletten Katalog (ohne Auth, ohne Paginierung).
func (c *Client) ListResources(ctx context.Context) ([]models.Resource, error) {
	data, err := c.call(ctx, "list_resources", http.MethodGet, resourcesPath, "", nil)
	if err != nil {
		return nil, err
	}
	var raw []json.RawMessage
	if err := decode("list_resources", data, &raw); err != nil {
		return nil, err
	}

	// Ein fehlerhafter Eintrag darf den restlichen Katalog nicht verhindern.
	resources := make([]models.Resource, 0, len(raw))
	for i, item := range raw {
		var r models.Resource
		if err := json.Unmarshal(item, &r); err != nil {
			c.Logger.Warn("Skipping malformed catalog entry", zap.Int("index", i), zap.Error(err))
			continue
		}
		resources = append(resources, r)
	}
	c.Logger.Debug("Catalog fetched", zap.Int("count", len(resources)), zap.Int("skipped", len(raw)-len(resources)))
	return resources, nil
}

// CreateResource legt eine Ressource an.
func (c *Client) CreateResource(ctx context.Context, token string, draft models.ResourceDraft) (*models.Resource, error) {
	data, err := c.call(ctx, "create_resource", http.MethodPost, resourcesPath, token, draft)
	if err != nil {
		return nil, err
	}
	var created models.Resource
	if err := decode("create_resource", data, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
