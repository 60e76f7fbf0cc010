package services

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"academia/apperrors"
	"academia/backend"
	"academia/models"
)

// Partitioned ist der Katalog aufgeteilt nach Anzeigegruppen.
type Partitioned struct {
	Research     []models.Resource
	Media        []models.Resource
	Unrecognized []models.Resource
}

// Split teilt items in Research, Media und unbekannte Typen auf.
// Jede Ressource landet in genau einer der drei Listen, die Reihenfolge bleibt erhalten.
func Split(items []models.Resource) Partitioned {
	p := Partitioned{
		Research:     []models.Resource{},
		Media:        []models.Resource{},
		Unrecognized: []models.Resource{},
	}
	for _, r := range items {
		group, ok := r.Kind.Group()
		switch {
		case !ok:
			p.Unrecognized = append(p.Unrecognized, r)
		case group == models.GroupResearch:
			p.Research = append(p.Research, r)
		default:
			p.Media = append(p.Media, r)
		}
	}
	return p
}

// Partition liefert die Ressourcen einer Gruppe.
func Partition(items []models.Resource, group models.Group) []models.Resource {
	p := Split(items)
	if group == models.GroupMedia {
		return p.Media
	}
	return p.Research
}

// Catalog hält den zuletzt geladenen Katalog und die gewählte Gruppe.
type Catalog struct {
	Resources backend.Resources
	Logger    *zap.Logger

	mu    sync.RWMutex
	items []models.Resource
	group models.Group
}

// NewCatalog erstellt einen leeren Katalog; die Startgruppe ist Research.
func NewCatalog(resources backend.Resources, logger *zap.Logger) *Catalog {
	return &Catalog{
		Resources: resources,
		Logger:    logger,
		items:     []models.Resource{},
		group:     models.GroupResearch,
	}
}

// Load holt den vollständigen Katalog und ersetzt die Einträge komplett.
// Bei einem Fehler bleibt der letzte Stand erhalten; der Fehler wird geloggt und zurückgegeben.
func (c *Catalog) Load(ctx context.Context) error {
	items, err := c.Resources.ListResources(ctx)
	if err != nil {
		c.Logger.Error("Failed to load catalog, keeping last known items", zap.Error(err))
		return err
	}
	if items == nil {
		items = []models.Resource{}
	}

	if unknown := Split(items).Unrecognized; len(unknown) > 0 {
		ids := make([]string, 0, len(unknown))
		for _, r := range unknown {
			ids = append(ids, r.ID)
		}
		c.Logger.Warn("Catalog contains resources of unknown kind, they are not listed",
			zap.Strings("ids", ids))
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()

	c.Logger.Debug("Catalog loaded", zap.Int("count", len(items)))
	return nil
}

// Items liefert eine Kopie aller geladenen Einträge.
func (c *Catalog) Items() []models.Resource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Resource, len(c.items))
	copy(out, c.items)
	return out
}

// SetGroup wählt die sichtbare Gruppe.
func (c *Catalog) SetGroup(g models.Group) {
	c.mu.Lock()
	c.group = g
	c.mu.Unlock()
}

func (c *Catalog) Group() models.Group {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.group
}

// Visible berechnet die sichtbaren Einträge bei jedem Aufruf neu.
func (c *Catalog) Visible() []models.Resource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Partition(c.items, c.group)
}

// Find sucht eine Ressource anhand ihrer ID.
func (c *Catalog) Find(id string) (models.Resource, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.items {
		if r.ID == id {
			return r, nil
		}
	}
	return models.Resource{}, fmt.Errorf("resource %q: %w", id, apperrors.ErrNotFound)
}
