package services

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"academia/backend"
	"academia/config"
	"academia/models"
	"academia/storage"
)

const (
	snapshotPrefix = "snapshots/"
	documentPrefix = "documents/"
	// DefaultMaxDocumentBytes begrenzt die Größe gespiegelter Dokumente.
	DefaultMaxDocumentBytes = 64 << 20
)

// ArchiveReport fasst einen Archivlauf zusammen.
type ArchiveReport struct {
	SnapshotKey string   `json:"snapshot_key"`
	Resources   int      `json:"resources"`
	Mirrored    int      `json:"mirrored"`
	Skipped     int      `json:"skipped"`
	Failed      int      `json:"failed"`
	Rotated     []string `json:"rotated,omitempty"`
}

// ArchiveService sichert den Katalog als Snapshot und spiegelt Forschungsdokumente nach S3.
type ArchiveService struct {
	Config     *config.Config
	Resources  backend.Resources
	Bucket     *storage.Bucket
	Logger     *zap.Logger
	HTTPClient *http.Client
	Now        func() time.Time
	// MaxDocumentBytes: größere Dokumente gelten als fehlgeschlagen.
	MaxDocumentBytes int64
}

// NewArchiveService erstellt eine neue Instanz des ArchiveService.
func NewArchiveService(cfg *config.Config, resources backend.Resources, bucket *storage.Bucket, logger *zap.Logger) *ArchiveService {
	return &ArchiveService{
		Config:     cfg,
		Resources:  resources,
		Bucket:     bucket,
		Logger:     logger,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		Now:        time.Now,

		MaxDocumentBytes: DefaultMaxDocumentBytes,
	}
}

// Run führt einen vollständigen Archivlauf aus.
func (a *ArchiveService) Run(ctx context.Context) (*ArchiveReport, error) {
	a.Logger.Info("Starting catalog archive run")

	items, err := a.Resources.ListResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	report := &ArchiveReport{Resources: len(items)}

	snapshot, err := gzipJSON(items)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	report.SnapshotKey = fmt.Sprintf("%scatalog-%s.json.gz", snapshotPrefix, a.Now().UTC().Format("2006-01-02T15-04-05Z"))
	if _, err := a.Bucket.Upload(ctx, report.SnapshotKey, "application/gzip", snapshot); err != nil {
		return nil, err
	}
	a.Logger.Info("Catalog snapshot uploaded", zap.String("key", report.SnapshotKey), zap.Int("resources", len(items)))

	if a.Config.ArchiveMirrorDocuments {
		a.mirrorDocuments(ctx, items, report)
	}

	rotated, err := a.Bucket.Rotate(ctx, snapshotPrefix, a.Config.ArchiveKeep)
	if err != nil {
		a.Logger.Error("Snapshot rotation failed", zap.Error(err))
	}
	report.Rotated = rotated

	a.Logger.Info("Catalog archive run finished",
		zap.Int("mirrored", report.Mirrored),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
		zap.Int("rotated", len(rotated)))
	return report, nil
}

func gzipJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if err := json.NewEncoder(zw).Encode(v); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// mirrorDocuments lädt Dokumente von Research-Ressourcen parallel (max. 5) herunter.
func (a *ArchiveService) mirrorDocuments(ctx context.Context, items []models.Resource, report *ArchiveReport) {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		semaphore = make(chan struct{}, 5)
	)

	for _, r := range items {
		d, ok := r.Research()
		if !ok || d.DocumentURL == "" || !IsDocumentURL(d.DocumentURL) {
			report.Skipped++
			continue
		}

		wg.Add(1)
		semaphore <- struct{}{}
		go func(r models.Resource, link string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			err := a.mirrorDocument(ctx, r.ID, link)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				a.Logger.Warn("Document mirror failed", zap.String("id", r.ID), zap.String("url", link), zap.Error(err))
				report.Failed++
				return
			}
			report.Mirrored++
		}(r, d.DocumentURL)
	}
	wg.Wait()
}

func (a *ArchiveService) mirrorDocument(ctx context.Context, id, link string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return err
	}
	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	limit := a.MaxDocumentBytes
	if resp.ContentLength > limit {
		return fmt.Errorf("document too large: %d bytes (limit %d)", resp.ContentLength, limit)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return err
	}
	if int64(len(data)) > limit {
		return fmt.Errorf("document too large: more than %d bytes", limit)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	key := documentPrefix + id + documentExt(link)
	_, err = a.Bucket.Upload(ctx, key, contentType, data)
	return err
}

func documentExt(link string) string {
	p := link
	if u, err := url.Parse(link); err == nil {
		p = u.Path
	}
	return strings.ToLower(path.Ext(p))
}
