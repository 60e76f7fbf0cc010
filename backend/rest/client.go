package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"academia/apperrors"
	"academia/backend"
	"academia/config"
)

// maxBodyBytes begrenzt, wie viel einer Antwort gelesen wird.
const maxBodyBytes = 8 << 20

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "academia_backend_requests_total",
			Help: "Total number of calls to the platform backend by operation and status.",
		},
		[]string{"operation", "status"},
	)
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "academia_backend_request_duration_seconds",
			Help:    "Latency of calls to the platform backend.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration)
}

var (
	_ backend.Resources = (*Client)(nil)
	_ backend.Users     = (*Client)(nil)
	_ backend.Posts     = (*Client)(nil)
)

// userAgentTransport fügt jeder Anfrage den konfigurierten User-Agent hinzu.
type userAgentTransport struct {
	Transport http.RoundTripper
	UserAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", t.UserAgent)
	return t.Transport.RoundTrip(req)
}

// Client spricht die REST-API der Plattform an. Er hält selbst keine Sitzung;
// der Bearer-Token wird pro Aufruf übergeben.
type Client struct {
	Config *config.Config
	Logger *zap.Logger

	httpClient *http.Client
}

// NewClient erstellt einen neuen Client für cfg.APIBaseURL.
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		Config: cfg,
		Logger: logger,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
			Transport: &userAgentTransport{
				Transport: http.DefaultTransport,
				UserAgent: cfg.UserAgent,
			},
		},
	}
}

// call führt eine Anfrage aus und gibt den Body einer 2xx-Antwort zurück.
func (c *Client) call(ctx context.Context, op, method, path, token string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(buf)
	}

	url := strings.TrimRight(c.Config.APIBaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	log := c.Logger.With(zap.String("operation", op), zap.String("request_id", requestID))
	log.Debug("Calling backend", zap.String("method", method), zap.String("url", url))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(op, "error").Inc()
		log.Warn("Backend request failed", zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", op, apperrors.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	requestsTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: read body: %w", op, apperrors.ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		log.Info("Backend rejected session token")
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrUnauthorized)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		log.Warn("Backend returned error status", zap.Int("status", resp.StatusCode))
		return nil, &apperrors.RemoteError{Status: resp.StatusCode, Message: errorMessage(data)}
	}
	return data, nil
}

// decode liest eine JSON-Antwort; ein leerer Body lässt out unverändert.
func decode(op string, data []byte, out any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// errorMessage holt die lesbare Fehlermeldung aus einem Fehler-Body.
// Das Backend antwortet mal mit {"msg": ...}, mal mit einem nackten String.
func errorMessage(data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ""
	}
	if msg, ok := jsonMessage(data); ok {
		return msg
	}
	return truncateRunes(string(data), maxMessageRunes)
}

// maxMessageRunes begrenzt die Länge einer Fehlermeldung aus dem Rohtext.
const maxMessageRunes = 200

// truncateRunes kürzt s auf höchstens n Zeichen, ohne ein Zeichen zu zerteilen.
func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func jsonMessage(data []byte) (string, bool) {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s, true
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", false
	}
	for _, key := range []string{"msg", "message", "error"} {
		if v, ok := obj[key].(string); ok && v != "" {
			return v, true
		}
	}
	return "", false
}
