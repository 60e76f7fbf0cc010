package services

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"academia/apperrors"
)

// Schlüssel im Sitzungsspeicher. Beide werden immer gemeinsam gelöscht.
const (
	keyToken    = "token"
	keyUserName = "nombreUsuario"
)

// Store ist ein einfacher Key-Value-Speicher. storage.KV und MemoryStore erfüllen ihn.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(keys ...string) error
}

// MemoryStore hält die Sitzung nur im Prozess.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStore) Delete(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// Session ist der explizite Zugriff auf Token und Anzeigenamen des eingeloggten Nutzers.
type Session struct {
	Store  Store
	Logger *zap.Logger
}

// NewSession erstellt eine Sitzung über store.
func NewSession(store Store, logger *zap.Logger) *Session {
	return &Session{Store: store, Logger: logger}
}

func (s *Session) get(key string) string {
	v, _, err := s.Store.Get(key)
	if err != nil {
		s.Logger.Error("Failed to read session store", zap.String("key", key), zap.Error(err))
		return ""
	}
	return v
}

// Token liefert den gespeicherten Bearer-Token oder "".
func (s *Session) Token() string {
	return s.get(keyToken)
}

// UserName liefert den gespeicherten Anzeigenamen oder "".
func (s *Session) UserName() string {
	return s.get(keyUserName)
}

// Save speichert Token und Namen nach einem erfolgreichen Login.
func (s *Session) Save(token, name string) error {
	if err := s.Store.Set(keyToken, token); err != nil {
		return err
	}
	if err := s.Store.Set(keyUserName, name); err != nil {
		// Kein Token ohne zugehörigen Namen zurücklassen.
		if derr := s.Store.Delete(keyToken, keyUserName); derr != nil {
			s.Logger.Error("Failed to roll back partial session", zap.Error(derr))
		}
		return err
	}
	return nil
}

// Clear entfernt beide Schlüssel.
func (s *Session) Clear() error {
	return s.Store.Delete(keyToken, keyUserName)
}

// Check löscht die Sitzung, wenn err ein vom Server abgelehnter Token ist.
// err wird unverändert zurückgegeben.
func (s *Session) Check(err error) error {
	if errors.Is(err, apperrors.ErrUnauthorized) {
		s.Logger.Info("Session rejected by backend, clearing local session")
		if cerr := s.Clear(); cerr != nil {
			s.Logger.Error("Failed to clear session", zap.Error(cerr))
		}
	}
	return err
}

// RequireToken liefert den Token oder ErrNotAuthenticated.
// Ein laut exp-Claim abgelaufener Token zählt als nicht vorhanden und wird entfernt.
func (s *Session) RequireToken() (string, error) {
	token := s.Token()
	if token == "" {
		return "", apperrors.ErrNotAuthenticated
	}
	if s.Expired(time.Now()) {
		s.Logger.Info("Session token expired, clearing local session")
		_ = s.Clear()
		return "", apperrors.ErrNotAuthenticated
	}
	return token, nil
}

// Claims liest die Claims des Tokens ohne Signaturprüfung.
// Die Prüfung ist Sache des Backends; lokal interessieren nur exp und sub.
func (s *Session) Claims() (*jwt.RegisteredClaims, error) {
	token := s.Token()
	if token == "" {
		return nil, apperrors.ErrNotAuthenticated
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Expired meldet, ob der Token zum Zeitpunkt now abgelaufen ist.
// Tokens ohne lesbaren exp-Claim gelten als gültig.
func (s *Session) Expired(now time.Time) bool {
	claims, err := s.Claims()
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
