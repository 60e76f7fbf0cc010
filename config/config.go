package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	APIBaseURL  string        `envconfig:"API_BASE_URL" default:"http://localhost:5000"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	UserAgent   string        `envconfig:"USER_AGENT" default:"academia-client"`

	// Lokaler Key-Value-Speicher für die Sitzung
	StoreDriver string `envconfig:"STORE_DRIVER" default:"sqlite"`
	StoreDSN    string `envconfig:"STORE_DSN" default:"academia.db"`

	// Dokumenten-Viewer für PDF/Office-Dateien
	ViewerBaseURL string `envconfig:"VIEWER_BASE_URL" default:"https://docs.google.com/viewer"`
	PopupWidth    int    `envconfig:"POPUP_WIDTH" default:"800"`
	PopupHeight   int    `envconfig:"POPUP_HEIGHT" default:"600"`
	ScreenWidth   int    `envconfig:"SCREEN_WIDTH" default:"1920"`
	ScreenHeight  int    `envconfig:"SCREEN_HEIGHT" default:"1080"`

	GatewayPort   string `envconfig:"GATEWAY_PORT" default:"4242"`
	GatewayAPIKey string `envconfig:"GATEWAY_API_KEY"`

	ArchiveEnabled         bool   `envconfig:"ARCHIVE_ENABLED" default:"false"`
	ArchiveSchedule        string `envconfig:"ARCHIVE_SCHEDULE" default:"0 3 * * *"`
	ArchiveKeep            int    `envconfig:"ARCHIVE_KEEP" default:"7"`
	ArchiveMirrorDocuments bool   `envconfig:"ARCHIVE_MIRROR_DOCUMENTS" default:"true"`

	S3URL    string `envconfig:"S3_URL"`
	S3Region string `envconfig:"S3_REGION"`
	S3Key    string `envconfig:"S3_KEY"`
	S3Secret string `envconfig:"S3_SECRET"`
	S3Bucket string `envconfig:"S3_BUCKET"`
}

// ArchiveReady meldet, ob alle S3-Parameter für das Archiv gesetzt sind.
func (c *Config) ArchiveReady() bool {
	return c.S3URL != "" && c.S3Region != "" && c.S3Key != "" && c.S3Secret != "" && c.S3Bucket != ""
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
