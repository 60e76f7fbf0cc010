package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"academia/config"
)

// Entry ist ein Eintrag im persistenten Key-Value-Speicher.
type Entry struct {
	Key       string `gorm:"primaryKey;size:128"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

// TableName gibt explizit den Tabellennamen an.
func (Entry) TableName() string {
	return "session_entries"
}

// KV ist der lokale, persistente Key-Value-Speicher (Ersatz für localStorage).
type KV struct {
	DB *gorm.DB
}

// OpenKV öffnet den Speicher mit dem konfigurierten Treiber und migriert die Tabelle.
func OpenKV(cfg *config.Config) (*KV, error) {
	var dialector gorm.Dialector
	switch cfg.StoreDriver {
	case "sqlite", "":
		dialector = sqlite.Open(cfg.StoreDSN)
	case "postgres":
		dialector = postgres.Open(cfg.StoreDSN)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate store: %w", err)
	}
	return &KV{DB: db}, nil
}

// Get liefert den Wert zu key; ok ist false, wenn der Schlüssel fehlt.
func (kv *KV) Get(key string) (string, bool, error) {
	var e Entry
	err := kv.DB.Where("key = ?", key).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return e.Value, true, nil
}

// Set schreibt key (Upsert).
func (kv *KV) Set(key, value string) error {
	e := Entry{Key: key, Value: value, UpdatedAt: time.Now()}
	return kv.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}

// Delete entfernt die angegebenen Schlüssel gemeinsam.
func (kv *KV) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return kv.DB.Where("key IN ?", keys).Delete(&Entry{}).Error
}

// Close schließt die zugrunde liegende Verbindung.
func (kv *KV) Close() error {
	sqlDB, err := kv.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
