package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"rugwatch/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage persists coin metadata and session preferences
type Storage struct {
	db *gorm.DB
}

// NewStorage creates a new SQLite storage instance at the default
// per-user location
func NewStorage() (*Storage, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve DB path: %w", err)
	}
	return NewStorageAt(dbPath)
}

// NewStorageAt opens (or creates) the database at an explicit path
func NewStorageAt(dbPath string) (*Storage, error) {
	// Ensure directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto Migration
	if err := db.AutoMigrate(&domain.CoinInfo{}, &domain.SessionPref{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// getDBPath resolves the database file path based on OS
func getDBPath() (string, error) {
	var configDir string
	var err error

	if runtime.GOOS == "windows" {
		configDir = os.Getenv("LOCALAPPDATA")
		if configDir == "" {
			configDir, err = os.UserConfigDir()
		}
	} else {
		configDir, err = os.UserConfigDir()
	}

	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "RugWatch", "data", "rugwatch.db"), nil
}

// ======================================================================================
// Coin Operations
// ======================================================================================

// UpsertCoin creates or updates coin metadata
func (s *Storage) UpsertCoin(coin *domain.CoinInfo) error {
	return s.db.Save(coin).Error
}

// RecordCoinSeen upserts metadata observed on the feed. Existing
// favorite flags and cached icon paths are preserved; name, icon URL
// and the last-seen time are refreshed.
func (s *Storage) RecordCoinSeen(symbol, name, iconURL string, seenAt time.Time) error {
	if symbol == "" {
		return nil
	}

	existing, err := s.GetCoin(symbol)
	if err != nil {
		return err
	}
	if existing == nil {
		return s.db.Create(&domain.CoinInfo{
			Symbol:     symbol,
			Name:       name,
			IconURL:    iconURL,
			LastSeenAt: seenAt,
		}).Error
	}

	if name != "" {
		existing.Name = name
	}
	if iconURL != "" && iconURL != existing.IconURL {
		existing.IconURL = iconURL
		// icon changed upstream, force a re-download
		existing.IconPath = ""
	}
	if seenAt.After(existing.LastSeenAt) {
		existing.LastSeenAt = seenAt
	}
	return s.db.Save(existing).Error
}

// GetCoin retrieves coin metadata by symbol
func (s *Storage) GetCoin(symbol string) (*domain.CoinInfo, error) {
	var coin domain.CoinInfo
	err := s.db.First(&coin, "symbol = ?", symbol).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // Not found is not an error
	}
	return &coin, err
}

// GetAllCoins retrieves all coins
func (s *Storage) GetAllCoins() ([]domain.CoinInfo, error) {
	var coins []domain.CoinInfo
	err := s.db.Find(&coins).Error
	return coins, err
}

// ToggleFavorite toggles the favorite status of a coin
func (s *Storage) ToggleFavorite(symbol string) (bool, error) {
	var coin domain.CoinInfo
	if err := s.db.First(&coin, "symbol = ?", symbol).Error; err != nil {
		return false, err
	}

	coin.IsFavorite = !coin.IsFavorite
	err := s.db.Save(&coin).Error
	return coin.IsFavorite, err
}

// ======================================================================================
// Session Preference Operations
// ======================================================================================

// SavePref saves a single session preference
func (s *Storage) SavePref(key, value string) error {
	pref := domain.SessionPref{
		Key:   key,
		Value: value,
	}
	return s.db.Save(&pref).Error
}

// LoadPrefs loads all session preferences as a map
func (s *Storage) LoadPrefs() (map[string]string, error) {
	var prefs []domain.SessionPref
	if err := s.db.Find(&prefs).Error; err != nil {
		return nil, err
	}

	result := make(map[string]string)
	for _, p := range prefs {
		result[p.Key] = p.Value
	}
	return result, nil
}
