// Package recstore persists target-events recommendations keyed by the
// user's website domain, so repeated analyses of the same company refine
// each other over time.
package recstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/carolzy/networkai/internal/events"
)

// maxEntriesPerKey bounds the stored history per website.
const maxEntriesPerKey = 3

// Record is one stored recommendation.
type Record struct {
	ID           int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	URLKey       string  `gorm:"index;not null" json:"-"`
	URL          string  `json:"url"`
	UserSummary  string  `gorm:"type:text" json:"user_summary"`
	Payload      string  `gorm:"type:text" json:"-"`
	QualityScore float64 `gorm:"index" json:"quality_score"`
	UserRated    bool    `json:"user_rated"`
	Flagged      bool    `json:"flagged"`
	CreatedAt    int64   `gorm:"index" json:"timestamp"`
}

func (Record) TableName() string { return "recommendations" }

// Recommendation decodes the stored payload.
func (r Record) Recommendation() (events.Recommendation, error) {
	var rec events.Recommendation
	if err := json.Unmarshal([]byte(r.Payload), &rec); err != nil {
		return events.Recommendation{}, fmt.Errorf("recstore: decode payload: %w", err)
	}
	return rec, nil
}

// Store is a SQLite-backed recommendation store.
type Store struct {
	db *gorm.DB
}

// Open creates or opens the store at path, creating parent directories
// and migrating the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("recstore: create dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("recstore: open %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("recstore: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// URLKey normalizes a URL to its bare domain, the grouping key.
func URLKey(rawURL string) string {
	if rawURL == "" {
		return "no_url"
	}
	s := strings.ToLower(rawURL)
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	if i := strings.Index(s, "/"); i >= 0 {
		s = s[:i]
	}
	return s
}

// Save stores a recommendation for the website and prunes the key's
// history to the lowest-value entries beyond the bound.
func (s *Store) Save(websiteURL, summary string, rec events.Recommendation) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("recstore: encode payload: %w", err)
	}

	score := rec.QualityScore
	if score == 0 {
		score = 0.5
	}
	record := Record{
		URLKey:       URLKey(websiteURL),
		URL:          websiteURL,
		UserSummary:  summary,
		Payload:      string(payload),
		QualityScore: score,
		CreatedAt:    time.Now().Unix(),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return fmt.Errorf("recstore: save: %w", err)
	}
	log.Info().Str("url_key", record.URLKey).Float64("quality", score).Msg("Recommendation saved")

	return s.prune(record.URLKey)
}

// prune deletes entries beyond the history bound, keeping the best by
// quality score then recency.
func (s *Store) prune(urlKey string) error {
	var keep []int64
	err := s.db.Model(&Record{}).
		Where("url_key = ?", urlKey).
		Order("quality_score DESC, created_at DESC").
		Limit(maxEntriesPerKey).
		Pluck("id", &keep).Error
	if err != nil {
		return fmt.Errorf("recstore: prune select: %w", err)
	}
	if len(keep) < maxEntriesPerKey {
		return nil
	}

	err = s.db.Where("url_key = ? AND id NOT IN ?", urlKey, keep).Delete(&Record{}).Error
	if err != nil {
		return fmt.Errorf("recstore: prune delete: %w", err)
	}
	return nil
}

// Get returns up to max stored entries for the website, best first.
func (s *Store) Get(websiteURL string, max int) ([]Record, error) {
	if max <= 0 {
		max = maxEntriesPerKey
	}
	var records []Record
	err := s.db.
		Where("url_key = ?", URLKey(websiteURL)).
		Order("quality_score DESC, created_at DESC").
		Limit(max).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("recstore: get: %w", err)
	}
	return records, nil
}

// UpdateQuality sets a user-provided quality score on a stored entry.
func (s *Store) UpdateQuality(id int64, score float64, flagged bool) error {
	err := s.db.Model(&Record{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"quality_score": score,
			"flagged":       flagged,
			"user_rated":    true,
		}).Error
	if err != nil {
		return fmt.Errorf("recstore: update quality: %w", err)
	}
	return nil
}

// Best returns the highest-quality unflagged recommendation for the
// website, or false when none is stored.
func (s *Store) Best(websiteURL string) (events.Recommendation, bool) {
	records, err := s.Get(websiteURL, maxEntriesPerKey)
	if err != nil {
		log.Warn().Err(err).Str("url", websiteURL).Msg("Recommendation lookup failed")
		return events.Recommendation{}, false
	}
	for _, record := range records {
		if record.Flagged {
			continue
		}
		rec, err := record.Recommendation()
		if err != nil {
			log.Warn().Err(err).Int64("id", record.ID).Msg("Stored recommendation did not decode")
			continue
		}
		return rec, true
	}
	return events.Recommendation{}, false
}
