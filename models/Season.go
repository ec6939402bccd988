package models

import (
	"errors"
	"html"
	"strings"
	"time"

	"gorm.io/gorm"
)

type Season struct {
	ID                uint       `gorm:"primary_key;autoIncrement" json:"id"`
	Name              string     `gorm:"size:50;not null;unique" json:"name"`
	IsCurrent         bool       `gorm:"not null;default:false;index" json:"is_current"`
	PlayoffsStartedAt *time.Time `json:"playoffs_started_at"`
	CreatedAt         time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (s *Season) Prepare() {
	s.Name = html.EscapeString(strings.TrimSpace(s.Name))
	s.CreatedAt = time.Now()
	s.UpdatedAt = time.Now()
}

func (s *Season) Validate() map[string]string {
	errorMessages := make(map[string]string)
	if s.Name == "" {
		errorMessages["Required_name"] = "Required Name"
	}
	return errorMessages
}

// PlayoffsLocked reports whether predictions on user brackets are frozen.
// The master bracket stays editable by admins so real results can be entered.
func (s *Season) PlayoffsLocked() bool {
	return s.PlayoffsStartedAt != nil && !s.PlayoffsStartedAt.After(time.Now())
}

func (s *Season) FindCurrentSeason(db *gorm.DB) (*Season, error) {
	var season Season
	err := db.Where("is_current = ?", true).Take(&season).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("No current season")
		}
		return nil, err
	}
	return &season, nil
}

func (s *Season) SaveSeason(db *gorm.DB) (*Season, error) {
	if err := db.Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// StartPlayoffs stamps the lock time. Idempotent.
func (s *Season) StartPlayoffs(db *gorm.DB) error {
	if s.PlayoffsStartedAt != nil {
		return nil
	}
	now := time.Now()
	err := db.Model(&Season{}).Where("id = ?", s.ID).Updates(map[string]interface{}{
		"playoffs_started_at": now,
		"updated_at":          now,
	}).Error
	if err != nil {
		return err
	}
	s.PlayoffsStartedAt = &now
	return nil
}

// Retire clears the current flag ahead of a season rollover.
func (s *Season) Retire(db *gorm.DB) error {
	return db.Model(&Season{}).Where("id = ?", s.ID).Updates(map[string]interface{}{
		"is_current": false,
		"updated_at": time.Now(),
	}).Error
}
