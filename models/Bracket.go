package models

import (
	"errors"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Bracket struct {
	ID       uint   `gorm:"primary_key;autoIncrement" json:"id"`
	PublicID string `gorm:"type:uuid;uniqueIndex;column:public_id" json:"public_id"`
	Name     string `gorm:"size:255;not null" json:"name"`

	Owner   User `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"owner"`
	OwnerID uint `gorm:"not null;index" json:"owner_id"`

	SeasonID uint `gorm:"not null;index" json:"season_id"`

	// One bracket per season carries real results and is editable only
	// by admins. Everyone's predictions get scored against it.
	IsMaster bool `gorm:"not null;default:false" json:"is_master"`

	Completed bool       `gorm:"not null;default:false" json:"completed"`
	SavedAt   *time.Time `json:"saved_at"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (b *Bracket) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(b.PublicID) == "" {
		b.PublicID = uuid.NewString()
	}
	return nil
}

func (b *Bracket) Prepare() {
	b.Name = html.EscapeString(strings.TrimSpace(b.Name))
	b.Owner = User{}
	b.CreatedAt = time.Now()
	b.UpdatedAt = time.Now()
}

func (b *Bracket) Validate() map[string]string {
	errorMessages := make(map[string]string)

	if b.Name == "" {
		errorMessages["Required_name"] = "Required Name"
	}
	if b.OwnerID == 0 {
		errorMessages["Required_owner"] = "Required Owner"
	}
	if b.SeasonID == 0 {
		errorMessages["Required_season"] = "Required Season"
	}
	return errorMessages
}

// EditableBy is the whole permission model: owners edit their own
// bracket, admins additionally edit the master.
func (b *Bracket) EditableBy(userID uint, isAdmin bool) bool {
	return b.OwnerID == userID || (isAdmin && b.IsMaster)
}

func (b *Bracket) SaveBracket(db *gorm.DB) (*Bracket, error) {
	if err := db.Create(b).Error; err != nil {
		return nil, err
	}
	if err := db.Model(b).Association("Owner").Find(&b.Owner); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Bracket) FindBracketByID(db *gorm.DB, id uint) (*Bracket, error) {
	err := db.Preload("Owner").Where("id = ?", id).First(&b).Error
	if err != nil {
		return nil, err
	}
	return b, nil
}

// FindUserBracket retrieves a user's bracket for one season, if any.
func (b *Bracket) FindUserBracket(db *gorm.DB, uid, seasonID uint) (*Bracket, error) {
	err := db.Preload("Owner").
		Where("owner_id = ? AND season_id = ? AND is_master = ?", uid, seasonID, false).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Bracket) FindMasterBracket(db *gorm.DB, seasonID uint) (*Bracket, error) {
	err := db.Preload("Owner").
		Where("season_id = ? AND is_master = ?", seasonID, true).
		First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("No master bracket for season")
		}
		return nil, err
	}
	return b, nil
}

// FindSeasonBrackets lists every non-master bracket of a season, for
// leaderboard computation.
func (b *Bracket) FindSeasonBrackets(db *gorm.DB, seasonID uint) (*[]Bracket, error) {
	var brackets []Bracket
	err := db.Preload("Owner").
		Where("season_id = ? AND is_master = ?", seasonID, false).
		Order("created_at").
		Find(&brackets).Error
	if err != nil {
		return nil, err
	}
	return &brackets, nil
}

// MarkSaved finalizes the bracket under its display name.
func (b *Bracket) MarkSaved(db *gorm.DB, name string) error {
	now := time.Now()
	name = html.EscapeString(strings.TrimSpace(name))
	if name == "" {
		name = b.Name
	}
	err := db.Model(&Bracket{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"name":       name,
		"completed":  true,
		"saved_at":   now,
		"updated_at": now,
	}).Error
	if err != nil {
		return err
	}
	b.Name = name
	b.Completed = true
	b.SavedAt = &now
	return nil
}

func (b *Bracket) Touch(db *gorm.DB) error {
	return db.Model(&Bracket{}).Where("id = ?", b.ID).
		Update("updated_at", time.Now()).Error
}

func (b *Bracket) DeleteBracket(db *gorm.DB, id uint) (int64, error) {
	if err := db.Where("bracket_id = ?", id).Delete(&Match{}).Error; err != nil {
		return 0, err
	}
	result := db.Delete(&Bracket{}, id)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
