package models

import (
	"crypto/rand"
	"errors"
	"html"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const leagueCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const leagueCodeLength = 6

type League struct {
	ID       uint   `gorm:"primary_key;autoIncrement" json:"id"`
	PublicID string `gorm:"type:uuid;uniqueIndex;column:public_id" json:"public_id"`
	Name     string `gorm:"size:255;not null" json:"name"`

	// Join code shared out-of-band; uppercase, no ambiguous characters.
	Code string `gorm:"size:10;not null;uniqueIndex" json:"code"`

	Owner    User `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"owner"`
	OwnerID  uint `gorm:"not null;index" json:"owner_id"`
	SeasonID uint `gorm:"not null;index" json:"season_id"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

type LeagueMember struct {
	ID       uint `gorm:"primary_key;autoIncrement" json:"id"`
	LeagueID uint `gorm:"not null;uniqueIndex:idx_league_member" json:"league_id"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_league_member" json:"user_id"`

	User User `gorm:"foreignKey:UserID" json:"user"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func newLeagueCode() string {
	code := make([]byte, leagueCodeLength)
	max := big.NewInt(int64(len(leagueCodeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means something far worse than a
			// join code is wrong; fall back to a fixed index.
			n = big.NewInt(int64(i % len(leagueCodeAlphabet)))
		}
		code[i] = leagueCodeAlphabet[n.Int64()]
	}
	return string(code)
}

func (l *League) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(l.PublicID) == "" {
		l.PublicID = uuid.NewString()
	}
	if strings.TrimSpace(l.Code) == "" {
		l.Code = newLeagueCode()
	}
	return nil
}

func (l *League) Prepare() {
	l.Name = html.EscapeString(strings.TrimSpace(l.Name))
	l.Owner = User{}
	l.CreatedAt = time.Now()
	l.UpdatedAt = time.Now()
}

func (l *League) Validate() map[string]string {
	errorMessages := make(map[string]string)
	if l.Name == "" {
		errorMessages["Required_name"] = "Required Name"
	}
	if l.OwnerID == 0 {
		errorMessages["Required_owner"] = "Required Owner"
	}
	return errorMessages
}

// SaveLeague creates the league and enrolls the owner as first member.
func (l *League) SaveLeague(db *gorm.DB) (*League, error) {
	if err := db.Create(l).Error; err != nil {
		return nil, err
	}
	member := LeagueMember{LeagueID: l.ID, UserID: l.OwnerID}
	if err := db.Create(&member).Error; err != nil {
		return nil, err
	}
	if err := db.Model(l).Association("Owner").Find(&l.Owner); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *League) FindLeagueByID(db *gorm.DB, id uint) (*League, error) {
	err := db.Preload("Owner").Where("id = ?", id).First(&l).Error
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (l *League) FindLeagueByCode(db *gorm.DB, code string) (*League, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	err := db.Preload("Owner").Where("code = ?", code).First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("League not found")
		}
		return nil, err
	}
	return l, nil
}

// FindUserLeagues lists leagues the user belongs to.
func (l *League) FindUserLeagues(db *gorm.DB, uid uint) (*[]League, error) {
	var leagues []League
	err := db.Preload("Owner").
		Joins("JOIN league_members ON league_members.league_id = leagues.id").
		Where("league_members.user_id = ?", uid).
		Order("leagues.created_at DESC").
		Find(&leagues).Error
	if err != nil {
		return nil, err
	}
	return &leagues, nil
}

func (l *League) Members(db *gorm.DB) (*[]LeagueMember, error) {
	var members []LeagueMember
	err := db.Preload("User").
		Where("league_id = ?", l.ID).
		Order("created_at").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return &members, nil
}

func (l *League) HasMember(db *gorm.DB, uid uint) (bool, error) {
	var count int64
	err := db.Model(&LeagueMember{}).
		Where("league_id = ? AND user_id = ?", l.ID, uid).
		Count(&count).Error
	return count > 0, err
}

func (l *League) AddMember(db *gorm.DB, uid uint) error {
	joined, err := l.HasMember(db, uid)
	if err != nil {
		return err
	}
	if joined {
		return nil
	}
	return db.Create(&LeagueMember{LeagueID: l.ID, UserID: uid}).Error
}

func (l *League) RemoveMember(db *gorm.DB, uid uint) (int64, error) {
	result := db.Where("league_id = ? AND user_id = ?", l.ID, uid).
		Delete(&LeagueMember{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (l *League) DeleteLeague(db *gorm.DB, id uint) (int64, error) {
	if err := db.Where("league_id = ?", id).Delete(&LeagueMember{}).Error; err != nil {
		return 0, err
	}
	result := db.Delete(&League{}, id)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
