package models

import (
	"strings"

	"gorm.io/gorm"
)

const (
	ConferenceEast = "east"
	ConferenceWest = "west"
	ConferenceNBA  = "nba"
)

type Team struct {
	ID             uint   `gorm:"primary_key;autoIncrement" json:"id"`
	Name           string `gorm:"size:100;not null" json:"name"`
	Tricode        string `gorm:"size:3;not null;unique" json:"tricode"`
	Conference     string `gorm:"size:10;not null;index" json:"conference"`
	Seed           int    `gorm:"not null" json:"seed"`
	LogoURL        string `gorm:"size:255" json:"logo_url"`
	PrimaryColor   string `gorm:"size:7" json:"primary_color"`
	SecondaryColor string `gorm:"size:7" json:"secondary_color"`
}

func (t *Team) Prepare() {
	t.Name = strings.TrimSpace(t.Name)
	t.Tricode = strings.ToUpper(strings.TrimSpace(t.Tricode))
	t.Conference = strings.ToLower(strings.TrimSpace(t.Conference))
}

// Ref packages the denormalized display fields that get copied onto
// match slots during propagation.
func (t *Team) Ref() TeamRef {
	id := t.ID
	return TeamRef{
		ID:             &id,
		Name:           t.Name,
		Tricode:        t.Tricode,
		LogoURL:        t.LogoURL,
		PrimaryColor:   t.PrimaryColor,
		SecondaryColor: t.SecondaryColor,
	}
}

func (t *Team) FindAllTeams(db *gorm.DB) (*[]Team, error) {
	var teams []Team
	err := db.Order("conference, seed").Find(&teams).Error
	if err != nil {
		return nil, err
	}
	return &teams, nil
}

func (t *Team) FindTeamsByConference(db *gorm.DB, conference string) (*[]Team, error) {
	var teams []Team
	err := db.Where("conference = ?", conference).Order("seed").Find(&teams).Error
	if err != nil {
		return nil, err
	}
	return &teams, nil
}
