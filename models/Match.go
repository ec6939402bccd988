package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	// Round numbering: 0 is the play-in, 1..4 the best-of-seven rounds.
	PlayInRound = 0
	FinalsRound = 4

	// Valid series lengths for best-of-seven rounds. The play-in is a
	// single game, so its games value is pinned to 1.
	MinSeriesGames    = 4
	MaxSeriesGames    = 7
	PlayInSeriesGames = 1

	SlotA = "a"
	SlotB = "b"
)

// TeamRef carries a team identity plus the display metadata that is
// denormalized onto each match slot. Propagation copies these fields
// wholesale rather than re-deriving them from the teams table.
type TeamRef struct {
	ID             *uint  `json:"id"`
	Name           string `json:"name"`
	Tricode        string `json:"tricode"`
	LogoURL        string `json:"logo_url"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
}

type Match struct {
	ID        uint `gorm:"primary_key;autoIncrement" json:"id"`
	BracketID uint `gorm:"not null;index" json:"bracket_id"`

	Conference string `gorm:"size:10;not null" json:"conference"`
	Round      int    `gorm:"not null" json:"round"`
	Slot       int    `gorm:"not null" json:"slot"`

	TeamAID             *uint  `json:"team_a_id"`
	TeamAName           string `gorm:"size:100" json:"team_a_name"`
	TeamATricode        string `gorm:"size:3" json:"team_a_tricode"`
	TeamALogoURL        string `gorm:"size:255" json:"team_a_logo_url"`
	TeamAPrimaryColor   string `gorm:"size:7" json:"team_a_primary_color"`
	TeamASecondaryColor string `gorm:"size:7" json:"team_a_secondary_color"`

	TeamBID             *uint  `json:"team_b_id"`
	TeamBName           string `gorm:"size:100" json:"team_b_name"`
	TeamBTricode        string `gorm:"size:3" json:"team_b_tricode"`
	TeamBLogoURL        string `gorm:"size:255" json:"team_b_logo_url"`
	TeamBPrimaryColor   string `gorm:"size:7" json:"team_b_primary_color"`
	TeamBSecondaryColor string `gorm:"size:7" json:"team_b_secondary_color"`

	PredictedWinnerID    *uint `json:"predicted_winner_id"`
	PredictedWinnerGames *int  `json:"predicted_winner_games"`

	// Forward link: which match (and which of its two slots) this
	// match's winner feeds into. Empty on the championship match.
	NextMatchID *uint  `gorm:"index" json:"next_match_id"`
	NextSlot    string `gorm:"size:1" json:"next_slot"`

	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (m *Match) HasBothTeams() bool {
	return m.TeamAID != nil && m.TeamBID != nil
}

// Side returns the team occupying the given slot ("a" or "b").
func (m *Match) Side(slot string) TeamRef {
	if slot == SlotB {
		return TeamRef{
			ID:             m.TeamBID,
			Name:           m.TeamBName,
			Tricode:        m.TeamBTricode,
			LogoURL:        m.TeamBLogoURL,
			PrimaryColor:   m.TeamBPrimaryColor,
			SecondaryColor: m.TeamBSecondaryColor,
		}
	}
	return TeamRef{
		ID:             m.TeamAID,
		Name:           m.TeamAName,
		Tricode:        m.TeamATricode,
		LogoURL:        m.TeamALogoURL,
		PrimaryColor:   m.TeamAPrimaryColor,
		SecondaryColor: m.TeamASecondaryColor,
	}
}

// SetSide writes a team reference, metadata included, into one slot.
func (m *Match) SetSide(slot string, team TeamRef) {
	if slot == SlotB {
		m.TeamBID = team.ID
		m.TeamBName = team.Name
		m.TeamBTricode = team.Tricode
		m.TeamBLogoURL = team.LogoURL
		m.TeamBPrimaryColor = team.PrimaryColor
		m.TeamBSecondaryColor = team.SecondaryColor
		return
	}
	m.TeamAID = team.ID
	m.TeamAName = team.Name
	m.TeamATricode = team.Tricode
	m.TeamALogoURL = team.LogoURL
	m.TeamAPrimaryColor = team.PrimaryColor
	m.TeamASecondaryColor = team.SecondaryColor
}

// SideOfTeam maps a team id back to the slot it occupies on this match.
func (m *Match) SideOfTeam(teamID uint) (string, bool) {
	if m.TeamAID != nil && *m.TeamAID == teamID {
		return SlotA, true
	}
	if m.TeamBID != nil && *m.TeamBID == teamID {
		return SlotB, true
	}
	return "", false
}

func (m *Match) ClearPrediction() {
	m.PredictedWinnerID = nil
	m.PredictedWinnerGames = nil
}

// PredictionComplete reports whether this match carries everything the
// save gate needs: a winner, and for best-of-seven rounds a series length.
func (m *Match) PredictionComplete() bool {
	if m.PredictedWinnerID == nil {
		return false
	}
	if m.Round == PlayInRound {
		return true
	}
	return m.PredictedWinnerGames != nil
}

func ValidSeriesGames(games int) bool {
	return games >= MinSeriesGames && games <= MaxSeriesGames
}

func (m *Match) FindMatchesByBracket(db *gorm.DB, bracketID uint) ([]Match, error) {
	var matches []Match
	err := db.Where("bracket_id = ?", bracketID).
		Order("round, conference, slot").
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// UpdatePrediction persists the mutable propagation surface of a match:
// both participant slots and the prediction fields.
func (m *Match) UpdatePrediction(db *gorm.DB) error {
	return db.Model(&Match{}).Where("id = ?", m.ID).Updates(map[string]interface{}{
		"team_a_id":              m.TeamAID,
		"team_a_name":            m.TeamAName,
		"team_a_tricode":         m.TeamATricode,
		"team_a_logo_url":        m.TeamALogoURL,
		"team_a_primary_color":   m.TeamAPrimaryColor,
		"team_a_secondary_color": m.TeamASecondaryColor,
		"team_b_id":              m.TeamBID,
		"team_b_name":            m.TeamBName,
		"team_b_tricode":         m.TeamBTricode,
		"team_b_logo_url":        m.TeamBLogoURL,
		"team_b_primary_color":   m.TeamBPrimaryColor,
		"team_b_secondary_color": m.TeamBSecondaryColor,
		"predicted_winner_id":    m.PredictedWinnerID,
		"predicted_winner_games": m.PredictedWinnerGames,
		"updated_at":             time.Now(),
	}).Error
}
