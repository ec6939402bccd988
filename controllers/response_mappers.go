package controllers

import (
	"Fastbreak/bracket"
	"Fastbreak/models"
)

type teamSlotResponse struct {
	ID             *uint  `json:"id"`
	Name           string `json:"name"`
	Tricode        string `json:"tricode"`
	LogoURL        string `json:"logo_url"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
}

type matchResponse struct {
	ID                   uint             `json:"id"`
	Conference           string           `json:"conference"`
	Round                int              `json:"round"`
	Slot                 int              `json:"slot"`
	TeamA                teamSlotResponse `json:"team_a"`
	TeamB                teamSlotResponse `json:"team_b"`
	PredictedWinnerID    *uint            `json:"predicted_winner_id"`
	PredictedWinnerGames *int             `json:"predicted_winner_games"`
	NextMatchID          *uint            `json:"next_match_id"`
	NextSlot             string           `json:"next_slot"`
}

type bracketResponse struct {
	ID        uint   `json:"id"`
	PublicID  string `json:"public_id"`
	Name      string `json:"name"`
	OwnerID   uint   `json:"owner_id"`
	OwnerName string `json:"owner_username"`
	SeasonID  uint   `json:"season_id"`
	IsMaster  bool   `json:"is_master"`
	Completed bool   `json:"completed"`
	SavedAt   any    `json:"saved_at"`
}

func toTeamSlotResponse(ref models.TeamRef) teamSlotResponse {
	return teamSlotResponse{
		ID:             ref.ID,
		Name:           ref.Name,
		Tricode:        ref.Tricode,
		LogoURL:        ref.LogoURL,
		PrimaryColor:   ref.PrimaryColor,
		SecondaryColor: ref.SecondaryColor,
	}
}

func toMatchResponse(m *models.Match) matchResponse {
	return matchResponse{
		ID:                   m.ID,
		Conference:           m.Conference,
		Round:                m.Round,
		Slot:                 m.Slot,
		TeamA:                toTeamSlotResponse(m.Side(models.SlotA)),
		TeamB:                toTeamSlotResponse(m.Side(models.SlotB)),
		PredictedWinnerID:    m.PredictedWinnerID,
		PredictedWinnerGames: m.PredictedWinnerGames,
		NextMatchID:          m.NextMatchID,
		NextSlot:             m.NextSlot,
	}
}

func toBracketResponse(b *models.Bracket) bracketResponse {
	ownerName := ""
	if b.Owner.ID != 0 {
		ownerName = b.Owner.Username
	}
	return bracketResponse{
		ID:        b.ID,
		PublicID:  b.PublicID,
		Name:      b.Name,
		OwnerID:   b.OwnerID,
		OwnerName: ownerName,
		SeasonID:  b.SeasonID,
		IsMaster:  b.IsMaster,
		Completed: b.Completed,
		SavedAt:   b.SavedAt,
	}
}

// toGraphResponse shapes a loaded graph the way the bracket view
// consumes it: matches grouped by conference then round, slots
// ascending, with the viewer's capabilities alongside.
func toGraphResponse(g *bracket.Graph) map[string]interface{} {
	grouped := make(map[string]map[int][]matchResponse)
	for conference, rounds := range g.ByConference() {
		grouped[conference] = make(map[int][]matchResponse, len(rounds))
		for round, ms := range rounds {
			out := make([]matchResponse, 0, len(ms))
			for _, m := range ms {
				out = append(out, toMatchResponse(m))
			}
			grouped[conference][round] = out
		}
	}

	return map[string]interface{}{
		"bracket":  toBracketResponse(&g.Bracket),
		"can_edit": g.CanEdit,
		"can_undo": g.CanUndo,
		"complete": g.Complete(),
		"matches":  grouped,
	}
}
