package bracket

import "Fastbreak/models"

// The play-in structure is fixed: per conference, slot 1 is the 9-10
// game, slot 2 the 7-8 game, slot 3 the deciding game for the 8 seed.
// Slot 2 is the only match in the whole bracket whose loser advances.
const (
	playInLoserSourceSlot = 2
	playInLoserTargetSlot = 3
)

// propagateWinner copies a resolved winner into the downstream match
// slot this match feeds, metadata and all, and clears any prediction
// sitting on the target since its participant set just changed.
// Missing links and unresolvable targets are silent no-ops: graph
// structure is established at load time, not per mutation.
func (e *Engine) propagateWinner(m *models.Match, winner models.TeamRef) {
	if m.NextMatchID == nil {
		return
	}
	next := e.graph.Match(*m.NextMatchID)
	if next == nil || next.ID == m.ID {
		return
	}
	slot := m.NextSlot
	if slot != models.SlotA && slot != models.SlotB {
		return
	}

	next.SetSide(slot, winner)
	next.ClearPrediction()
	e.markDirty(next)
}

// routePlayInLoser applies the loser-advances rule: the loser of the
// round-0 slot-2 game drops into the second slot of the same
// conference's slot-3 game. Runs in addition to the winner's own
// forward link.
func (e *Engine) routePlayInLoser(m *models.Match, loser models.TeamRef) {
	if m.Round != models.PlayInRound || m.Slot != playInLoserSourceSlot {
		return
	}
	target := e.graph.MatchAt(m.Conference, models.PlayInRound, playInLoserTargetSlot)
	if target == nil || target.ID == m.ID {
		return
	}

	target.SetSide(models.SlotB, loser)
	target.ClearPrediction()
	e.markDirty(target)
}
