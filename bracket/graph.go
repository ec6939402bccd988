// Package bracket holds the bracket-editing core: an addressable
// in-memory graph of playoff matches, the local mutation engine that
// applies picks and propagates winners forward, the play-in loser
// routing rule, and the optimistic-then-confirm reconciliation
// controller. The same engine runs on the server (authoritatively,
// before persisting) and in API clients (speculatively, for instant
// feedback).
package bracket

import (
	"sort"

	"Fastbreak/models"
)

// Graph is one bracket's full match set, stored flat and addressed by
// match id. Forward links between matches are id references rather than
// pointers, so the structure stays trivially serializable.
type Graph struct {
	Bracket models.Bracket

	// CanEdit: viewer owns the bracket, or is an admin on the master.
	// CanUndo: admin on the master only.
	CanEdit bool
	CanUndo bool

	matches map[uint]*models.Match
	order   []uint
}

func NewGraph(b models.Bracket, matches []models.Match, canEdit, canUndo bool) *Graph {
	g := &Graph{
		Bracket: b,
		CanEdit: canEdit,
		CanUndo: canUndo,
		matches: make(map[uint]*models.Match, len(matches)),
		order:   make([]uint, 0, len(matches)),
	}
	for i := range matches {
		m := matches[i]
		if _, dup := g.matches[m.ID]; dup {
			continue
		}
		g.matches[m.ID] = &m
		g.order = append(g.order, m.ID)
	}
	return g
}

// Match returns the node for an id, or nil.
func (g *Graph) Match(id uint) *models.Match {
	return g.matches[id]
}

// Matches returns every node in load order.
func (g *Graph) Matches() []*models.Match {
	out := make([]*models.Match, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.matches[id])
	}
	return out
}

// MatchAt addresses a node by its stable bracket position.
func (g *Graph) MatchAt(conference string, round, slot int) *models.Match {
	for _, id := range g.order {
		m := g.matches[id]
		if m.Conference == conference && m.Round == round && m.Slot == slot {
			return m
		}
	}
	return nil
}

// ByConference groups matches by conference then round, slots ascending,
// the shape the bracket view renders from.
func (g *Graph) ByConference() map[string]map[int][]*models.Match {
	grouped := make(map[string]map[int][]*models.Match)
	for _, id := range g.order {
		m := g.matches[id]
		rounds, ok := grouped[m.Conference]
		if !ok {
			rounds = make(map[int][]*models.Match)
			grouped[m.Conference] = rounds
		}
		rounds[m.Round] = append(rounds[m.Round], m)
	}
	for _, rounds := range grouped {
		for _, ms := range rounds {
			sort.Slice(ms, func(i, j int) bool { return ms[i].Slot < ms[j].Slot })
		}
	}
	return grouped
}

// Complete reports whether every match with both participants carries a
// full prediction. This gates the save action.
func (g *Graph) Complete() bool {
	for _, id := range g.order {
		m := g.matches[id]
		if !m.HasBothTeams() {
			return false
		}
		if !m.PredictionComplete() {
			return false
		}
	}
	return len(g.order) > 0
}
