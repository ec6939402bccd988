package bracket

import (
	"errors"

	"Fastbreak/models"
)

// Side selects one of a match's two participant slots.
type Side string

const (
	SideA Side = models.SlotA
	SideB Side = models.SlotB
)

func (s Side) Valid() bool { return s == SideA || s == SideB }

func (s Side) Other() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// DefaultSeriesGames is recorded when a winner is picked before any
// series length was chosen.
const DefaultSeriesGames = models.MinSeriesGames

var (
	ErrMatchNotFound  = errors.New("match not found in bracket")
	ErrNotEditable    = errors.New("bracket is not editable by this user")
	ErrMissingTeams   = errors.New("match does not have both participants yet")
	ErrInvalidSide    = errors.New("side must be \"a\" or \"b\"")
	ErrInvalidGames   = errors.New("series length must be between 4 and 7")
	ErrPlayInGames    = errors.New("play-in games are a single game")
	ErrUndoNotAllowed = errors.New("undo is limited to admins on the master bracket")
)

// Engine applies a user's picks to the in-memory graph: it records
// winners, resolves forward propagation and the play-in loser rule, and
// tracks which nodes were touched so callers can persist or render just
// those. It also keeps the pending series-length cache for matches
// where a games count was chosen before a winner.
type Engine struct {
	graph   *Graph
	pending map[uint]int
	dirty   map[uint]bool
}

func NewEngine(g *Graph) *Engine {
	return &Engine{
		graph:   g,
		pending: make(map[uint]int),
		dirty:   make(map[uint]bool),
	}
}

func (e *Engine) Graph() *Graph { return e.graph }

// PendingGames reports a series length chosen before a winner, if any.
func (e *Engine) PendingGames(matchID uint) (int, bool) {
	games, ok := e.pending[matchID]
	return games, ok
}

// Dirty returns the matches mutated since the last ClearDirty, in graph
// order.
func (e *Engine) Dirty() []*models.Match {
	out := make([]*models.Match, 0, len(e.dirty))
	for _, m := range e.graph.Matches() {
		if e.dirty[m.ID] {
			out = append(out, m)
		}
	}
	return out
}

func (e *Engine) ClearDirty() {
	e.dirty = make(map[uint]bool)
}

func (e *Engine) markDirty(m *models.Match) {
	e.dirty[m.ID] = true
}

// SetWinner records a predicted winner for a match and applies all of
// its forward consequences to the graph. After it returns nil, the
// in-memory bracket reflects the pick without waiting on any backend.
func (e *Engine) SetWinner(matchID uint, side Side) error {
	m := e.graph.Match(matchID)
	if m == nil {
		return ErrMatchNotFound
	}
	if !e.graph.CanEdit {
		return ErrNotEditable
	}
	if !side.Valid() {
		return ErrInvalidSide
	}
	if !m.HasBothTeams() {
		return ErrMissingTeams
	}

	winner := m.Side(string(side))
	loser := m.Side(string(side.Other()))

	games := models.PlayInSeriesGames
	if m.Round > models.PlayInRound {
		switch {
		case m.PredictedWinnerID != nil && winner.ID != nil &&
			*m.PredictedWinnerID == *winner.ID && m.PredictedWinnerGames != nil:
			// Re-picking the same team keeps its recorded length.
			games = *m.PredictedWinnerGames
		default:
			if pending, ok := e.pending[m.ID]; ok {
				games = pending
			} else {
				games = DefaultSeriesGames
			}
		}
	}

	m.PredictedWinnerID = winner.ID
	m.PredictedWinnerGames = &games
	e.markDirty(m)

	e.propagateWinner(m, winner)
	e.routePlayInLoser(m, loser)

	delete(e.pending, m.ID)
	return nil
}

// SetGames records a series length. Before a winner exists it only
// lands in the pending cache; once a winner is recorded it updates the
// match directly. Rejected for the play-in round.
func (e *Engine) SetGames(matchID uint, games int) error {
	m := e.graph.Match(matchID)
	if m == nil {
		return ErrMatchNotFound
	}
	if !e.graph.CanEdit {
		return ErrNotEditable
	}
	if m.Round == models.PlayInRound {
		return ErrPlayInGames
	}
	if !models.ValidSeriesGames(games) {
		return ErrInvalidGames
	}

	if m.PredictedWinnerID == nil {
		e.pending[m.ID] = games
		return nil
	}

	m.PredictedWinnerGames = &games
	e.markDirty(m)
	return nil
}

// Undo clears a match's prediction on the master bracket. Downstream
// matches already fed by the cleared winner are deliberately left
// as-is; callers re-sync from the authoritative state after the update
// round-trips.
func (e *Engine) Undo(matchID uint) error {
	m := e.graph.Match(matchID)
	if m == nil {
		return ErrMatchNotFound
	}
	if !e.graph.CanUndo {
		return ErrUndoNotAllowed
	}

	m.ClearPrediction()
	e.markDirty(m)
	delete(e.pending, m.ID)
	return nil
}
