package bracket

import (
	"context"
	"errors"
)

// MatchUpdate is the authoritative instruction sent to the backend for
// one match: either a winner (with series length) or an undo.
type MatchUpdate struct {
	PredictedWinnerID    *uint `json:"predicted_winner_id,omitempty"`
	PredictedWinnerGames *int  `json:"predicted_winner_games,omitempty"`
	Undo                 bool  `json:"undo,omitempty"`
}

// Service is the backend surface the reconciliation controller needs:
// load a whole graph, push one match update, finalize a bracket.
type Service interface {
	FetchGraph(ctx context.Context, bracketID uint) (*Graph, error)
	SubmitUpdate(ctx context.Context, bracketID, matchID uint, update MatchUpdate) error
	SaveBracket(ctx context.Context, bracketID uint, name string) error
}

// Outcome is the explicit result of one reconciled mutation. Exactly
// one of three shapes comes back: applied (local state confirmed),
// rejected locally (Err set, nothing changed), or rolled back (Err set,
// Reloaded true, local state replaced with the server's).
type Outcome struct {
	Applied  bool
	Reloaded bool
	Err      error
}

var (
	ErrNotLoaded      = errors.New("bracket graph not loaded")
	ErrUpdateInFlight = errors.New("an update for this match is already in flight")
	ErrIncomplete     = errors.New("bracket has unpicked matches")
)

// Controller wraps the engine with optimistic-then-confirm semantics:
// mutate the in-memory graph first so the view updates instantly, then
// push the same instruction to the backend; if the push fails, throw
// the speculative state away and reload the canonical graph.
//
// A per-match in-flight marker guards against double-submitting the
// same match. Writes to different matches are intentionally not
// serialized against each other.
type Controller struct {
	svc       Service
	bracketID uint
	engine    *Engine
	updating  map[uint]bool
}

func NewController(svc Service, bracketID uint) *Controller {
	return &Controller{
		svc:       svc,
		bracketID: bracketID,
		updating:  make(map[uint]bool),
	}
}

// Load fetches the canonical graph. On error no partial graph is kept:
// the previous state, if any, stays untouched for the caller to decide
// what to render.
func (c *Controller) Load(ctx context.Context) error {
	g, err := c.svc.FetchGraph(ctx, c.bracketID)
	if err != nil {
		return err
	}
	c.engine = NewEngine(g)
	return nil
}

func (c *Controller) Graph() *Graph {
	if c.engine == nil {
		return nil
	}
	return c.engine.Graph()
}

// Updating reports whether a mutation for this match is still in flight.
func (c *Controller) Updating(matchID uint) bool {
	return c.updating[matchID]
}

// PickWinner applies a winner locally, then confirms with the backend.
func (c *Controller) PickWinner(ctx context.Context, matchID uint, side Side) Outcome {
	if c.engine == nil {
		return Outcome{Err: ErrNotLoaded}
	}
	if c.updating[matchID] {
		return Outcome{Err: ErrUpdateInFlight}
	}
	if err := c.engine.SetWinner(matchID, side); err != nil {
		return Outcome{Err: err}
	}

	m := c.engine.Graph().Match(matchID)
	return c.confirm(ctx, matchID, MatchUpdate{
		PredictedWinnerID:    m.PredictedWinnerID,
		PredictedWinnerGames: m.PredictedWinnerGames,
	})
}

// PickGames applies a series length. A length chosen before any winner
// only lands in the pending cache and never round-trips.
func (c *Controller) PickGames(ctx context.Context, matchID uint, games int) Outcome {
	if c.engine == nil {
		return Outcome{Err: ErrNotLoaded}
	}
	if c.updating[matchID] {
		return Outcome{Err: ErrUpdateInFlight}
	}
	if err := c.engine.SetGames(matchID, games); err != nil {
		return Outcome{Err: err}
	}

	m := c.engine.Graph().Match(matchID)
	if m.PredictedWinnerID == nil {
		// Pending only; nothing to confirm yet.
		return Outcome{Applied: true}
	}
	// Games-only on the wire: resubmitting the winner would re-run
	// propagation server-side and clear downstream picks the local
	// engine kept.
	return c.confirm(ctx, matchID, MatchUpdate{
		PredictedWinnerGames: m.PredictedWinnerGames,
	})
}

// UndoPick clears a master-bracket prediction and confirms. The reload
// on success path is left to the caller; stale downstream state is
// expected until the next full fetch.
func (c *Controller) UndoPick(ctx context.Context, matchID uint) Outcome {
	if c.engine == nil {
		return Outcome{Err: ErrNotLoaded}
	}
	if c.updating[matchID] {
		return Outcome{Err: ErrUpdateInFlight}
	}
	if err := c.engine.Undo(matchID); err != nil {
		return Outcome{Err: err}
	}
	return c.confirm(ctx, matchID, MatchUpdate{Undo: true})
}

// Save finalizes the bracket under a display name, gated on every
// match carrying a complete prediction.
func (c *Controller) Save(ctx context.Context, name string) Outcome {
	if c.engine == nil {
		return Outcome{Err: ErrNotLoaded}
	}
	if !c.engine.Graph().Complete() {
		return Outcome{Err: ErrIncomplete}
	}
	if err := c.svc.SaveBracket(ctx, c.bracketID, name); err != nil {
		return Outcome{Err: err}
	}
	return Outcome{Applied: true}
}

func (c *Controller) confirm(ctx context.Context, matchID uint, update MatchUpdate) Outcome {
	c.updating[matchID] = true
	defer delete(c.updating, matchID)

	if err := c.svc.SubmitUpdate(ctx, c.bracketID, matchID, update); err != nil {
		// Discard all speculative state and restore the canonical
		// graph. If even the reload fails, surface that error and
		// leave the stale graph in place.
		if reloadErr := c.Load(ctx); reloadErr != nil {
			return Outcome{Err: reloadErr}
		}
		return Outcome{Reloaded: true, Err: err}
	}
	return Outcome{Applied: true}
}
