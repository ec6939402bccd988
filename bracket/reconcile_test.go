package bracket

import (
	"context"
	"errors"
	"testing"

	"Fastbreak/models"

	"github.com/stretchr/testify/assert"
)

// fakeService scripts the backend: every FetchGraph returns a fresh
// canonical graph, and SubmitUpdate can be told to fail.
type fakeService struct {
	t          *testing.T
	buildGraph func() *Graph

	submitErr  error
	saveErr    error
	submits    []MatchUpdate
	saves      []string
	fetchCount int

	// set by SubmitUpdate so tests can observe the in-flight marker
	inFlightSeen bool
	controller   *Controller
}

func (f *fakeService) FetchGraph(_ context.Context, _ uint) (*Graph, error) {
	f.fetchCount++
	return f.buildGraph(), nil
}

func (f *fakeService) SubmitUpdate(_ context.Context, _, matchID uint, update MatchUpdate) error {
	f.submits = append(f.submits, update)
	if f.controller != nil {
		f.inFlightSeen = f.controller.Updating(matchID)
	}
	return f.submitErr
}

func (f *fakeService) SaveBracket(_ context.Context, _ uint, name string) error {
	f.saves = append(f.saves, name)
	return f.saveErr
}

func newFakeService(t *testing.T) *fakeService {
	return &fakeService{t: t, buildGraph: firstRoundGraph}
}

func loadedController(t *testing.T, svc *fakeService) *Controller {
	c := NewController(svc, 1)
	svc.controller = c
	assert.NoError(t, c.Load(context.Background()))
	return c
}

func TestPickWinnerConfirmed(t *testing.T) {
	svc := newFakeService(t)
	c := loadedController(t, svc)

	out := c.PickWinner(context.Background(), 10, SideA)
	assert.True(t, out.Applied)
	assert.False(t, out.Reloaded)
	assert.NoError(t, out.Err)

	// The confirmed instruction carries what the engine recorded.
	assert.Len(t, svc.submits, 1)
	assert.Equal(t, *bos.ID, *svc.submits[0].PredictedWinnerID)
	assert.Equal(t, DefaultSeriesGames, *svc.submits[0].PredictedWinnerGames)

	// Local state was applied optimistically, before confirmation.
	assert.Equal(t, *bos.ID, *c.Graph().Match(10).PredictedWinnerID)
	assert.Equal(t, *bos.ID, *c.Graph().Match(20).TeamAID)

	// Marker was up during the round-trip and is released after.
	assert.True(t, svc.inFlightSeen)
	assert.False(t, c.Updating(10))
}

func TestPickWinnerRollbackEqualsFreshLoad(t *testing.T) {
	svc := newFakeService(t)
	c := loadedController(t, svc)
	svc.submitErr = errors.New("backend said no")

	out := c.PickWinner(context.Background(), 10, SideA)
	assert.False(t, out.Applied)
	assert.True(t, out.Reloaded)
	assert.ErrorIs(t, out.Err, svc.submitErr)

	// The rolled-back graph is exactly what a fresh load yields.
	fresh := firstRoundGraph()
	for _, want := range fresh.Matches() {
		got := c.Graph().Match(want.ID)
		assert.Equal(t, *want, *got)
	}
	assert.False(t, c.Updating(10))
}

func TestPickWinnerReloadFailureKeepsStaleGraph(t *testing.T) {
	svc := newFakeService(t)
	c := loadedController(t, svc)

	svc.submitErr = errors.New("write refused")
	reloadErr := errors.New("fetch refused")
	c.svc = &failingFetchService{inner: svc, err: reloadErr}

	out := c.PickWinner(context.Background(), 10, SideA)
	assert.False(t, out.Applied)
	assert.False(t, out.Reloaded)
	assert.ErrorIs(t, out.Err, reloadErr)

	// Speculative state stays visible until a later load succeeds.
	assert.Equal(t, *bos.ID, *c.Graph().Match(10).PredictedWinnerID)
}

type failingFetchService struct {
	inner *fakeService
	err   error
}

func (s *failingFetchService) FetchGraph(context.Context, uint) (*Graph, error) {
	return nil, s.err
}

func (s *failingFetchService) SubmitUpdate(ctx context.Context, bracketID, matchID uint, u MatchUpdate) error {
	return s.inner.SubmitUpdate(ctx, bracketID, matchID, u)
}

func (s *failingFetchService) SaveBracket(ctx context.Context, bracketID uint, name string) error {
	return s.inner.SaveBracket(ctx, bracketID, name)
}

func TestPickWinnerLocalRejectionSkipsBackend(t *testing.T) {
	svc := newFakeService(t)
	c := loadedController(t, svc)

	out := c.PickWinner(context.Background(), 999, SideA)
	assert.ErrorIs(t, out.Err, ErrMatchNotFound)
	assert.Empty(t, svc.submits)
}

func TestPickGamesPendingNeverRoundTrips(t *testing.T) {
	svc := newFakeService(t)
	c := loadedController(t, svc)

	out := c.PickGames(context.Background(), 10, 6)
	assert.True(t, out.Applied)
	assert.NoError(t, out.Err)
	assert.Empty(t, svc.submits, "a length with no winner stays local")

	// The pending length is realized by the next winner pick.
	out = c.PickWinner(context.Background(), 10, SideB)
	assert.True(t, out.Applied)
	assert.Len(t, svc.submits, 1)
	assert.Equal(t, 6, *svc.submits[0].PredictedWinnerGames)
}

func TestPickGamesWithWinnerConfirms(t *testing.T) {
	svc := newFakeService(t)
	c := loadedController(t, svc)

	assert.True(t, c.PickWinner(context.Background(), 10, SideA).Applied)
	out := c.PickGames(context.Background(), 10, 7)
	assert.True(t, out.Applied)
	assert.Len(t, svc.submits, 2)
	assert.Equal(t, 7, *svc.submits[1].PredictedWinnerGames)

	// Adjusting the length must not resubmit the winner: the backend
	// would treat that as a fresh pick and re-propagate.
	assert.Nil(t, svc.submits[1].PredictedWinnerID)
	assert.False(t, svc.submits[1].Undo)
}

func TestUndoPickSubmitsUndoInstruction(t *testing.T) {
	svc := newFakeService(t)
	svc.buildGraph = func() *Graph {
		a := withNext(withTeams(newMatch(10, models.ConferenceEast, 1, 4), bos, mia), 20, models.SlotA)
		b := withTeams(newMatch(20, models.ConferenceEast, 2, 1), nyk, phi)
		return NewGraph(models.Bracket{ID: 1, IsMaster: true}, []models.Match{a, b}, true, true)
	}
	c := loadedController(t, svc)

	assert.True(t, c.PickWinner(context.Background(), 10, SideA).Applied)
	out := c.UndoPick(context.Background(), 10)
	assert.True(t, out.Applied)

	last := svc.submits[len(svc.submits)-1]
	assert.True(t, last.Undo)
	assert.Nil(t, last.PredictedWinnerID)
	assert.Nil(t, c.Graph().Match(10).PredictedWinnerID)
}

func TestSaveGatedOnComplete(t *testing.T) {
	svc := newFakeService(t)
	c := loadedController(t, svc)

	out := c.Save(context.Background(), "my bracket")
	assert.ErrorIs(t, out.Err, ErrIncomplete)
	assert.Empty(t, svc.saves)

	assert.True(t, c.PickWinner(context.Background(), 10, SideA).Applied)
	assert.True(t, c.PickWinner(context.Background(), 20, SideA).Applied)

	out = c.Save(context.Background(), "my bracket")
	assert.True(t, out.Applied)
	assert.Equal(t, []string{"my bracket"}, svc.saves)
}

func TestControllerRequiresLoad(t *testing.T) {
	c := NewController(newFakeService(t), 1)

	assert.ErrorIs(t, c.PickWinner(context.Background(), 10, SideA).Err, ErrNotLoaded)
	assert.ErrorIs(t, c.PickGames(context.Background(), 10, 5).Err, ErrNotLoaded)
	assert.ErrorIs(t, c.UndoPick(context.Background(), 10).Err, ErrNotLoaded)
	assert.ErrorIs(t, c.Save(context.Background(), "x").Err, ErrNotLoaded)
	assert.Nil(t, c.Graph())
}
