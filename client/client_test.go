package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"Fastbreak/bracket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graphBody() string {
	return `{
		"status": 200,
		"response": {
			"bracket": {"id": 3, "name": "test bracket", "owner_id": 2, "season_id": 1},
			"can_edit": true,
			"can_undo": false,
			"complete": false,
			"matches": {
				"west": {
					"0": [
						{"id": 12, "conference": "west", "round": 0, "slot": 2,
						 "team_a": {"id": 22, "name": "Los Angeles Lakers", "tricode": "LAL",
							"logo_url": "https://cdn.fastbreak.app/logos/LAL.svg",
							"primary_color": "#552583", "secondary_color": "#FDB927"},
						 "team_b": {"id": 23, "name": "Golden State Warriors", "tricode": "GSW",
							"logo_url": "https://cdn.fastbreak.app/logos/GSW.svg",
							"primary_color": "#1D428A", "secondary_color": "#FFC72C"},
						 "next_match_id": 14, "next_slot": "b"},
						{"id": 13, "conference": "west", "round": 0, "slot": 3,
						 "team_a": {"id": 24, "name": "Sacramento Kings", "tricode": "SAC",
							"logo_url": "", "primary_color": "", "secondary_color": ""},
						 "team_b": {"id": null, "name": "", "tricode": "",
							"logo_url": "", "primary_color": "", "secondary_color": ""}}
					],
					"1": [
						{"id": 14, "conference": "west", "round": 1, "slot": 4,
						 "team_a": {"id": 25, "name": "Denver Nuggets", "tricode": "DEN",
							"logo_url": "", "primary_color": "", "secondary_color": ""},
						 "team_b": {"id": null, "name": "", "tricode": "",
							"logo_url": "", "primary_color": "", "secondary_color": ""}}
					]
				}
			}
		}
	}`
}

func TestFetchGraphFlattensGroupedMatches(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(graphBody()))
	}))
	defer srv.Close()

	c := New(srv.URL, "token-123")
	g, err := c.FetchGraph(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, "Bearer token-123", gotAuth)
	assert.Equal(t, "/api/v1/brackets/3", gotPath)

	assert.Equal(t, uint(3), g.Bracket.ID)
	assert.True(t, g.CanEdit)
	assert.False(t, g.CanUndo)
	assert.Len(t, g.Matches(), 3)

	m := g.Match(12)
	require.NotNil(t, m)
	assert.Equal(t, "LAL", m.TeamATricode)
	assert.Equal(t, "#552583", m.TeamAPrimaryColor)
	require.NotNil(t, m.NextMatchID)
	assert.Equal(t, uint(14), *m.NextMatchID)
	assert.Equal(t, "b", m.NextSlot)

	// The graph is immediately usable by the engine.
	engine := bracket.NewEngine(g)
	require.NoError(t, engine.SetWinner(12, bracket.SideA))
	assert.Equal(t, "LAL", g.Match(14).TeamBTricode)
	assert.Equal(t, "GSW", g.Match(13).TeamBTricode)
}

func TestSubmitUpdateSendsInstruction(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody bracket.MatchUpdate
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": 200, "response": {"updated": []}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "token-123")
	winner := uint(22)
	games := 1
	err := c.SubmitUpdate(context.Background(), 3, 12, bracket.MatchUpdate{
		PredictedWinnerID:    &winner,
		PredictedWinnerGames: &games,
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/v1/brackets/3/matches/12", gotPath)
	require.NotNil(t, gotBody.PredictedWinnerID)
	assert.Equal(t, winner, *gotBody.PredictedWinnerID)
	assert.False(t, gotBody.Undo)
}

func TestAPIErrorsCarryStatusAndMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"status": 403, "error": "Playoffs are locked"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "token-123")
	err := c.SubmitUpdate(context.Background(), 3, 12, bracket.MatchUpdate{Undo: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "Playoffs are locked")
}

func TestMyBracket(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/brackets/mine", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": 200,
			"response": {
				"bracket": {"id": 9, "name": "sam's bracket", "owner_id": 4, "season_id": 1},
				"playoffs_locked": true
			}
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "token-123")
	b, locked, err := c.MyBracket(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint(9), b.ID)
	assert.True(t, locked)
}

func TestControllerRollsBackThroughClient(t *testing.T) {
	var submits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPut {
			submits++
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"status": 403, "error": "Playoffs are locked"}`))
			return
		}
		_, _ = w.Write([]byte(graphBody()))
	}))
	defer srv.Close()

	ctrl := bracket.NewController(New(srv.URL, "token-123"), 3)
	require.NoError(t, ctrl.Load(context.Background()))

	out := ctrl.PickWinner(context.Background(), 12, bracket.SideA)
	assert.Equal(t, 1, submits)
	assert.False(t, out.Applied)
	assert.True(t, out.Reloaded)
	require.Error(t, out.Err)

	// The speculative propagation is gone after the reload.
	assert.Nil(t, ctrl.Graph().Match(12).PredictedWinnerID)
	assert.Nil(t, ctrl.Graph().Match(14).TeamBID)
}
