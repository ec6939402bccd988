// Package client is an HTTP implementation of bracket.Service against
// the Fastbreak API. Paired with bracket.Controller it reproduces the
// bracket view's flow: load the graph once, apply picks optimistically,
// confirm each one with the backend, reload wholesale on failure.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"Fastbreak/bracket"
	"Fastbreak/models"
)

type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type teamSlotPayload struct {
	ID             *uint  `json:"id"`
	Name           string `json:"name"`
	Tricode        string `json:"tricode"`
	LogoURL        string `json:"logo_url"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
}

type matchPayload struct {
	ID                   uint            `json:"id"`
	Conference           string          `json:"conference"`
	Round                int             `json:"round"`
	Slot                 int             `json:"slot"`
	TeamA                teamSlotPayload `json:"team_a"`
	TeamB                teamSlotPayload `json:"team_b"`
	PredictedWinnerID    *uint           `json:"predicted_winner_id"`
	PredictedWinnerGames *int            `json:"predicted_winner_games"`
	NextMatchID          *uint           `json:"next_match_id"`
	NextSlot             string          `json:"next_slot"`
}

type graphPayload struct {
	Bracket models.Bracket                       `json:"bracket"`
	CanEdit bool                                 `json:"can_edit"`
	CanUndo bool                                 `json:"can_undo"`
	Matches map[string]map[string][]matchPayload `json:"matches"`
}

type envelope struct {
	Status   int             `json:"status"`
	Error    json.RawMessage `json:"error"`
	Response json.RawMessage `json:"response"`
}

func (p *matchPayload) toMatch() models.Match {
	m := models.Match{
		ID:                   p.ID,
		Conference:           p.Conference,
		Round:                p.Round,
		Slot:                 p.Slot,
		PredictedWinnerID:    p.PredictedWinnerID,
		PredictedWinnerGames: p.PredictedWinnerGames,
		NextMatchID:          p.NextMatchID,
		NextSlot:             p.NextSlot,
	}
	m.SetSide(models.SlotA, models.TeamRef(p.TeamA))
	m.SetSide(models.SlotB, models.TeamRef(p.TeamB))
	return m
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) (*envelope, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("api error (%d): %s", resp.StatusCode, string(env.Error))
	}
	return &env, nil
}

// FetchGraph loads one bracket's full graph. Errors surface as-is; the
// caller never receives a partial graph.
func (c *Client) FetchGraph(ctx context.Context, bracketID uint) (*bracket.Graph, error) {
	env, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/brackets/%d", bracketID), nil)
	if err != nil {
		return nil, err
	}

	var payload graphPayload
	if err := json.Unmarshal(env.Response, &payload); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}

	var matches []models.Match
	for _, rounds := range payload.Matches {
		for _, ms := range rounds {
			for i := range ms {
				matches = append(matches, ms[i].toMatch())
			}
		}
	}

	return bracket.NewGraph(payload.Bracket, matches, payload.CanEdit, payload.CanUndo), nil
}

// SubmitUpdate pushes one authoritative match instruction.
func (c *Client) SubmitUpdate(ctx context.Context, bracketID, matchID uint, update bracket.MatchUpdate) error {
	path := fmt.Sprintf("/api/v1/brackets/%d/matches/%d", bracketID, matchID)
	_, err := c.do(ctx, http.MethodPut, path, update)
	return err
}

// SaveBracket finalizes the bracket under a display name.
func (c *Client) SaveBracket(ctx context.Context, bracketID uint, name string) error {
	path := fmt.Sprintf("/api/v1/brackets/%d/save", bracketID)
	_, err := c.do(ctx, http.MethodPost, path, map[string]string{"name": name})
	return err
}

// MyBracket fetches the caller's bracket envelope for the current
// season, including the playoffs-locked flag.
func (c *Client) MyBracket(ctx context.Context) (*models.Bracket, bool, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/v1/brackets/mine", nil)
	if err != nil {
		return nil, false, err
	}

	payload := struct {
		Bracket        models.Bracket `json:"bracket"`
		PlayoffsLocked bool           `json:"playoffs_locked"`
	}{}
	if err := json.Unmarshal(env.Response, &payload); err != nil {
		return nil, false, fmt.Errorf("decode bracket: %w", err)
	}
	return &payload.Bracket, payload.PlayoffsLocked, nil
}

var _ bracket.Service = (*Client)(nil)
