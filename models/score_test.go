package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func scoredMatch(conference string, round, slot int, winnerID uint, games int) Match {
	w := winnerID
	g := games
	return Match{
		Conference:           conference,
		Round:                round,
		Slot:                 slot,
		PredictedWinnerID:    &w,
		PredictedWinnerGames: &g,
	}
}

func TestScoreMatchesByRound(t *testing.T) {
	master := []Match{
		scoredMatch(ConferenceEast, 0, 2, 7, 1),
		scoredMatch(ConferenceEast, 1, 1, 1, 5),
		scoredMatch(ConferenceEast, 2, 1, 1, 6),
		scoredMatch(ConferenceEast, 3, 1, 1, 4),
		scoredMatch(ConferenceNBA, 4, 1, 1, 7),
	}

	// Identical predictions: full winner points plus the exact-games
	// bonus on every best-of-seven round.
	predicted := make([]Match, len(master))
	copy(predicted, master)
	assert.Equal(t, 10+30+40+50+60, ScoreMatches(predicted, master))
}

func TestScoreMatchesWinnerWithoutExactGames(t *testing.T) {
	master := []Match{scoredMatch(ConferenceWest, 1, 2, 4, 5)}
	predicted := []Match{scoredMatch(ConferenceWest, 1, 2, 4, 7)}
	assert.Equal(t, 20, ScoreMatches(predicted, master))
}

func TestScoreMatchesPlayInHasNoGamesBonus(t *testing.T) {
	master := []Match{scoredMatch(ConferenceWest, 0, 1, 9, 1)}
	predicted := []Match{scoredMatch(ConferenceWest, 0, 1, 9, 1)}
	assert.Equal(t, 10, ScoreMatches(predicted, master))
}

func TestScoreMatchesWrongWinnerScoresNothing(t *testing.T) {
	master := []Match{scoredMatch(ConferenceEast, 2, 2, 3, 6)}
	predicted := []Match{scoredMatch(ConferenceEast, 2, 2, 5, 6)}
	assert.Equal(t, 0, ScoreMatches(predicted, master))
}

func TestScoreMatchesSkipsUnresolvedResults(t *testing.T) {
	unresolved := Match{Conference: ConferenceEast, Round: 1, Slot: 3}
	master := []Match{unresolved, scoredMatch(ConferenceEast, 1, 4, 2, 4)}
	predicted := []Match{
		scoredMatch(ConferenceEast, 1, 3, 6, 5),
		scoredMatch(ConferenceEast, 1, 4, 2, 4),
	}
	assert.Equal(t, 30, ScoreMatches(predicted, master))
}

func TestScoreMatchesComparesPositionallyNotByID(t *testing.T) {
	p := scoredMatch(ConferenceWest, 3, 1, 12, 6)
	p.ID = 401
	r := scoredMatch(ConferenceWest, 3, 1, 12, 6)
	r.ID = 77
	assert.Equal(t, 50, ScoreMatches([]Match{p}, []Match{r}))
}
