package models

// Points awarded for a correct predicted winner, by round. A correct
// series length on top of a correct winner adds the exact-games bonus
// (best-of-seven rounds only; the play-in is a single game).
var roundPoints = map[int]int{
	0: 10,
	1: 20,
	2: 30,
	3: 40,
	4: 50,
}

const exactGamesBonus = 10

type matchKey struct {
	Conference string
	Round      int
	Slot       int
}

// ScoreMatches compares a bracket's predictions against the master
// bracket's recorded results. Matches are matched up positionally, not
// by id, since every bracket is a structural clone of the same fixture.
func ScoreMatches(predicted, master []Match) int {
	results := make(map[matchKey]*Match, len(master))
	for i := range master {
		m := &master[i]
		results[matchKey{m.Conference, m.Round, m.Slot}] = m
	}

	score := 0
	for i := range predicted {
		p := &predicted[i]
		if p.PredictedWinnerID == nil {
			continue
		}
		r, ok := results[matchKey{p.Conference, p.Round, p.Slot}]
		if !ok || r.PredictedWinnerID == nil {
			continue
		}
		if *p.PredictedWinnerID != *r.PredictedWinnerID {
			continue
		}
		score += roundPoints[p.Round]
		if p.Round > PlayInRound &&
			p.PredictedWinnerGames != nil && r.PredictedWinnerGames != nil &&
			*p.PredictedWinnerGames == *r.PredictedWinnerGames {
			score += exactGamesBonus
		}
	}
	return score
}
