package seed

import (
	"testing"

	"Fastbreak/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Team{}, &models.Bracket{}, &models.Match{}))
	require.NoError(t, EnsureTeams(db))
	return db
}

func matchAt(matches []models.Match, conference string, round, slot int) *models.Match {
	for i := range matches {
		m := &matches[i]
		if m.Conference == conference && m.Round == round && m.Slot == slot {
			return m
		}
	}
	return nil
}

func TestBuildFixtureShape(t *testing.T) {
	db := testDB(t)

	matches, err := BuildFixture(db, 1)
	require.NoError(t, err)
	assert.Len(t, matches, 21)

	byRound := make(map[int]int)
	for _, m := range matches {
		assert.Equal(t, uint(1), m.BracketID)
		byRound[m.Round]++
	}
	assert.Equal(t, map[int]int{0: 6, 1: 8, 2: 4, 3: 2, 4: 1}, byRound)

	// Each conference fields ten matches; the championship stands alone.
	for _, c := range []string{models.ConferenceEast, models.ConferenceWest} {
		n := 0
		for _, m := range matches {
			if m.Conference == c {
				n++
			}
		}
		assert.Equal(t, 10, n)
	}
}

func TestBuildFixtureSeeding(t *testing.T) {
	db := testDB(t)

	matches, err := BuildFixture(db, 1)
	require.NoError(t, err)

	// West 7-8 game is Lakers against Warriors.
	seventhEighth := matchAt(matches, models.ConferenceWest, 0, 2)
	require.NotNil(t, seventhEighth)
	assert.Equal(t, "LAL", seventhEighth.TeamATricode)
	assert.Equal(t, "GSW", seventhEighth.TeamBTricode)
	assert.NotEmpty(t, seventhEighth.TeamALogoURL)
	assert.NotEmpty(t, seventhEighth.TeamAPrimaryColor)

	// The 1 seed waits on the play-in for its opponent.
	top := matchAt(matches, models.ConferenceEast, 1, 1)
	require.NotNil(t, top)
	assert.Equal(t, "BOS", top.TeamATricode)
	assert.Nil(t, top.TeamBID)

	// 4-5 and 3-6 pairings are set from the start.
	assert.Equal(t, "CLE", matchAt(matches, models.ConferenceEast, 1, 2).TeamATricode)
	assert.Equal(t, "ORL", matchAt(matches, models.ConferenceEast, 1, 2).TeamBTricode)
	assert.Equal(t, "MIN", matchAt(matches, models.ConferenceWest, 1, 3).TeamATricode)
	assert.Equal(t, "PHX", matchAt(matches, models.ConferenceWest, 1, 3).TeamBTricode)

	// Later rounds start empty.
	semis := matchAt(matches, models.ConferenceWest, 2, 1)
	require.NotNil(t, semis)
	assert.Nil(t, semis.TeamAID)
	assert.Nil(t, semis.TeamBID)
}

func TestBuildFixtureLinks(t *testing.T) {
	db := testDB(t)

	matches, err := BuildFixture(db, 1)
	require.NoError(t, err)

	// Reload so we assert what was persisted, not just the in-memory slice.
	persisted, err := (&models.Match{}).FindMatchesByBracket(db, 1)
	require.NoError(t, err)
	require.Len(t, persisted, len(matches))

	link := func(c string, round, slot int) (*models.Match, *models.Match) {
		from := matchAt(persisted, c, round, slot)
		require.NotNil(t, from)
		require.NotNil(t, from.NextMatchID, "match %s r%d s%d has no forward link", c, round, slot)
		for i := range persisted {
			if persisted[i].ID == *from.NextMatchID {
				return from, &persisted[i]
			}
		}
		return from, nil
	}

	// 7-8 game's winner lands in the 2 seed's first-round series.
	from, to := link(models.ConferenceWest, 0, 2)
	assert.Equal(t, models.SlotB, from.NextSlot)
	assert.Equal(t, 1, to.Round)
	assert.Equal(t, 4, to.Slot)

	// Deciding game's winner meets the 1 seed.
	from, to = link(models.ConferenceEast, 0, 3)
	assert.Equal(t, models.SlotB, from.NextSlot)
	assert.Equal(t, 1, to.Round)
	assert.Equal(t, 1, to.Slot)

	// Conference finals feed the championship from opposite sides.
	from, to = link(models.ConferenceEast, 3, 1)
	assert.Equal(t, models.SlotA, from.NextSlot)
	assert.Equal(t, models.ConferenceNBA, to.Conference)
	from, to = link(models.ConferenceWest, 3, 1)
	assert.Equal(t, models.SlotB, from.NextSlot)
	assert.Equal(t, models.ConferenceNBA, to.Conference)

	// The championship is terminal.
	finals := matchAt(persisted, models.ConferenceNBA, 4, 1)
	require.NotNil(t, finals)
	assert.Nil(t, finals.NextMatchID)

	// Every other match links forward to a match in the same bracket.
	for i := range persisted {
		m := &persisted[i]
		if m.Conference == models.ConferenceNBA {
			continue
		}
		require.NotNil(t, m.NextMatchID, "match %s r%d s%d", m.Conference, m.Round, m.Slot)
	}
}

func TestCloneBracket(t *testing.T) {
	db := testDB(t)

	master, err := BuildFixture(db, 1)
	require.NoError(t, err)

	// Record a result on the master so the clone has something to drop.
	src := matchAt(master, models.ConferenceEast, 0, 1)
	winner := *src.TeamAID
	games := models.PlayInSeriesGames
	src.PredictedWinnerID = &winner
	src.PredictedWinnerGames = &games
	require.NoError(t, src.UpdatePrediction(db))

	clones, err := CloneBracket(db, 1, 2)
	require.NoError(t, err)
	assert.Len(t, clones, 21)

	persisted, err := (&models.Match{}).FindMatchesByBracket(db, 2)
	require.NoError(t, err)

	for i := range persisted {
		c := &persisted[i]
		assert.Equal(t, uint(2), c.BracketID)
		assert.Nil(t, c.PredictedWinnerID, "clones start unpicked")

		orig := matchAt(master, c.Conference, c.Round, c.Slot)
		require.NotNil(t, orig)
		assert.Equal(t, orig.TeamATricode, c.TeamATricode)
		assert.Equal(t, orig.TeamBTricode, c.TeamBTricode)

		// Forward links point inside the clone, not back at the master.
		if orig.NextMatchID == nil {
			assert.Nil(t, c.NextMatchID)
			continue
		}
		require.NotNil(t, c.NextMatchID)
		next := func() *models.Match {
			for j := range persisted {
				if persisted[j].ID == *c.NextMatchID {
					return &persisted[j]
				}
			}
			return nil
		}()
		require.NotNil(t, next, "link escapes the cloned bracket")
		origNext := matchAt(master, next.Conference, next.Round, next.Slot)
		assert.Equal(t, *orig.NextMatchID, origNext.ID)
		assert.Equal(t, orig.NextSlot, c.NextSlot)
	}
}
