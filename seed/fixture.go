package seed

import (
	"fmt"

	"Fastbreak/models"

	"gorm.io/gorm"
)

type position struct {
	conference string
	round      int
	slot       int
}

type link struct {
	from position
	to   position
	slot string
}

// The bracket shape is fixed. Per conference: play-in slot 1 is the
// 9-10 game (winner takes the second chair of the deciding game),
// slot 2 the 7-8 game (winner claims the 7 seed), slot 3 decides the
// 8 seed. First round pairs 1-8 with 4-5 and 2-7 with 3-6; conference
// winners meet in the finals. Slot 2's loser-advances rule is handled
// by the engine at pick time, not by a forward link.
func conferenceLinks(c string) []link {
	return []link{
		{position{c, 0, 1}, position{c, 0, 3}, models.SlotA},
		{position{c, 0, 2}, position{c, 1, 4}, models.SlotB},
		{position{c, 0, 3}, position{c, 1, 1}, models.SlotB},
		{position{c, 1, 1}, position{c, 2, 1}, models.SlotA},
		{position{c, 1, 2}, position{c, 2, 1}, models.SlotB},
		{position{c, 1, 3}, position{c, 2, 2}, models.SlotA},
		{position{c, 1, 4}, position{c, 2, 2}, models.SlotB},
		{position{c, 2, 1}, position{c, 3, 1}, models.SlotA},
		{position{c, 2, 2}, position{c, 3, 1}, models.SlotB},
	}
}

func finalsLinks() []link {
	return []link{
		{position{models.ConferenceEast, 3, 1}, position{models.ConferenceNBA, 4, 1}, models.SlotA},
		{position{models.ConferenceWest, 3, 1}, position{models.ConferenceNBA, 4, 1}, models.SlotB},
	}
}

func conferencePositions(c string) []position {
	return []position{
		{c, 0, 1}, {c, 0, 2}, {c, 0, 3},
		{c, 1, 1}, {c, 1, 2}, {c, 1, 3}, {c, 1, 4},
		{c, 2, 1}, {c, 2, 2},
		{c, 3, 1},
	}
}

// initial participants by position, expressed as conference seeds.
// Zero means the slot waits on propagation.
type seeding struct{ a, b int }

var initialSeeding = map[position]seeding{}

func init() {
	for _, c := range []string{models.ConferenceEast, models.ConferenceWest} {
		initialSeeding[position{c, 0, 1}] = seeding{9, 10}
		initialSeeding[position{c, 0, 2}] = seeding{7, 8}
		initialSeeding[position{c, 1, 1}] = seeding{1, 0}
		initialSeeding[position{c, 1, 2}] = seeding{4, 5}
		initialSeeding[position{c, 1, 3}] = seeding{3, 6}
		initialSeeding[position{c, 1, 4}] = seeding{2, 0}
	}
}

// BuildFixture creates the 21-match playoff fixture for a bracket: six
// play-in games, fourteen series, and the championship, wired together
// by forward links and pre-populated with the seeded participants.
func BuildFixture(db *gorm.DB, bracketID uint) ([]models.Match, error) {
	teamsBySeed := make(map[string]map[int]models.Team)
	for _, c := range []string{models.ConferenceEast, models.ConferenceWest} {
		teams, err := (&models.Team{}).FindTeamsByConference(db, c)
		if err != nil {
			return nil, err
		}
		teamsBySeed[c] = make(map[int]models.Team, len(*teams))
		for _, t := range *teams {
			teamsBySeed[c][t.Seed] = t
		}
	}

	positions := conferencePositions(models.ConferenceEast)
	positions = append(positions, conferencePositions(models.ConferenceWest)...)
	positions = append(positions, position{models.ConferenceNBA, 4, 1})

	created := make(map[position]*models.Match, len(positions))
	matches := make([]models.Match, 0, len(positions))

	for _, pos := range positions {
		m := models.Match{
			BracketID:  bracketID,
			Conference: pos.conference,
			Round:      pos.round,
			Slot:       pos.slot,
		}
		if s, ok := initialSeeding[pos]; ok {
			if team, ok := teamsBySeed[pos.conference][s.a]; ok && s.a > 0 {
				m.SetSide(models.SlotA, team.Ref())
			}
			if team, ok := teamsBySeed[pos.conference][s.b]; ok && s.b > 0 {
				m.SetSide(models.SlotB, team.Ref())
			}
		}
		if err := db.Create(&m).Error; err != nil {
			return nil, err
		}
		matches = append(matches, m)
		created[pos] = &matches[len(matches)-1]
	}

	links := conferenceLinks(models.ConferenceEast)
	links = append(links, conferenceLinks(models.ConferenceWest)...)
	links = append(links, finalsLinks()...)

	for _, l := range links {
		from, ok := created[l.from]
		if !ok {
			return nil, fmt.Errorf("fixture link from unknown position %+v", l.from)
		}
		to, ok := created[l.to]
		if !ok {
			return nil, fmt.Errorf("fixture link to unknown position %+v", l.to)
		}
		from.NextMatchID = &to.ID
		from.NextSlot = l.slot
		err := db.Model(&models.Match{}).Where("id = ?", from.ID).Updates(map[string]interface{}{
			"next_match_id": from.NextMatchID,
			"next_slot":     from.NextSlot,
		}).Error
		if err != nil {
			return nil, err
		}
	}

	return matches, nil
}

// CloneBracket copies the master fixture into a fresh user bracket:
// same structure, same current participants, forward links remapped to
// the new match ids, predictions cleared.
func CloneBracket(db *gorm.DB, masterBracketID, bracketID uint) ([]models.Match, error) {
	source, err := (&models.Match{}).FindMatchesByBracket(db, masterBracketID)
	if err != nil {
		return nil, err
	}

	idMap := make(map[uint]uint, len(source))
	clones := make([]models.Match, 0, len(source))

	for _, src := range source {
		clone := src
		clone.ID = 0
		clone.BracketID = bracketID
		clone.ClearPrediction()
		clone.NextMatchID = nil
		clone.NextSlot = ""
		if err := db.Create(&clone).Error; err != nil {
			return nil, err
		}
		idMap[src.ID] = clone.ID
		clones = append(clones, clone)
	}

	for i, src := range source {
		if src.NextMatchID == nil {
			continue
		}
		nextID, ok := idMap[*src.NextMatchID]
		if !ok {
			continue
		}
		clones[i].NextMatchID = &nextID
		clones[i].NextSlot = src.NextSlot
		err := db.Model(&models.Match{}).Where("id = ?", clones[i].ID).Updates(map[string]interface{}{
			"next_match_id": nextID,
			"next_slot":     src.NextSlot,
		}).Error
		if err != nil {
			return nil, err
		}
	}

	return clones, nil
}
