package seed

import (
	"fmt"
	"log"

	"Fastbreak/models"

	"gorm.io/gorm"
)

type teamSeed struct {
	name      string
	tricode   string
	seed      int
	primary   string
	secondary string
}

var eastTeams = []teamSeed{
	{"Boston Celtics", "BOS", 1, "#007A33", "#BA9653"},
	{"New York Knicks", "NYK", 2, "#006BB6", "#F58426"},
	{"Milwaukee Bucks", "MIL", 3, "#00471B", "#EEE1C6"},
	{"Cleveland Cavaliers", "CLE", 4, "#860038", "#FDBB30"},
	{"Orlando Magic", "ORL", 5, "#0077C0", "#C4CED4"},
	{"Indiana Pacers", "IND", 6, "#002D62", "#FDBB30"},
	{"Philadelphia 76ers", "PHI", 7, "#006BB6", "#ED174C"},
	{"Miami Heat", "MIA", 8, "#98002E", "#F9A01B"},
	{"Chicago Bulls", "CHI", 9, "#CE1141", "#000000"},
	{"Atlanta Hawks", "ATL", 10, "#E03A3E", "#C1D32F"},
	{"Brooklyn Nets", "BKN", 11, "#000000", "#FFFFFF"},
	{"Toronto Raptors", "TOR", 12, "#CE1141", "#000000"},
	{"Charlotte Hornets", "CHA", 13, "#1D1160", "#00788C"},
	{"Washington Wizards", "WAS", 14, "#002B5C", "#E31837"},
	{"Detroit Pistons", "DET", 15, "#C8102E", "#1D42BA"},
}

var westTeams = []teamSeed{
	{"Oklahoma City Thunder", "OKC", 1, "#007AC1", "#EF3B24"},
	{"Denver Nuggets", "DEN", 2, "#0E2240", "#FEC524"},
	{"Minnesota Timberwolves", "MIN", 3, "#0C2340", "#236192"},
	{"Los Angeles Clippers", "LAC", 4, "#C8102E", "#1D428A"},
	{"Dallas Mavericks", "DAL", 5, "#00538C", "#002B5E"},
	{"Phoenix Suns", "PHX", 6, "#1D1160", "#E56020"},
	{"Los Angeles Lakers", "LAL", 7, "#552583", "#FDB927"},
	{"Golden State Warriors", "GSW", 8, "#1D428A", "#FFC72C"},
	{"Sacramento Kings", "SAC", 9, "#5A2D81", "#63727A"},
	{"New Orleans Pelicans", "NOP", 10, "#0C2340", "#C8102E"},
	{"Houston Rockets", "HOU", 11, "#CE1141", "#000000"},
	{"Utah Jazz", "UTA", 12, "#002B5C", "#00471B"},
	{"Memphis Grizzlies", "MEM", 13, "#5D76A9", "#12173F"},
	{"Portland Trail Blazers", "POR", 14, "#E03A3E", "#000000"},
	{"San Antonio Spurs", "SAS", 15, "#C4CED4", "#000000"},
}

func logoURL(tricode string) string {
	return fmt.Sprintf("https://cdn.fastbreak.app/logos/%s.svg", tricode)
}

// EnsureTeams idempotently loads the 30-team table. Seed order encodes
// each conference's playoff seeding for fixture generation.
func EnsureTeams(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Team{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	insert := func(conference string, seeds []teamSeed) error {
		for _, t := range seeds {
			team := models.Team{
				Name:           t.name,
				Tricode:        t.tricode,
				Conference:     conference,
				Seed:           t.seed,
				LogoURL:        logoURL(t.tricode),
				PrimaryColor:   t.primary,
				SecondaryColor: t.secondary,
			}
			team.Prepare()
			if err := db.Create(&team).Error; err != nil {
				return err
			}
		}
		return nil
	}

	if err := insert(models.ConferenceEast, eastTeams); err != nil {
		return err
	}
	if err := insert(models.ConferenceWest, westTeams); err != nil {
		return err
	}

	log.Println("[seed] team table loaded")
	return nil
}
