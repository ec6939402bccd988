package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"strconv"

	"Fastbreak/cache"
	"Fastbreak/models"
	"Fastbreak/utils/httpctx"

	"github.com/gin-gonic/gin"
)

type leaderboardEntry struct {
	Rank        uint   `json:"rank"`
	UserID      uint   `json:"user_id"`
	Username    string `json:"username"`
	BracketID   uint   `json:"bracket_id"`
	BracketName string `json:"bracket_name"`
	Score       int    `json:"score"`
}

// computeLeaderboard scores every bracket of the season against the
// master. A leagueID of 0 means the global board; otherwise only the
// league's members are ranked.
func (server *Server) computeLeaderboard(seasonID, leagueID uint) ([]leaderboardEntry, error) {
	master, err := (&models.Bracket{}).FindMasterBracket(server.DB, seasonID)
	if err != nil {
		return nil, err
	}
	masterMatches, err := (&models.Match{}).FindMatchesByBracket(server.DB, master.ID)
	if err != nil {
		return nil, err
	}

	brackets, err := (&models.Bracket{}).FindSeasonBrackets(server.DB, seasonID)
	if err != nil {
		return nil, err
	}

	var memberFilter map[uint]bool
	if leagueID != 0 {
		league := models.League{}
		found, err := league.FindLeagueByID(server.DB, leagueID)
		if err != nil {
			return nil, err
		}
		members, err := found.Members(server.DB)
		if err != nil {
			return nil, err
		}
		memberFilter = make(map[uint]bool, len(*members))
		for _, m := range *members {
			memberFilter[m.UserID] = true
		}
	}

	entries := make([]leaderboardEntry, 0, len(*brackets))
	for i := range *brackets {
		b := &(*brackets)[i]
		if memberFilter != nil && !memberFilter[b.OwnerID] {
			continue
		}
		predicted, err := (&models.Match{}).FindMatchesByBracket(server.DB, b.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, leaderboardEntry{
			UserID:      b.OwnerID,
			Username:    b.Owner.Username,
			BracketID:   b.ID,
			BracketName: b.Name,
			Score:       models.ScoreMatches(predicted, masterMatches),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	for i := range entries {
		entries[i].Rank = uint(i + 1)
	}
	return entries, nil
}

// cachedLeaderboard serves the board from redis when possible and
// recomputes (re-caching) otherwise.
func (server *Server) cachedLeaderboard(c *gin.Context, seasonID, leagueID uint) ([]leaderboardEntry, error) {
	key := cache.LeaderboardKey(seasonID, leagueID)
	ctx := c.Request.Context()

	if raw, err := cache.Get(ctx, key); err == nil && raw != "" {
		var entries []leaderboardEntry
		if err := json.Unmarshal([]byte(raw), &entries); err == nil {
			return entries, nil
		}
	}

	entries, err := server.computeLeaderboard(seasonID, leagueID)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(entries); err == nil {
		if err := cache.Set(ctx, key, encoded, cache.LeaderboardTTL); err != nil {
			log.Printf("warning: leaderboard not cached: %v", err)
		}
	}
	return entries, nil
}

func (server *Server) GetLeaderboard(c *gin.Context) {

	season, err := (&models.Season{}).FindCurrentSeason(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "No current season",
		})
		return
	}

	entries, err := server.cachedLeaderboard(c, season.ID, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to compute leaderboard",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": entries,
	})
}

func (server *Server) GetLeagueLeaderboard(c *gin.Context) {

	lid, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": http.StatusBadRequest,
			"error":  "Invalid league ID",
		})
		return
	}

	uid, _ := httpctx.CurrentUserID(c)

	league := models.League{}
	found, err := league.FindLeagueByID(server.DB, uint(lid))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "League not found",
		})
		return
	}

	isMember, err := found.HasMember(server.DB, uid)
	if err != nil || !isMember {
		c.JSON(http.StatusForbidden, gin.H{
			"status": http.StatusForbidden,
			"error":  "You are not a member of this league",
		})
		return
	}

	entries, err := server.cachedLeaderboard(c, found.SeasonID, found.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to compute leaderboard",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": entries,
	})
}
