package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"Fastbreak/bracket"
	"Fastbreak/cache"
	"Fastbreak/models"
	"Fastbreak/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type matchUpdateRequest struct {
	PredictedWinnerID    *uint `json:"predicted_winner_id"`
	PredictedWinnerGames *int  `json:"predicted_winner_games"`
	Undo                 bool  `json:"undo"`
}

// UpdateMatch is the authoritative write path for one match: it runs
// the same engine the bracket view runs locally, so propagation and
// play-in routing exist in exactly one place, then persists every
// touched match in a single transaction.
func (server *Server) UpdateMatch(c *gin.Context) {

	bid, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": http.StatusBadRequest,
			"error":  "Invalid bracket ID",
		})
		return
	}
	mid, err := strconv.ParseUint(c.Param("match_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": http.StatusBadRequest,
			"error":  "Invalid match ID",
		})
		return
	}

	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": http.StatusUnauthorized,
			"error":  "Unauthorized",
		})
		return
	}
	viewer := &models.User{ID: uid, IsAdmin: httpctx.IsAdminRequest(c)}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  "Unable to get request",
		})
		return
	}
	req := matchUpdateRequest{}
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  "Cannot unmarshal body",
		})
		return
	}

	g, err := bracket.LoadGraph(server.DB, uint(bid), viewer)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status": http.StatusNotFound,
				"error":  "Bracket not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to load bracket",
		})
		return
	}

	if !g.CanEdit {
		c.JSON(http.StatusForbidden, gin.H{
			"status": http.StatusForbidden,
			"error":  "You cannot edit this bracket",
		})
		return
	}

	// Once the playoffs tip off, prediction brackets freeze; only the
	// master keeps taking updates (real results).
	season := models.Season{}
	if err := server.DB.First(&season, g.Bracket.SeasonID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to load season",
		})
		return
	}
	if !g.Bracket.IsMaster && season.PlayoffsLocked() {
		c.JSON(http.StatusForbidden, gin.H{
			"status": http.StatusForbidden,
			"error":  "Playoffs are locked",
		})
		return
	}

	engine := bracket.NewEngine(g)
	matchID := uint(mid)

	switch {
	case req.Undo:
		err = engine.Undo(matchID)

	case req.PredictedWinnerID != nil:
		m := g.Match(matchID)
		if m == nil {
			err = bracket.ErrMatchNotFound
			break
		}
		side, found := m.SideOfTeam(*req.PredictedWinnerID)
		if !found {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status": http.StatusUnprocessableEntity,
				"error":  "Winner must be one of the match participants",
			})
			return
		}
		if err = engine.SetWinner(matchID, bracket.Side(side)); err != nil {
			break
		}
		if req.PredictedWinnerGames != nil && m.Round > models.PlayInRound {
			err = engine.SetGames(matchID, *req.PredictedWinnerGames)
		}

	case req.PredictedWinnerGames != nil:
		m := g.Match(matchID)
		if m == nil {
			err = bracket.ErrMatchNotFound
			break
		}
		if m.PredictedWinnerID == nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status": http.StatusUnprocessableEntity,
				"error":  "No winner recorded for this match",
			})
			return
		}
		err = engine.SetGames(matchID, *req.PredictedWinnerGames)

	default:
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  "Nothing to update",
		})
		return
	}

	if err != nil {
		status := http.StatusUnprocessableEntity
		switch {
		case errors.Is(err, bracket.ErrMatchNotFound):
			status = http.StatusNotFound
		case errors.Is(err, bracket.ErrNotEditable), errors.Is(err, bracket.ErrUndoNotAllowed):
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{
			"status": status,
			"error":  err.Error(),
		})
		return
	}

	dirty := engine.Dirty()
	txErr := server.DB.Transaction(func(tx *gorm.DB) error {
		for _, m := range dirty {
			if err := m.UpdatePrediction(tx); err != nil {
				return err
			}
		}
		return g.Bracket.Touch(tx)
	})
	if txErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to persist update",
		})
		return
	}

	// Master results changed; cached leaderboards are stale.
	if g.Bracket.IsMaster {
		if err := cache.DeleteByPrefix(c.Request.Context(), "leaderboard:"); err != nil {
			log.Printf("warning: leaderboard cache not invalidated: %v", err)
		}
	}

	updated := make([]matchResponse, 0, len(dirty))
	for _, m := range dirty {
		updated = append(updated, toMatchResponse(m))
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": gin.H{
			"updated": updated,
		},
	})
}
