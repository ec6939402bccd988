package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"Fastbreak/bracket"
	"Fastbreak/models"
	"Fastbreak/seed"
	"Fastbreak/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ensureUserBracket returns the caller's bracket for the season,
// creating it on first visit as a structural clone of the master.
func (server *Server) ensureUserBracket(user *models.User, season *models.Season) (*models.Bracket, error) {
	existing, err := (&models.Bracket{}).FindUserBracket(server.DB, user.ID, season.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	master, err := (&models.Bracket{}).FindMasterBracket(server.DB, season.ID)
	if err != nil {
		return nil, err
	}

	b := models.Bracket{
		Name:     user.Username + "'s bracket",
		OwnerID:  user.ID,
		SeasonID: season.ID,
	}
	b.Prepare()
	created, err := b.SaveBracket(server.DB)
	if err != nil {
		return nil, err
	}
	if _, err := seed.CloneBracket(server.DB, master.ID, created.ID); err != nil {
		return nil, err
	}
	return created, nil
}

// MyBracket returns (creating on demand) the caller's bracket envelope
// for the current season, including the playoffs-locked edit gate.
func (server *Server) MyBracket(c *gin.Context) {

	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": http.StatusUnauthorized,
			"error":  "Unauthorized",
		})
		return
	}

	user, err := (&models.User{}).FindUserByID(server.DB, uid)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": http.StatusUnauthorized,
			"error":  "Unauthorized",
		})
		return
	}

	season, err := (&models.Season{}).FindCurrentSeason(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "No current season",
		})
		return
	}

	b, err := server.ensureUserBracket(user, season)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to prepare bracket",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": gin.H{
			"bracket":         toBracketResponse(b),
			"playoffs_locked": season.PlayoffsLocked(),
		},
	})
}

// GetBracket returns the full bracket graph grouped by conference and
// round, with the viewer's edit capabilities. No partial graph is ever
// returned: any load error surfaces as an error status.
func (server *Server) GetBracket(c *gin.Context) {

	bracketID := c.Param("id")
	bid, err := strconv.ParseUint(bracketID, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": http.StatusBadRequest,
			"error":  "Invalid bracket ID",
		})
		return
	}

	var viewer *models.User
	if uid, ok := httpctx.CurrentUserID(c); ok {
		viewer = &models.User{ID: uid, IsAdmin: httpctx.IsAdminRequest(c)}
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

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": toGraphResponse(g),
	})
}

// SaveBracket finalizes a bracket under a display name. Disallowed
// while any match still lacks a complete prediction.
func (server *Server) SaveBracket(c *gin.Context) {

	bracketID := c.Param("id")
	bid, err := strconv.ParseUint(bracketID, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": http.StatusBadRequest,
			"error":  "Invalid bracket ID",
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

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  "Unable to get request",
		})
		return
	}

	payload := struct {
		Name string `json:"name"`
	}{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status": http.StatusUnprocessableEntity,
				"error":  "Cannot unmarshal body",
			})
			return
		}
	}

	viewer := &models.User{ID: uid, IsAdmin: httpctx.IsAdminRequest(c)}
	g, err := bracket.LoadGraph(server.DB, uint(bid), viewer)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "Bracket not found",
		})
		return
	}

	if g.Bracket.OwnerID != uid {
		c.JSON(http.StatusForbidden, gin.H{
			"status": http.StatusForbidden,
			"error":  "You can only save your own bracket",
		})
		return
	}

	if !g.Complete() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  "Bracket has unpicked matches",
		})
		return
	}

	if err := g.Bracket.MarkSaved(server.DB, payload.Name); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to save bracket",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": toBracketResponse(&g.Bracket),
	})
}
