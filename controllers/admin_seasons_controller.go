package controllers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"Fastbreak/cache"
	"Fastbreak/models"
	"Fastbreak/seed"
	"Fastbreak/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RolloverSeason retires the current season and opens a new one with a
// freshly generated master bracket fixture. Admin only (enforced by
// route middleware).
func (server *Server) RolloverSeason(c *gin.Context) {

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
	if err := json.Unmarshal(body, &payload); err != nil || payload.Name == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  "Required season name",
		})
		return
	}

	var newSeason *models.Season
	var master *models.Bracket

	txErr := server.DB.Transaction(func(tx *gorm.DB) error {
		if current, err := (&models.Season{}).FindCurrentSeason(tx); err == nil {
			if err := current.Retire(tx); err != nil {
				return err
			}
		}

		season := models.Season{Name: payload.Name, IsCurrent: true}
		season.Prepare()
		if _, err := season.SaveSeason(tx); err != nil {
			return err
		}
		newSeason = &season

		b := models.Bracket{
			Name:     payload.Name + " results",
			OwnerID:  uid,
			SeasonID: season.ID,
			IsMaster: true,
		}
		b.Prepare()
		created, err := b.SaveBracket(tx)
		if err != nil {
			return err
		}
		if _, err := seed.BuildFixture(tx, created.ID); err != nil {
			return err
		}
		master = created
		return nil
	})
	if txErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to roll over season",
		})
		return
	}

	if err := cache.DeleteByPrefix(c.Request.Context(), "leaderboard:"); err != nil {
		log.Printf("warning: leaderboard cache not invalidated: %v", err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": http.StatusCreated,
		"response": gin.H{
			"season":         newSeason,
			"master_bracket": toBracketResponse(master),
		},
	})
}

// StartPlayoffs stamps the edit lock on the current season: from here
// on only the master bracket takes updates.
func (server *Server) StartPlayoffs(c *gin.Context) {

	season, err := (&models.Season{}).FindCurrentSeason(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "No current season",
		})
		return
	}

	if err := season.StartPlayoffs(server.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to start playoffs",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": season,
	})
}
