package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"Fastbreak/models"
	"Fastbreak/utils/formaterror"
	"Fastbreak/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func toLeagueResponse(l *models.League) gin.H {
	ownerName := ""
	if l.Owner.ID != 0 {
		ownerName = l.Owner.Username
	}
	return gin.H{
		"id":             l.ID,
		"public_id":      l.PublicID,
		"name":           l.Name,
		"code":           l.Code,
		"owner_id":       l.OwnerID,
		"owner_username": ownerName,
		"season_id":      l.SeasonID,
		"created_at":     l.CreatedAt,
	}
}

func (server *Server) CreateLeague(c *gin.Context) {

	errList = map[string]string{}

	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
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

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  "Unable to get request",
		})
		return
	}

	league := models.League{}
	if err := json.Unmarshal(body, &league); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  "Cannot unmarshal body",
		})
		return
	}

	league.OwnerID = uid
	league.SeasonID = season.ID
	league.Code = ""
	league.Prepare()

	errorMessages := league.Validate()
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}

	created, err := league.SaveLeague(server.DB)
	if err != nil {
		formattedError := formaterror.FormatError(err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formattedError,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": toLeagueResponse(created),
	})
}

func (server *Server) GetMyLeagues(c *gin.Context) {

	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": http.StatusUnauthorized,
			"error":  "Unauthorized",
		})
		return
	}

	leagues, err := (&models.League{}).FindUserLeagues(server.DB, uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to fetch leagues",
		})
		return
	}

	responses := make([]gin.H, 0, len(*leagues))
	for i := range *leagues {
		responses = append(responses, toLeagueResponse(&(*leagues)[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": responses,
	})
}

func (server *Server) GetLeague(c *gin.Context) {

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

	members, err := found.Members(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to fetch members",
		})
		return
	}

	memberResponses := make([]gin.H, 0, len(*members))
	for _, m := range *members {
		memberResponses = append(memberResponses, gin.H{
			"user_id":   m.UserID,
			"username":  m.User.Username,
			"joined_at": m.CreatedAt,
		})
	}

	resp := toLeagueResponse(found)
	resp["members"] = memberResponses

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": resp,
	})
}

func (server *Server) JoinLeague(c *gin.Context) {

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
		Code string `json:"code"`
	}{}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Code == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  "Required join code",
		})
		return
	}

	league := models.League{}
	found, err := league.FindLeagueByCode(server.DB, payload.Code)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "League not found",
		})
		return
	}

	if err := found.AddMember(server.DB, uid); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to join league",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": toLeagueResponse(found),
	})
}

func (server *Server) LeaveLeague(c *gin.Context) {

	lid, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": http.StatusBadRequest,
			"error":  "Invalid league ID",
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

	league := models.League{}
	found, err := league.FindLeagueByID(server.DB, uint(lid))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "League not found",
		})
		return
	}

	if found.OwnerID == uid {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  "Owners cannot leave their own league",
		})
		return
	}

	rows, err := found.RemoveMember(server.DB, uid)
	if err != nil || rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "You are not a member of this league",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Left league",
	})
}

func (server *Server) DeleteLeague(c *gin.Context) {

	lid, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": http.StatusBadRequest,
			"error":  "Invalid league ID",
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

	league := models.League{}
	found, err := league.FindLeagueByID(server.DB, uint(lid))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status": http.StatusNotFound,
				"error":  "League not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Error retrieving league",
		})
		return
	}

	if found.OwnerID != uid && !httpctx.IsAdminRequest(c) {
		c.JSON(http.StatusForbidden, gin.H{
			"status": http.StatusForbidden,
			"error":  "Only the owner can delete a league",
		})
		return
	}

	if _, err := found.DeleteLeague(server.DB, found.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Error deleting league",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "League deleted",
	})
}
