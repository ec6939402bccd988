package controllers

import (
	"Fastbreak/middlewares"
)

func (s *Server) initializeRoutes() {

	auth := middlewares.TokenAuthMiddleware(s.DB)
	optionalAuth := middlewares.OptionalAuthMiddleware(s.DB)
	adminOnly := middlewares.AdminOnlyMiddleware()

	v1 := s.Router.Group("/api/v1")
	{
		// Users routes
		v1.POST("/login", middlewares.LoginRateLimitMiddleware(), s.Login)
		v1.POST("/users", middlewares.LoginRateLimitMiddleware(), s.CreateUser)
		v1.GET("/users/:id", s.GetUser)
		v1.PUT("/users/:id", auth, s.UpdateUser)

		// Teams
		v1.GET("/teams", s.GetTeams)

		// Bracket routes
		v1.GET("/brackets/mine", auth, s.MyBracket)
		v1.GET("/brackets/:id", optionalAuth, s.GetBracket)
		v1.PUT("/brackets/:id/matches/:match_id", auth, s.UpdateMatch)
		v1.POST("/brackets/:id/save", auth, s.SaveBracket)

		// Leaderboard routes
		v1.GET("/leaderboard", s.GetLeaderboard)

		// League routes
		v1.POST("/leagues", auth, s.CreateLeague)
		v1.GET("/leagues", auth, s.GetMyLeagues)
		v1.GET("/leagues/:id", auth, s.GetLeague)
		v1.POST("/leagues/join", auth, s.JoinLeague)
		v1.POST("/leagues/:id/leave", auth, s.LeaveLeague)
		v1.DELETE("/leagues/:id", auth, s.DeleteLeague)
		v1.GET("/leagues/:id/leaderboard", auth, s.GetLeagueLeaderboard)

		// Admin routes
		admin := v1.Group("/admin", auth, adminOnly)
		{
			admin.POST("/seasons/rollover", s.RolloverSeason)
			admin.POST("/seasons/start-playoffs", s.StartPlayoffs)
		}
	}
}
