package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/knufflepuffle/lfg-bot/internal/handlers"
)

func RegisterPublicRoutes(rg *gin.RouterGroup, handler *handlers.StatusHandler) {
	{
		rg.GET("/polls", handler.GetPolls)
		rg.GET("/polls/:channelID", handler.GetPoll)

		rg.GET("/votes", handler.GetVotes)
		rg.GET("/votes/:channelID", handler.GetVote)
	}
}

func RegisterPrivateRoutes(rg *gin.RouterGroup, handler *handlers.StatusHandler) {
	{
		rg.GET("/sessions", handler.GetSessions)
		rg.GET("/sessions/:id", handler.GetSessionByID)

		rg.GET("/logs", handler.GetLogs)
	}
}

func RegisterAuthRoutes(rg *gin.RouterGroup, handler *handlers.AuthHandler) {
	{
		rg.POST("/login", handler.Login)
	}
}
