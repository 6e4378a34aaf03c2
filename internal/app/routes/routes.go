package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/selimd/campuslink/internal/app/controllers"
	"github.com/selimd/campuslink/internal/middleware"
	"github.com/selimd/campuslink/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	eventController *controllers.EventController,
	teamController *controllers.TeamController,
	forumController *controllers.ForumController,
	announcementController *controllers.AnnouncementController,
	notificationController *controllers.NotificationController,
	dashboardController *controllers.DashboardController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.POST("/auth/logout-all", authController.LogoutAll)

		users := authenticated.Group("/users")
		{
			users.GET("/me", userController.GetProfile)
			users.PUT("/me", userController.UpdateProfile)
		}

		events := authenticated.Group("/events")
		{
			events.GET("", eventController.ListEvents)
			events.GET("/:id", eventController.GetEventDetail)
			events.POST("/:id/register", eventController.RegisterIndividual)
			events.DELETE("/:id/register", eventController.Unregister)
			events.POST("/:id/register-team", eventController.RegisterTeam)
			events.PUT("/:id/register-team", eventController.EditTeamRegistration)
			events.DELETE("/:id/register-team", eventController.UnregisterTeam)
			events.POST("/:id/quit-team", eventController.QuitTeam)
			events.GET("/:id/teams", eventController.ListTeams)
		}

		invitations := authenticated.Group("/invitations")
		{
			invitations.GET("", eventController.ListMyInvitations)
			invitations.POST("/:id", eventController.RespondToInvitation)
		}

		teams := authenticated.Group("/teams")
		{
			teams.POST("", teamController.CreateTeam)
			teams.GET("", teamController.ListTeams)
			teams.GET("/:id", teamController.GetTeamDetail)
			teams.PUT("/:id", teamController.UpdateTeam)
			teams.DELETE("/:id", teamController.DeleteTeam)
			teams.POST("/:id/join", teamController.RequestJoin)
			teams.POST("/requests/:id", teamController.ReviewJoinRequest)
			teams.POST("/:id/leave", teamController.LeaveTeam)
			teams.DELETE("/:id/members/:memberId", teamController.RemoveMember)
			teams.PUT("/:id/members/:memberId/role", teamController.UpdateMemberRole)
			teams.POST("/:id/messages", teamController.SendMessage)
			teams.GET("/:id/messages", teamController.ListMessages)
			teams.DELETE("/messages/:id", teamController.DeleteMessage)
			teams.GET("/:id/chat/ws", wsHandler.HandleConnection)
		}

		forum := authenticated.Group("/forum")
		{
			forum.GET("/categories", forumController.ListCategories)
			forum.GET("/posts", forumController.ListPosts)
			forum.POST("/posts", forumController.CreatePost)
			forum.GET("/posts/:id", forumController.GetPostDetail)
			forum.POST("/posts/:id/comments", forumController.CreateComment)
			forum.POST("/posts/:id/vote", forumController.VotePost)
			forum.DELETE("/comments/:id", forumController.DeleteComment)
			forum.POST("/comments/:id/vote", forumController.VoteComment)
		}

		announcements := authenticated.Group("/announcements")
		{
			announcements.GET("", announcementController.ListAnnouncements)
			announcements.GET("/:id", announcementController.GetAnnouncement)
			announcements.POST("/:id/react", announcementController.React)
		}

		notifications := authenticated.Group("/notifications")
		{
			notifications.GET("", notificationController.ListNotifications)
			notifications.POST("/:id/read", notificationController.MarkRead)
			notifications.POST("/read-all", notificationController.MarkAllRead)
		}

		authenticated.GET("/dashboard", dashboardController.GetDashboard)

		// --- Admin routes ---
		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.AdminRequired())
		{
			admin.POST("/events", eventController.CreateEvent)
			admin.DELETE("/events/:id", eventController.DeactivateEvent)
			admin.GET("/events/:id/registrations", eventController.ListRegistrations)
			admin.POST("/announcements", announcementController.CreateAnnouncement)
			admin.DELETE("/announcements/:id", announcementController.DeleteAnnouncement)
		}
	}
}
