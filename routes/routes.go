package routes

import (
	"net/http"
	"time"

	"finbook/handlers"
	"finbook/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handlers the router wires up.
type HandlerBundle struct {
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Finance      *handlers.FinanceHandler
	Notification *handlers.NotificationHandler
}

// RegisterAuthRoutes registers the public registration and login endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.Auth.RegisterHandler)
		api.POST("/login", hb.Auth.LoginHandler)
		api.GET("/verify-email", hb.Auth.VerifyEmailHandler)
	}
}

// RegisterUserRoutes registers profile and device endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.Use(middleware.JWTAuthUserMiddleware())
		api.GET("/me", hb.User.GetProfileHandler)
		api.POST("/devices", hb.User.RegisterDeviceHandler)
		api.POST("/verify-email/resend", hb.Auth.ResendVerificationHandler)
	}
}

// RegisterFinanceRoutes registers the card, budget and transaction API.
func RegisterFinanceRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api")
	{
		api.Use(middleware.JWTAuthUserMiddleware())
		api.POST("/cards", hb.Finance.CreateCardHandler)
		api.GET("/cards", hb.Finance.ListCardsHandler)
		api.DELETE("/cards/:id", hb.Finance.DeleteCardHandler)
		api.POST("/budgets", hb.Finance.CreateBudgetHandler)
		api.GET("/budgets", hb.Finance.ListBudgetsHandler)
		api.POST("/transactions", hb.Finance.CreateTransactionHandler)
		api.GET("/transactions", hb.Finance.ListTransactionsHandler)
	}
}

// RegisterNotificationRoutes registers the notification log and test-send
// endpoints.
func RegisterNotificationRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/notifications")
	{
		api.Use(middleware.JWTAuthUserMiddleware())
		api.GET("", hb.Notification.ListNotificationsHandler)
		api.GET("/unread-count", hb.Notification.UnreadCountHandler)
		api.PATCH("/:id/read", hb.Notification.MarkReadHandler)
		api.POST("/test-push", hb.Notification.TestPushHandler)
		api.POST("/test-email", hb.Notification.TestEmailHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Finbook"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterFinanceRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
	RegisterHealthRoute(r)
}
