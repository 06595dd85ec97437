// File: finbook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finbook/config"
	"finbook/cron"
	"finbook/database"
	budgetRepoPkg "finbook/database/repository/budget"
	cardRepoPkg "finbook/database/repository/card"
	notificationRepoPkg "finbook/database/repository/notification"
	transactionRepoPkg "finbook/database/repository/transaction"
	userRepoPkg "finbook/database/repository/user"
	"finbook/handlers"
	"finbook/middleware"
	"finbook/routes"
	"finbook/services/notification"
	"finbook/services/notification/templates"
	"finbook/services/reminder"
	"finbook/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.FirebaseInit()

	mailer := utils.NewMailer(
		config.AppConfig.SendGridAPIKey,
		config.AppConfig.EmailFrom,
		config.AppConfig.EmailFromName,
	)
	if mailer == nil {
		logger.Sugar().Info("main: no email provider key configured, email channel disabled")
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	cardRepo := cardRepoPkg.NewMongoCardRepo()
	budgetRepo := budgetRepoPkg.NewMongoBudgetRepo()
	transactionRepo := transactionRepoPkg.NewMongoTransactionRepo()
	notificationRepo := notificationRepoPkg.NewMongoNotificationRepo()

	// notification engine wiring. Engines are built per scan batch and per
	// request so their caches stay scoped to one run.
	registry := templates.NewRegistry(config.AppConfig.AppBaseURL)
	dedup := notification.NewDedupStore(notificationRepo, config.AppConfig.NotificationWindow)
	pushSender := &notification.FCMPushSender{Client: utils.FCMClient}
	newEngine := func() notification.Engine {
		var email notification.EmailSender
		if mailer != nil {
			email = mailer
		}
		return notification.NewEngine(userRepo, notificationRepo, dedup, pushSender, email, registry)
	}

	// scheduled reminder scans.
	cron.InitReminderWorker(cron.ScanDeps{
		Producers: []reminder.Producer{
			&reminder.CardScanner{Cards: cardRepo, Transactions: transactionRepo},
			&reminder.BudgetScanner{Budgets: budgetRepo, DefaultThresholds: config.AppConfig.BudgetThresholds},
		},
		NewEngine: newEngine,
	})

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		Auth:         handlers.NewAuthHandler(userRepo, mailer),
		User:         handlers.NewUserHandler(userRepo),
		Finance:      handlers.NewFinanceHandler(cardRepo, budgetRepo, transactionRepo),
		Notification: handlers.NewNotificationHandler(newEngine, notificationRepo, utils.GetCacheClient()),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
