package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/sumire/leaveportal/internal/api"
	"github.com/sumire/leaveportal/internal/config"
	"github.com/sumire/leaveportal/internal/domain"
	"github.com/sumire/leaveportal/internal/guard"
	"github.com/sumire/leaveportal/internal/handler"
	"github.com/sumire/leaveportal/internal/notify"
	"github.com/sumire/leaveportal/internal/session"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("connect session store: %w", err)
	}

	slog.Info("session store connected")

	sessions := session.NewStore(rdb, "session", cfg.SessionTTL)
	apiClient := api.New(cfg.APIBaseURL)
	manager := notify.NewManager(cfg.AMQPURL, apiClient, slog.Default())
	defer manager.CloseAll()

	g := guard.New(sessions, cfg.SessionCookie)
	authHandler := handler.NewAuthHandler(apiClient, sessions, manager, cfg.SessionCookie, cfg.SessionTTL)
	userHandler := handler.NewUserHandler(apiClient)
	leaveHandler := handler.NewLeaveHandler(apiClient)
	notifHandler := handler.NewNotificationHandler(manager)
	shellHandler := handler.NewShellHandler()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	e.Validator = handler.NewAppValidator()

	e.Use(middleware.RequestID())
	e.Use(handler.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderContentType},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public routes: an authenticated browser is redirected to its role home.
	auth := e.Group("/auth", g.Public())
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register)

	e.POST("/logout", authHandler.Logout)

	// Protected shell.
	app := e.Group("/app", g.Private())
	app.GET("/me", authHandler.Me)
	app.GET("/menu", shellHandler.Menu)
	app.GET("/notifications", notifHandler.List)
	app.POST("/notifications/:id/read", notifHandler.MarkRead)
	app.POST("/notifications/:id/toggle", notifHandler.ToggleExpand)
	app.GET("/leaves", leaveHandler.UserLeaves)
	app.GET("/leaves/records", leaveHandler.Records)
	app.GET("/settings", leaveHandler.Profile)
	app.PATCH("/settings", leaveHandler.UpdateProfile)
	app.PATCH("/settings/password", leaveHandler.UpdatePassword)

	admin := app.Group("/admin", g.RequireRole(domain.RoleAdmin))
	admin.GET("/users", userHandler.List)
	admin.PATCH("/users/:id", userHandler.Update)
	admin.DELETE("/users/:id", userHandler.Delete)
	admin.POST("/users/delete", userHandler.DeleteMany)
	admin.GET("/leave-settings", leaveHandler.Settings)
	admin.POST("/leave-settings", leaveHandler.CreateSetting)
	admin.PATCH("/leave-settings/:id", leaveHandler.UpdateSetting)
	admin.GET("/user-leaves", leaveHandler.UserLeaves)
	admin.PATCH("/user-leaves/:id", leaveHandler.UpdateUserLeave)
	admin.DELETE("/user-leaves/:id", leaveHandler.DeleteUserLeave)

	// Printable views run under the stricter guard that wipes expired sessions.
	printViews := e.Group("/app/print", g.PrivatePrint())
	printViews.GET("/leave-card", leaveHandler.Report)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
