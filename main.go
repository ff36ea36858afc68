// main.go - teamhub API server
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"teamhub/config"
	"teamhub/database"
	"teamhub/handlers"
	"teamhub/logging"
	"teamhub/middleware"
	"teamhub/services"
	"teamhub/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "teamhub",
		Short:         "Team collaboration API: users, projects, posts and reviews",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server (default)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe()
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigrate()
			},
		},
		newTokenCmd(),
	)

	return root
}

func newTokenCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Print a signed bearer token for a user",
		Long:  "Print a signed bearer token for a user. Admin rights come from the user's stored role, not from the token.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid user id %q", args[0])
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = cfg.TokenTTL
			}

			token, err := middleware.GenerateToken(cfg.JWTSecret, uint(id), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to TOKEN_TTL_HOURS)")
	return cmd
}

// bootstrap loads configuration, the logger and the database.
func bootstrap() (config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, nil, err
	}

	log, err := logging.New(logging.Options{Env: cfg.Env, Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return cfg, nil, nil, err
	}

	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		return cfg, log, nil, err
	}
	return cfg, log, db, nil
}

func runMigrate() error {
	_, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	log.Info("database migrations completed")
	return nil
}

func runServe() error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	reviews := services.NewReviewService(db, log)
	users := services.NewUserService(db, reviews, log)
	projects := services.NewProjectService(db, users, reviews, log)
	posts := services.NewPostService(db, users, log)
	h := handlers.New(users, projects, posts, reviews, log)

	limiter := middleware.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	stop := make(chan struct{})
	defer close(stop)
	limiter.StartCleanup(10*time.Minute, stop)

	app := newApp(cfg, h, limiter, log)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	log.Info("HTTP server starting",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
	)
	return app.Listen(":" + cfg.Port)
}

func newApp(cfg config.Config, h *handlers.Handler, limiter *middleware.RateLimiter, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "teamhub",
		ErrorHandler: utils.ErrorHandler(cfg.IsProduction()),
		BodyLimit:    1 * 1024 * 1024, // 1MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))
	app.Use(middleware.RateLimit(limiter))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.Register(app, h, middleware.NewAuth(cfg.JWTSecret, h.Users))

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"error":   "Route not found",
		})
	})

	return app
}
