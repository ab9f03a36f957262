package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	config "github.com/maheshrc27/postdeck/configs"
	"github.com/maheshrc27/postdeck/internal/api"
	job "github.com/maheshrc27/postdeck/internal/jobs"
	"github.com/maheshrc27/postdeck/internal/queue"
	"github.com/maheshrc27/postdeck/internal/repository"
	"github.com/maheshrc27/postdeck/internal/service"
	"github.com/maheshrc27/postdeck/pkg/utils"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()
	setupLogger(cfg)

	if cfg.SecretKey == "" {
		if cfg.IsProduction() {
			log.Fatalf("SECRET_KEY must be set in production")
		}
		key, err := utils.GenerateRandomKey(32)
		if err != nil {
			log.Fatalf("Failed to generate secret key: %v", err)
		}
		cfg.SecretKey = key
		slog.Warn("SECRET_KEY is not set, using a random key; tokens will not survive a restart")
	}

	db, repos, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	authService := service.NewAuthService(*cfg, repos.Users)
	userService := service.NewUserService(*cfg, repos.Users)
	postService := service.NewPostService(repos.Posts)
	statsService := service.NewStatsService(repos.Posts, repos.Stats)
	hashtagService := service.NewHashtagService(repos.Hashtags)
	templateService := service.NewTemplateService(repos.Templates)
	apiKeyService := service.NewApiKeyService(repos.ApiKeys)

	app := api.NewApp(*cfg, api.Services{
		Auth:      authService,
		Users:     userService,
		Posts:     postService,
		Stats:     statsService,
		Hashtags:  hashtagService,
		Templates: templateService,
		ApiKeys:   apiKeyService,
	}, api.Options{AccessLog: true})

	var (
		scheduler   *cron.Cron
		asynqClient *asynq.Client
		asynqServer *asynq.Server
	)
	if cfg.Publisher.Enabled {
		threadsService := service.NewThreadsService(*cfg, nil)
		publishService := service.NewPublishService(repos.Posts, userService, threadsService)
		queueW := queue.NewQueue(publishService)

		var enqueuer queue.Enqueuer = queue.NewInlineEnqueuer(queueW)
		if cfg.RedisURI != "" {
			redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
			asynqClient = asynq.NewClient(redisConn)
			enqueuer = queue.NewAsynqEnqueuer(asynqClient)

			asynqServer = asynq.NewServer(redisConn, asynq.Config{
				Concurrency: 10,
			})
			go func() {
				slog.Info("Starting the Asynq server...")
				if err := asynqServer.Run(queueW.ServeMux()); err != nil {
					log.Fatalf("Could not start Asynq server: %v", err)
				}
			}()
		}

		scheduler, err = job.NewDuePostJob(repos.Posts, enqueuer).Schedule(cfg.Publisher.Schedule)
		if err != nil {
			log.Fatalf("Invalid publish schedule %q: %v", cfg.Publisher.Schedule, err)
		}
		slog.Info("publisher enabled", "schedule", cfg.Publisher.Schedule, "redis", cfg.RedisURI != "")
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	slog.Info("Server is running", "port", cfg.Port, "store", cfg.Database.Driver)

	gracefulShutdown(app, db, scheduler, asynqClient, asynqServer)
}

func setupLogger(cfg *config.Config) {
	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))
}

// openStore picks the backing store from STORE_DRIVER. The returned *sql.DB
// is nil for the in-memory store.
func openStore(cfg *config.Config) (*sql.DB, *repository.Repositories, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool := repository.PoolConfig{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		IdleTimeout:  cfg.Database.IdleTimeout,
	}

	var db *sql.DB
	var err error
	switch cfg.Database.Driver {
	case "memory":
		return nil, repository.NewMemoryRepositories(), nil
	case "postgres":
		db, err = repository.OpenDB(ctx, repository.DriverPostgres, cfg.Database.PostgresURI, pool)
	case "sqlite":
		db, err = repository.OpenDB(ctx, repository.DriverSQLite, cfg.Database.SQLitePath, pool)
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, nil, err
	}
	return db, repository.NewSQLRepositories(db), nil
}

func closeDB(db *sql.DB) {
	if db == nil {
		return
	}
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB, scheduler *cron.Cron, client *asynq.Client, server *asynq.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if scheduler != nil {
		scheduler.Stop()
	}
	if server != nil {
		server.Shutdown()
	}
	if client != nil {
		client.Close()
	}

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
