package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	config "github.com/maheshrc27/postdeck/configs"
	"github.com/maheshrc27/postdeck/internal/api/handlers"
	"github.com/maheshrc27/postdeck/internal/api/middleware"
	"github.com/maheshrc27/postdeck/internal/service"
)

type Services struct {
	Auth      service.AuthService
	Users     service.UserService
	Posts     service.PostService
	Stats     service.StatsService
	Hashtags  service.HashtagService
	Templates service.TemplateService
	ApiKeys   service.ApiKeyService
}

type Options struct {
	AccessLog bool
}

func NewApp(cfg config.Config, svc Services, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: handlers.NewErrorHandler(cfg.IsProduction()),
	})

	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-API-Key",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	app.Get("/health", handlers.Health)

	protected := middleware.NewAuthMiddleware(svc.Auth, svc.ApiKeys, svc.Users).AuthMiddleware()

	api := app.Group("/api")

	auth := handlers.NewAuthHandler(svc.Auth)
	api.Post("/auth/register", auth.Register)
	api.Post("/auth/login", auth.Login)
	api.Post("/auth/refresh", protected, auth.Refresh)

	user := handlers.NewUserHandler(svc.Users)
	api.Get("/users/me", protected, user.GetUserInfo)
	api.Put("/users/me/threads", protected, user.LinkThreads)

	post := handlers.NewPostHandler(svc.Posts)
	stats := handlers.NewStatsHandler(svc.Stats)
	api.Get("/posts", protected, post.ListPosts)
	api.Get("/posts/due", protected, post.DuePosts)
	api.Get("/posts/:id", protected, post.GetPost)
	api.Post("/posts", protected, post.CreatePost)
	api.Put("/posts/:id", protected, post.UpdatePost)
	api.Delete("/posts/:id", protected, post.RemovePost)
	api.Post("/posts/:id/duplicate", protected, post.DuplicatePost)
	api.Put("/posts/:id/status", protected, post.SetStatus)
	api.Get("/posts/:id/stats", protected, stats.StatsHistory)
	api.Get("/posts/:id/stats/latest", protected, stats.LatestStats)
	api.Post("/posts/:id/stats", protected, stats.RecordStats)

	hashtags := handlers.NewHashtagHandler(svc.Hashtags)
	api.Get("/hashtags", protected, hashtags.Popular)

	templates := handlers.NewTemplateHandler(svc.Templates)
	api.Get("/templates", protected, templates.ListTemplates)
	api.Post("/templates", protected, templates.CreateTemplate)
	api.Put("/templates/:id", protected, templates.UpdateTemplate)
	api.Delete("/templates/:id", protected, templates.RemoveTemplate)

	apiKeys := handlers.NewApiKeyHandler(svc.ApiKeys)
	api.Get("/keys", protected, apiKeys.ListKeys)
	api.Post("/keys", protected, apiKeys.CreateApiKey)
	api.Delete("/keys/:id", protected, apiKeys.RemoveAPIKey)

	app.Static("/", cfg.StaticDir)
	app.Use(handlers.NewFallbackHandler(cfg.StaticDir))

	return app
}
