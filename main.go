package main

import (
	"flag"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"socialhub/bootstrap"
	"socialhub/config"
	"socialhub/database"
	_ "socialhub/docs"
	"socialhub/internal/engine"
	"socialhub/internal/handlers"
	"socialhub/internal/realtime"
	"socialhub/internal/repository"
	"socialhub/internal/storage"
	"socialhub/routes"
)

// @title        SocialHub API
// @version      1.0
// @description  Social feed with real-time like/comment fan-out over WebSocket.
// @BasePath     /api
// @securityDefinitions.apikey BearerAuth
// @in           header
// @name         Authorization
func main() {
	useMem := flag.Bool("mem", false, "run on the in-memory store (no MongoDB)")
	flag.Parse()

	cfg := config.LoadConfig()
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	var (
		store engine.Store
		users interface {
			engine.Users
			handlers.UserStore
		}
	)
	if *useMem {
		mem := repository.NewMemStore()
		store = mem
		users = mem
		log.Warn().Msg("running on the in-memory store; data is not persisted")
	} else {
		client, err := database.ConnectMongo(cfg.MongoURI)
		if err != nil {
			log.Fatal().Err(err).Msg("mongodb connection failed")
		}
		defer func() {
			if err := database.DisconnectMongo(client); err != nil {
				log.Error().Err(err).Msg("mongodb disconnect failed")
			}
		}()

		db := client.Database(cfg.MongoDB)
		if err := bootstrap.EnsureUserIndexes(db); err != nil {
			log.Fatal().Err(err).Msg("ensure user indexes failed")
		}
		if err := bootstrap.EnsurePostIndexes(db); err != nil {
			log.Fatal().Err(err).Msg("ensure post indexes failed")
		}

		store = repository.NewPostStore(db)
		users = repository.NewUserStore(db)
		log.Info().Str("db", cfg.MongoDB).Msg("connected to MongoDB")
	}

	media, err := storage.NewMediaStore(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("media store init failed")
	}

	hub := realtime.NewHub(log)
	eng := engine.New(store, users, hub, log)

	app := fiber.New(fiber.Config{AppName: "SocialHub"})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	routes.Register(app, routes.Deps{
		Auth:      &handlers.AuthHandler{Users: users, Media: media, Secret: cfg.JWTSecret},
		Posts:     &handlers.PostHandler{Engine: eng, Media: media},
		Hub:       hub,
		Secret:    cfg.JWTSecret,
		UploadDir: cfg.UploadDir,
	})

	log.Info().Str("port", cfg.Port).Msg("listening")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
