package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/portfolio-backend/api"
	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded, using process environment")
	}

	env := config.New()
	cfg, err := config.Load(env)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	setupLogger(cfg.Log)

	log.Info().Str("dbType", cfg.Database.Type).Msg("Initializing app...")

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	// One-shot tooling modes
	if config.GetBool(env, "GENERATE_MODELS", false) {
		if err := models.GenerateModels(db, "./generated"); err != nil {
			log.Fatal().Err(err).Msg("Model generation failed")
		}
		return
	}
	if config.GetBool(env, "GENERATE_COLUMN_REPORT", false) {
		if _, err := models.GenerateColumnMismatchReport(db); err != nil {
			log.Fatal().Err(err).Msg("Column report failed")
		}
		return
	}

	if err := models.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
	store := database.New(db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := buildDependencies(ctx, cfg, store)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	if err := auth.SeedAdmin(ctx, store.UserRepo(), cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("Error seeding admin user")
	}

	server := api.NewServer(cfg.Server, deps)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		return server.ShutdownGracefully(shutdownTimeout)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Server stopped with error")
	}
	log.Info().Msg("Server stopped")
}

// buildDependencies wires the token codec, notifications and optional AWS-backed services.
func buildDependencies(ctx context.Context, cfg config.Config, store database.Database) (api.Dependencies, error) {
	secret := cfg.Auth.JWTSecret
	needsAWS := cfg.Auth.JWTSecretParameter != "" || cfg.Storage.S3Bucket != ""

	deps := api.Dependencies{
		Database: store,
		Notifier: services.NewContactNotifier(cfg.Notify),
	}

	if needsAWS {
		awsCfg, err := services.LoadAWSConfig(ctx)
		if err != nil {
			return api.Dependencies{}, err
		}

		if cfg.Auth.JWTSecretParameter != "" {
			secret, err = services.NewSecretStore(awsCfg).Get(ctx, cfg.Auth.JWTSecretParameter)
			if err != nil {
				return api.Dependencies{}, err
			}
			log.Info().Str("parameter", cfg.Auth.JWTSecretParameter).Msg("Loaded signing secret from SSM")
		}

		if cfg.Storage.S3Bucket != "" {
			deps.Images = services.NewS3ImageStore(awsCfg, cfg.Storage)
			log.Info().Str("bucket", cfg.Storage.S3Bucket).Msg("Image uploads enabled")
		}
	}

	tokens, err := auth.NewTokenCodec(secret, cfg.Auth.TokenTTL)
	if err != nil {
		return api.Dependencies{}, err
	}
	deps.Tokens = tokens
	deps.Authenticator = auth.NewAuthenticator(store.UserRepo(), tokens)

	return deps, nil
}

func setupLogger(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if strings.EqualFold(cfg.Format, "console") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
