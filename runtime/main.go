package main

import (
	"os"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/peerlaunch/launchpad_api/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded, using process environment")
	}
	setupLogging()

	ctx, err := context.NewCtx(
		&services.MonitoringService{},
		&services.DatabaseService{},
		&services.RedisService{},
		&services.MinIOService{},
		&services.JWTService{},
		&services.RateLimitService{},
		&services.EmailService{},

		&services.AuthService{},
		&services.UserService{},
		&services.MediaService{},
		&services.ProductService{},
		&services.ReviewService{},
		&services.CommentService{},
		&services.ReportService{},
		&services.AnalyticsService{},
		&services.WaitlistService{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure services")
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("Service exited")
		return
	}
}

func setupLogging() {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if strings.EqualFold(os.Getenv("LOG_LEVEL"), "TRACE") {
		level = zerolog.TraceLevel
	}
	zerolog.SetGlobalLevel(level)

	if os.Getenv("ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
