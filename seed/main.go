package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/peerlaunch/launchpad_api/seed/seeders"
	"github.com/peerlaunch/launchpad_api/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	driver string
	dsn    string
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using system environment variables")
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "seed",
		Short: "Seed a development database with users, products and discussions",
		Long: `Seeds are idempotent: every row has a stable id and existing rows are skipped.
Seeded accounts use the password ` + seeders.DefaultPassword + `.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&driver, "driver", envDefault("DB_DRIVER", services.DriverSqlite), "database driver: sqlite or postgres")
	root.PersistentFlags().StringVar(&dsn, "db", envDefault("DB_DATABASE", "launchpad.db"), "sqlite path or postgres DSN")

	root.AddCommand(
		seedCommand("all", "Seed everything", (*seeders.MainSeeder).SeedAll),
		seedCommand("users", "Seed users only", (*seeders.MainSeeder).SeedUsersOnly),
		seedCommand("products", "Seed products and follows (needs users)", (*seeders.MainSeeder).SeedProductsOnly),
		seedCommand("discussion", "Seed reviews, comments and likes (needs products)", (*seeders.MainSeeder).SeedDiscussionOnly),
	)
	return root
}

func seedCommand(use, short string, run func(*seeders.MainSeeder) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			if err := run(seeders.NewMainSeeder(db)); err != nil {
				return err
			}
			log.Info().Str("command", use).Msg("Seeding operation completed successfully!")
			return nil
		},
	}
}

func connect() (*gorm.DB, error) {
	db, err := services.OpenDatabase(driver, dsn)
	if err != nil {
		log.Error().Err(err).Str("driver", driver).Msg("Failed to connect to database")
		return nil, err
	}
	if err := services.Migrate(db); err != nil {
		return nil, err
	}
	log.Info().Str("driver", driver).Msg("Connected to database")
	return db, nil
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
