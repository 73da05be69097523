package seeders

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// seedNamespace makes seeded ids stable across runs, so re-seeding skips
// rows that already exist instead of duplicating them.
var seedNamespace = uuid.MustParse("6f1c2b0e-8a57-4c1e-9d0b-3a4e5f607182")

func seedID(kind, key string) string {
	return uuid.NewSHA1(seedNamespace, []byte(kind+":"+key)).String()
}

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll runs all seeders in dependency order.
func (s *MainSeeder) SeedAll() error {
	log.Info().Msg("Starting database seeding...")

	if err := s.SeedUsersOnly(); err != nil {
		return err
	}
	if err := s.SeedProductsOnly(); err != nil {
		return err
	}
	if err := s.SeedDiscussionOnly(); err != nil {
		return err
	}

	log.Info().Msg("Database seeding completed successfully!")
	return nil
}

func (s *MainSeeder) SeedUsersOnly() error {
	if err := NewUserSeeder(s.db).SeedUsers(); err != nil {
		log.Error().Err(err).Msg("User seeding failed")
		return err
	}
	return nil
}

// SeedProductsOnly expects users to be seeded.
func (s *MainSeeder) SeedProductsOnly() error {
	if err := NewProductSeeder(s.db).SeedProducts(); err != nil {
		log.Error().Err(err).Msg("Product seeding failed")
		return err
	}
	return nil
}

// SeedDiscussionOnly expects users and products to be seeded.
func (s *MainSeeder) SeedDiscussionOnly() error {
	if err := NewDiscussionSeeder(s.db).SeedDiscussion(); err != nil {
		log.Error().Err(err).Msg("Discussion seeding failed")
		return err
	}
	return nil
}

// createIfMissing inserts row unless a row with the same id exists.
func createIfMissing(db *gorm.DB, id string, row interface{}, label string) error {
	var count int64
	if err := db.Model(row).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Debug().Str("row", label).Msg("Already exists, skipping")
		return nil
	}
	if err := db.Create(row).Error; err != nil {
		return err
	}
	log.Info().Str("row", label).Msg("Created")
	return nil
}
