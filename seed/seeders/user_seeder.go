package seeders

import (
	"github.com/peerlaunch/launchpad_api/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "Launchpad123!"

type UserSeeder struct {
	db *gorm.DB
}

func NewUserSeeder(db *gorm.DB) *UserSeeder {
	return &UserSeeder{db: db}
}

var seedUsers = []struct {
	Username string
	Name     string
}{
	{"ada", "Ada Maker"},
	{"grace", "Grace Builder"},
	{"linus", "Linus Shipper"},
	{"margaret", "Margaret Reviewer"},
}

func (s *UserSeeder) SeedUsers() error {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	for _, u := range seedUsers {
		user := &model.User{
			ID:       seedID("user", u.Username),
			Email:    u.Username + "@launchpad.dev",
			Username: u.Username,
			Name:     u.Name,
			Password: string(hash),
		}
		if err := createIfMissing(s.db, user.ID, user, "user "+u.Username); err != nil {
			return err
		}
	}
	return nil
}
