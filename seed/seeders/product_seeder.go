package seeders

import (
	"github.com/peerlaunch/launchpad_api/model"
	"gorm.io/gorm"
)

type ProductSeeder struct {
	db *gorm.DB
}

func NewProductSeeder(db *gorm.DB) *ProductSeeder {
	return &ProductSeeder{db: db}
}

var seedProducts = []struct {
	Slug     string
	Name     string
	Tagline  string
	Category string
	Owner    string
}{
	{"shipfast", "ShipFast", "Deploy previews for every branch", "developer-tools", "ada"},
	{"inboxzero", "InboxZero", "Email triage that learns from you", "productivity", "grace"},
	{"plotline", "Plotline", "Dashboards from plain SQL", "analytics", "linus"},
}

// SeedProducts creates the products and has every other seeded user follow them.
func (s *ProductSeeder) SeedProducts() error {
	for _, p := range seedProducts {
		org := &model.Organization{
			ID:       seedID("organization", p.Slug),
			Name:     p.Name,
			Slug:     p.Slug,
			Tagline:  p.Tagline,
			Category: p.Category,
			OwnerID:  seedID("user", p.Owner),
		}
		if err := createIfMissing(s.db, org.ID, org, "product "+p.Slug); err != nil {
			return err
		}

		for _, u := range seedUsers {
			if u.Username == p.Owner {
				continue
			}
			follow := &model.OrganizationFollow{
				ID:             seedID("follow", p.Slug+"/"+u.Username),
				OrganizationID: org.ID,
				UserID:         seedID("user", u.Username),
			}
			if err := createIfMissing(s.db, follow.ID, follow, "follow "+p.Slug+"/"+u.Username); err != nil {
				return err
			}
		}
	}

	// Counters are derived, so they are rebuilt rather than incremented.
	return s.db.Exec(`UPDATE organizations SET follower_count =
		(SELECT COUNT(*) FROM organization_follows f WHERE f.organization_id = organizations.id)`).Error
}
