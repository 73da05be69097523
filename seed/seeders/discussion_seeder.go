package seeders

import (
	"time"

	"github.com/peerlaunch/launchpad_api/model"
	"gorm.io/gorm"
)

// DiscussionSeeder adds reviews and a threaded comment conversation to the first product.
type DiscussionSeeder struct {
	db *gorm.DB
}

func NewDiscussionSeeder(db *gorm.DB) *DiscussionSeeder {
	return &DiscussionSeeder{db: db}
}

func (s *DiscussionSeeder) SeedDiscussion() error {
	if err := s.seedReviews(); err != nil {
		return err
	}
	return s.seedComments()
}

func (s *DiscussionSeeder) seedReviews() error {
	reviews := []struct {
		Product, Author string
		Rating          int
		Content         string
	}{
		{"shipfast", "grace", 5, "Preview links changed how we do code review."},
		{"shipfast", "margaret", 4, "Great, though cold starts are noticeable."},
		{"inboxzero", "linus", 3, "Useful once it has learned a few weeks of mail."},
	}

	for _, r := range reviews {
		review := &model.Review{
			ID:             seedID("review", r.Product+"/"+r.Author),
			OrganizationID: seedID("organization", r.Product),
			UserID:         seedID("user", r.Author),
			Rating:         r.Rating,
			Content:        r.Content,
		}
		if err := createIfMissing(s.db, review.ID, review, "review "+r.Product+"/"+r.Author); err != nil {
			return err
		}
	}

	return s.db.Exec(`UPDATE organizations SET
		review_count = (SELECT COUNT(*) FROM reviews r WHERE r.organization_id = organizations.id),
		rating = COALESCE((SELECT ROUND(AVG(r.rating)) FROM reviews r WHERE r.organization_id = organizations.id), 0)`).Error
}

func (s *DiscussionSeeder) seedComments() error {
	orgID := seedID("organization", "shipfast")
	base := time.Now().Add(-48 * time.Hour)

	thread := []struct {
		Key, Parent, Author, Content string
	}{
		{"root", "", "grace", "Does this work with monorepos?"},
		{"reply", "root", "ada", "Yes, each package gets its own preview."},
		{"nested", "reply", "grace", "Perfect, trying it today."},
		{"second", "", "linus", "Any plans for self-hosting?"},
	}

	for i, c := range thread {
		comment := &model.Comment{
			ID:             seedID("comment", c.Key),
			OrganizationID: orgID,
			UserID:         seedID("user", c.Author),
			Content:        c.Content,
			CreatedAt:      base.Add(time.Duration(i) * time.Hour),
		}
		if c.Parent != "" {
			parentID := seedID("comment", c.Parent)
			comment.ParentID = &parentID
		}
		if err := createIfMissing(s.db, comment.ID, comment, "comment "+c.Key); err != nil {
			return err
		}
	}

	like := &model.CommentLike{
		ID:        seedID("like", "root/linus"),
		CommentID: seedID("comment", "root"),
		UserID:    seedID("user", "linus"),
	}
	return createIfMissing(s.db, like.ID, like, "like root/linus")
}
