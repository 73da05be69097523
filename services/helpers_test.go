package services

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/peerlaunch/launchpad_api/model"
	"gorm.io/gorm"
)

var testDBSeq int64

// newTestDB opens a private in-memory SQLite database with the schema applied.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, atomic.AddInt64(&testDBSeq, 1))

	db, err := OpenDatabase(DriverSqlite, dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		ID:       "user-" + username,
		Email:    username + "@example.com",
		Username: username,
		Name:     strings.ToUpper(username[:1]) + username[1:],
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func createOrganization(t *testing.T, db *gorm.DB, slug, ownerID string) *model.Organization {
	t.Helper()
	org := &model.Organization{
		ID:       "org-" + slug,
		Name:     slug,
		Slug:     slug,
		Category: "tools",
		OwnerID:  ownerID,
	}
	if err := db.Create(org).Error; err != nil {
		t.Fatalf("create organization %s: %v", slug, err)
	}
	return org
}

// createComment inserts a comment with an explicit timestamp so ordering is deterministic.
func createComment(t *testing.T, db *gorm.DB, id, orgID, userID string, parentID *string, at time.Time) *model.Comment {
	t.Helper()
	c := &model.Comment{
		ID:             id,
		OrganizationID: orgID,
		UserID:         userID,
		ParentID:       parentID,
		Content:        "comment " + id,
		CreatedAt:      at,
		UpdatedAt:      at,
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("create comment %s: %v", id, err)
	}
	return c
}

func strPtr(s string) *string {
	return &s
}

var testBaseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
