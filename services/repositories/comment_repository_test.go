package repositories

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/peerlaunch/launchpad_api/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestDeleteTreeOneStatementPerLevel(t *testing.T) {
	db := newTestDB(t)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	// root -> a1, a2 ; a1 -> b1, b2 ; a2 -> b3 ; b1 -> c1
	tree := []struct{ id, parent string }{
		{"root", ""}, {"a1", "root"}, {"a2", "root"},
		{"b1", "a1"}, {"b2", "a1"}, {"b3", "a2"}, {"c1", "b1"},
		{"other", ""},
	}
	for i, n := range tree {
		c := &model.Comment{ID: n.id, OrganizationID: "org", UserID: "u", Content: n.id, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if n.parent != "" {
			parent := n.parent
			c.ParentID = &parent
		}
		if err := db.Create(c).Error; err != nil {
			t.Fatalf("create %s: %v", n.id, err)
		}
	}
	for _, id := range []string{"root", "b3", "c1", "other"} {
		if err := db.Create(&model.CommentLike{ID: "like-" + id, CommentID: id, UserID: "u"}).Error; err != nil {
			t.Fatalf("create like: %v", err)
		}
	}

	var commentDeletes int64
	err := db.Callback().Delete().After("gorm:delete").Register("test:count_comment_deletes", func(tx *gorm.DB) {
		if tx.Statement.Table == "comments" {
			atomic.AddInt64(&commentDeletes, 1)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	deleted, err := NewCommentRepository(db).DeleteTree(context.Background(), "root")
	if err != nil {
		t.Fatalf("DeleteTree: %v", err)
	}
	if deleted != 7 {
		t.Errorf("deleted = %d, want 7", deleted)
	}
	if commentDeletes != 4 {
		t.Errorf("%d comment DELETE statements, want one per level (4)", commentDeletes)
	}

	var remaining []string
	db.Model(&model.Comment{}).Pluck("id", &remaining)
	if len(remaining) != 1 || remaining[0] != "other" {
		t.Errorf("remaining comments = %v, want [other]", remaining)
	}
	var likes []string
	db.Model(&model.CommentLike{}).Pluck("comment_id", &likes)
	if len(likes) != 1 || likes[0] != "other" {
		t.Errorf("remaining likes = %v, want [other]", likes)
	}
}

func TestDeleteTreeLeaf(t *testing.T) {
	db := newTestDB(t)
	if err := db.Create(&model.Comment{ID: "solo", OrganizationID: "org", UserID: "u", Content: "x"}).Error; err != nil {
		t.Fatalf("create: %v", err)
	}

	deleted, err := NewCommentRepository(db).DeleteTree(context.Background(), "solo")
	if err != nil {
		t.Fatalf("DeleteTree: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
}
