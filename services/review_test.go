package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/peerlaunch/launchpad_api/dto"
	"github.com/peerlaunch/launchpad_api/model"
	"gorm.io/gorm"
)

func newReviewService(t *testing.T) (*ReviewService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := &ReviewService{}
	svc.init(db)
	return svc, db
}

func reloadOrganization(t *testing.T, db *gorm.DB, id string) *model.Organization {
	t.Helper()
	var org model.Organization
	if err := db.First(&org, "id = ?", id).Error; err != nil {
		t.Fatalf("reload organization: %v", err)
	}
	return &org
}

func TestReviewLifecycleRecomputesRating(t *testing.T) {
	svc, db := newReviewService(t)
	owner := createUser(t, db, "owner")
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	org := createOrganization(t, db, "acme", owner.ID)
	ctx := context.Background()

	first, err := svc.Create(ctx, alice.ID, dto.CreateReviewRequest{OrganizationID: org.ID, Rating: 5, Content: "great"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.User == nil || first.User.Username != "alice" {
		t.Errorf("author = %+v, want alice", first.User)
	}
	if _, err := svc.Create(ctx, bob.ID, dto.CreateReviewRequest{OrganizationID: org.ID, Rating: 2, Content: "meh"}); err != nil {
		t.Fatalf("create second: %v", err)
	}

	got := reloadOrganization(t, db, org.ID)
	// (5+2)/2 = 3.5 rounds to 4
	if got.Rating != 4 || got.ReviewCount != 2 {
		t.Errorf("rating=%d count=%d, want 4 and 2", got.Rating, got.ReviewCount)
	}

	one := 1
	if _, err := svc.Update(ctx, alice.ID, dto.UpdateReviewRequest{ReviewID: first.ID, Rating: &one}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got = reloadOrganization(t, db, org.ID)
	// (1+2)/2 = 1.5 rounds to 2
	if got.Rating != 2 {
		t.Errorf("rating after update = %d, want 2", got.Rating)
	}

	var reviews []model.Review
	db.Find(&reviews)
	for _, r := range reviews {
		if _, err := svc.Delete(ctx, r.UserID, r.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
	}
	got = reloadOrganization(t, db, org.ID)
	if got.Rating != 0 || got.ReviewCount != 0 {
		t.Errorf("rating=%d count=%d after deleting everything, want 0 and 0", got.Rating, got.ReviewCount)
	}
}

func TestCreateReviewTwiceConflicts(t *testing.T) {
	svc, db := newReviewService(t)
	alice := createUser(t, db, "alice")
	org := createOrganization(t, db, "acme", alice.ID)
	ctx := context.Background()

	req := dto.CreateReviewRequest{OrganizationID: org.ID, Rating: 4, Content: "nice"}
	if _, err := svc.Create(ctx, alice.ID, req); err != nil {
		t.Fatalf("first review: %v", err)
	}
	_, err := svc.Create(ctx, alice.ID, req)
	assertStatus(t, err, http.StatusConflict)
}

func TestReviewChangesRequireAuthor(t *testing.T) {
	svc, db := newReviewService(t)
	alice := createUser(t, db, "alice")
	org := createOrganization(t, db, "acme", alice.ID)
	ctx := context.Background()

	review, err := svc.Create(ctx, alice.ID, dto.CreateReviewRequest{OrganizationID: org.ID, Rating: 4, Content: "nice"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Delete(ctx, "mallory", review.ID)
	assertStatus(t, err, http.StatusForbidden)

	content := "changed"
	_, err = svc.Update(ctx, "mallory", dto.UpdateReviewRequest{ReviewID: review.ID, Content: &content})
	assertStatus(t, err, http.StatusForbidden)

	_, err = svc.Delete(ctx, alice.ID, "missing")
	assertStatus(t, err, http.StatusNotFound)
}

func TestListReviewsPaginates(t *testing.T) {
	svc, db := newReviewService(t)
	owner := createUser(t, db, "owner")
	org := createOrganization(t, db, "acme", owner.ID)
	ctx := context.Background()

	for _, name := range []string{"a1", "a2", "a3"} {
		u := createUser(t, db, name)
		if _, err := svc.Create(ctx, u.ID, dto.CreateReviewRequest{OrganizationID: org.ID, Rating: 3, Content: "ok"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	page, err := svc.List(ctx, dto.ListReviewsRequest{OrganizationID: org.ID, Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 2 || !page.HasMore {
		t.Fatalf("first page = %d items hasMore=%v, want 2 and true", len(page.Items), page.HasMore)
	}

	rest, err := svc.List(ctx, dto.ListReviewsRequest{OrganizationID: org.ID, Limit: 2, Cursor: page.NextCursor})
	if err != nil {
		t.Fatalf("list rest: %v", err)
	}
	if len(rest.Items) != 1 || rest.HasMore {
		t.Fatalf("second page = %d items hasMore=%v, want 1 and false", len(rest.Items), rest.HasMore)
	}
	for _, it := range page.Items {
		if it.ID == rest.Items[0].ID {
			t.Errorf("review %s appears on both pages", it.ID)
		}
	}
}
