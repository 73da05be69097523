package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/peerlaunch/launchpad_api/dto"
	"github.com/peerlaunch/launchpad_api/model"
	"github.com/peerlaunch/launchpad_api/shared"
	"gorm.io/gorm"
)

type memoryDeduper struct {
	mu   sync.Mutex
	keys map[string]bool
	err  error
}

func (m *memoryDeduper) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keys == nil {
		m.keys = map[string]bool{}
	}
	if m.keys[key] {
		return false, nil
	}
	m.keys[key] = true
	return true, nil
}

func newProductService(t *testing.T, dedupe ImpressionDeduper) (*ProductService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := &ProductService{}
	svc.init(db, dedupe)
	return svc, db
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Launchpad":          "launchpad",
		"  Hello, World!  ":  "hello-world",
		"Ship--It 2.0":       "ship-it-2-0",
		"!!!":                "product",
		"Ünïcode Café":       "n-code-caf",
		"already-slugged-42": "already-slugged-42",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCreateProductSuffixesDuplicateSlugs(t *testing.T) {
	svc, db := newProductService(t, nil)
	owner := createUser(t, db, "owner")
	ctx := context.Background()

	want := []string{"rocket", "rocket-2", "rocket-3"}
	for _, slug := range want {
		p, err := svc.Create(ctx, owner.ID, dto.CreateProductRequest{Name: "Rocket", Category: "tools"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if p.Slug != slug {
			t.Errorf("slug = %q, want %q", p.Slug, slug)
		}
		if p.OwnerID != owner.ID {
			t.Errorf("owner = %q, want %q", p.OwnerID, owner.ID)
		}
	}
}

func TestFollowIsIdempotent(t *testing.T) {
	svc, db := newProductService(t, nil)
	owner := createUser(t, db, "owner")
	fan := createUser(t, db, "fan")
	org := createOrganization(t, db, "acme", owner.ID)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		resp, err := svc.Follow(ctx, fan.ID, org.ID)
		if err != nil {
			t.Fatalf("follow #%d: %v", i+1, err)
		}
		if !resp.Following || resp.FollowerCount != 1 {
			t.Errorf("follow #%d = %+v, want following with 1 follower", i+1, resp)
		}
	}

	var events int64
	db.Model(&model.AnalyticsEvent{}).Where("event_type = ?", shared.EventTypeFollow).Count(&events)
	if events != 1 {
		t.Errorf("%d follow events recorded, want 1", events)
	}

	for i := 0; i < 2; i++ {
		resp, err := svc.Unfollow(ctx, fan.ID, org.ID)
		if err != nil {
			t.Fatalf("unfollow #%d: %v", i+1, err)
		}
		if resp.Following || resp.FollowerCount != 0 {
			t.Errorf("unfollow #%d = %+v, want not following with 0 followers", i+1, resp)
		}
	}

	_, err := svc.Follow(ctx, fan.ID, "missing")
	assertStatus(t, err, http.StatusNotFound)
}

func TestListProductsMarksFollowed(t *testing.T) {
	svc, db := newProductService(t, nil)
	owner := createUser(t, db, "owner")
	fan := createUser(t, db, "fan")
	createOrganization(t, db, "one", owner.ID)
	two := createOrganization(t, db, "two", owner.ID)
	ctx := context.Background()

	if _, err := svc.Follow(ctx, fan.ID, two.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}

	page, err := svc.List(ctx, dto.ListProductsRequest{}, fan.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("got %d products, want 2", len(page.Items))
	}
	for _, p := range page.Items {
		if p.IsFollowing != (p.ID == two.ID) {
			t.Errorf("%s isFollowing = %v", p.Slug, p.IsFollowing)
		}
	}

	filtered, err := svc.List(ctx, dto.ListProductsRequest{Search: "TW"}, "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(filtered.Items) != 1 || filtered.Items[0].ID != two.ID {
		t.Errorf("search returned %+v, want only %s", filtered.Items, two.ID)
	}
}

func TestUpdateProductOwnerOnly(t *testing.T) {
	svc, db := newProductService(t, nil)
	owner := createUser(t, db, "owner")
	org := createOrganization(t, db, "acme", owner.ID)
	ctx := context.Background()

	tagline := "New tagline"
	_, err := svc.Update(ctx, "intruder", dto.UpdateProductRequest{OrganizationID: org.ID, Tagline: &tagline})
	assertStatus(t, err, http.StatusForbidden)

	resp, err := svc.Update(ctx, owner.ID, dto.UpdateProductRequest{OrganizationID: org.ID, Tagline: &tagline})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.Tagline != tagline {
		t.Errorf("tagline = %q, want %q", resp.Tagline, tagline)
	}
}

func TestToggleImpressionDedupesPerViewerPerDay(t *testing.T) {
	dedupe := &memoryDeduper{}
	svc, db := newProductService(t, dedupe)
	owner := createUser(t, db, "owner")
	org := createOrganization(t, db, "acme", owner.ID)
	ctx := context.Background()

	day := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day }

	first, err := svc.ToggleImpression(ctx, "viewer", "10.0.0.1", org.ID)
	if err != nil {
		t.Fatalf("first impression: %v", err)
	}
	if !first.Counted || first.Impressions != 1 {
		t.Errorf("first = %+v, want counted with 1 impression", first)
	}

	again, err := svc.ToggleImpression(ctx, "viewer", "10.0.0.1", org.ID)
	if err != nil {
		t.Fatalf("repeat impression: %v", err)
	}
	if again.Counted || again.Impressions != 1 {
		t.Errorf("repeat = %+v, want not counted with 1 impression", again)
	}

	anon, err := svc.ToggleImpression(ctx, "", "10.0.0.1", org.ID)
	if err != nil {
		t.Fatalf("anonymous impression: %v", err)
	}
	if !anon.Counted || anon.Impressions != 2 {
		t.Errorf("anonymous = %+v, want counted with 2 impressions", anon)
	}

	svc.now = func() time.Time { return day.Add(24 * time.Hour) }
	nextDay, err := svc.ToggleImpression(ctx, "viewer", "10.0.0.1", org.ID)
	if err != nil {
		t.Fatalf("next day impression: %v", err)
	}
	if !nextDay.Counted || nextDay.Impressions != 3 {
		t.Errorf("next day = %+v, want counted with 3 impressions", nextDay)
	}

	var views int64
	db.Model(&model.AnalyticsEvent{}).Where("event_type = ?", shared.EventTypeView).Count(&views)
	if views != 4 {
		t.Errorf("%d view events, want one per call (4)", views)
	}
}

func TestToggleImpressionCountsWhenDedupeFails(t *testing.T) {
	svc, db := newProductService(t, &memoryDeduper{err: errors.New("redis down")})
	owner := createUser(t, db, "owner")
	org := createOrganization(t, db, "acme", owner.ID)
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		resp, err := svc.ToggleImpression(ctx, "viewer", "", org.ID)
		if err != nil {
			t.Fatalf("impression %d: %v", i, err)
		}
		if !resp.Counted || resp.Impressions != int64(i) {
			t.Errorf("impression %d = %+v", i, resp)
		}
	}
}

func TestGetBySlugAndSyncMetadata(t *testing.T) {
	svc, db := newProductService(t, nil)
	owner := createUser(t, db, "owner")
	fan := createUser(t, db, "fan")
	org := createOrganization(t, db, "acme", owner.ID)
	ctx := context.Background()

	for i, rating := range []int{5, 4} {
		r := &model.Review{ID: fmt.Sprintf("review-%d", i), OrganizationID: org.ID, UserID: fmt.Sprintf("reviewer-%d", i), Rating: rating, Content: "Solid"}
		if err := db.Create(r).Error; err != nil {
			t.Fatalf("create review: %v", err)
		}
	}
	if err := db.Create(&model.OrganizationFollow{ID: "f1", OrganizationID: org.ID, UserID: fan.ID}).Error; err != nil {
		t.Fatalf("create follow: %v", err)
	}

	detail, err := svc.GetBySlug(ctx, "acme", fan.ID)
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if !detail.IsFollowing {
		t.Errorf("fan should be following")
	}
	if detail.ReviewStats.Count != 2 || detail.ReviewStats.Average != 4.5 {
		t.Errorf("review stats = %+v, want 2 reviews averaging 4.5", detail.ReviewStats)
	}
	if detail.ReviewStats.Distribution[5] != 1 || detail.ReviewStats.Distribution[1] != 0 {
		t.Errorf("distribution = %v", detail.ReviewStats.Distribution)
	}
	if detail.Owner == nil || detail.Owner.ID != owner.ID {
		t.Errorf("owner = %+v", detail.Owner)
	}

	_, err = svc.SyncOrganizationMetadata(ctx, fan.ID, org.ID)
	assertStatus(t, err, http.StatusForbidden)

	synced, err := svc.SyncOrganizationMetadata(ctx, owner.ID, org.ID)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if synced.Rating != 5 || synced.ReviewCount != 2 || synced.FollowerCount != 1 {
		t.Errorf("synced = rating %d, reviews %d, followers %d; want 5, 2, 1", synced.Rating, synced.ReviewCount, synced.FollowerCount)
	}

	_, err = svc.GetBySlug(ctx, "missing", "")
	assertStatus(t, err, http.StatusNotFound)
}
