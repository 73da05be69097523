package services

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/peerlaunch/launchpad_api/dto"
	"github.com/peerlaunch/launchpad_api/model"
	"github.com/peerlaunch/launchpad_api/shared"
	"gorm.io/gorm"
)

func newCommentService(t *testing.T) (*CommentService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := &CommentService{}
	svc.init(db)
	return svc, db
}

func TestListCommentsPaginatesTopLevel(t *testing.T) {
	svc, db := newCommentService(t)
	author := createUser(t, db, "alice")
	org := createOrganization(t, db, "acme", author.ID)

	for i := 0; i < 15; i++ {
		createComment(t, db, fmt.Sprintf("c%02d", i), org.ID, author.ID, nil, testBaseTime.Add(time.Duration(i)*time.Minute))
	}

	ctx := context.Background()
	first, err := svc.ListComments(ctx, dto.ListCommentsRequest{OrganizationID: org.ID}, "")
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(first.Items) != 10 {
		t.Fatalf("first page size = %d, want 10", len(first.Items))
	}
	if !first.HasMore || first.NextCursor == nil {
		t.Fatalf("first page should report more results, got hasMore=%v cursor=%v", first.HasMore, first.NextCursor)
	}
	if first.Items[0].ID != "c14" || first.Items[9].ID != "c05" {
		t.Errorf("first page spans %s..%s, want c14..c05", first.Items[0].ID, first.Items[9].ID)
	}
	if *first.NextCursor != "c05" {
		t.Errorf("next cursor = %s, want c05", *first.NextCursor)
	}

	second, err := svc.ListComments(ctx, dto.ListCommentsRequest{OrganizationID: org.ID, Cursor: first.NextCursor}, "")
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(second.Items) != 5 {
		t.Fatalf("second page size = %d, want 5", len(second.Items))
	}
	if second.HasMore || second.NextCursor != nil {
		t.Errorf("second page should be the last one")
	}
	if second.Items[0].ID != "c04" || second.Items[4].ID != "c00" {
		t.Errorf("second page spans %s..%s, want c04..c00", second.Items[0].ID, second.Items[4].ID)
	}
}

func TestListCommentsUnknownCursorServesFirstPage(t *testing.T) {
	svc, db := newCommentService(t)
	author := createUser(t, db, "alice")
	org := createOrganization(t, db, "acme", author.ID)
	createComment(t, db, "only", org.ID, author.ID, nil, testBaseTime)

	page, err := svc.ListComments(context.Background(), dto.ListCommentsRequest{OrganizationID: org.ID, Cursor: strPtr("missing")}, "")
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "only" {
		t.Fatalf("expected the first page, got %+v", page.Items)
	}
}

func TestListCommentsBuildsReplyTree(t *testing.T) {
	svc, db := newCommentService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	org := createOrganization(t, db, "acme", alice.ID)

	createComment(t, db, "A", org.ID, alice.ID, nil, testBaseTime)
	createComment(t, db, "B", org.ID, bob.ID, strPtr("A"), testBaseTime.Add(time.Minute))
	createComment(t, db, "B2", org.ID, alice.ID, strPtr("A"), testBaseTime.Add(2*time.Minute))
	createComment(t, db, "C", org.ID, alice.ID, strPtr("B"), testBaseTime.Add(3*time.Minute))

	page, err := svc.ListComments(context.Background(), dto.ListCommentsRequest{OrganizationID: org.ID}, "")
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("top-level count = %d, want 1 (replies must not appear at the top)", len(page.Items))
	}

	a := page.Items[0]
	if len(a.Replies) != 2 {
		t.Fatalf("A has %d replies, want 2", len(a.Replies))
	}
	if a.Replies[0].ID != "B2" || a.Replies[1].ID != "B" {
		t.Errorf("replies ordered %s,%s, want newest first B2,B", a.Replies[0].ID, a.Replies[1].ID)
	}

	b := a.Replies[1]
	if len(b.Replies) != 1 || b.Replies[0].ID != "C" {
		t.Fatalf("B replies = %+v, want [C]", b.Replies)
	}
	c := b.Replies[0]
	if c.Replies == nil || len(c.Replies) != 0 {
		t.Errorf("leaf replies must be an empty slice, got %#v", c.Replies)
	}
	if b.User == nil || b.User.Username != "bob" {
		t.Errorf("B author = %+v, want bob", b.User)
	}
}

func TestListCommentsLikeState(t *testing.T) {
	svc, db := newCommentService(t)
	alice := createUser(t, db, "alice")
	org := createOrganization(t, db, "acme", alice.ID)
	createComment(t, db, "A", org.ID, alice.ID, nil, testBaseTime)

	for _, u := range []string{"u1", "u2", "viewer"} {
		if err := db.Create(&model.CommentLike{ID: "like-" + u, CommentID: "A", UserID: u}).Error; err != nil {
			t.Fatalf("create like: %v", err)
		}
	}

	ctx := context.Background()
	page, err := svc.ListComments(ctx, dto.ListCommentsRequest{OrganizationID: org.ID}, "viewer")
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if got := page.Items[0].LikeCount; got != 3 {
		t.Errorf("likeCount = %d, want 3", got)
	}
	if !page.Items[0].HasLiked {
		t.Errorf("hasLiked should be true for a viewer who liked")
	}

	anon, err := svc.ListComments(ctx, dto.ListCommentsRequest{OrganizationID: org.ID}, "")
	if err != nil {
		t.Fatalf("ListComments anonymous: %v", err)
	}
	if anon.Items[0].HasLiked {
		t.Errorf("hasLiked must be false without a viewer")
	}
}

func TestListCommentsEmptyOrganization(t *testing.T) {
	svc, _ := newCommentService(t)

	page, err := svc.ListComments(context.Background(), dto.ListCommentsRequest{OrganizationID: "nope"}, "")
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if page.Items == nil || len(page.Items) != 0 || page.HasMore || page.NextCursor != nil {
		t.Fatalf("want empty page, got %+v", page)
	}
}

func TestListCommentsDepthCeiling(t *testing.T) {
	svc, db := newCommentService(t)
	svc.maxDepth = 1
	alice := createUser(t, db, "alice")
	org := createOrganization(t, db, "acme", alice.ID)

	createComment(t, db, "A", org.ID, alice.ID, nil, testBaseTime)
	createComment(t, db, "B", org.ID, alice.ID, strPtr("A"), testBaseTime.Add(time.Minute))
	createComment(t, db, "C", org.ID, alice.ID, strPtr("B"), testBaseTime.Add(2*time.Minute))

	page, err := svc.ListComments(context.Background(), dto.ListCommentsRequest{OrganizationID: org.ID}, "")
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	b := page.Items[0].Replies[0]
	if len(b.Replies) != 0 {
		t.Errorf("depth 1 should stop below B, got %d replies", len(b.Replies))
	}
}

func TestListCommentsIgnoresDetachedCycle(t *testing.T) {
	svc, db := newCommentService(t)
	alice := createUser(t, db, "alice")
	org := createOrganization(t, db, "acme", alice.ID)

	createComment(t, db, "A", org.ID, alice.ID, nil, testBaseTime)
	createComment(t, db, "B", org.ID, alice.ID, strPtr("A"), testBaseTime.Add(time.Minute))
	createComment(t, db, "C", org.ID, alice.ID, strPtr("B"), testBaseTime.Add(2*time.Minute))
	// Re-pointing D at E leaves D and E in a cycle no root reaches.
	createComment(t, db, "D", org.ID, alice.ID, strPtr("C"), testBaseTime.Add(3*time.Minute))
	createComment(t, db, "E", org.ID, alice.ID, strPtr("D"), testBaseTime.Add(4*time.Minute))
	if err := db.Model(&model.Comment{}).Where("id = ?", "D").Update("parent_id", "E").Error; err != nil {
		t.Fatalf("make cycle: %v", err)
	}

	done := make(chan *dto.CommentPage, 1)
	go func() {
		page, err := svc.ListComments(context.Background(), dto.ListCommentsRequest{OrganizationID: org.ID}, "")
		if err != nil {
			t.Errorf("ListComments: %v", err)
		}
		done <- page
	}()

	select {
	case page := <-done:
		if page == nil {
			return
		}
		c := page.Items[0].Replies[0].Replies[0]
		if c.ID != "C" || len(c.Replies) != 0 {
			t.Errorf("C should be a leaf once D is detached, got %+v", c)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("materializing the thread did not terminate")
	}
}

func TestCreateCommentValidatesParent(t *testing.T) {
	svc, db := newCommentService(t)
	alice := createUser(t, db, "alice")
	acme := createOrganization(t, db, "acme", alice.ID)
	other := createOrganization(t, db, "other", alice.ID)
	createComment(t, db, "foreign", other.ID, alice.ID, nil, testBaseTime)

	ctx := context.Background()
	_, err := svc.CreateComment(ctx, alice.ID, dto.CreateCommentRequest{OrganizationID: acme.ID, ParentID: strPtr("foreign"), Content: "hi"})
	assertStatus(t, err, http.StatusNotFound)

	_, err = svc.CreateComment(ctx, alice.ID, dto.CreateCommentRequest{OrganizationID: "missing", Content: "hi"})
	assertStatus(t, err, http.StatusNotFound)

	root, err := svc.CreateComment(ctx, alice.ID, dto.CreateCommentRequest{OrganizationID: acme.ID, Content: "root"})
	if err != nil {
		t.Fatalf("create root: %v", err)
	}
	reply, err := svc.CreateComment(ctx, alice.ID, dto.CreateCommentRequest{OrganizationID: acme.ID, ParentID: &root.ID, Content: "reply"})
	if err != nil {
		t.Fatalf("create reply: %v", err)
	}
	if reply.ParentID == nil || *reply.ParentID != root.ID {
		t.Errorf("reply parent = %v, want %s", reply.ParentID, root.ID)
	}
	if reply.User == nil || reply.User.ID != alice.ID {
		t.Errorf("reply author = %+v", reply.User)
	}
}

func TestUpdateCommentOnlyByAuthor(t *testing.T) {
	svc, db := newCommentService(t)
	alice := createUser(t, db, "alice")
	org := createOrganization(t, db, "acme", alice.ID)
	createComment(t, db, "A", org.ID, alice.ID, nil, testBaseTime)

	ctx := context.Background()
	_, err := svc.UpdateComment(ctx, "mallory", dto.UpdateCommentRequest{CommentID: "A", Content: "pwned"})
	assertStatus(t, err, http.StatusNotFound)

	updated, err := svc.UpdateComment(ctx, alice.ID, dto.UpdateCommentRequest{CommentID: "A", Content: "edited"})
	if err != nil {
		t.Fatalf("UpdateComment: %v", err)
	}
	if updated.Content != "edited" {
		t.Errorf("content = %q, want edited", updated.Content)
	}
}

func TestDeleteCommentCascades(t *testing.T) {
	svc, db := newCommentService(t)
	alice := createUser(t, db, "alice")
	org := createOrganization(t, db, "acme", alice.ID)

	createComment(t, db, "A", org.ID, alice.ID, nil, testBaseTime)
	createComment(t, db, "B", org.ID, alice.ID, strPtr("A"), testBaseTime.Add(time.Minute))
	createComment(t, db, "C", org.ID, alice.ID, strPtr("B"), testBaseTime.Add(2*time.Minute))
	createComment(t, db, "keep", org.ID, alice.ID, nil, testBaseTime.Add(3*time.Minute))
	if err := db.Create(&model.CommentLike{ID: "l1", CommentID: "C", UserID: "x"}).Error; err != nil {
		t.Fatalf("create like: %v", err)
	}

	ctx := context.Background()
	_, err := svc.DeleteComment(ctx, "mallory", "A")
	assertStatus(t, err, http.StatusNotFound)

	resp, err := svc.DeleteComment(ctx, alice.ID, "A")
	if err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}
	if !resp.Success {
		t.Errorf("success = false")
	}

	var comments, likes int64
	db.Model(&model.Comment{}).Count(&comments)
	db.Model(&model.CommentLike{}).Count(&likes)
	if comments != 1 {
		t.Errorf("%d comments left, want only the unrelated one", comments)
	}
	if likes != 0 {
		t.Errorf("%d likes left, want 0", likes)
	}
}

func TestToggleLike(t *testing.T) {
	svc, db := newCommentService(t)
	alice := createUser(t, db, "alice")
	org := createOrganization(t, db, "acme", alice.ID)
	createComment(t, db, "A", org.ID, alice.ID, nil, testBaseTime)

	ctx := context.Background()
	on, err := svc.ToggleLike(ctx, "bob", "A")
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if !on.Liked || on.LikeCount != 1 {
		t.Errorf("after like got %+v, want liked with count 1", on)
	}

	off, err := svc.ToggleLike(ctx, "bob", "A")
	if err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if off.Liked || off.LikeCount != 0 {
		t.Errorf("after unlike got %+v, want not liked with count 0", off)
	}

	_, err = svc.ToggleLike(ctx, "bob", "missing")
	assertStatus(t, err, http.StatusNotFound)
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error with status %d, got nil", status)
	}
	appErr, ok := shared.GetAppError(err)
	if !ok {
		t.Fatalf("expected *shared.AppError, got %T: %v", err, err)
	}
	if appErr.StatusCode != status {
		t.Fatalf("status = %d, want %d (%v)", appErr.StatusCode, status, err)
	}
}
