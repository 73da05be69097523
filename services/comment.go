package services

import (
	"context"
	"errors"
	"os"
	"strconv"

	appContext "github.com/alphabatem/common/context"
	"github.com/peerlaunch/launchpad_api/dto"
	"github.com/peerlaunch/launchpad_api/model"
	"github.com/peerlaunch/launchpad_api/services/repositories"
	"github.com/peerlaunch/launchpad_api/shared"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CommentService owns comment threads. Reads hydrate the whole reply tree of
// every top-level comment on the page: replies are not paginated.
type CommentService struct {
	appContext.DefaultService

	comments *repositories.CommentRepository
	orgs     *repositories.OrganizationRepository
	users    *repositories.UserRepository

	// maxDepth caps how many reply levels are loaded below a top-level
	// comment. Zero loads every level.
	maxDepth    int
	observeTree func(nodes int)
}

const COMMENT_SVC = "comment_svc"

func (svc CommentService) Id() string {
	return COMMENT_SVC
}

func (svc *CommentService) Configure(ctx *appContext.Context) error {
	if v := os.Getenv("COMMENT_MAX_DEPTH"); v != "" {
		depth, err := strconv.Atoi(v)
		if err != nil || depth < 0 {
			log.Warn().Str("COMMENT_MAX_DEPTH", v).Msg("Ignoring invalid comment depth ceiling")
		} else {
			svc.maxDepth = depth
		}
	}
	return svc.DefaultService.Configure(ctx)
}

func (svc *CommentService) Start() error {
	svc.init(svc.Service(DATABASE_SVC).(*DatabaseService).Db())
	if mon, ok := svc.Service(MONITORING_SVC).(*MonitoringService); ok {
		svc.observeTree = mon.ObserveCommentTree
	}
	if svc.maxDepth > 0 {
		log.Info().Int("max_depth", svc.maxDepth).Msg("Comment reply depth is capped")
	}
	return nil
}

func (svc *CommentService) init(db *gorm.DB) {
	svc.comments = repositories.NewCommentRepository(db)
	svc.orgs = repositories.NewOrganizationRepository(db)
	svc.users = repositories.NewUserRepository(db)
}

// ListComments returns one page of top-level comments for an organization,
// newest first, each with its full reply tree. viewerID may be empty.
func (svc *CommentService) ListComments(ctx context.Context, req dto.ListCommentsRequest, viewerID string) (*dto.CommentPage, error) {
	limit := dto.PageLimit(req.Limit)

	var cursor *model.Comment
	if req.Cursor != nil && *req.Cursor != "" {
		c, err := svc.comments.GetComment(ctx, *req.Cursor)
		switch {
		case err == nil:
			cursor = c
		case errors.Is(err, gorm.ErrRecordNotFound):
			// unknown cursor: serve the first page
		default:
			return nil, HandleError(err, "")
		}
	}

	roots, err := svc.comments.ListTopLevel(ctx, req.OrganizationID, cursor, limit+1)
	if err != nil {
		return nil, HandleError(err, "")
	}

	page := &dto.CommentPage{}
	if len(roots) > limit {
		roots = roots[:limit]
		page.HasMore = true
		next := roots[limit-1].ID
		page.NextCursor = &next
	}

	page.Items, err = svc.hydrate(ctx, roots, viewerID)
	if err != nil {
		return nil, err
	}
	return page, nil
}

// hydrate builds the reply forest under roots one level at a time, then
// attaches authors and like state to every node with one query each.
func (svc *CommentService) hydrate(ctx context.Context, roots []model.Comment, viewerID string) ([]*dto.CommentNode, error) {
	items := make([]*dto.CommentNode, 0, len(roots))
	attached := make(map[string]*dto.CommentNode, len(roots))

	for i := range roots {
		node := dto.NewCommentNode(&roots[i])
		attached[node.ID] = node
		items = append(items, node)
	}

	all := append([]*dto.CommentNode(nil), items...)
	level := items
	for depth := 1; len(level) > 0 && (svc.maxDepth == 0 || depth <= svc.maxDepth); depth++ {
		parentIDs := make([]string, len(level))
		for i, n := range level {
			parentIDs[i] = n.ID
		}

		children, err := svc.comments.ListChildren(ctx, parentIDs)
		if err != nil {
			return nil, HandleError(err, "")
		}

		next := make([]*dto.CommentNode, 0, len(children))
		for i := range children {
			child := &children[i]
			// A node is attached at most once, so bad parent links cannot loop.
			if _, seen := attached[child.ID]; seen {
				continue
			}
			parent := attached[*child.ParentID]

			node := dto.NewCommentNode(child)
			attached[node.ID] = node
			parent.Replies = append(parent.Replies, node)
			next = append(next, node)
		}

		all = append(all, next...)
		level = next
	}

	if err := svc.decorate(ctx, all, viewerID); err != nil {
		return nil, err
	}

	if svc.observeTree != nil {
		svc.observeTree(len(all))
	}
	return items, nil
}

func (svc *CommentService) decorate(ctx context.Context, nodes []*dto.CommentNode, viewerID string) error {
	if len(nodes) == 0 {
		return nil
	}

	ids := make([]string, len(nodes))
	userIDs := make([]string, 0, len(nodes))
	seenUser := make(map[string]bool)
	for i, n := range nodes {
		ids[i] = n.ID
		if !seenUser[n.UserID] {
			seenUser[n.UserID] = true
			userIDs = append(userIDs, n.UserID)
		}
	}

	authors, err := svc.users.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return HandleError(err, "")
	}
	counts, err := svc.comments.LikeCounts(ctx, ids)
	if err != nil {
		return HandleError(err, "")
	}
	liked, err := svc.comments.LikedBy(ctx, viewerID, ids)
	if err != nil {
		return HandleError(err, "")
	}

	for _, n := range nodes {
		n.User = dto.NewUserSummary(authors[n.UserID])
		n.LikeCount = counts[n.ID]
		n.HasLiked = liked[n.ID]
	}
	return nil
}

func (svc *CommentService) CreateComment(ctx context.Context, viewerID string, req dto.CreateCommentRequest) (*dto.CommentNode, error) {
	exists, err := svc.orgs.Exists(ctx, req.OrganizationID)
	if err != nil {
		return nil, HandleError(err, "")
	}
	if !exists {
		return nil, shared.NewNotFoundError(nil, "Organization not found")
	}

	var parentID *string
	if req.ParentID != nil && *req.ParentID != "" {
		parent, err := svc.comments.GetComment(ctx, *req.ParentID)
		if err != nil {
			return nil, HandleError(err, "Parent comment not found")
		}
		if parent.OrganizationID != req.OrganizationID {
			return nil, shared.NewNotFoundError(nil, "Parent comment not found")
		}
		parentID = &parent.ID
	}

	comment := &model.Comment{
		OrganizationID: req.OrganizationID,
		UserID:         viewerID,
		ParentID:       parentID,
		Content:        req.Content,
	}
	if err := svc.comments.CreateComment(ctx, comment); err != nil {
		return nil, HandleError(err, "")
	}

	return svc.node(ctx, comment, viewerID)
}

func (svc *CommentService) UpdateComment(ctx context.Context, viewerID string, req dto.UpdateCommentRequest) (*dto.CommentNode, error) {
	ok, err := svc.comments.UpdateContent(ctx, req.CommentID, viewerID, req.Content)
	if err != nil {
		return nil, HandleError(err, "")
	}
	if !ok {
		return nil, shared.NewNotFoundError(nil, "Comment not found or unauthorized")
	}

	comment, err := svc.comments.GetComment(ctx, req.CommentID)
	if err != nil {
		return nil, HandleError(err, "Comment not found or unauthorized")
	}
	return svc.node(ctx, comment, viewerID)
}

// DeleteComment removes the comment, its whole reply subtree and every like on them.
func (svc *CommentService) DeleteComment(ctx context.Context, viewerID, commentID string) (*dto.DeleteResponse, error) {
	comment, err := svc.comments.GetComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Comment not found or unauthorized")
		}
		return nil, HandleError(err, "")
	}
	if comment.UserID != viewerID {
		return nil, shared.NewNotFoundError(nil, "Comment not found or unauthorized")
	}

	deleted, err := svc.comments.DeleteTree(ctx, commentID)
	if err != nil {
		return nil, HandleError(err, "")
	}

	log.Debug().Str("comment_id", commentID).Int("deleted", deleted).Msg("Comment subtree deleted")
	return &dto.DeleteResponse{Success: true}, nil
}

func (svc *CommentService) ToggleLike(ctx context.Context, viewerID, commentID string) (*dto.ToggleLikeResponse, error) {
	if _, err := svc.comments.GetComment(ctx, commentID); err != nil {
		return nil, HandleError(err, "Comment not found")
	}

	liked, count, err := svc.comments.ToggleLike(ctx, commentID, viewerID)
	if err != nil {
		return nil, HandleError(err, "")
	}
	return &dto.ToggleLikeResponse{Liked: liked, LikeCount: count}, nil
}

// node renders a single comment without descending into replies.
func (svc *CommentService) node(ctx context.Context, comment *model.Comment, viewerID string) (*dto.CommentNode, error) {
	n := dto.NewCommentNode(comment)
	if err := svc.decorate(ctx, []*dto.CommentNode{n}, viewerID); err != nil {
		return nil, err
	}
	return n, nil
}
