package handlers

import (
	"context"

	"github.com/peerlaunch/launchpad_api/dto"
	"github.com/peerlaunch/launchpad_api/services/rpc"
)

type CommentHandler struct {
	commentSvc CommentServiceInterface
}

func NewCommentHandler(commentSvc CommentServiceInterface) *CommentHandler {
	return &CommentHandler{commentSvc: commentSvc}
}

func (h *CommentHandler) Register(r *rpc.Router) {
	r.Register("comments/list", h.List)
	r.Register("comments/create", h.Create)
	r.Register("comments/update", h.Update)
	r.Register("comments/delete", h.Delete)
	r.Register("comments/toggleLike", h.ToggleLike)
}

// @Summary comments.list procedure
// @Description Top-level comments newest first, each with its full reply tree. Replies are not paginated.
// @Tags rpc
// @Accept json
// @Produce json
// @Param input body dto.ListCommentsRequest true "Organization and cursor"
// @Success 200 {object} dto.CommentPage
// @Failure 408 {object} rpc.Error
// @Router /rpc/comments/list [post]
func (h *CommentHandler) List(ctx context.Context, call *rpc.Call) (interface{}, error) {
	var req dto.ListCommentsRequest
	if err := call.Bind(&req); err != nil {
		return nil, err
	}
	return h.commentSvc.ListComments(ctx, req, call.ViewerID)
}

// @Summary comments.create procedure
// @Tags rpc
// @Accept json
// @Produce json
// @Security Bearer
// @Param input body dto.CreateCommentRequest true "Comment, optionally replying to parentId"
// @Success 200 {object} dto.CommentNode
// @Failure 404 {object} rpc.Error
// @Router /rpc/comments/create [post]
func (h *CommentHandler) Create(ctx context.Context, call *rpc.Call) (interface{}, error) {
	userID, err := call.RequireViewer()
	if err != nil {
		return nil, err
	}

	var req dto.CreateCommentRequest
	if err := call.Bind(&req); err != nil {
		return nil, err
	}
	return h.commentSvc.CreateComment(ctx, userID, req)
}

func (h *CommentHandler) Update(ctx context.Context, call *rpc.Call) (interface{}, error) {
	userID, err := call.RequireViewer()
	if err != nil {
		return nil, err
	}

	var req dto.UpdateCommentRequest
	if err := call.Bind(&req); err != nil {
		return nil, err
	}
	return h.commentSvc.UpdateComment(ctx, userID, req)
}

func (h *CommentHandler) Delete(ctx context.Context, call *rpc.Call) (interface{}, error) {
	userID, req, err := commentCall(call)
	if err != nil {
		return nil, err
	}
	return h.commentSvc.DeleteComment(ctx, userID, req.CommentID)
}

func (h *CommentHandler) ToggleLike(ctx context.Context, call *rpc.Call) (interface{}, error) {
	userID, req, err := commentCall(call)
	if err != nil {
		return nil, err
	}
	return h.commentSvc.ToggleLike(ctx, userID, req.CommentID)
}

func commentCall(call *rpc.Call) (string, dto.CommentRequest, error) {
	var req dto.CommentRequest
	userID, err := call.RequireViewer()
	if err != nil {
		return "", req, err
	}
	if err := call.Bind(&req); err != nil {
		return "", req, err
	}
	return userID, req, nil
}
