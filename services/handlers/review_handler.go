package handlers

import (
	"context"

	"github.com/peerlaunch/launchpad_api/dto"
	"github.com/peerlaunch/launchpad_api/services/rpc"
)

type ReviewHandler struct {
	reviewSvc ReviewServiceInterface
}

func NewReviewHandler(reviewSvc ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc}
}

func (h *ReviewHandler) Register(r *rpc.Router) {
	r.Register("reviews/list", h.List)
	r.Register("reviews/create", h.Create)
	r.Register("reviews/update", h.Update)
	r.Register("reviews/delete", h.Delete)
}

// @Summary reviews.list procedure
// @Tags rpc
// @Accept json
// @Produce json
// @Param input body dto.ListReviewsRequest true "Organization and cursor"
// @Success 200 {object} dto.ReviewPage
// @Router /rpc/reviews/list [post]
func (h *ReviewHandler) List(ctx context.Context, call *rpc.Call) (interface{}, error) {
	var req dto.ListReviewsRequest
	if err := call.Bind(&req); err != nil {
		return nil, err
	}
	return h.reviewSvc.List(ctx, req)
}

// @Summary reviews.create procedure
// @Description One review per user and product; a second attempt is a CONFLICT.
// @Tags rpc
// @Accept json
// @Produce json
// @Security Bearer
// @Param input body dto.CreateReviewRequest true "Review"
// @Success 200 {object} dto.ReviewResponse
// @Failure 409 {object} rpc.Error
// @Router /rpc/reviews/create [post]
func (h *ReviewHandler) Create(ctx context.Context, call *rpc.Call) (interface{}, error) {
	userID, err := call.RequireViewer()
	if err != nil {
		return nil, err
	}

	var req dto.CreateReviewRequest
	if err := call.Bind(&req); err != nil {
		return nil, err
	}
	return h.reviewSvc.Create(ctx, userID, req)
}

func (h *ReviewHandler) Update(ctx context.Context, call *rpc.Call) (interface{}, error) {
	userID, err := call.RequireViewer()
	if err != nil {
		return nil, err
	}

	var req dto.UpdateReviewRequest
	if err := call.Bind(&req); err != nil {
		return nil, err
	}
	return h.reviewSvc.Update(ctx, userID, req)
}

func (h *ReviewHandler) Delete(ctx context.Context, call *rpc.Call) (interface{}, error) {
	userID, err := call.RequireViewer()
	if err != nil {
		return nil, err
	}

	var req dto.DeleteReviewRequest
	if err := call.Bind(&req); err != nil {
		return nil, err
	}
	return h.reviewSvc.Delete(ctx, userID, req.ReviewID)
}
