package handlers

import (
	"context"

	"github.com/peerlaunch/launchpad_api/dto"
	"github.com/peerlaunch/launchpad_api/services/rpc"
)

type ProductHandler struct {
	productSvc ProductServiceInterface
}

func NewProductHandler(productSvc ProductServiceInterface) *ProductHandler {
	return &ProductHandler{productSvc: productSvc}
}

func (h *ProductHandler) Register(r *rpc.Router) {
	r.Register("products/list", h.List)
	r.Register("products/getBySlug", h.GetBySlug)
	r.Register("products/create", h.Create)
	r.Register("products/update", h.Update)
	r.Register("products/follow", h.Follow)
	r.Register("products/unfollow", h.Unfollow)
	r.Register("products/toggleImpression", h.ToggleImpression)
	r.Register("products/syncOrganizationMetadata", h.SyncOrganizationMetadata)
}

// @Summary products.list procedure
// @Description Newest products first, cursor paginated. isFollowing is set for signed-in viewers.
// @Tags rpc
// @Accept json
// @Produce json
// @Param input body dto.ListProductsRequest false "Filters and cursor"
// @Success 200 {object} dto.ProductPage
// @Failure 408 {object} rpc.Error
// @Router /rpc/products/list [post]
func (h *ProductHandler) List(ctx context.Context, call *rpc.Call) (interface{}, error) {
	var req dto.ListProductsRequest
	if err := call.Bind(&req); err != nil {
		return nil, err
	}
	return h.productSvc.List(ctx, req, call.ViewerID)
}

// @Summary products.getBySlug procedure
// @Tags rpc
// @Accept json
// @Produce json
// @Param input body dto.GetProductBySlugRequest true "Slug"
// @Success 200 {object} dto.ProductDetailResponse
// @Failure 404 {object} rpc.Error
// @Router /rpc/products/getBySlug [post]
func (h *ProductHandler) GetBySlug(ctx context.Context, call *rpc.Call) (interface{}, error) {
	var req dto.GetProductBySlugRequest
	if err := call.Bind(&req); err != nil {
		return nil, err
	}
	return h.productSvc.GetBySlug(ctx, req.Slug, call.ViewerID)
}

func (h *ProductHandler) Create(ctx context.Context, call *rpc.Call) (interface{}, error) {
	userID, err := call.RequireViewer()
	if err != nil {
		return nil, err
	}

	var req dto.CreateProductRequest
	if err := call.Bind(&req); err != nil {
		return nil, err
	}
	return h.productSvc.Create(ctx, userID, req)
}

func (h *ProductHandler) Update(ctx context.Context, call *rpc.Call) (interface{}, error) {
	userID, err := call.RequireViewer()
	if err != nil {
		return nil, err
	}

	var req dto.UpdateProductRequest
	if err := call.Bind(&req); err != nil {
		return nil, err
	}
	return h.productSvc.Update(ctx, userID, req)
}

func (h *ProductHandler) Follow(ctx context.Context, call *rpc.Call) (interface{}, error) {
	userID, req, err := h.organizationCall(call)
	if err != nil {
		return nil, err
	}
	return h.productSvc.Follow(ctx, userID, req.OrganizationID)
}

func (h *ProductHandler) Unfollow(ctx context.Context, call *rpc.Call) (interface{}, error) {
	userID, req, err := h.organizationCall(call)
	if err != nil {
		return nil, err
	}
	return h.productSvc.Unfollow(ctx, userID, req.OrganizationID)
}

// ToggleImpression is public; anonymous views are deduplicated by client IP.
func (h *ProductHandler) ToggleImpression(ctx context.Context, call *rpc.Call) (interface{}, error) {
	var req dto.OrganizationRequest
	if err := call.Bind(&req); err != nil {
		return nil, err
	}
	return h.productSvc.ToggleImpression(ctx, call.ViewerID, call.ClientIP, req.OrganizationID)
}

func (h *ProductHandler) SyncOrganizationMetadata(ctx context.Context, call *rpc.Call) (interface{}, error) {
	userID, req, err := h.organizationCall(call)
	if err != nil {
		return nil, err
	}
	return h.productSvc.SyncOrganizationMetadata(ctx, userID, req.OrganizationID)
}

func (h *ProductHandler) organizationCall(call *rpc.Call) (string, dto.OrganizationRequest, error) {
	var req dto.OrganizationRequest
	userID, err := call.RequireViewer()
	if err != nil {
		return "", req, err
	}
	if err := call.Bind(&req); err != nil {
		return "", req, err
	}
	return userID, req, nil
}
