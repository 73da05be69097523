package handlers

import (
	"context"

	"github.com/peerlaunch/launchpad_api/dto"
	"github.com/peerlaunch/launchpad_api/services/rpc"
)

type UserHandler struct {
	userSvc UserServiceInterface
}

func NewUserHandler(userSvc UserServiceInterface) *UserHandler {
	return &UserHandler{
		userSvc: userSvc,
	}
}

func (h *UserHandler) Register(r *rpc.Router) {
	r.Register("privateData", h.PrivateData)
	r.Register("updateUserImage", h.UpdateUserImage)
}

// @Summary privateData procedure
// @Description Profile of the authenticated user
// @Tags rpc
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.UserProfile
// @Failure 401 {object} rpc.Error
// @Router /rpc/privateData [post]
func (h *UserHandler) PrivateData(ctx context.Context, call *rpc.Call) (interface{}, error) {
	userID, err := call.RequireViewer()
	if err != nil {
		return nil, err
	}
	return h.userSvc.GetProfile(ctx, userID)
}

// @Summary updateUserImage procedure
// @Tags rpc
// @Accept json
// @Produce json
// @Security Bearer
// @Param input body dto.UpdateUserImageRequest true "New image URL"
// @Success 200 {object} dto.UserProfile
// @Router /rpc/updateUserImage [post]
func (h *UserHandler) UpdateUserImage(ctx context.Context, call *rpc.Call) (interface{}, error) {
	userID, err := call.RequireViewer()
	if err != nil {
		return nil, err
	}

	var req dto.UpdateUserImageRequest
	if err := call.Bind(&req); err != nil {
		return nil, err
	}
	return h.userSvc.UpdateImage(ctx, userID, req.Image)
}
