package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/peerlaunch/launchpad_api/dto"
	"github.com/peerlaunch/launchpad_api/middleware"
	"github.com/peerlaunch/launchpad_api/shared"
)

// AuthHandler builds the /api/auth operations. Each method reads the request
// synchronously and returns work the transport timeout can race.
type AuthHandler struct {
	authSvc AuthServiceInterface
	jwtSvc  JWTServiceInterface
}

func NewAuthHandler(authSvc AuthServiceInterface, jwtSvc JWTServiceInterface) *AuthHandler {
	return &AuthHandler{
		authSvc: authSvc,
		jwtSvc:  jwtSvc,
	}
}

// @Summary Register a new user
// @Description Create a new account and return an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param registerRequest body dto.RegisterRequest true "Registration details"
// @Success 201 {object} shared.Response{data=dto.AuthResponse}
// @Failure 400 {object} shared.Response{data=[]dto.ValidationError}
// @Failure 409 {object} shared.Response
// @Failure 504 {object} middleware.TimeoutBody
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) (middleware.Operation, error) {
	var req dto.RegisterRequest
	if err := bindBody(c, &req); err != nil {
		return nil, err
	}

	return func(ctx context.Context) (*middleware.Reply, error) {
		resp, err := h.authSvc.Register(ctx, req)
		if err != nil {
			return nil, err
		}
		return &middleware.Reply{Status: http.StatusCreated, Message: "User registered successfully", Data: resp}, nil
	}, nil
}

// @Summary Login user
// @Description Authenticate with email or username and return an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body dto.LoginRequest true "Login credentials"
// @Success 200 {object} shared.Response{data=dto.AuthResponse}
// @Failure 401 {object} shared.Response
// @Failure 504 {object} middleware.TimeoutBody
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) (middleware.Operation, error) {
	var req dto.LoginRequest
	if err := bindBody(c, &req); err != nil {
		return nil, err
	}

	return func(ctx context.Context) (*middleware.Reply, error) {
		resp, err := h.authSvc.Login(ctx, req)
		if err != nil {
			return nil, err
		}
		return &middleware.Reply{Status: http.StatusOK, Message: "Login successful", Data: resp}, nil
	}, nil
}

// @Summary Current session
// @Description Return the user behind the bearer token and when the token expires
// @Tags auth
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.SessionResponse}
// @Failure 401 {object} shared.Response
// @Router /api/auth/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) (middleware.Operation, error) {
	userID, _ := c.Locals(shared.UserID).(string)
	if userID == "" {
		return nil, shared.NewUnauthorizedError(nil, "Unauthorized")
	}

	token, err := h.jwtSvc.ExtractTokenFromHeader(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return nil, shared.NewUnauthorizedError(err, "Unauthorized")
	}
	exp, err := h.jwtSvc.ExpiresAt(token)
	if err != nil {
		return nil, shared.NewUnauthorizedError(err, "Unauthorized")
	}

	return func(ctx context.Context) (*middleware.Reply, error) {
		resp, err := h.authSvc.Session(ctx, userID, exp)
		if err != nil {
			return nil, err
		}
		return &middleware.Reply{Status: http.StatusOK, Data: resp}, nil
	}, nil
}

// bindBody decodes the JSON body into dst and validates it.
func bindBody(c *fiber.Ctx, dst dto.Validator) error {
	if err := shared.JSON.Unmarshal(c.Body(), dst); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := dst.Validate(); err != nil {
		appErr := shared.NewBadRequestError(err, "Validation failed")
		appErr.Data = dto.FormatValidationErrors(err)
		return appErr
	}
	return nil
}
