package services

import (
	"context"
	"errors"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/peerlaunch/launchpad_api/dto"
	"github.com/peerlaunch/launchpad_api/model"
	"github.com/peerlaunch/launchpad_api/services/repositories"
	"github.com/peerlaunch/launchpad_api/shared"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	appContext.DefaultService

	users  *repositories.UserRepository
	jwtSvc *JWTService
}

const AUTH_SVC = "auth_svc"

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Start() error {
	db := svc.Service(DATABASE_SVC).(*DatabaseService).Db()
	svc.init(db, svc.Service(JWT_SVC).(*JWTService))
	return nil
}

func (svc *AuthService) init(db *gorm.DB, jwtSvc *JWTService) {
	svc.users = repositories.NewUserRepository(db)
	svc.jwtSvc = jwtSvc
}

func (svc *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	taken, err := svc.users.EmailOrUsernameTaken(ctx, email, req.Username)
	if err != nil {
		return nil, HandleError(err, "")
	}
	if taken {
		return nil, shared.NewConflictError(nil, "Email or username already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to hash password")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = req.Username
	}

	user := &model.User{
		Email:    email,
		Username: req.Username,
		Name:     name,
		Password: string(hash),
	}
	if err := svc.users.CreateUser(ctx, user); err != nil {
		return nil, HandleError(err, "")
	}

	log.Info().Str("user_id", user.ID).Msg("User registered")
	return svc.issue(user)
}

func (svc *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	identifier := strings.TrimSpace(req.EmailOrUsername)
	if strings.Contains(identifier, "@") {
		identifier = strings.ToLower(identifier)
	}

	user, err := svc.users.GetUserByEmailOrUsername(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewUnauthorizedError(nil, "Invalid credentials")
		}
		return nil, HandleError(err, "")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, shared.NewUnauthorizedError(nil, "Invalid credentials")
	}

	if err := svc.users.TouchLastLogin(ctx, user.ID); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to record last login")
	}

	return svc.issue(user)
}

// Session resolves the user behind an already verified token.
func (svc *AuthService) Session(ctx context.Context, userID string, expiresAt *time.Time) (*dto.SessionResponse, error) {
	user, err := svc.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewUnauthorizedError(err, "Session user no longer exists")
		}
		return nil, HandleError(err, "")
	}

	return &dto.SessionResponse{User: dto.NewUserProfile(user), ExpiresAt: expiresAt}, nil
}

func (svc *AuthService) issue(user *model.User) (*dto.AuthResponse, error) {
	token, err := svc.jwtSvc.ToJWT(user.ID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to issue token")
	}

	return &dto.AuthResponse{
		Token:     token,
		ExpiresIn: int64(svc.jwtSvc.AccessTokenDuration.Seconds()),
		User:      dto.NewUserProfile(user),
	}, nil
}
