package services

import (
	"context"

	appContext "github.com/alphabatem/common/context"
	"github.com/peerlaunch/launchpad_api/dto"
	"github.com/peerlaunch/launchpad_api/services/repositories"
	"github.com/peerlaunch/launchpad_api/shared"
	"gorm.io/gorm"
)

type UserService struct {
	appContext.DefaultService

	users *repositories.UserRepository
}

const USER_SVC = "user_svc"

func (svc UserService) Id() string {
	return USER_SVC
}

func (svc *UserService) Start() error {
	svc.init(svc.Service(DATABASE_SVC).(*DatabaseService).Db())
	return nil
}

func (svc *UserService) init(db *gorm.DB) {
	svc.users = repositories.NewUserRepository(db)
}

func (svc *UserService) GetProfile(ctx context.Context, userID string) (*dto.UserProfile, error) {
	user, err := svc.users.GetUser(ctx, userID)
	if err != nil {
		return nil, HandleError(err, "User not found")
	}

	profile := dto.NewUserProfile(user)
	return &profile, nil
}

func (svc *UserService) UpdateImage(ctx context.Context, userID, image string) (*dto.UserProfile, error) {
	updated, err := svc.users.UpdateImage(ctx, userID, image)
	if err != nil {
		return nil, HandleError(err, "")
	}
	if updated == 0 {
		return nil, shared.NewNotFoundError(nil, "User not found")
	}

	return svc.GetProfile(ctx, userID)
}
