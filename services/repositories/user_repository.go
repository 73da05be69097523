package repositories

import (
	"context"
	"time"

	"github.com/peerlaunch/launchpad_api/model"
	"gorm.io/gorm"
)

// UserRepository handles user-related database operations
type UserRepository struct {
	BaseRepository
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *UserRepository) CreateUser(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = newID()
	}
	return ds.db.WithContext(ctx).Create(user).Error
}

func (ds *UserRepository) GetUser(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	if err := ds.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *UserRepository) GetUserByEmailOrUsername(ctx context.Context, emailOrUsername string) (*model.User, error) {
	var user model.User
	if err := ds.db.WithContext(ctx).Where("email = ? OR username = ?", emailOrUsername, emailOrUsername).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *UserRepository) EmailOrUsernameTaken(ctx context.Context, email, username string) (bool, error) {
	var count int64
	err := ds.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error
	return count > 0, err
}

// GetUsersByIDs returns the users found, keyed by id. Missing ids are simply absent.
func (ds *UserRepository) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*model.User, error) {
	users := make(map[string]*model.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	var rows []model.User
	if err := ds.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		users[rows[i].ID] = &rows[i]
	}
	return users, nil
}

func (ds *UserRepository) UpdateImage(ctx context.Context, userID, image string) (int64, error) {
	res := ds.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"image": image, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}

func (ds *UserRepository) TouchLastLogin(ctx context.Context, userID string) error {
	return ds.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_login", time.Now()).Error
}
