package repositories

import (
	"context"

	"github.com/peerlaunch/launchpad_api/model"
	"gorm.io/gorm"
)

type MediaRepository struct {
	BaseRepository
}

func NewMediaRepository(db *gorm.DB) *MediaRepository {
	return &MediaRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *MediaRepository) CreateMediaAsset(ctx context.Context, asset *model.MediaAsset) error {
	if asset.ID == "" {
		asset.ID = newID()
	}
	return ds.db.WithContext(ctx).Create(asset).Error
}

func (ds *MediaRepository) GetMediaAsset(ctx context.Context, id string) (*model.MediaAsset, error) {
	var asset model.MediaAsset
	if err := ds.db.WithContext(ctx).Where("id = ?", id).First(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (ds *MediaRepository) ListUserMedia(ctx context.Context, userID string, limit int) ([]model.MediaAsset, error) {
	var assets []model.MediaAsset
	err := ds.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&assets).Error
	return assets, err
}
