package repositories

import (
	"context"
	"strings"

	"github.com/peerlaunch/launchpad_api/model"
	"gorm.io/gorm"
)

type WaitlistRepository struct {
	BaseRepository
}

func NewWaitlistRepository(db *gorm.DB) *WaitlistRepository {
	return &WaitlistRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *WaitlistRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := ds.db.WithContext(ctx).Model(&model.WaitlistEntry{}).
		Where("email = ?", strings.ToLower(email)).
		Count(&count).Error
	return count > 0, err
}

func (ds *WaitlistRepository) CreateEntry(ctx context.Context, entry *model.WaitlistEntry) error {
	if entry.ID == "" {
		entry.ID = newID()
	}
	entry.Email = strings.ToLower(entry.Email)
	return ds.db.WithContext(ctx).Create(entry).Error
}

func (ds *WaitlistRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := ds.db.WithContext(ctx).Model(&model.WaitlistEntry{}).Count(&count).Error
	return count, err
}

// Position is the 1-based place of entry in the queue.
func (ds *WaitlistRepository) Position(ctx context.Context, entry *model.WaitlistEntry) (int64, error) {
	var ahead int64
	err := ds.db.WithContext(ctx).Model(&model.WaitlistEntry{}).
		Where("created_at < ? OR (created_at = ? AND id < ?)", entry.CreatedAt, entry.CreatedAt, entry.ID).
		Count(&ahead).Error
	return ahead + 1, err
}
