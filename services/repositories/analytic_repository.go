package repositories

import (
	"context"

	"github.com/peerlaunch/launchpad_api/model"
	"gorm.io/gorm"
)

type AnalyticRepository struct {
	BaseRepository
}

func NewAnalyticRepository(db *gorm.DB) *AnalyticRepository {
	return &AnalyticRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *AnalyticRepository) RecordEvent(ctx context.Context, event *model.AnalyticsEvent) error {
	if event.ID == "" {
		event.ID = newID()
	}
	return ds.db.WithContext(ctx).Create(event).Error
}

func (ds *AnalyticRepository) CountEvents(ctx context.Context, orgID, eventType string, w Window) (int64, error) {
	var count int64
	err := ds.db.WithContext(ctx).Model(&model.AnalyticsEvent{}).
		Where("organization_id = ? AND event_type = ? AND created_at >= ? AND created_at < ?", orgID, eventType, w.From, w.To).
		Count(&count).Error
	return count, err
}
