package repositories

import (
	"context"

	"github.com/peerlaunch/launchpad_api/model"
	"gorm.io/gorm"
)

type ReportRepository struct {
	BaseRepository
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *ReportRepository) CreateReport(ctx context.Context, report *model.Report) error {
	if report.ID == "" {
		report.ID = newID()
	}
	if report.Status == "" {
		report.Status = "pending"
	}
	return ds.db.WithContext(ctx).Create(report).Error
}

// HasOpenReport reports whether reporterID already has a pending report against the target.
func (ds *ReportRepository) HasOpenReport(ctx context.Context, reporterID, targetType, targetID string) (bool, error) {
	var count int64
	err := ds.db.WithContext(ctx).Model(&model.Report{}).
		Where("reporter_id = ? AND target_type = ? AND target_id = ? AND status = ?", reporterID, targetType, targetID, "pending").
		Count(&count).Error
	return count > 0, err
}
