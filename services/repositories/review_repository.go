package repositories

import (
	"context"
	"time"

	"github.com/peerlaunch/launchpad_api/model"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	BaseRepository
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

type ReviewAggregate struct {
	Average float64
	Count   int64
}

func (ds *ReviewRepository) CreateReview(ctx context.Context, review *model.Review) error {
	if review.ID == "" {
		review.ID = newID()
	}
	return ds.db.WithContext(ctx).Create(review).Error
}

func (ds *ReviewRepository) GetReview(ctx context.Context, id string) (*model.Review, error) {
	var review model.Review
	if err := ds.db.WithContext(ctx).Where("id = ?", id).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (ds *ReviewRepository) HasReviewed(ctx context.Context, orgID, userID string) (bool, error) {
	var count int64
	err := ds.db.WithContext(ctx).Model(&model.Review{}).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		Count(&count).Error
	return count > 0, err
}

func (ds *ReviewRepository) UpdateReview(ctx context.Context, id string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	return ds.db.WithContext(ctx).Model(&model.Review{}).Where("id = ?", id).Updates(fields).Error
}

func (ds *ReviewRepository) DeleteReview(ctx context.Context, id string) error {
	return ds.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Review{}).Error
}

func (ds *ReviewRepository) ListReviews(ctx context.Context, orgID string, cursor *model.Review, limit int) ([]model.Review, error) {
	q := ds.db.WithContext(ctx).Where("organization_id = ?", orgID)
	if cursor != nil {
		q = q.Where("created_at < ? OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var reviews []model.Review
	err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&reviews).Error
	return reviews, err
}

func (ds *ReviewRepository) Aggregate(ctx context.Context, orgID string) (ReviewAggregate, error) {
	var agg ReviewAggregate
	err := ds.db.WithContext(ctx).Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("organization_id = ?", orgID).
		Scan(&agg).Error
	return agg, err
}

// Distribution counts reviews per star rating.
func (ds *ReviewRepository) Distribution(ctx context.Context, orgID string) (map[int]int64, error) {
	var rows []struct {
		Rating int
		Count  int64
	}
	err := ds.db.WithContext(ctx).Model(&model.Review{}).
		Select("rating, COUNT(*) AS count").
		Where("organization_id = ?", orgID).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	dist := map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, r := range rows {
		dist[r.Rating] = r.Count
	}
	return dist, nil
}

func (ds *ReviewRepository) CountInWindow(ctx context.Context, orgID string, w Window) (int64, error) {
	var count int64
	err := ds.db.WithContext(ctx).Model(&model.Review{}).
		Where("organization_id = ? AND created_at >= ? AND created_at < ?", orgID, w.From, w.To).
		Count(&count).Error
	return count, err
}
