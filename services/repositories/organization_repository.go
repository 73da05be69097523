package repositories

import (
	"context"
	"strings"

	"github.com/peerlaunch/launchpad_api/model"
	"gorm.io/gorm"
)

type OrganizationRepository struct {
	BaseRepository
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

type OrganizationFilter struct {
	Search   string
	Category string
}

func (ds *OrganizationRepository) CreateOrganization(ctx context.Context, org *model.Organization) error {
	if org.ID == "" {
		org.ID = newID()
	}
	return ds.db.WithContext(ctx).Create(org).Error
}

func (ds *OrganizationRepository) GetOrganization(ctx context.Context, id string) (*model.Organization, error) {
	var org model.Organization
	if err := ds.db.WithContext(ctx).Where("id = ?", id).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func (ds *OrganizationRepository) GetOrganizationBySlug(ctx context.Context, slug string) (*model.Organization, error) {
	var org model.Organization
	if err := ds.db.WithContext(ctx).Where("slug = ?", slug).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func (ds *OrganizationRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := ds.db.WithContext(ctx).Model(&model.Organization{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// SlugsWithPrefix returns every slug equal to base or starting with "base-".
func (ds *OrganizationRepository) SlugsWithPrefix(ctx context.Context, base string) ([]string, error) {
	var slugs []string
	err := ds.db.WithContext(ctx).Model(&model.Organization{}).
		Where("slug = ? OR slug LIKE ?", base, base+"-%").
		Pluck("slug", &slugs).Error
	return slugs, err
}

// ListOrganizations returns up to limit rows ordered newest first, strictly
// after cursor when one is given.
func (ds *OrganizationRepository) ListOrganizations(ctx context.Context, filter OrganizationFilter, cursor *model.Organization, limit int) ([]model.Organization, error) {
	q := ds.db.WithContext(ctx).Model(&model.Organization{})

	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(tagline) LIKE ?", like, like)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if cursor != nil {
		q = q.Where("created_at < ? OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var orgs []model.Organization
	err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&orgs).Error
	return orgs, err
}

func (ds *OrganizationRepository) UpdateOrganization(ctx context.Context, id string, fields map[string]interface{}) error {
	return ds.db.WithContext(ctx).Model(&model.Organization{}).Where("id = ?", id).Updates(fields).Error
}

func (ds *OrganizationRepository) IncrementImpressions(ctx context.Context, id string) (int64, error) {
	err := ds.db.WithContext(ctx).Model(&model.Organization{}).
		Where("id = ?", id).
		UpdateColumn("impressions", gorm.Expr("impressions + ?", 1)).Error
	if err != nil {
		return 0, err
	}

	var impressions int64
	err = ds.db.WithContext(ctx).Model(&model.Organization{}).Where("id = ?", id).Pluck("impressions", &impressions).Error
	return impressions, err
}

// Follow inserts the follow row and bumps follower_count in one transaction.
// It reports false when the user already follows the organization.
func (ds *OrganizationRepository) Follow(ctx context.Context, orgID, userID string) (bool, error) {
	created := false
	err := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.OrganizationFollow{}).
			Where("organization_id = ? AND user_id = ?", orgID, userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		follow := &model.OrganizationFollow{ID: newID(), OrganizationID: orgID, UserID: userID}
		if err := tx.Create(follow).Error; err != nil {
			return err
		}
		created = true

		return tx.Model(&model.Organization{}).Where("id = ?", orgID).
			UpdateColumn("follower_count", gorm.Expr("follower_count + ?", 1)).Error
	})
	return created, err
}

// Unfollow is the inverse of Follow and reports false when there was nothing to remove.
func (ds *OrganizationRepository) Unfollow(ctx context.Context, orgID, userID string) (bool, error) {
	removed := false
	err := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("organization_id = ? AND user_id = ?", orgID, userID).Delete(&model.OrganizationFollow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true

		return tx.Model(&model.Organization{}).Where("id = ? AND follower_count > 0", orgID).
			UpdateColumn("follower_count", gorm.Expr("follower_count - ?", res.RowsAffected)).Error
	})
	return removed, err
}

func (ds *OrganizationRepository) IsFollowing(ctx context.Context, orgID, userID string) (bool, error) {
	var count int64
	err := ds.db.WithContext(ctx).Model(&model.OrganizationFollow{}).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		Count(&count).Error
	return count > 0, err
}

// FollowedAmong returns which of orgIDs userID follows.
func (ds *OrganizationRepository) FollowedAmong(ctx context.Context, userID string, orgIDs []string) (map[string]bool, error) {
	followed := make(map[string]bool)
	if userID == "" || len(orgIDs) == 0 {
		return followed, nil
	}

	var ids []string
	if err := ds.db.WithContext(ctx).Model(&model.OrganizationFollow{}).
		Where("user_id = ? AND organization_id IN ?", userID, orgIDs).
		Pluck("organization_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		followed[id] = true
	}
	return followed, nil
}

func (ds *OrganizationRepository) CountFollowers(ctx context.Context, orgID string) (int64, error) {
	var count int64
	err := ds.db.WithContext(ctx).Model(&model.OrganizationFollow{}).Where("organization_id = ?", orgID).Count(&count).Error
	return count, err
}

func (ds *OrganizationRepository) SetReviewAggregate(ctx context.Context, orgID string, rating, reviewCount int) error {
	return ds.db.WithContext(ctx).Model(&model.Organization{}).Where("id = ?", orgID).
		UpdateColumns(map[string]interface{}{"rating": rating, "review_count": reviewCount}).Error
}

func (ds *OrganizationRepository) SetFollowerCount(ctx context.Context, orgID string, followers int) error {
	return ds.db.WithContext(ctx).Model(&model.Organization{}).Where("id = ?", orgID).
		UpdateColumn("follower_count", followers).Error
}
