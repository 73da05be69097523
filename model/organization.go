package model

import "time"

// Organization is a launched product. Rating, ReviewCount, FollowerCount and
// Impressions are denormalized counters kept in step by the services.
type Organization struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"not null"`
	Slug          string    `json:"slug" gorm:"uniqueIndex;not null"`
	Tagline       string    `json:"tagline"`
	Description   string    `json:"description" gorm:"type:text"`
	Website       string    `json:"website"`
	LogoURL       string    `json:"logo_url"`
	Category      string    `json:"category" gorm:"index"`
	OwnerID       string    `json:"owner_id" gorm:"index;not null"`
	Rating        int       `json:"rating" gorm:"default:0;not null"`
	ReviewCount   int       `json:"review_count" gorm:"default:0;not null"`
	FollowerCount int       `json:"follower_count" gorm:"default:0;not null"`
	Impressions   int64     `json:"impressions" gorm:"default:0;not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type OrganizationFollow struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	OrganizationID string    `json:"organization_id" gorm:"uniqueIndex:idx_follow_org_user;not null"`
	UserID         string    `json:"user_id" gorm:"uniqueIndex:idx_follow_org_user;not null"`
	CreatedAt      time.Time `json:"created_at"`
}

type Review struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	OrganizationID string    `json:"organization_id" gorm:"index;not null"`
	UserID         string    `json:"user_id" gorm:"index;not null"`
	Rating         int       `json:"rating" gorm:"not null"`
	Title          string    `json:"title"`
	Content        string    `json:"content" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time `json:"updated_at"`
}
