package model

import "time"

// Comment forms a tree through ParentID. Nothing at the storage level stops a
// cycle; readers guard against one.
type Comment struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	OrganizationID string    `json:"organization_id" gorm:"index:idx_comment_org_parent;not null"`
	UserID         string    `json:"user_id" gorm:"index;not null"`
	ParentID       *string   `json:"parent_id" gorm:"index:idx_comment_org_parent"`
	Content        string    `json:"content" gorm:"type:text;not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CommentLike has no unique (comment_id, user_id) constraint; uniqueness is
// checked by the service before insert.
type CommentLike struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	CommentID string    `json:"comment_id" gorm:"index;not null"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
}
