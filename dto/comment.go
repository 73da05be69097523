package dto

import (
	"time"

	"github.com/peerlaunch/launchpad_api/model"
)

type ListCommentsRequest struct {
	OrganizationID string  `json:"organizationId" validate:"required"`
	Cursor         *string `json:"cursor,omitempty"`
	Limit          int     `json:"limit,omitempty" validate:"omitempty,min=1,max=50"`
}

func (l ListCommentsRequest) Validate() error {
	return GetValidator().Struct(l)
}

type CreateCommentRequest struct {
	OrganizationID string  `json:"organizationId" validate:"required"`
	ParentID       *string `json:"parentId,omitempty"`
	Content        string  `json:"content" validate:"required,min=1,max=5000"`
}

func (c CreateCommentRequest) Validate() error {
	return GetValidator().Struct(c)
}

type UpdateCommentRequest struct {
	CommentID string `json:"commentId" validate:"required"`
	Content   string `json:"content" validate:"required,min=1,max=5000"`
}

func (u UpdateCommentRequest) Validate() error {
	return GetValidator().Struct(u)
}

// CommentRequest is the input of delete and toggleLike.
type CommentRequest struct {
	CommentID string `json:"commentId" validate:"required"`
}

func (c CommentRequest) Validate() error {
	return GetValidator().Struct(c)
}

// CommentNode is one hydrated comment. Replies is never nil so it encodes as [].
type CommentNode struct {
	ID             string         `json:"id"`
	OrganizationID string         `json:"organizationId"`
	UserID         string         `json:"userId"`
	ParentID       *string        `json:"parentId"`
	Content        string         `json:"content"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	User           *UserSummary   `json:"user"`
	LikeCount      int64          `json:"likeCount"`
	HasLiked       bool           `json:"hasLiked"`
	Replies        []*CommentNode `json:"replies"`
}

func NewCommentNode(c *model.Comment) *CommentNode {
	return &CommentNode{
		ID:             c.ID,
		OrganizationID: c.OrganizationID,
		UserID:         c.UserID,
		ParentID:       c.ParentID,
		Content:        c.Content,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		Replies:        []*CommentNode{},
	}
}

type CommentPage struct {
	Items      []*CommentNode `json:"items"`
	NextCursor *string        `json:"nextCursor"`
	HasMore    bool           `json:"hasMore"`
}

type ToggleLikeResponse struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"likeCount"`
}
