package dto

import (
	"time"

	"github.com/peerlaunch/launchpad_api/model"
)

type ListReviewsRequest struct {
	OrganizationID string  `json:"organizationId" validate:"required"`
	Cursor         *string `json:"cursor,omitempty"`
	Limit          int     `json:"limit,omitempty" validate:"omitempty,min=1,max=50"`
}

func (l ListReviewsRequest) Validate() error {
	return GetValidator().Struct(l)
}

type CreateReviewRequest struct {
	OrganizationID string `json:"organizationId" validate:"required"`
	Rating         int    `json:"rating" validate:"required,min=1,max=5" example:"5"`
	Title          string `json:"title" validate:"max=120"`
	Content        string `json:"content" validate:"required,min=1,max=5000"`
}

func (c CreateReviewRequest) Validate() error {
	return GetValidator().Struct(c)
}

type UpdateReviewRequest struct {
	ReviewID string  `json:"reviewId" validate:"required"`
	Rating   *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Title    *string `json:"title,omitempty" validate:"omitempty,max=120"`
	Content  *string `json:"content,omitempty" validate:"omitempty,min=1,max=5000"`
}

func (u UpdateReviewRequest) Validate() error {
	return GetValidator().Struct(u)
}

type DeleteReviewRequest struct {
	ReviewID string `json:"reviewId" validate:"required"`
}

func (d DeleteReviewRequest) Validate() error {
	return GetValidator().Struct(d)
}

type ReviewResponse struct {
	ID             string       `json:"id"`
	OrganizationID string       `json:"organizationId"`
	UserID         string       `json:"userId"`
	Rating         int          `json:"rating"`
	Title          string       `json:"title"`
	Content        string       `json:"content"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
	User           *UserSummary `json:"user"`
}

func NewReviewResponse(r *model.Review, author *model.User) ReviewResponse {
	return ReviewResponse{
		ID:             r.ID,
		OrganizationID: r.OrganizationID,
		UserID:         r.UserID,
		Rating:         r.Rating,
		Title:          r.Title,
		Content:        r.Content,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		User:           NewUserSummary(author),
	}
}

type ReviewPage struct {
	Items      []ReviewResponse `json:"items"`
	NextCursor *string          `json:"nextCursor"`
	HasMore    bool             `json:"hasMore"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}
