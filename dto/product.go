package dto

import (
	"time"

	"github.com/peerlaunch/launchpad_api/model"
)

// ==================== PRODUCT REQUEST DTOs ====================

type ListProductsRequest struct {
	Cursor   *string `json:"cursor,omitempty"`
	Limit    int     `json:"limit,omitempty" validate:"omitempty,min=1,max=50" example:"10"`
	Search   string  `json:"search,omitempty" validate:"max=100"`
	Category string  `json:"category,omitempty" validate:"max=50"`
}

func (l ListProductsRequest) Validate() error {
	return GetValidator().Struct(l)
}

type GetProductBySlugRequest struct {
	Slug string `json:"slug" validate:"required,max=120" example:"launchpad"`
}

func (g GetProductBySlugRequest) Validate() error {
	return GetValidator().Struct(g)
}

type CreateProductRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100" example:"Launchpad"`
	Tagline     string `json:"tagline" validate:"max=200" example:"Ship it today"`
	Description string `json:"description" validate:"max=5000"`
	Website     string `json:"website" validate:"omitempty,url"`
	LogoURL     string `json:"logoUrl" validate:"omitempty,url"`
	Category    string `json:"category" validate:"required,max=50" example:"developer-tools"`
}

func (c CreateProductRequest) Validate() error {
	return GetValidator().Struct(c)
}

type UpdateProductRequest struct {
	OrganizationID string  `json:"organizationId" validate:"required"`
	Name           *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Tagline        *string `json:"tagline,omitempty" validate:"omitempty,max=200"`
	Description    *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	Website        *string `json:"website,omitempty" validate:"omitempty,url"`
	LogoURL        *string `json:"logoUrl,omitempty" validate:"omitempty,url"`
	Category       *string `json:"category,omitempty" validate:"omitempty,max=50"`
}

func (u UpdateProductRequest) Validate() error {
	return GetValidator().Struct(u)
}

// OrganizationRequest is the input of every procedure that only names an organization.
type OrganizationRequest struct {
	OrganizationID string `json:"organizationId" validate:"required"`
}

func (o OrganizationRequest) Validate() error {
	return GetValidator().Struct(o)
}

// ==================== PRODUCT RESPONSE DTOs ====================

type ProductResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Tagline       string    `json:"tagline"`
	Description   string    `json:"description"`
	Website       string    `json:"website"`
	LogoURL       string    `json:"logoUrl"`
	Category      string    `json:"category"`
	OwnerID       string    `json:"ownerId"`
	Rating        int       `json:"rating"`
	ReviewCount   int       `json:"reviewCount"`
	FollowerCount int       `json:"followerCount"`
	Impressions   int64     `json:"impressions"`
	IsFollowing   bool      `json:"isFollowing"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func NewProductResponse(o *model.Organization, isFollowing bool) ProductResponse {
	return ProductResponse{
		ID:            o.ID,
		Name:          o.Name,
		Slug:          o.Slug,
		Tagline:       o.Tagline,
		Description:   o.Description,
		Website:       o.Website,
		LogoURL:       o.LogoURL,
		Category:      o.Category,
		OwnerID:       o.OwnerID,
		Rating:        o.Rating,
		ReviewCount:   o.ReviewCount,
		FollowerCount: o.FollowerCount,
		Impressions:   o.Impressions,
		IsFollowing:   isFollowing,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

type ProductPage struct {
	Items      []ProductResponse `json:"items"`
	NextCursor *string           `json:"nextCursor"`
	HasMore    bool              `json:"hasMore"`
}

type ReviewStats struct {
	Average      float64       `json:"average"`
	Count        int64         `json:"count"`
	Distribution map[int]int64 `json:"distribution"`
}

type ProductDetailResponse struct {
	ProductResponse
	Owner       *UserSummary `json:"owner"`
	ReviewStats ReviewStats  `json:"reviewStats"`
}

type FollowResponse struct {
	Following     bool `json:"following"`
	FollowerCount int  `json:"followerCount"`
}

type ImpressionResponse struct {
	Counted     bool  `json:"counted"`
	Impressions int64 `json:"impressions"`
}
