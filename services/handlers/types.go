package handlers

import (
	"context"
	"time"

	"github.com/peerlaunch/launchpad_api/dto"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	Session(ctx context.Context, userID string, expiresAt *time.Time) (*dto.SessionResponse, error)
}

type JWTServiceInterface interface {
	ExtractTokenFromHeader(authHeader string) (string, error)
	VerifyJWTToken(token string) (string, error)
	ExpiresAt(token string) (*time.Time, error)
}

type UserServiceInterface interface {
	GetProfile(ctx context.Context, userID string) (*dto.UserProfile, error)
	UpdateImage(ctx context.Context, userID, image string) (*dto.UserProfile, error)
}

type MediaServiceInterface interface {
	UploadImage(ctx context.Context, userID, filename string, data []byte) (*dto.MediaUploadResponse, error)
}

type ProductServiceInterface interface {
	List(ctx context.Context, req dto.ListProductsRequest, viewerID string) (*dto.ProductPage, error)
	GetBySlug(ctx context.Context, slug, viewerID string) (*dto.ProductDetailResponse, error)
	Create(ctx context.Context, ownerID string, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Update(ctx context.Context, viewerID string, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Follow(ctx context.Context, viewerID, orgID string) (*dto.FollowResponse, error)
	Unfollow(ctx context.Context, viewerID, orgID string) (*dto.FollowResponse, error)
	ToggleImpression(ctx context.Context, viewerID, clientIP, orgID string) (*dto.ImpressionResponse, error)
	SyncOrganizationMetadata(ctx context.Context, viewerID, orgID string) (*dto.ProductResponse, error)
}

type ReviewServiceInterface interface {
	List(ctx context.Context, req dto.ListReviewsRequest) (*dto.ReviewPage, error)
	Create(ctx context.Context, viewerID string, req dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	Update(ctx context.Context, viewerID string, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, viewerID, reviewID string) (*dto.DeleteResponse, error)
}

type CommentServiceInterface interface {
	ListComments(ctx context.Context, req dto.ListCommentsRequest, viewerID string) (*dto.CommentPage, error)
	CreateComment(ctx context.Context, viewerID string, req dto.CreateCommentRequest) (*dto.CommentNode, error)
	UpdateComment(ctx context.Context, viewerID string, req dto.UpdateCommentRequest) (*dto.CommentNode, error)
	DeleteComment(ctx context.Context, viewerID, commentID string) (*dto.DeleteResponse, error)
	ToggleLike(ctx context.Context, viewerID, commentID string) (*dto.ToggleLikeResponse, error)
}

type ReportServiceInterface interface {
	Create(ctx context.Context, reporterID string, req dto.CreateReportRequest) (*dto.ReportResponse, error)
}

type AnalyticsServiceInterface interface {
	GetOverview(ctx context.Context, viewerID, orgID string) (*dto.OverviewAnalyticsResponse, error)
}

type WaitlistServiceInterface interface {
	Join(ctx context.Context, clientIP string, req dto.JoinWaitlistRequest) (*dto.WaitlistResponse, error)
	Count(ctx context.Context) (*dto.WaitlistCountResponse, error)
}

// Pinger is any dependency the health check probes.
type Pinger interface {
	Ping(ctx context.Context) error
}
