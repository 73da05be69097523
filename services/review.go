package services

import (
	"context"
	"errors"
	"strings"

	appContext "github.com/alphabatem/common/context"
	"github.com/peerlaunch/launchpad_api/dto"
	"github.com/peerlaunch/launchpad_api/model"
	"github.com/peerlaunch/launchpad_api/services/repositories"
	"github.com/peerlaunch/launchpad_api/shared"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ReviewService struct {
	appContext.DefaultService

	reviews *repositories.ReviewRepository
	orgs    *repositories.OrganizationRepository
	users   *repositories.UserRepository
}

const REVIEW_SVC = "review_svc"

func (svc ReviewService) Id() string {
	return REVIEW_SVC
}

func (svc *ReviewService) Start() error {
	svc.init(svc.Service(DATABASE_SVC).(*DatabaseService).Db())
	return nil
}

func (svc *ReviewService) init(db *gorm.DB) {
	svc.reviews = repositories.NewReviewRepository(db)
	svc.orgs = repositories.NewOrganizationRepository(db)
	svc.users = repositories.NewUserRepository(db)
}

func (svc *ReviewService) List(ctx context.Context, req dto.ListReviewsRequest) (*dto.ReviewPage, error) {
	limit := dto.PageLimit(req.Limit)

	var cursor *model.Review
	if req.Cursor != nil && *req.Cursor != "" {
		r, err := svc.reviews.GetReview(ctx, *req.Cursor)
		switch {
		case err == nil:
			cursor = r
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return nil, HandleError(err, "")
		}
	}

	reviews, err := svc.reviews.ListReviews(ctx, req.OrganizationID, cursor, limit+1)
	if err != nil {
		return nil, HandleError(err, "")
	}

	page := &dto.ReviewPage{Items: make([]dto.ReviewResponse, 0, len(reviews))}
	if len(reviews) > limit {
		reviews = reviews[:limit]
		page.HasMore = true
		next := reviews[limit-1].ID
		page.NextCursor = &next
	}

	userIDs := make([]string, 0, len(reviews))
	for i := range reviews {
		userIDs = append(userIDs, reviews[i].UserID)
	}
	authors, err := svc.users.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, HandleError(err, "")
	}

	for i := range reviews {
		page.Items = append(page.Items, dto.NewReviewResponse(&reviews[i], authors[reviews[i].UserID]))
	}
	return page, nil
}

func (svc *ReviewService) Create(ctx context.Context, viewerID string, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	exists, err := svc.orgs.Exists(ctx, req.OrganizationID)
	if err != nil {
		return nil, HandleError(err, "")
	}
	if !exists {
		return nil, shared.NewNotFoundError(nil, "Product not found")
	}

	reviewed, err := svc.reviews.HasReviewed(ctx, req.OrganizationID, viewerID)
	if err != nil {
		return nil, HandleError(err, "")
	}
	if reviewed {
		return nil, shared.NewConflictError(nil, "You have already reviewed this product")
	}

	review := &model.Review{
		OrganizationID: req.OrganizationID,
		UserID:         viewerID,
		Rating:         req.Rating,
		Title:          strings.TrimSpace(req.Title),
		Content:        req.Content,
	}
	if err := svc.reviews.CreateReview(ctx, review); err != nil {
		return nil, HandleError(err, "")
	}

	svc.recompute(ctx, review.OrganizationID)
	return svc.response(ctx, review)
}

func (svc *ReviewService) Update(ctx context.Context, viewerID string, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	review, err := svc.authored(ctx, viewerID, req.ReviewID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Rating != nil {
		fields["rating"] = *req.Rating
	}
	if req.Title != nil {
		fields["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		fields["content"] = *req.Content
	}

	if len(fields) > 0 {
		if err := svc.reviews.UpdateReview(ctx, review.ID, fields); err != nil {
			return nil, HandleError(err, "")
		}
		if review, err = svc.reviews.GetReview(ctx, review.ID); err != nil {
			return nil, HandleError(err, "Review not found")
		}
		if req.Rating != nil {
			svc.recompute(ctx, review.OrganizationID)
		}
	}

	return svc.response(ctx, review)
}

func (svc *ReviewService) Delete(ctx context.Context, viewerID, reviewID string) (*dto.DeleteResponse, error) {
	review, err := svc.authored(ctx, viewerID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := svc.reviews.DeleteReview(ctx, review.ID); err != nil {
		return nil, HandleError(err, "")
	}

	svc.recompute(ctx, review.OrganizationID)
	return &dto.DeleteResponse{Success: true}, nil
}

func (svc *ReviewService) authored(ctx context.Context, viewerID, reviewID string) (*model.Review, error) {
	review, err := svc.reviews.GetReview(ctx, reviewID)
	if err != nil {
		return nil, HandleError(err, "Review not found")
	}
	if review.UserID != viewerID {
		return nil, shared.NewForbiddenError(nil, "You can only modify your own review")
	}
	return review, nil
}

// recompute refreshes the organization's rating and review_count. The review
// write has already succeeded, so a failure here is only logged.
func (svc *ReviewService) recompute(ctx context.Context, orgID string) {
	agg, err := svc.reviews.Aggregate(ctx, orgID)
	if err == nil {
		err = svc.orgs.SetReviewAggregate(ctx, orgID, RoundedRating(agg), int(agg.Count))
	}
	if err != nil {
		log.Error().Err(err).Str("organization_id", orgID).Msg("Failed to recompute organization rating")
	}
}

func (svc *ReviewService) response(ctx context.Context, review *model.Review) (*dto.ReviewResponse, error) {
	author, err := svc.users.GetUser(ctx, review.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, HandleError(err, "")
	}
	resp := dto.NewReviewResponse(review, author)
	return &resp, nil
}
