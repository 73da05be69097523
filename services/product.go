package services

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/peerlaunch/launchpad_api/dto"
	"github.com/peerlaunch/launchpad_api/model"
	"github.com/peerlaunch/launchpad_api/services/repositories"
	"github.com/peerlaunch/launchpad_api/shared"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const impressionDedupeTTL = 24 * time.Hour

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

// ImpressionDeduper remembers a key for a while and reports whether it was new.
// RedisService implements it.
type ImpressionDeduper interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
}

// ProductService owns organizations (products): listing, detail, ownership
// edits, follows and impressions.
type ProductService struct {
	appContext.DefaultService

	orgs      *repositories.OrganizationRepository
	reviews   *repositories.ReviewRepository
	users     *repositories.UserRepository
	analytics *repositories.AnalyticRepository

	dedupe ImpressionDeduper
	now    func() time.Time
}

const PRODUCT_SVC = "product_svc"

func (svc ProductService) Id() string {
	return PRODUCT_SVC
}

func (svc *ProductService) Start() error {
	var dedupe ImpressionDeduper
	if redisSvc, ok := svc.Service(REDIS_SVC).(*RedisService); ok {
		dedupe = redisSvc
	}
	svc.init(svc.Service(DATABASE_SVC).(*DatabaseService).Db(), dedupe)
	return nil
}

func (svc *ProductService) init(db *gorm.DB, dedupe ImpressionDeduper) {
	svc.orgs = repositories.NewOrganizationRepository(db)
	svc.reviews = repositories.NewReviewRepository(db)
	svc.users = repositories.NewUserRepository(db)
	svc.analytics = repositories.NewAnalyticRepository(db)
	svc.dedupe = dedupe
	svc.now = time.Now
}

func (svc *ProductService) List(ctx context.Context, req dto.ListProductsRequest, viewerID string) (*dto.ProductPage, error) {
	limit := dto.PageLimit(req.Limit)

	var cursor *model.Organization
	if req.Cursor != nil && *req.Cursor != "" {
		org, err := svc.orgs.GetOrganization(ctx, *req.Cursor)
		switch {
		case err == nil:
			cursor = org
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return nil, HandleError(err, "")
		}
	}

	filter := repositories.OrganizationFilter{Search: req.Search, Category: req.Category}
	orgs, err := svc.orgs.ListOrganizations(ctx, filter, cursor, limit+1)
	if err != nil {
		return nil, HandleError(err, "")
	}

	page := &dto.ProductPage{Items: make([]dto.ProductResponse, 0, len(orgs))}
	if len(orgs) > limit {
		orgs = orgs[:limit]
		page.HasMore = true
		next := orgs[limit-1].ID
		page.NextCursor = &next
	}

	ids := make([]string, len(orgs))
	for i := range orgs {
		ids[i] = orgs[i].ID
	}
	followed, err := svc.orgs.FollowedAmong(ctx, viewerID, ids)
	if err != nil {
		return nil, HandleError(err, "")
	}

	for i := range orgs {
		page.Items = append(page.Items, dto.NewProductResponse(&orgs[i], followed[orgs[i].ID]))
	}
	return page, nil
}

func (svc *ProductService) GetBySlug(ctx context.Context, slug, viewerID string) (*dto.ProductDetailResponse, error) {
	org, err := svc.orgs.GetOrganizationBySlug(ctx, slug)
	if err != nil {
		return nil, HandleError(err, "Product not found")
	}

	following := false
	if viewerID != "" {
		if following, err = svc.orgs.IsFollowing(ctx, org.ID, viewerID); err != nil {
			return nil, HandleError(err, "")
		}
	}

	agg, err := svc.reviews.Aggregate(ctx, org.ID)
	if err != nil {
		return nil, HandleError(err, "")
	}
	dist, err := svc.reviews.Distribution(ctx, org.ID)
	if err != nil {
		return nil, HandleError(err, "")
	}

	owner, err := svc.users.GetUser(ctx, org.OwnerID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, HandleError(err, "")
	}

	return &dto.ProductDetailResponse{
		ProductResponse: dto.NewProductResponse(org, following),
		Owner:           dto.NewUserSummary(owner),
		ReviewStats: dto.ReviewStats{
			Average:      math.Round(agg.Average*10) / 10,
			Count:        agg.Count,
			Distribution: dist,
		},
	}, nil
}

func (svc *ProductService) Create(ctx context.Context, ownerID string, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	slug, err := svc.uniqueSlug(ctx, req.Name)
	if err != nil {
		return nil, HandleError(err, "")
	}

	org := &model.Organization{
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug,
		Tagline:     req.Tagline,
		Description: req.Description,
		Website:     req.Website,
		LogoURL:     req.LogoURL,
		Category:    req.Category,
		OwnerID:     ownerID,
	}
	if err := svc.orgs.CreateOrganization(ctx, org); err != nil {
		return nil, HandleError(err, "")
	}

	log.Info().Str("organization_id", org.ID).Str("slug", slug).Msg("Product created")
	resp := dto.NewProductResponse(org, false)
	return &resp, nil
}

// Slugify lowercases name and joins its alphanumeric runs with dashes.
func Slugify(name string) string {
	slug := strings.Trim(slugInvalidChars.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		return "product"
	}
	return slug
}

// uniqueSlug appends the smallest free numeric suffix (-2, -3, ...) on collision.
func (svc *ProductService) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := Slugify(name)
	taken, err := svc.orgs.SlugsWithPrefix(ctx, base)
	if err != nil {
		return "", err
	}

	used := make(map[string]bool, len(taken))
	for _, s := range taken {
		used[s] = true
	}
	if !used[base] {
		return base, nil
	}
	for n := 2; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if !used[candidate] {
			return candidate, nil
		}
	}
}

func (svc *ProductService) Update(ctx context.Context, viewerID string, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	org, err := svc.ownedOrganization(ctx, viewerID, req.OrganizationID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Tagline != nil {
		fields["tagline"] = *req.Tagline
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Website != nil {
		fields["website"] = *req.Website
	}
	if req.LogoURL != nil {
		fields["logo_url"] = *req.LogoURL
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}

	if len(fields) > 0 {
		if err := svc.orgs.UpdateOrganization(ctx, org.ID, fields); err != nil {
			return nil, HandleError(err, "")
		}
		if org, err = svc.orgs.GetOrganization(ctx, org.ID); err != nil {
			return nil, HandleError(err, "Product not found")
		}
	}

	following, err := svc.orgs.IsFollowing(ctx, org.ID, viewerID)
	if err != nil {
		return nil, HandleError(err, "")
	}
	resp := dto.NewProductResponse(org, following)
	return &resp, nil
}

func (svc *ProductService) Follow(ctx context.Context, viewerID, orgID string) (*dto.FollowResponse, error) {
	if err := svc.requireOrganization(ctx, orgID); err != nil {
		return nil, err
	}

	created, err := svc.orgs.Follow(ctx, orgID, viewerID)
	if err != nil {
		return nil, HandleError(err, "")
	}
	if created {
		svc.recordEvent(ctx, orgID, shared.EventTypeFollow, viewerID)
	}
	return svc.followState(ctx, orgID, true)
}

func (svc *ProductService) Unfollow(ctx context.Context, viewerID, orgID string) (*dto.FollowResponse, error) {
	if err := svc.requireOrganization(ctx, orgID); err != nil {
		return nil, err
	}

	if _, err := svc.orgs.Unfollow(ctx, orgID, viewerID); err != nil {
		return nil, HandleError(err, "")
	}
	return svc.followState(ctx, orgID, false)
}

func (svc *ProductService) followState(ctx context.Context, orgID string, following bool) (*dto.FollowResponse, error) {
	org, err := svc.orgs.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, HandleError(err, "Product not found")
	}
	return &dto.FollowResponse{Following: following, FollowerCount: org.FollowerCount}, nil
}

// ToggleImpression records a view and counts it toward impressions at most
// once per viewer (or client IP when anonymous) per UTC day. When the dedupe
// store is unavailable every call is counted.
func (svc *ProductService) ToggleImpression(ctx context.Context, viewerID, clientIP, orgID string) (*dto.ImpressionResponse, error) {
	if err := svc.requireOrganization(ctx, orgID); err != nil {
		return nil, err
	}

	svc.recordEvent(ctx, orgID, shared.EventTypeView, viewerID)

	counted := true
	if svc.dedupe != nil {
		who := viewerID
		if who == "" {
			who = "ip:" + clientIP
		}
		key := "impression:" + orgID + ":" + who + ":" + svc.now().UTC().Format("2006-01-02")

		fresh, err := svc.dedupe.SetNX(ctx, key, 1, impressionDedupeTTL)
		if err != nil {
			log.Warn().Err(err).Str("organization_id", orgID).Msg("Impression dedupe unavailable, counting anyway")
		} else {
			counted = fresh
		}
	}

	if !counted {
		org, err := svc.orgs.GetOrganization(ctx, orgID)
		if err != nil {
			return nil, HandleError(err, "Product not found")
		}
		return &dto.ImpressionResponse{Counted: false, Impressions: org.Impressions}, nil
	}

	impressions, err := svc.orgs.IncrementImpressions(ctx, orgID)
	if err != nil {
		return nil, HandleError(err, "")
	}
	return &dto.ImpressionResponse{Counted: true, Impressions: impressions}, nil
}

// SyncOrganizationMetadata recomputes the denormalized rating, review and
// follower counters from their source tables.
func (svc *ProductService) SyncOrganizationMetadata(ctx context.Context, viewerID, orgID string) (*dto.ProductResponse, error) {
	org, err := svc.ownedOrganization(ctx, viewerID, orgID)
	if err != nil {
		return nil, err
	}

	agg, err := svc.reviews.Aggregate(ctx, org.ID)
	if err != nil {
		return nil, HandleError(err, "")
	}
	if err := svc.orgs.SetReviewAggregate(ctx, org.ID, RoundedRating(agg), int(agg.Count)); err != nil {
		return nil, HandleError(err, "")
	}

	followers, err := svc.orgs.CountFollowers(ctx, org.ID)
	if err != nil {
		return nil, HandleError(err, "")
	}
	if err := svc.orgs.SetFollowerCount(ctx, org.ID, int(followers)); err != nil {
		return nil, HandleError(err, "")
	}

	if org, err = svc.orgs.GetOrganization(ctx, org.ID); err != nil {
		return nil, HandleError(err, "Product not found")
	}
	following, err := svc.orgs.IsFollowing(ctx, org.ID, viewerID)
	if err != nil {
		return nil, HandleError(err, "")
	}
	resp := dto.NewProductResponse(org, following)
	return &resp, nil
}

// RoundedRating is the review average rounded to a whole star, 0 without reviews.
func RoundedRating(agg repositories.ReviewAggregate) int {
	if agg.Count == 0 {
		return 0
	}
	return int(math.Round(agg.Average))
}

func (svc *ProductService) ownedOrganization(ctx context.Context, viewerID, orgID string) (*model.Organization, error) {
	org, err := svc.orgs.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, HandleError(err, "Product not found")
	}
	if org.OwnerID != viewerID {
		return nil, shared.NewForbiddenError(nil, "Only the owner can manage this product")
	}
	return org, nil
}

func (svc *ProductService) requireOrganization(ctx context.Context, orgID string) error {
	exists, err := svc.orgs.Exists(ctx, orgID)
	if err != nil {
		return HandleError(err, "")
	}
	if !exists {
		return shared.NewNotFoundError(nil, "Product not found")
	}
	return nil
}

// recordEvent is best effort: a lost analytics row never fails the request.
func (svc *ProductService) recordEvent(ctx context.Context, orgID, eventType, viewerID string) {
	event := &model.AnalyticsEvent{OrganizationID: orgID, EventType: eventType}
	if viewerID != "" {
		event.UserID = &viewerID
	}
	if err := svc.analytics.RecordEvent(ctx, event); err != nil {
		log.Warn().Err(err).Str("organization_id", orgID).Str("event", eventType).Msg("Failed to record analytics event")
	}
}
