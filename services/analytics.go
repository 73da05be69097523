package services

import (
	"context"
	"math"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/peerlaunch/launchpad_api/dto"
	"github.com/peerlaunch/launchpad_api/services/repositories"
	"github.com/peerlaunch/launchpad_api/shared"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const analyticsPeriod = 7 * 24 * time.Hour

type AnalyticsService struct {
	appContext.DefaultService

	orgs     *repositories.OrganizationRepository
	events   *repositories.AnalyticRepository
	reviews  *repositories.ReviewRepository
	comments *repositories.CommentRepository

	now func() time.Time
}

const ANALYTICS_SVC = "analytics_svc"

func (svc AnalyticsService) Id() string {
	return ANALYTICS_SVC
}

func (svc *AnalyticsService) Start() error {
	svc.init(svc.Service(DATABASE_SVC).(*DatabaseService).Db())
	return nil
}

func (svc *AnalyticsService) init(db *gorm.DB) {
	svc.orgs = repositories.NewOrganizationRepository(db)
	svc.events = repositories.NewAnalyticRepository(db)
	svc.reviews = repositories.NewReviewRepository(db)
	svc.comments = repositories.NewCommentRepository(db)
	svc.now = time.Now
}

// GetOverview compares the last seven days against the seven before them.
// Only the organization owner may read it.
func (svc *AnalyticsService) GetOverview(ctx context.Context, viewerID, orgID string) (*dto.OverviewAnalyticsResponse, error) {
	org, err := svc.orgs.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, HandleError(err, "Product not found")
	}
	if org.OwnerID != viewerID {
		return nil, shared.NewForbiddenError(nil, "Only the owner can view analytics")
	}

	end := svc.now().UTC()
	current := repositories.Window{From: end.Add(-analyticsPeriod), To: end}
	previous := repositories.Window{From: end.Add(-2 * analyticsPeriod), To: current.From}

	var views, follows, reviews, comments [2]int64
	windows := [2]repositories.Window{current, previous}

	g, gctx := errgroup.WithContext(ctx)
	for i, w := range windows {
		i, w := i, w
		g.Go(func() (err error) {
			views[i], err = svc.events.CountEvents(gctx, orgID, shared.EventTypeView, w)
			return err
		})
		g.Go(func() (err error) {
			follows[i], err = svc.events.CountEvents(gctx, orgID, shared.EventTypeFollow, w)
			return err
		})
		g.Go(func() (err error) {
			reviews[i], err = svc.reviews.CountInWindow(gctx, orgID, w)
			return err
		})
		g.Go(func() (err error) {
			comments[i], err = svc.comments.CountInWindow(gctx, orgID, w)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, HandleError(err, "")
	}

	return &dto.OverviewAnalyticsResponse{
		OrganizationID: org.ID,
		PeriodStart:    current.From,
		PeriodEnd:      current.To,
		Views:          compare(views),
		Follows:        compare(follows),
		Reviews:        compare(reviews),
		Comments:       compare(comments),
		TotalFollowers: org.FollowerCount,
		Impressions:    org.Impressions,
		Rating:         org.Rating,
	}, nil
}

func compare(v [2]int64) dto.MetricComparison {
	return dto.MetricComparison{Current: v[0], Previous: v[1], PercentChange: PercentChange(v[0], v[1])}
}

// PercentChange is the change from previous to current in percent, rounded
// to one decimal. From zero it is 100 when anything happened, else 0.
func PercentChange(current, previous int64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	change := float64(current-previous) / float64(previous) * 100
	return math.Round(change*10) / 10
}
