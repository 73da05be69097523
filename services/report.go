package services

import (
	"context"

	appContext "github.com/alphabatem/common/context"
	"github.com/peerlaunch/launchpad_api/dto"
	"github.com/peerlaunch/launchpad_api/model"
	"github.com/peerlaunch/launchpad_api/services/repositories"
	"github.com/peerlaunch/launchpad_api/shared"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// RateChecker enforces a named rate limit for an identifier. RateLimitService implements it.
type RateChecker interface {
	Check(ctx context.Context, identifier, endpointType string) error
}

type ReportService struct {
	appContext.DefaultService

	reports  *repositories.ReportRepository
	orgs     *repositories.OrganizationRepository
	comments *repositories.CommentRepository
	reviews  *repositories.ReviewRepository
	limiter  RateChecker
}

const REPORT_SVC = "report_svc"

func (svc ReportService) Id() string {
	return REPORT_SVC
}

func (svc *ReportService) Start() error {
	var limiter RateChecker
	if rl, ok := svc.Service(RATE_LIMIT_SVC).(*RateLimitService); ok {
		limiter = rl
	}
	svc.init(svc.Service(DATABASE_SVC).(*DatabaseService).Db(), limiter)
	return nil
}

func (svc *ReportService) init(db *gorm.DB, limiter RateChecker) {
	svc.reports = repositories.NewReportRepository(db)
	svc.orgs = repositories.NewOrganizationRepository(db)
	svc.comments = repositories.NewCommentRepository(db)
	svc.reviews = repositories.NewReviewRepository(db)
	svc.limiter = limiter
}

func (svc *ReportService) Create(ctx context.Context, reporterID string, req dto.CreateReportRequest) (*dto.ReportResponse, error) {
	if svc.limiter != nil {
		if err := svc.limiter.Check(ctx, reporterID, LimitReport); err != nil {
			return nil, err
		}
	}

	if err := svc.targetExists(ctx, req.TargetType, req.TargetID); err != nil {
		return nil, err
	}

	open, err := svc.reports.HasOpenReport(ctx, reporterID, req.TargetType, req.TargetID)
	if err != nil {
		return nil, HandleError(err, "")
	}
	if open {
		return nil, shared.NewConflictError(nil, "You have already reported this content")
	}

	report := &model.Report{
		ReporterID: reporterID,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Reason:     req.Reason,
		Details:    req.Details,
	}
	if err := svc.reports.CreateReport(ctx, report); err != nil {
		return nil, HandleError(err, "")
	}

	log.Info().Str("report_id", report.ID).Str("target_type", report.TargetType).Str("target_id", report.TargetID).Msg("Content reported")
	return &dto.ReportResponse{ID: report.ID, Status: report.Status, CreatedAt: report.CreatedAt}, nil
}

func (svc *ReportService) targetExists(ctx context.Context, targetType, targetID string) error {
	switch targetType {
	case shared.ReportTargetOrganization:
		exists, err := svc.orgs.Exists(ctx, targetID)
		if err != nil {
			return HandleError(err, "")
		}
		if !exists {
			return shared.NewNotFoundError(nil, "Reported product not found")
		}
	case shared.ReportTargetComment:
		if _, err := svc.comments.GetComment(ctx, targetID); err != nil {
			return HandleError(err, "Reported comment not found")
		}
	case shared.ReportTargetReview:
		if _, err := svc.reviews.GetReview(ctx, targetID); err != nil {
			return HandleError(err, "Reported review not found")
		}
	default:
		return shared.NewBadRequestError(nil, "Unsupported report target")
	}
	return nil
}
