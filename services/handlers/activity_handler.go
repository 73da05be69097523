package handlers

import (
	"context"

	"github.com/peerlaunch/launchpad_api/dto"
	"github.com/peerlaunch/launchpad_api/services/rpc"
)

// ActivityHandler serves reports, owner analytics and the public waitlist.
type ActivityHandler struct {
	reportSvc    ReportServiceInterface
	analyticsSvc AnalyticsServiceInterface
	waitlistSvc  WaitlistServiceInterface
}

func NewActivityHandler(reportSvc ReportServiceInterface, analyticsSvc AnalyticsServiceInterface, waitlistSvc WaitlistServiceInterface) *ActivityHandler {
	return &ActivityHandler{
		reportSvc:    reportSvc,
		analyticsSvc: analyticsSvc,
		waitlistSvc:  waitlistSvc,
	}
}

func (h *ActivityHandler) Register(r *rpc.Router) {
	r.Register("reports/create", h.CreateReport)
	r.Register("analytics/getOverviewAnalytics", h.GetOverviewAnalytics)
	r.Register("waitlist/join", h.JoinWaitlist)
	r.Register("waitlist/count", h.WaitlistCount)
}

// @Summary reports.create procedure
// @Tags rpc
// @Accept json
// @Produce json
// @Security Bearer
// @Param input body dto.CreateReportRequest true "Report"
// @Success 200 {object} dto.ReportResponse
// @Failure 429 {object} rpc.Error
// @Router /rpc/reports/create [post]
func (h *ActivityHandler) CreateReport(ctx context.Context, call *rpc.Call) (interface{}, error) {
	userID, err := call.RequireViewer()
	if err != nil {
		return nil, err
	}

	var req dto.CreateReportRequest
	if err := call.Bind(&req); err != nil {
		return nil, err
	}
	return h.reportSvc.Create(ctx, userID, req)
}

// @Summary analytics.getOverviewAnalytics procedure
// @Description Last 7 days against the 7 before them. Owner only.
// @Tags rpc
// @Accept json
// @Produce json
// @Security Bearer
// @Param input body dto.OrganizationRequest true "Organization"
// @Success 200 {object} dto.OverviewAnalyticsResponse
// @Failure 403 {object} rpc.Error
// @Router /rpc/analytics/getOverviewAnalytics [post]
func (h *ActivityHandler) GetOverviewAnalytics(ctx context.Context, call *rpc.Call) (interface{}, error) {
	userID, err := call.RequireViewer()
	if err != nil {
		return nil, err
	}

	var req dto.OrganizationRequest
	if err := call.Bind(&req); err != nil {
		return nil, err
	}
	return h.analyticsSvc.GetOverview(ctx, userID, req.OrganizationID)
}

func (h *ActivityHandler) JoinWaitlist(ctx context.Context, call *rpc.Call) (interface{}, error) {
	var req dto.JoinWaitlistRequest
	if err := call.Bind(&req); err != nil {
		return nil, err
	}
	return h.waitlistSvc.Join(ctx, call.ClientIP, req)
}

func (h *ActivityHandler) WaitlistCount(ctx context.Context, call *rpc.Call) (interface{}, error) {
	return h.waitlistSvc.Count(ctx)
}
