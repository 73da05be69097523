package dto

import "time"

// ==================== REPORT DTOs ====================

type CreateReportRequest struct {
	TargetType string `json:"targetType" validate:"required,oneof=organization comment review" example:"comment"`
	TargetID   string `json:"targetId" validate:"required"`
	Reason     string `json:"reason" validate:"required,oneof=spam abuse misleading inappropriate other" example:"spam"`
	Details    string `json:"details" validate:"max=2000"`
}

func (c CreateReportRequest) Validate() error {
	return GetValidator().Struct(c)
}

type ReportResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// ==================== ANALYTICS DTOs ====================

type MetricComparison struct {
	Current       int64   `json:"current"`
	Previous      int64   `json:"previous"`
	PercentChange float64 `json:"percentChange"`
}

type OverviewAnalyticsResponse struct {
	OrganizationID string           `json:"organizationId"`
	PeriodStart    time.Time        `json:"periodStart"`
	PeriodEnd      time.Time        `json:"periodEnd"`
	Views          MetricComparison `json:"views"`
	Follows        MetricComparison `json:"follows"`
	Reviews        MetricComparison `json:"reviews"`
	Comments       MetricComparison `json:"comments"`
	TotalFollowers int              `json:"totalFollowers"`
	Impressions    int64            `json:"impressions"`
	Rating         int              `json:"rating"`
}

// ==================== WAITLIST DTOs ====================

type JoinWaitlistRequest struct {
	Email  string `json:"email" validate:"required,email,max=255" example:"early@example.com"`
	Name   string `json:"name" validate:"max=100"`
	Source string `json:"source" validate:"max=50"`
}

func (j JoinWaitlistRequest) Validate() error {
	return GetValidator().Struct(j)
}

type WaitlistResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Position int64  `json:"position"`
}

type WaitlistCountResponse struct {
	Count int64 `json:"count"`
}
