package shared

const (
	UserID   = "user_id"
	ClientIP = "client_ip"

	ReportTargetOrganization = "organization"
	ReportTargetComment      = "comment"
	ReportTargetReview       = "review"

	EventTypeView   = "view"
	EventTypeFollow = "follow"

	DefaultPageLimit = 10
	MaxPageLimit     = 50
)
