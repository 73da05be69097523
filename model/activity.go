package model

import "time"

type Report struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	ReporterID string    `json:"reporter_id" gorm:"index;not null"`
	TargetType string    `json:"target_type" gorm:"size:32;not null"`
	TargetID   string    `json:"target_id" gorm:"index;not null"`
	Reason     string    `json:"reason" gorm:"size:100;not null"`
	Details    string    `json:"details" gorm:"type:text"`
	Status     string    `json:"status" gorm:"size:20;default:pending;not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type AnalyticsEvent struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	OrganizationID string    `json:"organization_id" gorm:"index:idx_event_org_type_time;not null"`
	EventType      string    `json:"event_type" gorm:"index:idx_event_org_type_time;size:32;not null"`
	UserID         *string   `json:"user_id"`
	CreatedAt      time.Time `json:"created_at" gorm:"index:idx_event_org_type_time"`
}

type WaitlistEntry struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Name      string    `json:"name"`
	Source    string    `json:"source" gorm:"size:50"`
	CreatedAt time.Time `json:"created_at"`
}

type MediaAsset struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"index;not null"`
	ObjectName  string    `json:"object_name" gorm:"uniqueIndex;not null"`
	URL         string    `json:"url" gorm:"not null"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// All lists every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Organization{},
		&OrganizationFollow{},
		&Review{},
		&Comment{},
		&CommentLike{},
		&Report{},
		&AnalyticsEvent{},
		&WaitlistEntry{},
		&MediaAsset{},
	}
}
