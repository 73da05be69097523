package model

import "time"

type User struct {
	ID        string     `json:"id" gorm:"primaryKey"`
	Email     string     `json:"email" gorm:"uniqueIndex;not null"`
	Username  string     `json:"username" gorm:"uniqueIndex;not null"`
	Name      string     `json:"name"`
	Image     *string    `json:"image"`
	Password  string     `json:"-"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
