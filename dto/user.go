package dto

import (
	"time"

	"github.com/peerlaunch/launchpad_api/model"
)

// UserSummary is the public author card attached to comments and reviews.
type UserSummary struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Image    *string `json:"image"`
}

func NewUserSummary(u *model.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.Name, Username: u.Username, Image: u.Image}
}

type UserProfile struct {
	ID        string    `json:"id" example:"0190f0c2-7f1e-7c3a-9d55-5b1f1f0f0a11"`
	Email     string    `json:"email" example:"maker@example.com"`
	Username  string    `json:"username" example:"maker42"`
	Name      string    `json:"name" example:"Ada Maker"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewUserProfile(u *model.User) UserProfile {
	return UserProfile{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Name:      u.Name,
		Image:     u.Image,
		CreatedAt: u.CreatedAt,
	}
}

type UpdateUserImageRequest struct {
	Image string `json:"image" validate:"required,url,max=2048" example:"https://cdn.example.com/avatars/a.png"`
}

func (u UpdateUserImageRequest) Validate() error {
	return GetValidator().Struct(u)
}
