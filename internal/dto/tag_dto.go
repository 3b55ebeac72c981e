package dto

import (
	"github.com/ahmetcoskunkizilkaya/nexo/internal/models"
)

type CreateTagRequest struct {
	Label string         `json:"label" validate:"max=100"`
	Mode  models.TagMode `json:"mode"`
}

// UpdateTagRequest applies only the fields that are present.
type UpdateTagRequest struct {
	Label      *string         `json:"label" validate:"omitempty,max=100"`
	ActiveMode *models.TagMode `json:"active_mode"`
	IsActive   *bool           `json:"is_active"`
}

type TagResponse struct {
	*models.Tag
	URL string `json:"url"`
}

type ModeOption struct {
	Key         models.TagMode `json:"key"`
	Label       string         `json:"label"`
	Description string         `json:"description"`
}

type DashboardResponse struct {
	Profile ProfileResponse `json:"profile"`
	Tags    []TagResponse   `json:"tags"`
}

type ProfileResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

type UpdateProfileRequest struct {
	FullName  string `json:"full_name" validate:"max=255"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,http_url,max=1024"`
}

type AvatarResponse struct {
	URL string `json:"url"`
}
