package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/nexo/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", userID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	return &dto.ProfileResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		FullName:  profile.FullName,
		AvatarURL: profile.AvatarURL,
	}, nil
}

// Update overwrites name and avatar, creating the profile row if an older
// account has none.
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	profile := models.Profile{
		ID:        userID,
		FullName:  strings.TrimSpace(req.FullName),
		AvatarURL: req.AvatarURL,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"full_name", "avatar_url", "updated_at"}),
	}).Create(&profile).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.Get(ctx, userID)
}
