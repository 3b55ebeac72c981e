package services

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/nexo/internal/models"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/validation"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

// ModeService saves the per-mode rows edited in the dashboard.
type ModeService struct {
	tags      *TagService
	validator *validation.Validator
}

func NewModeService(tags *TagService, validator *validation.Validator) *ModeService {
	return &ModeService{tags: tags, validator: validator}
}

// Save validates body for the given mode and upserts the tag's row for it.
// The row is created on first save if the tag never had one.
func (s *ModeService) Save(ctx context.Context, owner, tagID uuid.UUID, modeKey models.TagMode, body []byte) (any, error) {
	mode, ok := s.tags.registry.Lookup(modeKey)
	if !ok {
		return nil, ErrInvalidMode
	}

	tag, err := s.tags.owned(ctx, owner, tagID)
	if err != nil {
		return nil, err
	}

	row, err := mode.Decode(tag.ID, body, s.validator)
	if err != nil {
		return nil, err
	}

	err = s.tags.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tag_id"}},
		DoUpdates: clause.AssignmentColumns(mode.Columns()),
	}).Create(row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", modeKey, err)
	}
	s.tags.cache.Invalidate(ctx, tag.Code)

	fresh, err := s.tags.Get(ctx, owner, tagID)
	if err != nil {
		return nil, err
	}
	data, _ := mode.Pick(fresh)
	return data, nil
}
