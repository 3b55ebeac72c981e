package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/nexo/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/models"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/modes"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/storage"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/tagcode"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultLabel    = "My Tag"
	maxCodeAttempts = 3
)

// ListOrder selects how List sorts an owner's tags.
type ListOrder int

const (
	NewestFirst ListOrder = iota
	MostTapped
)

// TagService owns the tag registry. Every operation is scoped to the
// calling owner.
type TagService struct {
	db       *gorm.DB
	registry *modes.Registry
	cache    *TagCache
	avatars  *storage.AvatarStorage
	generate func() (string, error)
}

// NewTagService builds the registry service. avatars may be nil when the
// deployment stores no uploads.
func NewTagService(db *gorm.DB, registry *modes.Registry, cache *TagCache, avatars *storage.AvatarStorage) *TagService {
	return &TagService{
		db:       db,
		registry: registry,
		cache:    cache,
		avatars:  avatars,
		generate: tagcode.Generate,
	}
}

// Create registers a tag with a fresh code and the seeded row for its
// initial mode. Code collisions are retried with a new code.
func (s *TagService) Create(ctx context.Context, owner uuid.UUID, req *dto.CreateTagRequest) (*models.Tag, error) {
	modeKey := req.Mode
	if modeKey == "" {
		modeKey = models.ModeBusinessCard
	}
	mode, ok := s.registry.Lookup(modeKey)
	if !ok {
		return nil, ErrInvalidMode
	}

	seed, err := s.seedInput(ctx, owner)
	if err != nil {
		return nil, err
	}

	label := strings.TrimSpace(req.Label)
	if label == "" {
		label = defaultLabel
	}

	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := s.generate()
		if err != nil {
			return nil, fmt.Errorf("failed to generate tag code: %w", err)
		}

		tag := models.Tag{
			Code:       code,
			UserID:     owner,
			Label:      label,
			ActiveMode: modeKey,
			IsActive:   true,
		}
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&tag).Error; err != nil {
				return err
			}
			seed.TagID = tag.ID
			return tx.Create(mode.Seed(seed)).Error
		})
		if err == nil {
			return s.Get(ctx, owner, tag.ID)
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("failed to create tag: %w", err)
		}
		slog.Warn("tag code collision", "code", code, "attempt", attempt)
	}
	return nil, ErrCodeExhausted
}

func (s *TagService) seedInput(ctx context.Context, owner uuid.UUID) (modes.SeedInput, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return modes.SeedInput{}, ErrUserNotFound
		}
		return modes.SeedInput{}, fmt.Errorf("failed to load user: %w", err)
	}
	var profile models.Profile
	s.db.WithContext(ctx).Limit(1).Find(&profile, "id = ?", owner)
	return modes.SeedInput{FullName: profile.FullName, Email: user.Email}, nil
}

// Get returns the tag with all five mode rows loaded.
func (s *TagService) Get(ctx context.Context, owner, id uuid.UUID) (*models.Tag, error) {
	q := s.db.WithContext(ctx)
	for _, assoc := range models.ModeAssociations {
		q = q.Preload(assoc)
	}
	var tag models.Tag
	if err := q.First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to load tag: %w", err)
	}
	if tag.UserID != owner {
		return nil, ErrNotOwner
	}
	return &tag, nil
}

// owned loads the bare tag row and checks ownership.
func (s *TagService) owned(ctx context.Context, owner, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to load tag: %w", err)
	}
	if tag.UserID != owner {
		return nil, ErrNotOwner
	}
	return &tag, nil
}

func (s *TagService) Update(ctx context.Context, owner, id uuid.UUID, req *dto.UpdateTagRequest) (*models.Tag, error) {
	tag, err := s.owned(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Label != nil {
		label := strings.TrimSpace(*req.Label)
		if label == "" {
			label = defaultLabel
		}
		updates["label"] = label
	}
	if req.ActiveMode != nil {
		if _, ok := s.registry.Lookup(*req.ActiveMode); !ok {
			return nil, ErrInvalidMode
		}
		updates["active_mode"] = *req.ActiveMode
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		err := s.db.WithContext(ctx).Model(&models.Tag{}).
			Where("id = ? AND user_id = ?", id, owner).
			Updates(updates).Error
		if err != nil {
			return nil, fmt.Errorf("failed to update tag: %w", err)
		}
		s.cache.Invalidate(ctx, tag.Code)
	}
	return s.Get(ctx, owner, id)
}

// Delete removes the tag, its mode rows and its tap history together.
func (s *TagService) Delete(ctx context.Context, owner, id uuid.UUID) error {
	tag, err := s.owned(ctx, owner, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range []any{
			&models.BusinessCard{},
			&models.WifiConfig{},
			&models.LinkHub{},
			&models.EmergencyInfo{},
			&models.CustomRedirect{},
			&models.TapEvent{},
		} {
			if err := tx.Where("tag_id = ?", id).Delete(row).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ? AND user_id = ?", id, owner).Delete(&models.Tag{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	s.cache.Invalidate(ctx, tag.Code)

	// The tag is gone either way; leftover files are only logged.
	if s.avatars != nil {
		if err := s.avatars.DeleteAll(id); err != nil {
			slog.Warn("tag avatar cleanup failed", "action", "tag_delete", "tag_id", id.String(), "error", err)
		}
	}
	return nil
}

func (s *TagService) List(ctx context.Context, owner uuid.UUID, order ListOrder) ([]models.Tag, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", owner)
	switch order {
	case MostTapped:
		q = q.Order("tap_count DESC").Order("created_at DESC")
	default:
		q = q.Order("created_at DESC")
	}
	var tags []models.Tag
	if err := q.Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// Catalog lists the modes a new tag can start in.
func (s *TagService) Catalog() []dto.ModeOption {
	all := s.registry.All()
	out := make([]dto.ModeOption, 0, len(all))
	for _, m := range all {
		out = append(out, dto.ModeOption{Key: m.Key(), Label: m.Label(), Description: m.Description()})
	}
	return out
}
