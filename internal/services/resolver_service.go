package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/nexo/internal/models"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/modes"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Resolution is the outcome of a public tap on an existing, active tag.
// Exactly one of NotConfigured, RedirectURL or Data describes what the
// visitor gets.
type Resolution struct {
	Tag           *models.Tag
	Mode          modes.Mode
	NotConfigured bool
	RedirectURL   string
	Data          any
}

// ResolverService turns a public code into what the visitor should see and
// counts the tap.
type ResolverService struct {
	db       *gorm.DB
	registry *modes.Registry
	taps     *TapService
	cache    *TagCache
	lookups  singleflight.Group
}

func NewResolverService(db *gorm.DB, registry *modes.Registry, taps *TapService, cache *TagCache) *ResolverService {
	return &ResolverService{db: db, registry: registry, taps: taps, cache: cache}
}

// Resolve looks the code up, records the tap and dispatches on the active
// mode. Missing, inactive and unreadable tags all return ErrTagNotFound.
// A failed tap record is logged and does not change the result.
func (s *ResolverService) Resolve(ctx context.Context, code string) (*Resolution, error) {
	tag, err := s.Lookup(ctx, code)
	if err != nil {
		return nil, err
	}

	_ = s.taps.Record(ctx, tag.ID)

	mode, ok := s.registry.Lookup(tag.ActiveMode)
	if !ok {
		slog.Warn("tag has unknown active mode", "tag_id", tag.ID.String(), "mode", string(tag.ActiveMode))
		return nil, ErrTagNotFound
	}

	res := &Resolution{Tag: tag, Mode: mode}
	data, configured := mode.Pick(tag)
	if !configured {
		res.NotConfigured = true
		return res, nil
	}
	if r, ok := mode.(modes.Redirector); ok {
		res.RedirectURL = r.Target(data)
		return res, nil
	}
	res.Data = data
	return res, nil
}

// Lookup loads an active tag by code with all mode rows, without counting
// a tap. Concurrent misses for the same code share one query.
func (s *ResolverService) Lookup(ctx context.Context, code string) (*models.Tag, error) {
	if tag, ok := s.cache.get(ctx, code); ok {
		return tag, nil
	}

	// The shared load must not fail for every waiter when the first
	// caller goes away.
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := s.lookups.Do(code, func() (any, error) {
		return s.load(loadCtx, code)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Tag), nil
}

func (s *ResolverService) load(ctx context.Context, code string) (*models.Tag, error) {
	gen := s.cache.generation(code)

	q := s.db.WithContext(ctx)
	for _, assoc := range models.ModeAssociations {
		q = q.Preload(assoc)
	}
	var tag models.Tag
	if err := q.Where("code = ? AND is_active = ?", code, true).First(&tag).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Error("tag lookup failed", "action", "tag_lookup", "code", code, "error", err)
		}
		return nil, ErrTagNotFound
	}

	s.cache.put(ctx, &tag, gen)
	return &tag, nil
}
