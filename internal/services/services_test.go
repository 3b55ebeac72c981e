package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/nexo/internal/cache"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/models"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/modes"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/storage"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/testutil"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type env struct {
	db        *gorm.DB
	cache     *TagCache
	avatars   *storage.AvatarStorage
	tags      *TagService
	modes     *ModeService
	taps      *TapService
	resolver  *ResolverService
	analytics *AnalyticsService
}

func newEnv(t *testing.T, cacheTTL time.Duration) *env {
	t.Helper()
	db := testutil.NewDB(t)
	registry := modes.Default()
	tc := NewTagCache(cache.NewMemoryStore(), cacheTTL)
	avatars, err := storage.NewAvatarStorage(t.TempDir(), "http://localhost:3000", 1<<20)
	require.NoError(t, err)
	tags := NewTagService(db, registry, tc, avatars)
	taps := NewTapService(db)
	return &env{
		db:        db,
		cache:     tc,
		avatars:   avatars,
		tags:      tags,
		modes:     NewModeService(tags, validation.New()),
		taps:      taps,
		resolver:  NewResolverService(db, registry, taps, tc),
		analytics: NewAnalyticsService(db, tags, time.UTC),
	}
}

func (e *env) reloadTag(t *testing.T, id uuid.UUID) models.Tag {
	t.Helper()
	var tag models.Tag
	require.NoError(t, e.db.First(&tag, "id = ?", id).Error)
	return tag
}

func (e *env) countTaps(t *testing.T, id uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.TapEvent{}).Where("tag_id = ?", id).Count(&n).Error)
	return n
}

var ctx = context.Background()

func pngAvatar(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
