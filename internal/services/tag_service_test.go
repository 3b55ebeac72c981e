package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/nexo/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/models"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/tagcode"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/testutil"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_SeedsChosenMode(t *testing.T) {
	e := newEnv(t, 0)
	user := testutil.CreateUser(t, e.db, "owner@example.com")

	tag, err := e.tags.Create(ctx, user.ID, &dto.CreateTagRequest{Mode: models.ModeWifi})
	require.NoError(t, err)

	assert.True(t, tagcode.Valid(tag.Code))
	assert.Equal(t, "My Tag", tag.Label)
	assert.Equal(t, models.ModeWifi, tag.ActiveMode)
	assert.True(t, tag.IsActive)
	assert.Zero(t, tag.TapCount)
	require.NotNil(t, tag.WifiConfig)
	assert.Equal(t, "My Network", tag.WifiConfig.SSID)
	assert.Nil(t, tag.BusinessCard)
	assert.Nil(t, tag.CustomRedirect)
}

func TestCreate_DefaultsToBusinessCard(t *testing.T) {
	e := newEnv(t, 0)
	user := testutil.CreateUser(t, e.db, "owner@example.com")

	tag, err := e.tags.Create(ctx, user.ID, &dto.CreateTagRequest{Label: "  Desk  "})
	require.NoError(t, err)

	assert.Equal(t, "Desk", tag.Label)
	assert.Equal(t, models.ModeBusinessCard, tag.ActiveMode)
	require.NotNil(t, tag.BusinessCard)
	assert.Equal(t, "Test User", tag.BusinessCard.Name)
	assert.Equal(t, "owner@example.com", tag.BusinessCard.Email)

	res, err := e.resolver.Resolve(ctx, tag.Code)
	require.NoError(t, err)
	assert.False(t, res.NotConfigured)
}

func TestCreate_InvalidMode(t *testing.T) {
	e := newEnv(t, 0)
	user := testutil.CreateUser(t, e.db, "owner@example.com")

	_, err := e.tags.Create(ctx, user.ID, &dto.CreateTagRequest{Mode: "hologram"})
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestCreate_RetriesCodeCollision(t *testing.T) {
	e := newEnv(t, 0)
	user := testutil.CreateUser(t, e.db, "owner@example.com")
	testutil.CreateTag(t, e.db, user.ID, "TAKEN234", models.ModeBusinessCard)

	codes := []string{"TAKEN234", "TAKEN234", "FRESH234"}
	e.tags.generate = func() (string, error) {
		code := codes[0]
		codes = codes[1:]
		return code, nil
	}

	tag, err := e.tags.Create(ctx, user.ID, &dto.CreateTagRequest{})
	require.NoError(t, err)
	assert.Equal(t, "FRESH234", tag.Code)
}

func TestCreate_GivesUpAfterRepeatedCollisions(t *testing.T) {
	e := newEnv(t, 0)
	user := testutil.CreateUser(t, e.db, "owner@example.com")
	testutil.CreateTag(t, e.db, user.ID, "TAKEN234", models.ModeBusinessCard)
	e.tags.generate = func() (string, error) { return "TAKEN234", nil }

	_, err := e.tags.Create(ctx, user.ID, &dto.CreateTagRequest{})
	assert.ErrorIs(t, err, ErrCodeExhausted)

	var count int64
	require.NoError(t, e.db.Model(&models.Tag{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGet_Ownership(t *testing.T) {
	e := newEnv(t, 0)
	owner := testutil.CreateUser(t, e.db, "owner@example.com")
	other := testutil.CreateUser(t, e.db, "other@example.com")
	tag := testutil.CreateTag(t, e.db, owner.ID, "ABCD2345", models.ModeBusinessCard)

	_, err := e.tags.Get(ctx, other.ID, tag.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = e.tags.Get(ctx, owner.ID, uuid.New())
	assert.ErrorIs(t, err, ErrTagNotFound)
}

func TestUpdate_NonOwnerChangesNothing(t *testing.T) {
	e := newEnv(t, 0)
	owner := testutil.CreateUser(t, e.db, "owner@example.com")
	other := testutil.CreateUser(t, e.db, "other@example.com")
	tag := testutil.CreateTag(t, e.db, owner.ID, "ABCD2345", models.ModeBusinessCard)

	label := "Stolen"
	inactive := false
	_, err := e.tags.Update(ctx, other.ID, tag.ID, &dto.UpdateTagRequest{Label: &label, IsActive: &inactive})
	assert.ErrorIs(t, err, ErrNotOwner)

	got := e.reloadTag(t, tag.ID)
	assert.Equal(t, "Test Tag", got.Label)
	assert.True(t, got.IsActive)
}

func TestUpdate_AppliesPresentFields(t *testing.T) {
	e := newEnv(t, time.Minute)
	owner := testutil.CreateUser(t, e.db, "owner@example.com")
	tag := testutil.CreateTag(t, e.db, owner.ID, "ABCD2345", models.ModeBusinessCard)

	// Warm the cache, then deactivate: the next tap must miss.
	_, err := e.resolver.Resolve(ctx, "ABCD2345")
	require.NoError(t, err)

	mode := models.ModeLinkHub
	inactive := false
	updated, err := e.tags.Update(ctx, owner.ID, tag.ID, &dto.UpdateTagRequest{ActiveMode: &mode, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Test Tag", updated.Label)
	assert.Equal(t, models.ModeLinkHub, updated.ActiveMode)
	assert.False(t, updated.IsActive)

	_, err = e.resolver.Resolve(ctx, "ABCD2345")
	assert.ErrorIs(t, err, ErrTagNotFound)
}

func TestUpdate_RejectsUnknownMode(t *testing.T) {
	e := newEnv(t, 0)
	owner := testutil.CreateUser(t, e.db, "owner@example.com")
	tag := testutil.CreateTag(t, e.db, owner.ID, "ABCD2345", models.ModeBusinessCard)

	mode := models.TagMode("hologram")
	_, err := e.tags.Update(ctx, owner.ID, tag.ID, &dto.UpdateTagRequest{ActiveMode: &mode})
	assert.ErrorIs(t, err, ErrInvalidMode)
	assert.Equal(t, models.ModeBusinessCard, e.reloadTag(t, tag.ID).ActiveMode)
}

func TestDelete_RemovesEverything(t *testing.T) {
	e := newEnv(t, time.Minute)
	owner := testutil.CreateUser(t, e.db, "owner@example.com")

	tag, err := e.tags.Create(ctx, owner.ID, &dto.CreateTagRequest{Mode: models.ModeRedirect})
	require.NoError(t, err)
	_, err = e.resolver.Resolve(ctx, tag.Code)
	require.NoError(t, err)

	require.NoError(t, e.tags.Delete(ctx, owner.ID, tag.ID))

	_, err = e.resolver.Resolve(ctx, tag.Code)
	assert.ErrorIs(t, err, ErrTagNotFound)

	var redirects, taps int64
	require.NoError(t, e.db.Model(&models.CustomRedirect{}).Where("tag_id = ?", tag.ID).Count(&redirects).Error)
	require.NoError(t, e.db.Model(&models.TapEvent{}).Where("tag_id = ?", tag.ID).Count(&taps).Error)
	assert.Zero(t, redirects)
	assert.Zero(t, taps)
}

func TestDelete_RemovesStoredAvatars(t *testing.T) {
	e := newEnv(t, 0)
	owner := testutil.CreateUser(t, e.db, "owner@example.com")
	doomed := testutil.CreateTag(t, e.db, owner.ID, "GONE2345", models.ModeBusinessCard)
	kept := testutil.CreateTag(t, e.db, owner.ID, "KEPT2345", models.ModeBusinessCard)

	_, err := e.avatars.Save(doomed.ID, pngAvatar(t))
	require.NoError(t, err)
	_, err = e.avatars.Save(kept.ID, pngAvatar(t))
	require.NoError(t, err)

	require.NoError(t, e.tags.Delete(ctx, owner.ID, doomed.ID))

	left, err := filepath.Glob(filepath.Join(e.avatars.Dir(), "business-cards", "*"))
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Contains(t, filepath.Base(left[0]), kept.ID.String())

	// A failed delete leaves the files alone.
	other := testutil.CreateUser(t, e.db, "other@example.com")
	assert.ErrorIs(t, e.tags.Delete(ctx, other.ID, kept.ID), ErrNotOwner)
	_, err = os.Stat(left[0])
	assert.NoError(t, err)
}

func TestDelete_NonOwnerLeavesTag(t *testing.T) {
	e := newEnv(t, 0)
	owner := testutil.CreateUser(t, e.db, "owner@example.com")
	other := testutil.CreateUser(t, e.db, "other@example.com")
	tag := testutil.CreateTag(t, e.db, owner.ID, "ABCD2345", models.ModeBusinessCard)

	assert.ErrorIs(t, e.tags.Delete(ctx, other.ID, tag.ID), ErrNotOwner)
	assert.Equal(t, tag.ID, e.reloadTag(t, tag.ID).ID)
}

func TestList_Orders(t *testing.T) {
	e := newEnv(t, 0)
	owner := testutil.CreateUser(t, e.db, "owner@example.com")
	other := testutil.CreateUser(t, e.db, "other@example.com")

	older := testutil.CreateTag(t, e.db, owner.ID, "OLDER234", models.ModeBusinessCard)
	newer := testutil.CreateTag(t, e.db, owner.ID, "NEWER234", models.ModeBusinessCard)
	testutil.CreateTag(t, e.db, other.ID, "OTHER234", models.ModeBusinessCard)
	require.NoError(t, e.db.Model(&older).UpdateColumn("created_at", time.Now().Add(-time.Hour)).Error)
	require.NoError(t, e.db.Model(&older).UpdateColumn("tap_count", 9).Error)

	byDate, err := e.tags.List(ctx, owner.ID, NewestFirst)
	require.NoError(t, err)
	require.Len(t, byDate, 2)
	assert.Equal(t, newer.ID, byDate[0].ID)

	byTaps, err := e.tags.List(ctx, owner.ID, MostTapped)
	require.NoError(t, err)
	require.Len(t, byTaps, 2)
	assert.Equal(t, older.ID, byTaps[0].ID)
}

func TestModeSave_UpsertsAndInvalidates(t *testing.T) {
	e := newEnv(t, time.Minute)
	owner := testutil.CreateUser(t, e.db, "owner@example.com")
	tag := testutil.CreateTag(t, e.db, owner.ID, "REDIR234", models.ModeRedirect)

	res, err := e.resolver.Resolve(ctx, "REDIR234")
	require.NoError(t, err)
	require.True(t, res.NotConfigured)

	row, err := e.modes.Save(ctx, owner.ID, tag.ID, models.ModeRedirect, []byte(`{"url":"https://example.org"}`))
	require.NoError(t, err)
	assert.Equal(t, "https://example.org", row.(*models.CustomRedirect).URL)

	res, err = e.resolver.Resolve(ctx, "REDIR234")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org", res.RedirectURL)

	_, err = e.modes.Save(ctx, owner.ID, tag.ID, models.ModeRedirect, []byte(`{"url":"https://example.net/next"}`))
	require.NoError(t, err)

	var rows []models.CustomRedirect
	require.NoError(t, e.db.Where("tag_id = ?", tag.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "https://example.net/next", rows[0].URL)
}

func TestModeSave_JSONColumns(t *testing.T) {
	e := newEnv(t, 0)
	owner := testutil.CreateUser(t, e.db, "owner@example.com")
	tag := testutil.CreateTag(t, e.db, owner.ID, "LINKS234", models.ModeLinkHub)

	body := []byte(`{"title":"Me","links":[{"title":"Site","url":"https://me.example"},{"title":"Blog","url":"https://me.example/blog"}]}`)
	_, err := e.modes.Save(ctx, owner.ID, tag.ID, models.ModeLinkHub, body)
	require.NoError(t, err)

	res, err := e.resolver.Resolve(ctx, "LINKS234")
	require.NoError(t, err)
	hub := res.Data.(*models.LinkHub)
	require.Len(t, hub.Links, 2)
	assert.Equal(t, "Blog", hub.Links[1].Title)
}

func TestModeSave_Errors(t *testing.T) {
	e := newEnv(t, 0)
	owner := testutil.CreateUser(t, e.db, "owner@example.com")
	other := testutil.CreateUser(t, e.db, "other@example.com")
	tag := testutil.CreateTag(t, e.db, owner.ID, "ABCD2345", models.ModeBusinessCard)

	_, err := e.modes.Save(ctx, owner.ID, tag.ID, "hologram", []byte(`{}`))
	assert.ErrorIs(t, err, ErrInvalidMode)

	_, err = e.modes.Save(ctx, other.ID, tag.ID, models.ModeBusinessCard, []byte(`{"name":"X"}`))
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = e.modes.Save(ctx, owner.ID, tag.ID, models.ModeBusinessCard, []byte(`{"name":""}`))
	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "name")
}
