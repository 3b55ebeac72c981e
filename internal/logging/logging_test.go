package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/nexo/internal/models"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiHandler_FansOutByLevel(t *testing.T) {
	var info, errs bytes.Buffer
	h := NewMultiHandler(
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	logger := slog.New(h).With("tag_id", "abc")

	logger.Info("resolved")
	logger.Error("tap record failed")

	assert.Equal(t, 2, bytes.Count(info.Bytes(), []byte("\n")))
	assert.Equal(t, 1, bytes.Count(errs.Bytes(), []byte("\n")))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(errs.Bytes(), &rec))
	assert.Equal(t, "abc", rec["tag_id"])
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("sink down") }

func TestMultiHandler_KeepsDeliveringAfterFailure(t *testing.T) {
	var out bytes.Buffer
	h := NewMultiHandler(
		failingHandler{slog.NewJSONHandler(&bytes.Buffer{}, nil)},
		slog.NewJSONHandler(&out, nil),
	)

	err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelError, "lookup failed", 0))
	assert.EqualError(t, err, "sink down")
	assert.Contains(t, out.String(), "lookup failed")
}

func TestPGHandler_StoresErrors(t *testing.T) {
	db := testutil.NewDB(t)
	h := newPGHandler(db, time.Hour)
	t.Cleanup(h.Stop)

	logger := slog.New(h).With("trace_id", "req-1")
	logger.Info("ignored")
	logger.Error("tap record failed",
		"tag_id", "7f9c",
		"action", "tap_record",
		"error", errors.New("db down"),
		"latency_ms", 12.6,
		"code", "ABCD2345",
	)
	h.Flush()

	var logs []models.SystemLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)

	got := logs[0]
	assert.Equal(t, "ERROR", got.Level)
	assert.Equal(t, "tap record failed", got.Message)
	require.NotNil(t, got.TagID)
	assert.Equal(t, "7f9c", *got.TagID)
	assert.Equal(t, "req-1", got.TraceID)
	assert.Equal(t, "tap_record", got.Action)
	assert.Equal(t, "db down", got.Error)
	assert.Equal(t, 13, got.LatencyMs)
	assert.JSONEq(t, `{"code":"ABCD2345"}`, string(got.Extra))
}

func TestPurge(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Now().UTC()

	require.NoError(t, db.Create(&models.SystemLog{Timestamp: now.AddDate(0, 0, -45), Level: "ERROR", Message: "old"}).Error)
	require.NoError(t, db.Create(&models.SystemLog{Timestamp: now.AddDate(0, 0, -2), Level: "ERROR", Message: "recent"}).Error)

	deleted, err := Purge(db, 30, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var left []models.SystemLog
	require.NoError(t, db.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, "recent", left[0].Message)
}
