package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/nexo/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	recentTapLimit = 10
	topTagLimit    = 5
	chartDays      = 7
)

// AnalyticsService aggregates tap counts for the dashboard. Query failures
// are logged and reported as zeros so the dashboard still renders.
type AnalyticsService struct {
	db   *gorm.DB
	tags *TagService
	loc  *time.Location
	now  func() time.Time
}

func NewAnalyticsService(db *gorm.DB, tags *TagService, loc *time.Location) *AnalyticsService {
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsService{db: db, tags: tags, loc: loc, now: utcNow}
}

type recentTapRow struct {
	TagID    uuid.UUID
	Label    string
	Code     string
	TappedAt time.Time
}

func (s *AnalyticsService) Overview(ctx context.Context, owner uuid.UUID) *dto.AnalyticsOverview {
	out := &dto.AnalyticsOverview{
		Tags:       []dto.TagStat{},
		TopTags:    []dto.TagStat{},
		RecentTaps: []dto.RecentTap{},
	}

	tags, err := s.tags.List(ctx, owner, MostTapped)
	if err != nil {
		slog.Error("analytics: list tags failed", "action", "analytics_overview", "user_id", owner.String(), "error", err)
		return out
	}
	for _, t := range tags {
		out.Tags = append(out.Tags, tagStat(&t))
		out.TotalTaps += t.TapCount
	}
	out.TopTags = out.Tags[:min(topTagLimit, len(out.Tags))]
	if len(tags) == 0 {
		return out
	}

	now := s.now()
	scope := func(db *gorm.DB) *gorm.DB {
		return db.Where("tags.user_id = ?", owner)
	}
	out.TodayTaps = s.countSince(ctx, scope, s.startOfDay(now))
	out.WeekTaps = s.countSince(ctx, scope, now.AddDate(0, 0, -7))
	out.MonthTaps = s.countSince(ctx, scope, now.AddDate(0, 0, -30))
	out.RecentTaps = s.recent(ctx, scope)
	return out
}

// ForTag reports counts and a seven-day chart for one owned tag.
func (s *AnalyticsService) ForTag(ctx context.Context, owner, tagID uuid.UUID) (*dto.TagAnalytics, error) {
	tag, err := s.tags.owned(ctx, owner, tagID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	scope := func(db *gorm.DB) *gorm.DB {
		return db.Where("tap_events.tag_id = ?", tagID)
	}
	return &dto.TagAnalytics{
		Tag:        tagStat(tag),
		TotalTaps:  tag.TapCount,
		TodayTaps:  s.countSince(ctx, scope, s.startOfDay(now)),
		WeekTaps:   s.countSince(ctx, scope, now.AddDate(0, 0, -7)),
		Chart:      s.chart(ctx, tagID, now),
		RecentTaps: s.recent(ctx, scope),
	}, nil
}

// countSince and recent join tags; scope narrows the join to one owner or
// one tag.
func (s *AnalyticsService) countSince(ctx context.Context, scope func(*gorm.DB) *gorm.DB, since time.Time) int64 {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.TapEvent{}).
		Joins("JOIN tags ON tags.id = tap_events.tag_id").
		Scopes(scope).
		Where("tap_events.tapped_at >= ?", since.UTC()).
		Count(&n).Error
	if err != nil {
		slog.Error("analytics: count taps failed", "action", "analytics_count", "error", err)
		return 0
	}
	return n
}

func (s *AnalyticsService) recent(ctx context.Context, scope func(*gorm.DB) *gorm.DB) []dto.RecentTap {
	var rows []recentTapRow
	err := s.db.WithContext(ctx).Model(&models.TapEvent{}).
		Select("tap_events.tag_id, tags.label, tags.code, tap_events.tapped_at").
		Joins("JOIN tags ON tags.id = tap_events.tag_id").
		Scopes(scope).
		Order("tap_events.tapped_at DESC").
		Limit(recentTapLimit).
		Scan(&rows).Error
	out := make([]dto.RecentTap, 0, len(rows))
	if err != nil {
		slog.Error("analytics: recent taps failed", "action", "analytics_recent", "error", err)
		return out
	}
	for _, r := range rows {
		label := r.Label
		if label == "" {
			label = r.Code
		}
		out = append(out, dto.RecentTap{TagID: r.TagID, Label: label, TappedAt: r.TappedAt})
	}
	return out
}

// chart buckets the last seven calendar days, oldest first, including days
// without taps.
func (s *AnalyticsService) chart(ctx context.Context, tagID uuid.UUID, now time.Time) []dto.DayCount {
	today := s.startOfDay(now)
	first := today.AddDate(0, 0, -(chartDays - 1))

	buckets := make([]dto.DayCount, chartDays)
	index := make(map[string]int, chartDays)
	for i := range buckets {
		day := first.AddDate(0, 0, i).Format(time.DateOnly)
		buckets[i] = dto.DayCount{Date: day}
		index[day] = i
	}

	var times []time.Time
	err := s.db.WithContext(ctx).Model(&models.TapEvent{}).
		Where("tag_id = ? AND tapped_at >= ?", tagID, first.UTC()).
		Pluck("tapped_at", &times).Error
	if err != nil {
		slog.Error("analytics: chart query failed", "action", "analytics_chart", "tag_id", tagID.String(), "error", err)
		return buckets
	}
	for _, t := range times {
		if i, ok := index[t.In(s.loc).Format(time.DateOnly)]; ok {
			buckets[i].Count++
		}
	}
	return buckets
}

func (s *AnalyticsService) startOfDay(t time.Time) time.Time {
	t = t.In(s.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

func tagStat(t *models.Tag) dto.TagStat {
	return dto.TagStat{ID: t.ID, Code: t.Code, Label: t.Label, TapCount: t.TapCount}
}
