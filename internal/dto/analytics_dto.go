package dto

import (
	"time"

	"github.com/google/uuid"
)

type TagStat struct {
	ID       uuid.UUID `json:"id"`
	Code     string    `json:"code"`
	Label    string    `json:"label"`
	TapCount int64     `json:"tap_count"`
}

// RecentTap is one tap event joined with its tag's display name.
type RecentTap struct {
	TagID    uuid.UUID `json:"tag_id"`
	Label    string    `json:"label"`
	TappedAt time.Time `json:"tapped_at"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type AnalyticsOverview struct {
	TotalTaps  int64       `json:"total_taps"`
	TodayTaps  int64       `json:"today_taps"`
	WeekTaps   int64       `json:"week_taps"`
	MonthTaps  int64       `json:"month_taps"`
	Tags       []TagStat   `json:"tags"`
	TopTags    []TagStat   `json:"top_tags"`
	RecentTaps []RecentTap `json:"recent_taps"`
}

type TagAnalytics struct {
	Tag        TagStat     `json:"tag"`
	TotalTaps  int64       `json:"total_taps"`
	TodayTaps  int64       `json:"today_taps"`
	WeekTaps   int64       `json:"week_taps"`
	Chart      []DayCount  `json:"chart"`
	RecentTaps []RecentTap `json:"recent_taps"`
}
