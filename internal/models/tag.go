package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TagMode selects which of a tag's mode rows is shown to visitors.
type TagMode string

const (
	ModeBusinessCard TagMode = "business_card"
	ModeWifi         TagMode = "wifi"
	ModeLinkHub      TagMode = "link_hub"
	ModeEmergency    TagMode = "emergency"
	ModeRedirect     TagMode = "redirect"
)

// Tag is the registry entry behind a physical NFC tag. Code is immutable
// after creation; TapCount only ever grows.
type Tag struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code       string    `gorm:"size:8;not null;uniqueIndex" json:"code"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Label      string    `gorm:"size:100;not null" json:"label"`
	ActiveMode TagMode   `gorm:"size:20;not null;default:'business_card'" json:"active_mode"`
	IsActive   bool      `gorm:"not null;default:true;index" json:"is_active"`
	TapCount   int64     `gorm:"not null;default:0" json:"tap_count"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User           User            `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	BusinessCard   *BusinessCard   `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"business_card,omitempty"`
	WifiConfig     *WifiConfig     `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"wifi_config,omitempty"`
	LinkHub        *LinkHub        `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"link_hub,omitempty"`
	EmergencyInfo  *EmergencyInfo  `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"emergency_info,omitempty"`
	CustomRedirect *CustomRedirect `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"custom_redirect,omitempty"`
	TapEvents      []TapEvent      `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"-"`
}

func (t *Tag) BeforeCreate(*gorm.DB) error {
	assignID(&t.ID)
	return nil
}

// ModeAssociations names the has-one relations preloaded for a full tag read.
var ModeAssociations = []string{"BusinessCard", "WifiConfig", "LinkHub", "EmergencyInfo", "CustomRedirect"}

// TapEvent is one public resolution of a tag. Rows are only ever inserted.
type TapEvent struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TagID    uuid.UUID `gorm:"type:uuid;not null;index" json:"tag_id"`
	TappedAt time.Time `gorm:"not null;index" json:"tapped_at"`
}

func (e *TapEvent) BeforeCreate(*gorm.DB) error {
	assignID(&e.ID)
	return nil
}
