package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type WifiSecurity string

const (
	SecurityWPA    WifiSecurity = "WPA"
	SecurityWPA2   WifiSecurity = "WPA2"
	SecurityWPA3   WifiSecurity = "WPA3"
	SecurityWEP    WifiSecurity = "WEP"
	SecurityNoPass WifiSecurity = "nopass"
)

type BusinessCard struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TagID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"tag_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Title     string    `gorm:"size:255" json:"title"`
	Company   string    `gorm:"size:255" json:"company"`
	Email     string    `gorm:"size:255" json:"email"`
	Phone     string    `gorm:"size:50" json:"phone"`
	Website   string    `gorm:"size:1024" json:"website"`
	LinkedIn  string    `gorm:"column:linkedin;size:1024" json:"linkedin"`
	Bio       string    `gorm:"type:text" json:"bio"`
	AvatarURL string    `gorm:"size:1024" json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *BusinessCard) BeforeCreate(*gorm.DB) error {
	assignID(&b.ID)
	return nil
}

// WifiConfig keeps the network password in clear text: it is shown to
// every visitor of the tag by design of the Wi-Fi mode.
type WifiConfig struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	TagID     uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex" json:"tag_id"`
	SSID      string       `gorm:"column:ssid;size:255;not null" json:"ssid"`
	Password  string       `gorm:"size:255" json:"password"`
	Security  WifiSecurity `gorm:"size:10;not null;default:'WPA2'" json:"security"`
	Hidden    bool         `gorm:"not null;default:false" json:"hidden"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (w *WifiConfig) BeforeCreate(*gorm.DB) error {
	assignID(&w.ID)
	return nil
}

type Link struct {
	Title string `json:"title" validate:"required,max=100"`
	URL   string `json:"url" validate:"required,url,max=2048"`
	Icon  string `json:"icon,omitempty" validate:"max=50"`
}

type LinkHub struct {
	ID        uuid.UUID                 `gorm:"type:uuid;primaryKey" json:"id"`
	TagID     uuid.UUID                 `gorm:"type:uuid;not null;uniqueIndex" json:"tag_id"`
	Title     string                    `gorm:"size:255" json:"title"`
	Bio       string                    `gorm:"type:text" json:"bio"`
	AvatarURL string                    `gorm:"size:1024" json:"avatar_url"`
	Links     datatypes.JSONSlice[Link] `json:"links"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

func (l *LinkHub) BeforeCreate(*gorm.DB) error {
	assignID(&l.ID)
	return nil
}

type EmergencyContact struct {
	Name         string `json:"name" validate:"required,max=100"`
	Phone        string `json:"phone" validate:"required,max=50"`
	Relationship string `json:"relationship" validate:"max=50"`
}

type EmergencyInfo struct {
	ID                uuid.UUID                             `gorm:"type:uuid;primaryKey" json:"id"`
	TagID             uuid.UUID                             `gorm:"type:uuid;not null;uniqueIndex" json:"tag_id"`
	BloodType         string                                `gorm:"size:10" json:"blood_type"`
	Allergies         datatypes.JSONSlice[string]           `json:"allergies"`
	Medications       datatypes.JSONSlice[string]           `json:"medications"`
	Conditions        datatypes.JSONSlice[string]           `json:"conditions"`
	EmergencyContacts datatypes.JSONSlice[EmergencyContact] `json:"emergency_contacts"`
	DoctorName        string                                `gorm:"size:255" json:"doctor_name"`
	DoctorPhone       string                                `gorm:"size:50" json:"doctor_phone"`
	Notes             string                                `gorm:"type:text" json:"notes"`
	CreatedAt         time.Time                             `json:"created_at"`
	UpdatedAt         time.Time                             `json:"updated_at"`
}

func (e *EmergencyInfo) BeforeCreate(*gorm.DB) error {
	assignID(&e.ID)
	return nil
}

type CustomRedirect struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TagID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"tag_id"`
	URL       string    `gorm:"size:2048;not null" json:"url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *CustomRedirect) BeforeCreate(*gorm.DB) error {
	assignID(&r.ID)
	return nil
}
