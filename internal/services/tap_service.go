package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/nexo/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const tapRecordTimeout = 5 * time.Second

// TapService appends tap events and keeps Tag.TapCount in step with them.
type TapService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewTapService(db *gorm.DB) *TapService {
	return &TapService{db: db, now: utcNow}
}

// Record inserts one TapEvent and increments the tag's counter in a single
// transaction. The increment is done in SQL so concurrent taps never lose
// an update. It keeps running if the caller's context is cancelled.
func (s *TapService) Record(ctx context.Context, tagID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), tapRecordTimeout)
	defer cancel()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.TapEvent{TagID: tagID, TappedAt: s.now()}).Error; err != nil {
			return fmt.Errorf("insert tap event: %w", err)
		}
		return tx.Model(&models.Tag{}).
			Where("id = ?", tagID).
			UpdateColumn("tap_count", gorm.Expr("tap_count + ?", 1)).Error
	})
	if err != nil {
		slog.Error("tap record failed", "action", "tap_record", "tag_id", tagID.String(), "error", err)
	}
	return err
}

func utcNow() time.Time {
	return time.Now().UTC()
}
