package logging

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/nexo/internal/models"
	"gorm.io/gorm"
)

// Purge deletes system_logs older than retentionDays and returns the
// number of rows removed.
func Purge(db *gorm.DB, retentionDays int, now time.Time) (int64, error) {
	cutoff := now.AddDate(0, 0, -retentionDays)
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}

// StartCleanup runs Purge once a day until done is closed.
func StartCleanup(db *gorm.DB, retentionDays int, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				deleted, err := Purge(db, retentionDays, time.Now())
				if err != nil {
					slog.Error("log cleanup failed", "action", "log_cleanup", "error", err)
				} else if deleted > 0 {
					slog.Info("log cleanup completed", "deleted", deleted)
				}
			case <-done:
				return
			}
		}
	}()
}
