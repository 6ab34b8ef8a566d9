package broadcast

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/pbittencourt/herald/internal/models"
)

// Prune deletes history rows older than the retention window and returns
// how many were removed. The newest-5 read window in History is unaffected
// until rows actually age out.
func Prune(db *gorm.DB, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result := db.Where("sent_at < ?", cutoff).Delete(&models.MessageLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("broadcast: prune history: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// SchedulePrune registers a recurring prune job on c. Retention of zero or
// less disables pruning and registers nothing.
func SchedulePrune(c *cron.Cron, db *gorm.DB, schedule string, retention time.Duration) error {
	if retention <= 0 {
		return nil
	}
	_, err := c.AddFunc(schedule, func() {
		removed, err := Prune(db, retention)
		if err != nil {
			log.Error().Err(err).Msg("history prune failed")
			return
		}
		if removed > 0 {
			log.Info().Int64("removed", removed).Msg("history pruned")
		}
	})
	if err != nil {
		return fmt.Errorf("broadcast: schedule prune %q: %w", schedule, err)
	}
	return nil
}
