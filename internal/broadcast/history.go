package broadcast

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pbittencourt/herald/internal/models"
)

// HistoryLimit is the number of recent runs History returns.
const HistoryLimit = 5

// History returns the newest broadcast records, most recent first.
func History(db *gorm.DB) ([]models.MessageLog, error) {
	var out []models.MessageLog
	err := db.Order("sent_at DESC, id DESC").Limit(HistoryLimit).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("broadcast: query history: %w", err)
	}
	return out, nil
}
