package models

import "time"

// List is an operator-defined named grouping of rooms. Names are unique
// ignoring case; the case-insensitive check lives in the lists service
// because sqlite's UNIQUE index compares byte-wise.
type List struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:128;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"createdAt"`

	Groups []Group      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Logs   []MessageLog `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}
