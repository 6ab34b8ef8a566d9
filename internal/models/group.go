package models

import "time"

// Group links one external room identifier to a List. The same room may be
// added to a list more than once; broadcast sends to each row it finds.
type Group struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ListID         uint      `gorm:"not null;index" json:"listId"`
	ExternalRoomID string    `gorm:"size:128;not null" json:"externalRoomId"`
	Name           string    `gorm:"size:256;not null;default:''" json:"name"`
	AddedAt        time.Time `gorm:"autoCreateTime" json:"addedAt"`
}
