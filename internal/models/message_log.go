package models

import "time"

// MessageLog is one immutable record of a broadcast run. ListID is nullable
// so history survives list deletion; ListName keeps a snapshot of the name
// at send time.
type MessageLog struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ListID      *uint     `gorm:"index" json:"listId"`
	ListName    string    `gorm:"size:128;not null;default:''" json:"listName"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	SentAt      time.Time `gorm:"autoCreateTime" json:"sentAt"`
	SentBy      string    `gorm:"size:64;not null;default:''" json:"sentBy"`
	TotalGroups int       `gorm:"not null;default:0" json:"totalGroups"`
	Success     int       `gorm:"not null;default:0" json:"success"`
}
