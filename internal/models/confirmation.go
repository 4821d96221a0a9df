package models

import "time"

// ConfirmationCode is a short-lived signup credential. The raw code is
// mailed to the user and only its bcrypt hash is stored; a record is spent
// exactly once, tracked by the Consumed flag. Re-requesting a code consumes
// any earlier record for the same user before a new one is issued.
type ConfirmationCode struct {
	ID       string    `gorm:"primaryKey;type:varchar(36)"`
	UserID   string    `gorm:"index;type:varchar(36)"`
	User     User      `gorm:"constraint:OnDelete:CASCADE"`
	CodeHash string    `gorm:"type:varchar(255)"`
	IssuedAt time.Time
	Consumed bool
}
