package models

import "time"

// Review is a user's opinion of a Title with a 1..10 score. A user may
// review each title once; the composite unique index is the last line of
// defense under concurrent creates.
type Review struct {
	ID       string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TitleID  string    `json:"-" gorm:"uniqueIndex:idx_review_title_author;type:varchar(36)"`
	Title    Title     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	AuthorID string    `json:"-" gorm:"uniqueIndex:idx_review_title_author;type:varchar(36)"`
	Author   User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Text     string    `json:"text" validate:"required"`
	Score    int       `json:"score" validate:"required,min=1,max=10"`
	PubDate  time.Time `json:"pub_date"`
}

// ScoreMin and ScoreMax bound a review score, both ends inclusive.
const (
	ScoreMin = 1
	ScoreMax = 10
)

// Comment is attached to a Review and disappears with it.
type Comment struct {
	ID       string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ReviewID string    `json:"-" gorm:"index;type:varchar(36)"`
	Review   Review    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	AuthorID string    `json:"-" gorm:"type:varchar(36)"`
	Author   User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Text     string    `json:"text" validate:"required"`
	PubDate  time.Time `json:"pub_date"`
}
