package model

import "time"

// Lead is a sales contact record owned by exactly one user. Timestamps are
// maintained by the service layer in UTC rather than by GORM auto-update, so
// DateLastUpdated only moves on a successful update.
type Lead struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	OwnerID   uint   `json:"owner_id" gorm:"not null;index"`
	FirstName string `json:"first_name" gorm:"size:255;not null"`
	LastName  string `json:"last_name" gorm:"size:255;not null"`
	Email     string `json:"email" gorm:"size:255;not null"`
	Company   string `json:"company" gorm:"size:255;not null"`
	Note      string `json:"note" gorm:"type:text;not null"`

	DateCreated     time.Time `json:"date_created"`
	DateLastUpdated time.Time `json:"date_last_updated"`
}
