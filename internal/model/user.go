package model

// User represents a registered account. Each user owns a private set of leads;
// ownership is the only access-control boundary in the system.
type User struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	Email          string `json:"email" gorm:"uniqueIndex;size:255;not null"`
	HashedPassword string `json:"-" gorm:"size:255;not null"` // Never expose in JSON

	Leads []Lead `json:"-" gorm:"foreignKey:OwnerID"`
}
