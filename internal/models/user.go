package models

import "time"

// User is a player. The UID comes from the identity provider's token; level
// and experience advance as the player defeats bosses.
type User struct {
	UID        string `gorm:"primaryKey;size:64"`
	Username   string `gorm:"size:64"`
	Email      string `gorm:"size:128"`
	Level      int    `gorm:"default:1"`
	Experience int    `gorm:"default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
