package models

import "time"

// User is an account able to log in. Only admins can mutate content.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"type:text;not null;uniqueIndex"`
	PasswordHash *string   `json:"-" gorm:"type:text"`
	Role         Role      `json:"role" gorm:"type:text;not null;default:USER"`
	CreatedAt    time.Time `json:"createdAt"`
}
