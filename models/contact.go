package models

import "time"

// ContactMessage is left by anonymous visitors through the contact form.
type ContactMessage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Nome      string    `json:"nome" gorm:"type:text;not null"`
	Email     string    `json:"email" gorm:"type:text;not null"`
	Mensagem  string    `json:"mensagem" gorm:"type:text;not null"`
	EnviadaEm time.Time `json:"enviadaEm" gorm:"autoCreateTime;index"`
	Lida      bool      `json:"lida" gorm:"not null;default:false"`
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}
