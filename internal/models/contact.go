package models

import "time"

// ContactMessage is a submission of the contact form.
type ContactMessage struct {
	ID          int64     `json:"id"          gorm:"primaryKey"`
	Name        string    `json:"name"        gorm:"size:100;not null"  validate:"required,max=100"`
	Phone       string    `json:"phone"       gorm:"size:10;not null"   validate:"required,len=10,numeric"`
	Email       string    `json:"email"       gorm:"size:100;not null"  validate:"required,email,max=100"`
	Description string    `json:"description" gorm:"type:text;not null" validate:"required"`
	CreatedAt   time.Time `json:"created_at"`
}
