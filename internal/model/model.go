package model

import "time"

type User struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Name         string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Appointment is a booking request sent from the site form. Date and Time
// are kept as the customer entered them (YYYY-MM-DD, HH:MM).
type Appointment struct {
	ID        string    `gorm:"primaryKey"`
	Name      string    `gorm:"not null"`
	Email     string    `gorm:"not null"`
	Phone     string    `gorm:"not null"`
	Date      string    `gorm:"not null"`
	Time      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"index"`
}

// Message is a contact-form message. Reply stays nil until an admin answers.
type Message struct {
	ID          string  `gorm:"primaryKey"`
	Content     string  `gorm:"type:text;not null"`
	Reply       *string `gorm:"type:text"`
	AuthorEmail *string
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

type RefreshToken struct {
	ID         string `gorm:"primaryKey"`
	UserID     string `gorm:"index;not null"`
	TokenHash  string `gorm:"uniqueIndex;not null"`
	ExpiresAt  time.Time
	Revoked    bool
	ReplacedBy *string
	CreatedAt  time.Time
}
