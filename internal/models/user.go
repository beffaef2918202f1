package models

import "time"

// User owns entries. Accounts come from either the password form or the
// X (Twitter) OAuth callback; OAuth-only accounts keep Email and
// PasswordHash empty and are matched by TwitterID.
type User struct {
	ID                 uint      `gorm:"primaryKey"`
	Email              string    `gorm:"not null;default:''"`
	PasswordHash       string    `gorm:"not null;default:''"`
	TwitterID          string    `gorm:"not null;default:''"`
	DisplayName        string    `gorm:"not null;default:''"`
	MustChangePassword bool      `gorm:"not null;default:false"`
	CreatedAt          time.Time `gorm:"not null"`
}

func (user *User) HasPassword() bool {
	return user != nil && user.PasswordHash != ""
}
