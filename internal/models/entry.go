package models

import "time"

const (
	TypeSales    = "sales"
	TypeDelivery = "delivery"
)

const (
	CategoryTraining = "Training"
	CategoryCoaching = "Coaching"
	CategorySpeaking = "Speaking"
)

// Categories returns the fixed category enumeration in display order.
func Categories() []string {
	return []string{CategoryTraining, CategoryCoaching, CategorySpeaking}
}

func Types() []string {
	return []string{TypeSales, TypeDelivery}
}

func IsValidType(value string) bool {
	return value == TypeSales || value == TypeDelivery
}

func IsValidCategory(value string) bool {
	for _, category := range Categories() {
		if value == category {
			return true
		}
	}
	return false
}

// Entry is a single logged sales or delivery record. Date is a local
// calendar day stored at midnight; it carries no relation to CreatedAt.
type Entry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_entries_user_date" json:"user_id"`
	Date      time.Time `gorm:"type:date;not null;index:idx_entries_user_date" json:"date"`
	Type      string    `gorm:"not null;default:sales" json:"type"`
	Category  string    `gorm:"not null;default:Training" json:"category"`
	Amount    float64   `gorm:"not null;default:0" json:"amount"`
	Title     string    `gorm:"not null" json:"title"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
