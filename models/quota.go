package models

import "time"

// QuotaDateLayout is the layout of UserQuota.Date.
const QuotaDateLayout = "2006-01-02"

// UserQuota tracks how many chat requests a user made on a given local date.
// Count is only meaningful while Date is today.
type UserQuota struct {
	UserID    string    `gorm:"primaryKey;type:varchar(128)" json:"-"`
	Date      string    `gorm:"type:varchar(10);not null" json:"date" firestore:"date"` // YYYY-MM-DD, Asia/Jakarta
	Count     int       `gorm:"not null;default:0" json:"count" firestore:"count"`
	CreatedAt time.Time `json:"-" firestore:"-"`
	UpdatedAt time.Time `json:"-" firestore:"-"`
}

// TableName specifies the table name for the UserQuota model.
func (UserQuota) TableName() string {
	return "user_limits"
}

// QuotaStatus is a read-only view of a user's quota for the current day.
type QuotaStatus struct {
	Date      string `json:"date"`
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
}
