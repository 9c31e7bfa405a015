package entities

import "time"

type Lead struct {
	ID             uint      `gorm:"column:id;primaryKey" json:"id"`
	Name           string    `gorm:"column:name;type:varchar(255)" json:"name"`
	Email          string    `gorm:"column:email;type:varchar(255);index" json:"email"`
	Phone          string    `gorm:"column:phone;type:varchar(50);uniqueIndex;not null" json:"phone"`
	Postcode       string    `gorm:"column:postcode;type:varchar(10)" json:"postcode"`
	Source         string    `gorm:"column:source;type:varchar(50);index" json:"source"`
	Status         string    `gorm:"column:status;type:varchar(50);index;not null" json:"status"`
	QuoteSessionID *string   `gorm:"column:quote_session_id;type:varchar(64);index" json:"quoteSessionId,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp;not null" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp;not null" json:"updatedAt"`
}
