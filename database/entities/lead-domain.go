package entities

import "time"

// LeadDomain is the website or campaign a lead list was collected from.
type LeadDomain struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(255);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp;not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp;not null" json:"updatedAt"`
}
