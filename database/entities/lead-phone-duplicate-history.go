package entities

import "time"

type LeadPhoneDuplicateHistory struct {
	ID             uint      `gorm:"column:id;primaryKey" json:"id"`
	Phone          string    `gorm:"column:phone;type:varchar(50);index;" json:"phone"`
	DuplicateCount int       `gorm:"column:duplicate_count;default:0;not null;" json:"duplicateCount"`
	FileName       string    `gorm:"column:file_name;type:varchar(255)" json:"fileName"`
	CreatedAt      time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp;not null" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp;" json:"updatedAt"`
}
