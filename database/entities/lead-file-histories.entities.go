package entities

import "time"

type LeadFileHistory struct {
	ID             uint      `gorm:"column:id;primaryKey" json:"id"`
	FileName       string    `gorm:"column:file_name;type:varchar(255);index;not null;" json:"fileName"`
	Status         string    `gorm:"column:status;type:varchar(50);index;not null" json:"status"`
	TotalRows      int       `gorm:"column:total_rows;default:0;not null" json:"totalRows"`
	ImportedLeads  int       `gorm:"column:imported_leads;default:0;not null" json:"importedLeads"`
	DuplicatePhone int       `gorm:"column:duplicate_phones;default:0;not null" json:"duplicatePhones"`
	LastError      string    `gorm:"column:last_error;type:text" json:"lastError,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp;index;not null" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp;not null" json:"updatedAt"`
}
