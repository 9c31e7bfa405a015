package entities

import "time"

type LeadDomainRelations struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	Phone     string    `gorm:"column:phone;type:varchar(50);uniqueIndex:idx_lead_domain_phone;" json:"phone"`
	Domain    string    `gorm:"column:domain;type:varchar(255);uniqueIndex:idx_lead_domain_phone" json:"domain"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp;not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp;not null" json:"updatedAt"`

	//	define your relations
	LeadDomain LeadDomain `gorm:"foreignKey:Domain;references:Name;constraint" json:"-"`
}
