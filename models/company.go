package models

import "time"

// Company is the tenant. Every submission and status log row is scoped to one company.
type Company struct {
	CompanyID            uint       `gorm:"primaryKey;column:company_id" json:"company_id"`
	CompanyName          string     `gorm:"column:company_name" json:"company_name"`
	MudadEstablishmentID *string    `gorm:"column:mudad_establishment_id" json:"mudad_establishment_id,omitempty"`
	ContactEmail         *string    `gorm:"column:contact_email" json:"contact_email,omitempty"`
	CreateAt             time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt             time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt             *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (Company) TableName() string {
	return "companies"
}
