package models

import (
	"time"
)

// Application is the citizen application record that owns every fee line
// item, demand, payment and refund. The workflow state machine that drives
// an application lives outside this service; only the fields the fee engine
// needs are kept here.
type Application struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ARN           string    `gorm:"size:64;uniqueIndex;not null" json:"arn"`
	ServiceKey    string    `gorm:"size:64;not null;index" json:"service_key"`
	AuthorityID   string    `gorm:"size:32;not null;index" json:"authority_id"`
	ApplicantName string    `gorm:"size:255" json:"applicant_name"`
	PropertyUPN   *string   `gorm:"size:64;index" json:"property_upn,omitempty"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for Application
func (Application) TableName() string {
	return "applications"
}
