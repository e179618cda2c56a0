package models

import (
	"time"
)

// FeeLineItem is one assessed fee component tied to a fee head code.
// Immutable once linked to a Demand except for status.
type FeeLineItem struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ApplicationID    uint      `gorm:"not null;index" json:"application_id"`
	FeeHeadCode      string    `gorm:"size:64;not null;index" json:"fee_head_code"`
	Description      string    `gorm:"size:255" json:"description"`
	BaseAmount       float64   `gorm:"type:decimal(12,2);not null" json:"base_amount"`
	WaiverAdjustment float64   `gorm:"type:decimal(12,2);not null;default:0" json:"waiver_adjustment"`
	FinalAmount      float64   `gorm:"type:decimal(12,2);not null" json:"final_amount"`
	Currency         string    `gorm:"size:3;not null;default:INR" json:"currency"`
	Status           string    `gorm:"size:16;not null;default:ASSESSED;index" json:"status"`
	DemandID         *uint     `gorm:"index" json:"demand_id,omitempty"`
	AssessedBy       string    `gorm:"size:64" json:"assessed_by"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Associations
	Application Application `gorm:"foreignKey:ApplicationID" json:"-"`
}

// TableName specifies the table name for FeeLineItem
func (FeeLineItem) TableName() string {
	return "fee_line_items"
}

// Fee line item status constants
const (
	FeeLineItemStatusAssessed = "ASSESSED"
	FeeLineItemStatusDemanded = "DEMANDED"
	FeeLineItemStatusPaid     = "PAID"
	FeeLineItemStatusWaived   = "WAIVED"
)

// MayDemand returns true if the line item can still be grouped into a demand.
func (f *FeeLineItem) MayDemand() bool {
	return f.Status == FeeLineItemStatusAssessed && f.DemandID == nil
}

// FeeSchedule is one authoritative {fee head, amount} entry for a service
// and authority. Schedules are maintained by the authority back office and
// treated as read-only by this engine.
type FeeSchedule struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ServiceKey  string    `gorm:"size:64;not null;index:idx_fee_schedules_lookup" json:"service_key"`
	AuthorityID string    `gorm:"size:32;not null;index:idx_fee_schedules_lookup" json:"authority_id"`
	FeeHeadCode string    `gorm:"size:64;not null" json:"fee_head_code"`
	Description string    `gorm:"size:255" json:"description"`
	Amount      float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency    string    `gorm:"size:3;not null;default:INR" json:"currency"`
	Active      bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for FeeSchedule
func (FeeSchedule) TableName() string {
	return "fee_schedules"
}
