package models

import (
	"time"
)

// Property usage type constants
const (
	PropertyUsageResidential = "RESIDENTIAL"
	PropertyUsageCommercial  = "COMMERCIAL"
)

// DuePaymentRecord is one entry in a property's append-only payment log.
// Entries are only ever appended, never edited; the dues ledger is derived
// fresh from this log on every read.
type DuePaymentRecord struct {
	DueCode     string    `json:"due_code"`
	Amount      float64   `json:"amount"`
	PaymentDate string    `json:"payment_date"` // YYYY-MM-DD
	Mode        string    `json:"mode,omitempty"`
	RecordedBy  string    `json:"recorded_by,omitempty"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// Property holds the seed configuration the dues ledger is computed from:
// allotment terms, optional overrides, and the append-only payment log.
// The derived ledger is never persisted.
type Property struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UPN           string    `gorm:"size:64;uniqueIndex;not null" json:"upn"`
	AuthorityID   string    `gorm:"size:32;not null;index" json:"authority_id"`
	AllotmentDate time.Time `gorm:"type:date;not null" json:"allotment_date"`
	UsageType     string    `gorm:"size:16;not null;default:RESIDENTIAL" json:"usage_type"`
	AreaSqm       float64   `gorm:"type:decimal(12,2);not null" json:"area_sqm"`

	// PropertyValue overrides the usage-rate derivation when > 0.
	PropertyValue float64 `gorm:"type:decimal(14,2);not null;default:0" json:"property_value"`

	// Rate overrides; 0 falls back to the configured defaults.
	AnnualInterestRatePct float64 `gorm:"type:decimal(6,3);not null;default:0" json:"annual_interest_rate_pct"`
	DCFRatePct            float64 `gorm:"column:dcf_rate_pct;type:decimal(6,3);not null;default:0" json:"dcf_rate_pct"`

	// InstallmentSchedule overrides the default six 10% installments when it
	// carries at least six entries.
	InstallmentSchedule []float64 `gorm:"serializer:json" json:"installment_schedule,omitempty"`

	AdditionalAreaSqm        float64 `gorm:"type:decimal(12,2);not null;default:0" json:"additional_area_sqm"`
	AdditionalAreaRatePerSqm float64 `gorm:"type:decimal(12,2);not null;default:0" json:"additional_area_rate_per_sqm"`

	ConstructionCompletedOn *time.Time `gorm:"type:date" json:"construction_completed_on,omitempty"`

	Payments []DuePaymentRecord `gorm:"serializer:json" json:"payments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Property
func (Property) TableName() string {
	return "properties"
}
