package models

import (
	"time"
)

// Demand groups one or more assessed fee line items into a single payable
// obligation with one due date. A line item belongs to at most one active
// demand; PAID, WAIVED and CANCELLED are terminal.
type Demand struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ApplicationID uint       `gorm:"not null;index" json:"application_id"`
	DueDate       time.Time  `gorm:"type:date;not null;index" json:"due_date"`
	TotalAmount   float64    `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Currency      string     `gorm:"size:3;not null;default:INR" json:"currency"`
	Status        string     `gorm:"size:16;not null;default:PENDING;index" json:"status"`
	CreatedBy     string     `gorm:"size:64;not null" json:"created_by"`
	SettledAt     *time.Time `json:"settled_at,omitempty"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Associations
	Application Application   `gorm:"foreignKey:ApplicationID" json:"-"`
	LineItems   []FeeLineItem `gorm:"foreignKey:DemandID" json:"line_items,omitempty"`
}

// TableName specifies the table name for Demand
func (Demand) TableName() string {
	return "demands"
}

// Demand status constants
const (
	DemandStatusPending   = "PENDING"
	DemandStatusPaid      = "PAID"
	DemandStatusWaived    = "WAIVED"
	DemandStatusCancelled = "CANCELLED"
)

// MayPay returns true if payments can still be recorded against the demand.
func (d *Demand) MayPay() bool {
	return d.Status == DemandStatusPending
}

// MayWaive returns true if the demand can be waived.
func (d *Demand) MayWaive() bool {
	return d.Status == DemandStatusPending
}

// MayCancel returns true if the demand can be cancelled.
func (d *Demand) MayCancel() bool {
	return d.Status == DemandStatusPending
}

// IsTerminal returns true once the demand reached a final state.
func (d *Demand) IsTerminal() bool {
	return d.Status != DemandStatusPending
}

// IsOverdue returns true if the demand is still payable past its due date.
func (d *Demand) IsOverdue() bool {
	return d.Status == DemandStatusPending && time.Now().After(d.DueDate)
}

// DemandResponse is the JSON response format for demands
type DemandResponse struct {
	ID          uint                  `json:"id"`
	ARN         string                `json:"arn,omitempty"`
	DueDate     string                `json:"due_date"`
	TotalAmount float64               `json:"total_amount"`
	Currency    string                `json:"currency"`
	Status      string                `json:"status"`
	CreatedBy   string                `json:"created_by"`
	SettledAt   *time.Time            `json:"settled_at,omitempty"`
	LineItems   []FeeLineItemResponse `json:"line_items,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
}

// FeeLineItemResponse is the JSON response format for fee line items
type FeeLineItemResponse struct {
	ID               uint    `json:"id"`
	FeeHeadCode      string  `json:"fee_head_code"`
	Description      string  `json:"description"`
	BaseAmount       float64 `json:"base_amount"`
	WaiverAdjustment float64 `json:"waiver_adjustment"`
	FinalAmount      float64 `json:"final_amount"`
	Currency         string  `json:"currency"`
	Status           string  `json:"status"`
	DemandID         *uint   `json:"demand_id,omitempty"`
}

// ToResponse converts FeeLineItem to FeeLineItemResponse
func (f *FeeLineItem) ToResponse() FeeLineItemResponse {
	return FeeLineItemResponse{
		ID:               f.ID,
		FeeHeadCode:      f.FeeHeadCode,
		Description:      f.Description,
		BaseAmount:       f.BaseAmount,
		WaiverAdjustment: f.WaiverAdjustment,
		FinalAmount:      f.FinalAmount,
		Currency:         f.Currency,
		Status:           f.Status,
		DemandID:         f.DemandID,
	}
}

// ToResponse converts Demand to DemandResponse
func (d *Demand) ToResponse() DemandResponse {
	resp := DemandResponse{
		ID:          d.ID,
		DueDate:     d.DueDate.Format("2006-01-02"),
		TotalAmount: d.TotalAmount,
		Currency:    d.Currency,
		Status:      d.Status,
		CreatedBy:   d.CreatedBy,
		SettledAt:   d.SettledAt,
		CreatedAt:   d.CreatedAt,
	}
	if d.Application.ID != 0 {
		resp.ARN = d.Application.ARN
	}
	for i := range d.LineItems {
		resp.LineItems = append(resp.LineItems, d.LineItems[i].ToResponse())
	}
	return resp
}
