package models

import (
	"time"
)

// Payment records money received against an application, usually against a
// specific demand. Gateway payments start INITIATED and move to VERIFIED or
// FAILED through the signed callback; counter modes are SUCCESS immediately.
type Payment struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	ApplicationID    uint       `gorm:"not null;index" json:"application_id"`
	DemandID         *uint      `gorm:"index" json:"demand_id,omitempty"`
	Mode             string     `gorm:"size:16;not null;index" json:"mode"`
	Amount           float64    `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency         string     `gorm:"size:3;not null;default:INR" json:"currency"`
	GatewayOrderID   *string    `gorm:"size:64;uniqueIndex:uidx_payments_gateway_order" json:"gateway_order_id,omitempty"`
	GatewayPaymentID *string    `gorm:"size:64" json:"gateway_payment_id,omitempty"`
	GatewaySignature *string    `gorm:"size:128" json:"-"`
	Status           string     `gorm:"size:16;not null;default:INITIATED;index" json:"status"`
	FailureReason    *string    `gorm:"size:255" json:"failure_reason,omitempty"`
	ReceiptNumber    *string    `gorm:"size:64;index" json:"receipt_number,omitempty"`
	ReceiptIssuedAt  *time.Time `json:"receipt_issued_at,omitempty"`
	RecordedBy       string     `gorm:"size:64" json:"recorded_by"`
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Associations
	Application Application `gorm:"foreignKey:ApplicationID" json:"-"`
	Demand      *Demand     `gorm:"foreignKey:DemandID" json:"demand,omitempty"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// Payment status constants
const (
	PaymentStatusInitiated = "INITIATED"
	PaymentStatusSuccess   = "SUCCESS"
	PaymentStatusFailed    = "FAILED"
	PaymentStatusVerified  = "VERIFIED"
)

// Payment mode constants
const (
	PaymentModeGateway    = "GATEWAY"
	PaymentModeUPI        = "UPI"
	PaymentModeCard       = "CARD"
	PaymentModeNetbanking = "NETBANKING"
	PaymentModeChallan    = "CHALLAN"
	PaymentModeNEFT       = "NEFT"
	PaymentModeCounter    = "COUNTER"
)

// IsGatewayMode reports whether the mode settles through the payment gateway
// and therefore needs a signed callback before it counts towards a demand.
func IsGatewayMode(mode string) bool {
	switch mode {
	case PaymentModeGateway, PaymentModeUPI, PaymentModeCard, PaymentModeNetbanking:
		return true
	}
	return false
}

// IsManualMode reports whether the mode settles immediately at the counter.
func IsManualMode(mode string) bool {
	switch mode {
	case PaymentModeChallan, PaymentModeNEFT, PaymentModeCounter:
		return true
	}
	return false
}

// IsSettled returns true if the payment counts towards demand settlement.
func (p *Payment) IsSettled() bool {
	return p.Status == PaymentStatusSuccess || p.Status == PaymentStatusVerified
}

// MayVerify returns true if a gateway callback may still decide this payment.
func (p *Payment) MayVerify() bool {
	return p.Status == PaymentStatusInitiated
}

// PaymentResponse is the JSON response format for payments
type PaymentResponse struct {
	ID               uint       `json:"id"`
	ARN              string     `json:"arn,omitempty"`
	DemandID         *uint      `json:"demand_id,omitempty"`
	Mode             string     `json:"mode"`
	Amount           float64    `json:"amount"`
	Currency         string     `json:"currency"`
	Status           string     `json:"status"`
	GatewayOrderID   *string    `json:"gateway_order_id,omitempty"`
	GatewayPaymentID *string    `json:"gateway_payment_id,omitempty"`
	FailureReason    *string    `json:"failure_reason,omitempty"`
	ReceiptNumber    *string    `json:"receipt_number,omitempty"`
	ReceiptIssuedAt  *time.Time `json:"receipt_issued_at,omitempty"`
	RecordedBy       string     `json:"recorded_by,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ToResponse converts Payment to PaymentResponse
func (p *Payment) ToResponse() PaymentResponse {
	resp := PaymentResponse{
		ID:               p.ID,
		DemandID:         p.DemandID,
		Mode:             p.Mode,
		Amount:           p.Amount,
		Currency:         p.Currency,
		Status:           p.Status,
		GatewayOrderID:   p.GatewayOrderID,
		GatewayPaymentID: p.GatewayPaymentID,
		FailureReason:    p.FailureReason,
		ReceiptNumber:    p.ReceiptNumber,
		ReceiptIssuedAt:  p.ReceiptIssuedAt,
		RecordedBy:       p.RecordedBy,
		CreatedAt:        p.CreatedAt,
	}
	if p.Application.ID != 0 {
		resp.ARN = p.Application.ARN
	}
	return resp
}
