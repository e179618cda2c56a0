package models

import (
	"time"
)

// RefundRequest tracks a refund against a settled payment through an
// approval workflow. Only one active (non-terminal, non-rejected) request
// may exist per payment; REJECTED and PROCESSED are terminal.
type RefundRequest struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ApplicationID uint       `gorm:"not null;index" json:"application_id"`
	PaymentID     uint       `gorm:"not null;index" json:"payment_id"`
	Reason        string     `gorm:"size:512;not null" json:"reason"`
	Amount        float64    `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency      string     `gorm:"size:3;not null;default:INR" json:"currency"`
	BankAccount   string     `gorm:"size:32" json:"bank_account"`
	BankIFSC      string     `gorm:"size:16" json:"bank_ifsc"`
	BankHolder    string     `gorm:"size:255" json:"bank_holder"`
	Status        string     `gorm:"size:16;not null;default:REQUESTED;index" json:"status"`
	RequestedBy   string     `gorm:"size:64;not null" json:"requested_by"`
	DecidedBy     *string    `gorm:"size:64" json:"decided_by,omitempty"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Associations
	Application Application `gorm:"foreignKey:ApplicationID" json:"-"`
	Payment     Payment     `gorm:"foreignKey:PaymentID" json:"payment,omitempty"`
}

// TableName specifies the table name for RefundRequest
func (RefundRequest) TableName() string {
	return "refund_requests"
}

// Refund status constants
const (
	RefundStatusRequested = "REQUESTED"
	RefundStatusApproved  = "APPROVED"
	RefundStatusRejected  = "REJECTED"
	RefundStatusProcessed = "PROCESSED"
)

// MayApprove returns true if the request can be approved.
func (r *RefundRequest) MayApprove() bool {
	return r.Status == RefundStatusRequested
}

// MayReject returns true if the request can be rejected.
func (r *RefundRequest) MayReject() bool {
	return r.Status == RefundStatusRequested
}

// MayProcess returns true if the approved refund can be paid out.
func (r *RefundRequest) MayProcess() bool {
	return r.Status == RefundStatusApproved
}

// IsActive returns true while the request still blocks further refunds
// against the same payment.
func (r *RefundRequest) IsActive() bool {
	return r.Status == RefundStatusRequested || r.Status == RefundStatusApproved
}

// RefundResponse is the JSON response format for refund requests
type RefundResponse struct {
	ID          uint       `json:"id"`
	ARN         string     `json:"arn,omitempty"`
	PaymentID   uint       `json:"payment_id"`
	Reason      string     `json:"reason"`
	Amount      float64    `json:"amount"`
	Currency    string     `json:"currency"`
	Status      string     `json:"status"`
	RequestedBy string     `json:"requested_by"`
	DecidedBy   *string    `json:"decided_by,omitempty"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToResponse converts RefundRequest to RefundResponse
func (r *RefundRequest) ToResponse() RefundResponse {
	resp := RefundResponse{
		ID:          r.ID,
		PaymentID:   r.PaymentID,
		Reason:      r.Reason,
		Amount:      r.Amount,
		Currency:    r.Currency,
		Status:      r.Status,
		RequestedBy: r.RequestedBy,
		DecidedBy:   r.DecidedBy,
		DecidedAt:   r.DecidedAt,
		ProcessedAt: r.ProcessedAt,
		CreatedAt:   r.CreatedAt,
	}
	if r.Application.ID != 0 {
		resp.ARN = r.Application.ARN
	}
	return resp
}
