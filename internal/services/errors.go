package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a service error for retry and HTTP mapping.
type ErrorKind int

const (
	// KindValidation errors are always caller-fixable.
	KindValidation ErrorKind = iota
	// KindStateConflict covers wrong-status and not-found conditions.
	// Both share one externally visible shape so callers cannot probe
	// which ARNs exist.
	KindStateConflict
	// KindIntegrity covers signature, replay and misconfiguration
	// failures. Never retried automatically; always logged for audit.
	KindIntegrity
	// KindInfrastructure errors (storage unavailable) are safe to retry.
	KindInfrastructure
)

// ServiceError is an error with a stable machine code and taxonomy kind.
type ServiceError struct {
	Code    string
	Message string
	Kind    ErrorKind
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is matches service errors by code so wrapped copies still compare equal
// to their sentinel under errors.Is.
func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	return ok && t.Code == e.Code
}

// Wrap returns a copy carrying err as the cause.
func (e *ServiceError) Wrap(err error) *ServiceError {
	return &ServiceError{Code: e.Code, Message: e.Message, Kind: e.Kind, Err: err}
}

// AsServiceError unwraps err to a *ServiceError if one is in the chain.
func AsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr, true
	}
	return nil, false
}

func validation(code, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message, Kind: KindValidation}
}

func stateConflict(code, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message, Kind: KindStateConflict}
}

func integrity(code, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message, Kind: KindIntegrity}
}

func infrastructure(code, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message, Kind: KindInfrastructure}
}

// Common service errors
var (
	ErrApplicationNotFound = stateConflict("APPLICATION_NOT_FOUND", "application not found")

	// Fee assessment
	ErrFeeItemsMismatch = validation("FEE_ITEMS_MISMATCH_WITH_SCHEDULE",
		"submitted fee items do not match the authoritative schedule")
	ErrFeeScheduleNotConfigured = integrity("FEE_SCHEDULE_NOT_CONFIGURED",
		"no fee schedule configured for service and authority")

	// Demands
	ErrLineItemsNotDemandable = stateConflict("LINE_ITEMS_NOT_DEMANDABLE",
		"one or more line items are missing, belong to another application, or are already demanded")
	ErrDemandNotFoundOrNotPending = stateConflict("DEMAND_NOT_FOUND_OR_NOT_PENDING",
		"demand not found or not in PENDING status")
	ErrDemandNotPayable = stateConflict("DEMAND_NOT_PAYABLE",
		"demand is cancelled or waived and cannot accept payments")
	ErrDemandAlreadyPaid = stateConflict("DEMAND_ALREADY_PAID",
		"demand is already fully settled")
	ErrDemandARNMismatch = validation("DEMAND_ARN_MISMATCH",
		"demand does not belong to the stated application")

	// Payments
	ErrPaymentAmountInvalid = validation("PAYMENT_AMOUNT_INVALID",
		"payment amount must be greater than zero")
	ErrPaymentExceedsBalance = stateConflict("PAYMENT_AMOUNT_EXCEEDS_REMAINING_BALANCE",
		"payment amount exceeds the demand's remaining balance")
	ErrPaymentModeInvalid = validation("PAYMENT_MODE_INVALID",
		"unknown payment mode")
	ErrPaymentNotFound = stateConflict("PAYMENT_NOT_FOUND",
		"payment not found")
	ErrCallbackFieldsRequired = validation("PAYMENT_CALLBACK_FIELDS_REQUIRED",
		"gateway order id, payment id and signature are all required")
	ErrSignatureSecretNotConfigured = integrity("PAYMENT_SIGNATURE_SECRET_NOT_CONFIGURED",
		"gateway signature secret is not configured")
	ErrInvalidGatewaySignature = integrity("INVALID_GATEWAY_SIGNATURE",
		"gateway signature verification failed")
	ErrPaymentReplayDetected = integrity("PAYMENT_REPLAY_DETECTED",
		"payment for this gateway order is already settled")

	// Property dues
	ErrPropertyNotFound  = stateConflict("PROPERTY_NOT_FOUND", "property not found")
	ErrDueNotFound       = stateConflict("DUE_NOT_FOUND", "no due exists with this code")
	ErrDueAlreadyPaid    = stateConflict("DUE_ALREADY_PAID", "due is already fully settled")
	ErrInvalidPaymentDate = validation("INVALID_PAYMENT_DATE",
		"payment date must be a calendar date in YYYY-MM-DD format")

	// Refunds
	ErrRefundNotFoundOrWrongState = stateConflict("REFUND_NOT_FOUND_OR_WRONG_STATE",
		"refund request not found or not in the expected status")
	ErrRefundExceedsPayment = validation("REFUND_AMOUNT_EXCEEDS_PAYMENT",
		"refund amount exceeds the original payment amount")
	ErrRefundAlreadyActive = stateConflict("REFUND_ALREADY_ACTIVE",
		"an active refund request already exists for this payment")
	ErrRefundPaymentNotSettled = stateConflict("REFUND_PAYMENT_NOT_SETTLED",
		"only settled payments can be refunded")

	// Infrastructure
	ErrStorageUnavailable = infrastructure("STORAGE_UNAVAILABLE",
		"storage is temporarily unavailable")
)
