package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/nagarseva/nagarseva-api/internal/repository"
)

// ReceiptService renders payment receipts as PDF. Only settled payments
// carry a receipt number; rendering an unsettled payment fails.
type ReceiptService struct {
	paymentRepo repository.PaymentRepository
}

// NewReceiptService creates a new receipt service
func NewReceiptService(paymentRepo repository.PaymentRepository) *ReceiptService {
	return &ReceiptService{paymentRepo: paymentRepo}
}

// Render returns the receipt PDF bytes and a download filename.
func (s *ReceiptService) Render(ctx context.Context, paymentID uint) ([]byte, string, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, "", ErrPaymentNotFound.Wrap(err)
	}
	if !payment.IsSettled() || payment.ReceiptNumber == nil {
		return nil, "", ErrPaymentNotFound.Wrap(
			fmt.Errorf("payment %d has no receipt (status %s)", paymentID, payment.Status))
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Payment Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, *payment.ReceiptNumber)
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(60, 10, "Application:")
	pdf.Cell(60, 10, payment.Application.ARN)
	pdf.Ln(6)

	pdf.Cell(60, 10, "Applicant:")
	pdf.Cell(60, 10, payment.Application.ApplicantName)
	pdf.Ln(6)

	pdf.Cell(60, 10, "Amount:")
	pdf.Cell(60, 10, fmt.Sprintf("%.2f %s", payment.Amount, payment.Currency))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Mode:")
	pdf.Cell(60, 10, payment.Mode)
	pdf.Ln(6)

	pdf.Cell(60, 10, "Status:")
	pdf.Cell(60, 10, payment.Status)
	pdf.Ln(6)

	if payment.GatewayOrderID != nil {
		pdf.Cell(60, 10, "Gateway Order:")
		pdf.Cell(60, 10, *payment.GatewayOrderID)
		pdf.Ln(6)
	}

	if payment.ReceiptIssuedAt != nil {
		pdf.Cell(60, 10, "Issued:")
		pdf.Cell(60, 10, payment.ReceiptIssuedAt.Format("2006-01-02 15:04 MST"))
		pdf.Ln(6)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", fmt.Errorf("render receipt pdf: %w", err)
	}

	filename := fmt.Sprintf("receipt_%s.pdf", *payment.ReceiptNumber)
	return buf.Bytes(), filename, nil
}
