package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nagarseva/nagarseva-api/internal/repository"
	"github.com/nagarseva/nagarseva-api/internal/services"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
	receiptService *services.ReceiptService
}

func NewPaymentHandler(paymentService *services.PaymentService, receiptService *services.ReceiptService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, receiptService: receiptService}
}

// @Summary Record Payment
// @Description Record a payment against a demand; manual modes settle immediately, gateway modes start INITIATED
// @Tags Payments
// @Accept json
// @Produce json
// @Param arn path string true "Application Reference Number"
// @Param body body services.RecordPaymentInput true "Payment details"
// @Success 201 {object} models.PaymentResponse
// @Router /applications/{arn}/payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var input services.RecordPaymentInput
	if err := BindNestedOrFlat(c, "payment", &input); err != nil {
		respondBindError(c, err)
		return
	}

	payment, err := h.paymentService.RecordPayment(c.Request.Context(), c.Param("arn"), input,
		actor(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment.ToResponse())
}

// @Summary Gateway Callback
// @Description Verify a signed payment gateway callback and settle or fail the payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param body body services.GatewayCallback true "Signed callback payload"
// @Success 200 {object} models.PaymentResponse
// @Router /payments/gateway/callback [post]
func (h *PaymentHandler) GatewayCallback(c *gin.Context) {
	var cb services.GatewayCallback
	if err := c.ShouldBindJSON(&cb); err != nil {
		respondBindError(c, err)
		return
	}

	payment, err := h.paymentService.VerifyGatewayCallback(c.Request.Context(), cb,
		c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment.ToResponse())
}

// @Summary Show Payment
// @Description Get a payment by id
// @Tags Payments
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Success 200 {object} models.PaymentResponse
// @Router /payments/{payment_id} [get]
func (h *PaymentHandler) Show(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("payment_id"), 10, 64)
	if err != nil {
		respondBindError(c, err)
		return
	}

	payment, err := h.paymentService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment.ToResponse())
}

// @Summary Payment Receipt
// @Description Download the receipt PDF for a settled payment
// @Tags Payments
// @Produce application/pdf
// @Param payment_id path int true "Payment ID"
// @Success 200 {file} binary
// @Router /payments/{payment_id}/receipt [get]
func (h *PaymentHandler) Receipt(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("payment_id"), 10, 64)
	if err != nil {
		respondBindError(c, err)
		return
	}

	pdfBytes, filename, err := h.receiptService.Render(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// @Summary List Payments
// @Description Get a paginated list of payments for an application
// @Tags Payments
// @Produce json
// @Param arn path string true "Application Reference Number"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Router /applications/{arn}/payments [get]
func (h *PaymentHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Status = c.Query("status")

	payments, total, err := h.paymentService.ListByApplication(c.Request.Context(), c.Param("arn"), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]interface{}, 0, len(payments))
	for i := range payments {
		responses = append(responses, payments[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{
		"payments":   responses,
		"pagination": paginationMeta(query.Page, query.PerPage, total),
	})
}
