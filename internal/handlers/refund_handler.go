package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nagarseva/nagarseva-api/internal/models"
	"github.com/nagarseva/nagarseva-api/internal/services"
)

type RefundHandler struct {
	refundService *services.RefundService
}

func NewRefundHandler(refundService *services.RefundService) *RefundHandler {
	return &RefundHandler{refundService: refundService}
}

// @Summary Request Refund
// @Description Open a refund request against a settled payment
// @Tags Refunds
// @Accept json
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Param body body services.CreateRefundInput true "Refund details"
// @Success 201 {object} models.RefundResponse
// @Router /payments/{payment_id}/refunds [post]
func (h *RefundHandler) Create(c *gin.Context) {
	paymentID, err := strconv.ParseUint(c.Param("payment_id"), 10, 64)
	if err != nil {
		respondBindError(c, err)
		return
	}

	var input services.CreateRefundInput
	if err := BindNestedOrFlat(c, "refund", &input); err != nil {
		respondBindError(c, err)
		return
	}

	refund, err := h.refundService.Create(c.Request.Context(), uint(paymentID), input,
		actor(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, refund.ToResponse())
}

// @Summary Approve Refund
// @Description Approve a requested refund
// @Tags Refunds
// @Produce json
// @Param refund_id path int true "Refund ID"
// @Success 200 {object} models.RefundResponse
// @Router /refunds/{refund_id}/approve [post]
func (h *RefundHandler) Approve(c *gin.Context) {
	h.transition(c, h.refundService.Approve)
}

// @Summary Reject Refund
// @Description Reject a requested refund (terminal)
// @Tags Refunds
// @Produce json
// @Param refund_id path int true "Refund ID"
// @Success 200 {object} models.RefundResponse
// @Router /refunds/{refund_id}/reject [post]
func (h *RefundHandler) Reject(c *gin.Context) {
	h.transition(c, h.refundService.Reject)
}

// @Summary Process Refund
// @Description Mark an approved refund as paid out (terminal)
// @Tags Refunds
// @Produce json
// @Param refund_id path int true "Refund ID"
// @Success 200 {object} models.RefundResponse
// @Router /refunds/{refund_id}/process [post]
func (h *RefundHandler) Process(c *gin.Context) {
	h.transition(c, h.refundService.Process)
}

// @Summary Show Refund
// @Description Get a refund request by id
// @Tags Refunds
// @Produce json
// @Param refund_id path int true "Refund ID"
// @Success 200 {object} models.RefundResponse
// @Router /refunds/{refund_id} [get]
func (h *RefundHandler) Show(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("refund_id"), 10, 64)
	if err != nil {
		respondBindError(c, err)
		return
	}

	refund, err := h.refundService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, refund.ToResponse())
}

func (h *RefundHandler) transition(c *gin.Context, fn func(ctx context.Context, id uint, actor, ip, userAgent string) (*models.RefundRequest, error)) {
	id, err := strconv.ParseUint(c.Param("refund_id"), 10, 64)
	if err != nil {
		respondBindError(c, err)
		return
	}

	refund, err := fn(c.Request.Context(), uint(id), actor(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, refund.ToResponse())
}
