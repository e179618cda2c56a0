package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nagarseva/nagarseva-api/internal/services"
)

type FeeHandler struct {
	feeService *services.FeeService
}

func NewFeeHandler(feeService *services.FeeService) *FeeHandler {
	return &FeeHandler{feeService: feeService}
}

type AssessFeesRequest struct {
	Items []services.SubmittedFeeItem `json:"items" binding:"required"`
}

// @Summary Assess Fees
// @Description Validate submitted fee items against the authoritative schedule and persist them
// @Tags Fees
// @Accept json
// @Produce json
// @Param arn path string true "Application Reference Number"
// @Param body body AssessFeesRequest true "Submitted fee items"
// @Success 201 {object} map[string]interface{}
// @Router /applications/{arn}/fees/assess [post]
func (h *FeeHandler) Assess(c *gin.Context) {
	var req AssessFeesRequest
	if err := BindNestedOrFlat(c, "assessment", &req); err != nil {
		respondBindError(c, err)
		return
	}

	items, err := h.feeService.Assess(c.Request.Context(), c.Param("arn"), req.Items,
		actor(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]interface{}, 0, len(items))
	for i := range items {
		responses = append(responses, items[i].ToResponse())
	}
	c.JSON(http.StatusCreated, gin.H{"line_items": responses})
}

// @Summary List Fee Line Items
// @Description Get all fee line items assessed for an application
// @Tags Fees
// @Produce json
// @Param arn path string true "Application Reference Number"
// @Success 200 {object} map[string]interface{}
// @Router /applications/{arn}/fees [get]
func (h *FeeHandler) Index(c *gin.Context) {
	items, err := h.feeService.ListByApplication(c.Request.Context(), c.Param("arn"))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]interface{}, 0, len(items))
	for i := range items {
		responses = append(responses, items[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"line_items": responses})
}
