package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nagarseva/nagarseva-api/internal/services"
)

type DuesHandler struct {
	duesService *services.DuesService
}

func NewDuesHandler(duesService *services.DuesService) *DuesHandler {
	return &DuesHandler{duesService: duesService}
}

// @Summary Dues Ledger
// @Description Get the computed dues ledger for a property as of today
// @Tags Dues
// @Produce json
// @Param upn path string true "Unique Property Number"
// @Success 200 {object} dues.Ledger
// @Router /properties/{upn}/dues [get]
func (h *DuesHandler) Ledger(c *gin.Context) {
	ledger, err := h.duesService.GetLedger(c.Request.Context(), c.Param("upn"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ledger)
}

// @Summary Post Due Payment
// @Description Settle a due by appending to the property's payment log; the amount is the outstanding balance as of the payment date
// @Tags Dues
// @Accept json
// @Produce json
// @Param upn path string true "Unique Property Number"
// @Param body body services.PostDuePaymentInput true "Due code and optional payment date"
// @Success 201 {object} dues.Ledger
// @Router /properties/{upn}/dues/payments [post]
func (h *DuesHandler) PostPayment(c *gin.Context) {
	var input services.PostDuePaymentInput
	if err := BindNestedOrFlat(c, "payment", &input); err != nil {
		respondBindError(c, err)
		return
	}

	ledger, err := h.duesService.PostDuePayment(c.Request.Context(), c.Param("upn"), input,
		actor(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ledger)
}
