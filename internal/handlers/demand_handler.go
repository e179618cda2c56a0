package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nagarseva/nagarseva-api/internal/models"
	"github.com/nagarseva/nagarseva-api/internal/repository"
	"github.com/nagarseva/nagarseva-api/internal/services"
	"github.com/nagarseva/nagarseva-api/pkg/money"
)

type DemandHandler struct {
	demandService *services.DemandService
}

func NewDemandHandler(demandService *services.DemandService) *DemandHandler {
	return &DemandHandler{demandService: demandService}
}

type CreateDemandRequest struct {
	LineItemIDs []uint  `json:"line_item_ids" binding:"required"`
	DueDate     *string `json:"due_date,omitempty"` // YYYY-MM-DD
}

// @Summary Create Demand
// @Description Group assessed fee line items into a single payable demand
// @Tags Demands
// @Accept json
// @Produce json
// @Param arn path string true "Application Reference Number"
// @Param body body CreateDemandRequest true "Line item ids and optional due date"
// @Success 201 {object} models.DemandResponse
// @Router /applications/{arn}/demands [post]
func (h *DemandHandler) Create(c *gin.Context) {
	var req CreateDemandRequest
	if err := BindNestedOrFlat(c, "demand", &req); err != nil {
		respondBindError(c, err)
		return
	}

	var dueDate *money.Date
	if req.DueDate != nil && *req.DueDate != "" {
		parsed, err := money.ParseDate(*req.DueDate)
		if err != nil {
			respondBindError(c, err)
			return
		}
		dueDate = &parsed
	}

	demand, err := h.demandService.CreateDemand(c.Request.Context(), c.Param("arn"),
		req.LineItemIDs, dueDate, actor(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, demand.ToResponse())
}

// @Summary List Demands
// @Description Get a paginated list of demands for an application
// @Tags Demands
// @Produce json
// @Param arn path string true "Application Reference Number"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Router /applications/{arn}/demands [get]
func (h *DemandHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Status = c.Query("status")

	demands, total, err := h.demandService.ListByApplication(c.Request.Context(), c.Param("arn"), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]interface{}, 0, len(demands))
	for i := range demands {
		responses = append(responses, demands[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{
		"demands":    responses,
		"pagination": paginationMeta(query.Page, query.PerPage, total),
	})
}

// @Summary Show Demand
// @Description Get a demand with its line items
// @Tags Demands
// @Produce json
// @Param demand_id path int true "Demand ID"
// @Success 200 {object} models.DemandResponse
// @Router /demands/{demand_id} [get]
func (h *DemandHandler) Show(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("demand_id"), 10, 64)
	if err != nil {
		respondBindError(c, err)
		return
	}

	demand, err := h.demandService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, demand.ToResponse())
}

// @Summary Waive Demand
// @Description Waive a pending demand; its line items become WAIVED
// @Tags Demands
// @Produce json
// @Param demand_id path int true "Demand ID"
// @Success 200 {object} models.DemandResponse
// @Router /demands/{demand_id}/waive [post]
func (h *DemandHandler) Waive(c *gin.Context) {
	h.transition(c, h.demandService.WaiveDemand)
}

// @Summary Cancel Demand
// @Description Cancel a pending demand; its line items return to ASSESSED
// @Tags Demands
// @Produce json
// @Param demand_id path int true "Demand ID"
// @Success 200 {object} models.DemandResponse
// @Router /demands/{demand_id}/cancel [post]
func (h *DemandHandler) Cancel(c *gin.Context) {
	h.transition(c, h.demandService.CancelDemand)
}

func (h *DemandHandler) transition(c *gin.Context, fn func(ctx context.Context, id uint, actor, ip, userAgent string) (*models.Demand, error)) {
	id, err := strconv.ParseUint(c.Param("demand_id"), 10, 64)
	if err != nil {
		respondBindError(c, err)
		return
	}

	demand, err := fn(c.Request.Context(), uint(id), actor(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, demand.ToResponse())
}
