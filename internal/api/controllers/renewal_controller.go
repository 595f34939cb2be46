package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ococalli/internal/models/request_models"
	"ococalli/internal/services"
	"ococalli/pkg/utils"
)

type RenewalController struct {
	renewalService services.RenewalService
}

func NewRenewalController(renewalService services.RenewalService) *RenewalController {
	return &RenewalController{renewalService: renewalService}
}

// CreateRenewal godoc
// @Summary Record a renewal payment
// @Description Stores the payment and moves the customer's membership window in one transaction
// @Tags Renewals
// @Accept json
// @Produce json
// @Param request body request_models.CreateRenewalRequest true "Renewal payload"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/renewals [post]
func (r *RenewalController) CreateRenewal(c *gin.Context) {
	var req request_models.CreateRenewalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	out, err := r.renewalService.CreateRenewal(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, out, "Renewal recorded")
}

// ListRenewals godoc
// @Summary List renewals
// @Description Newest first, optionally for one customer
// @Tags Renewals
// @Produce json
// @Param customer_id query string false "Customer ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/renewals [get]
func (r *RenewalController) ListRenewals(c *gin.Context) {
	var filter request_models.RenewalFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	out, err := r.renewalService.ListRenewals(c.Request.Context(), filter)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, out, "Renewals fetched successfully")
}
