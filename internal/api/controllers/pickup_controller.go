package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ococalli/internal/models/request_models"
	"ococalli/internal/services"
	"ococalli/pkg/utils"
)

type PickupController struct {
	pickupService services.PickupService
}

func NewPickupController(pickupService services.PickupService) *PickupController {
	return &PickupController{pickupService: pickupService}
}

// ListLocations godoc
// @Summary List pickup locations
// @Tags Pickup
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /pickup-locations [get]
func (p *PickupController) ListLocations(c *gin.Context) {
	out, err := p.pickupService.ListLocations(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, out, "Pickup locations fetched successfully")
}

// CreateLocation godoc
// @Summary Create a pickup location
// @Tags Pickup
// @Accept json
// @Produce json
// @Param request body request_models.PickupLocationRequest true "Location payload"
// @Success 201 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/pickup-locations [post]
func (p *PickupController) CreateLocation(c *gin.Context) {
	var req request_models.PickupLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	out, err := p.pickupService.CreateLocation(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, out, "Pickup location created")
}

// UpdateLocation godoc
// @Summary Update a pickup location
// @Tags Pickup
// @Accept json
// @Produce json
// @Param id path string true "Location ID"
// @Param request body request_models.PickupLocationRequest true "Location payload"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/pickup-locations/{id} [put]
func (p *PickupController) UpdateLocation(c *gin.Context) {
	var req request_models.PickupLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	out, err := p.pickupService.UpdateLocation(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, out, "Pickup location updated")
}

// DeleteLocation godoc
// @Summary Delete a pickup location
// @Tags Pickup
// @Produce json
// @Param id path string true "Location ID"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/pickup-locations/{id} [delete]
func (p *PickupController) DeleteLocation(c *gin.Context) {
	if err := p.pickupService.DeleteLocation(c.Request.Context(), c.Param("id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Pickup location deleted")
}

// Groups godoc
// @Summary Customers grouped by pickup location
// @Description Unassigned customers are listed last
// @Tags Pickup
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/pickups/groups [get]
func (p *PickupController) Groups(c *gin.Context) {
	out, err := p.pickupService.GroupByPickupLocation(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, out, "Pickup groups fetched successfully")
}
