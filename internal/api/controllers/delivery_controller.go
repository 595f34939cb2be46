package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ococalli/internal/models/request_models"
	"ococalli/internal/services"
	"ococalli/pkg/utils"
)

type DeliveryController struct {
	deliveryService services.DeliveryService
}

func NewDeliveryController(deliveryService services.DeliveryService) *DeliveryController {
	return &DeliveryController{deliveryService: deliveryService}
}

// CreateDelivery godoc
// @Summary Log a delivery
// @Tags Deliveries
// @Accept json
// @Produce json
// @Param request body request_models.CreateDeliveryRequest true "Delivery payload"
// @Success 201 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/deliveries [post]
func (d *DeliveryController) CreateDelivery(c *gin.Context) {
	var req request_models.CreateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	out, err := d.deliveryService.CreateDelivery(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, out, "Delivery recorded")
}

// ListDeliveries godoc
// @Summary List deliveries
// @Tags Deliveries
// @Produce json
// @Param zone query string false "Zone or location name"
// @Param customer_id query string false "Customer ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/deliveries [get]
func (d *DeliveryController) ListDeliveries(c *gin.Context) {
	var filter request_models.DeliveryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	out, err := d.deliveryService.ListDeliveries(c.Request.Context(), filter)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, out, "Deliveries fetched successfully")
}
