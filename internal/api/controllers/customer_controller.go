package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ococalli/internal/models/request_models"
	"ococalli/internal/services"
	"ococalli/pkg/utils"
)

// CustomerController is the back-office customer registry.
type CustomerController struct {
	customerService services.CustomerService
	pickupService   services.PickupService
}

func NewCustomerController(customerService services.CustomerService, pickupService services.PickupService) *CustomerController {
	return &CustomerController{
		customerService: customerService,
		pickupService:   pickupService,
	}
}

// ListCustomers godoc
// @Summary List customers
// @Description Filter by name, email or membership code with q, and by status
// @Tags Customers
// @Produce json
// @Param q query string false "Search text"
// @Param status query string false "ACTIVE | CANCELLED | PENDING"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/customers [get]
func (cc *CustomerController) ListCustomers(c *gin.Context) {
	var filter request_models.CustomerFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	customers, err := cc.customerService.ListCustomers(c.Request.Context(), filter)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, customers, "Customers fetched successfully")
}

// CreateCustomer godoc
// @Summary Create a customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body request_models.CreateCustomerRequest true "Customer payload"
// @Success 201 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/customers [post]
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var req request_models.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	customer, err := cc.customerService.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, customer, "Customer created successfully")
}

// GetCustomer godoc
// @Summary Get a customer
// @Tags Customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/customers/{id} [get]
func (cc *CustomerController) GetCustomer(c *gin.Context) {
	customer, err := cc.customerService.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, customer, "Customer fetched successfully")
}

// UpdateCustomer godoc
// @Summary Update a customer
// @Description The membership code cannot be changed
// @Tags Customers
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param request body request_models.UpdateCustomerRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/customers/{id} [put]
func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	var req request_models.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	customer, err := cc.customerService.UpdateCustomer(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, customer, "Customer updated successfully")
}

// CancelCustomer godoc
// @Summary Cancel a membership
// @Tags Customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/customers/{id}/cancel [post]
func (cc *CustomerController) CancelCustomer(c *gin.Context) {
	customer, err := cc.customerService.CancelCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, customer, "Membership cancelled")
}

// DeleteCustomer godoc
// @Summary Delete a customer
// @Tags Customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/customers/{id} [delete]
func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	if err := cc.customerService.DeleteCustomer(c.Request.Context(), c.Param("id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Customer deleted successfully")
}

// MarkDelivered godoc
// @Summary Mark a customer's pickup as delivered
// @Description Repeating the call keeps the first delivery time
// @Tags Customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/customers/{id}/deliver [post]
func (cc *CustomerController) MarkDelivered(c *gin.Context) {
	customer, changed, err := cc.pickupService.MarkDelivered(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	msg := "Marked as delivered"
	if !changed {
		msg = "Already delivered"
	}
	utils.RespondSuccess(c, customer, msg)
}
