package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ococalli/internal/models/request_models"
	"ococalli/internal/services"
	"ococalli/pkg/utils"
)

// MemberController serves the public sign-up and the member's own profile.
type MemberController struct {
	customerService services.CustomerService
}

func NewMemberController(customerService services.CustomerService) *MemberController {
	return &MemberController{customerService: customerService}
}

// Register godoc
// @Summary Sign up for a membership
// @Description Creates a PENDING customer and returns the generated membership code
// @Tags Members
// @Accept json
// @Produce json
// @Param request body request_models.RegisterRequest true "Registration payload"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /members/register [post]
func (m *MemberController) Register(c *gin.Context) {
	var req request_models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	out, err := m.customerService.Register(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, out, "Registration successful")
}

// LookupByCode godoc
// @Summary Look up a membership by code
// @Description Returns only the holder's name, plan and membership window
// @Tags Members
// @Produce json
// @Param code path string true "Membership code"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /members/code/{code} [get]
func (m *MemberController) LookupByCode(c *gin.Context) {
	out, err := m.customerService.LookupByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, out, "Membership found")
}

// Me godoc
// @Summary Get the signed-in member
// @Tags Members
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /members/me [get]
func (m *MemberController) Me(c *gin.Context) {
	out, err := m.customerService.GetCustomer(c.Request.Context(), c.GetString(utils.CtxUserID))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, out, "Profile fetched successfully")
}

// SetPickupLocation godoc
// @Summary Choose a pickup location
// @Description An empty or null id clears the assignment
// @Tags Members
// @Accept json
// @Produce json
// @Param request body request_models.SetPickupLocationRequest true "Location"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /members/me/pickup-location [put]
func (m *MemberController) SetPickupLocation(c *gin.Context) {
	var req request_models.SetPickupLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	out, err := m.customerService.SetPickupLocation(c.Request.Context(), c.GetString(utils.CtxUserID), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, out, "Pickup location updated")
}
