package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys populated by the trace and auth middleware.
const (
	CtxTraceID = "trace_id"
	CtxUserID  = "user_id"
	CtxRole    = "Role"
	CtxEmail   = "email"
	CtxTokenID = "token_id"
)

type APIResponse struct {
	Status     string      `json:"status"`
	Code       int         `json:"code"`
	Message    string      `json:"message,omitempty"`
	TraceID    string      `json:"trace_id,omitempty"`
	RedirectTo string      `json:"redirect_to,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: c.GetString(CtxTraceID),
		Data:    data,
	})
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, APIResponse{
		Status:  "success",
		Code:    http.StatusCreated,
		Message: message,
		TraceID: c.GetString(CtxTraceID),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString(CtxTraceID),
	})
}

// RespondRedirect aborts with a 401 envelope telling API clients where to log in.
func RespondRedirect(c *gin.Context, message, location string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, APIResponse{
		Status:     "error",
		Code:       http.StatusUnauthorized,
		Message:    message,
		TraceID:    c.GetString(CtxTraceID),
		RedirectTo: location,
	})
}

func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, RecordNotFound):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrValidation), errors.Is(err, ErrMissingRenewalRef), errors.Is(err, ErrInvalidDateRange):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrEmailAlreadyExists), errors.Is(err, ErrDuplicateRecord),
		errors.Is(err, ErrPlanInUse), errors.Is(err, ErrLocationInUse):
		RespondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrForbidden):
		RespondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrTooManyRequests):
		RespondError(c, http.StatusTooManyRequests, err.Error())
	default:
		zap.L().Error("service error",
			zap.String("trace_id", c.GetString(CtxTraceID)),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		// admins see the backend message, everyone else a generic one
		msg := "Internal server error"
		if c.GetString(CtxRole) == RoleAdmin {
			msg = err.Error()
		}
		RespondError(c, http.StatusInternalServerError, msg)
	}
}
