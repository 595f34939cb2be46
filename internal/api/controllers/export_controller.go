package controllers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"ococalli/internal/services"
	"ococalli/pkg/utils"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF  = "application/pdf"
)

type ExportController struct {
	exportService services.ExportService
	clock         utils.Clock
}

func NewExportController(exportService services.ExportService, clock utils.Clock) *ExportController {
	return &ExportController{exportService: exportService, clock: clock}
}

// The file is rendered into memory first so a failure can still be
// reported as a JSON error.
func (e *ExportController) send(c *gin.Context, base, ext, mime string, render func(context.Context, io.Writer) error) {
	var buf bytes.Buffer
	if err := render(c.Request.Context(), &buf); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	name := fmt.Sprintf("%s-%s.%s", base, e.clock.Now().Format("2006-01-02"), ext)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, mime, buf.Bytes())
}

// CustomersXLSX godoc
// @Summary Download the customer list
// @Tags Exports
// @Produce octet-stream
// @Success 200 {file} file
// @Security BearerAuth
// @Router /admin/exports/customers.xlsx [get]
func (e *ExportController) CustomersXLSX(c *gin.Context) {
	e.send(c, "clientes", "xlsx", mimeXLSX, e.exportService.CustomersXLSX)
}

// RenewalsXLSX godoc
// @Summary Download the renewal history
// @Tags Exports
// @Produce octet-stream
// @Success 200 {file} file
// @Security BearerAuth
// @Router /admin/exports/renewals.xlsx [get]
func (e *ExportController) RenewalsXLSX(c *gin.Context) {
	e.send(c, "renovaciones", "xlsx", mimeXLSX, e.exportService.RenewalsXLSX)
}

// PickupsXLSX godoc
// @Summary Download the pickup calendar as a spreadsheet
// @Tags Exports
// @Produce octet-stream
// @Success 200 {file} file
// @Security BearerAuth
// @Router /admin/exports/pickups.xlsx [get]
func (e *ExportController) PickupsXLSX(c *gin.Context) {
	e.send(c, "calendario", "xlsx", mimeXLSX, e.exportService.PickupsXLSX)
}

// PickupsPDF godoc
// @Summary Download printable pickup sheets
// @Tags Exports
// @Produce application/pdf
// @Success 200 {file} file
// @Security BearerAuth
// @Router /admin/exports/pickups.pdf [get]
func (e *ExportController) PickupsPDF(c *gin.Context) {
	e.send(c, "calendario", "pdf", mimePDF, e.exportService.PickupsPDF)
}
