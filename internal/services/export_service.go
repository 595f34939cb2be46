package services

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	resp "ococalli/internal/models/response_models"
	"ococalli/internal/repositories"
	"ococalli/pkg/utils"
)

// Pesos use the same separators as US dollars.
var amountPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatAmount renders a peso amount with thousands separators.
func FormatAmount(v float64) string {
	return amountPrinter.Sprintf("$%.2f", v)
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}

type ExportService interface {
	CustomersXLSX(ctx context.Context, w io.Writer) error
	RenewalsXLSX(ctx context.Context, w io.Writer) error
	PickupsXLSX(ctx context.Context, w io.Writer) error
	PickupsPDF(ctx context.Context, w io.Writer) error
}

type exportService struct {
	customers repositories.CustomerRepository
	renewals  repositories.RenewalRepository
	clock     utils.Clock
	log       *zap.Logger
}

func NewExportService(
	customers repositories.CustomerRepository,
	renewals repositories.RenewalRepository,
	clock utils.Clock,
	log *zap.Logger,
) ExportService {
	return &exportService{
		customers: customers,
		renewals:  renewals,
		clock:     clock,
		log:       log.Named("exports"),
	}
}

var (
	customerHeaders = []string{"Nombre", "Email", "Telefono", "CodigoMembresia", "Plan", "Estatus",
		"Ubicacion", "Horario", "FechaInicio", "FechaFin", "DiasRestantes", "Semaforo"}
	renewalHeaders = []string{"Fecha", "Cliente", "Email", "Plan", "Concepto", "Monto",
		"MetodoPago", "RecibidoPor", "FinAnterior", "NuevoInicio", "NuevoFin"}
	pickupHeaders = []string{"Ubicacion", "Direccion", "Horario", "Cliente", "Email", "Codigo",
		"Plan", "Entregado", "EntregadoEl"}
)

// CustomersXLSX writes one row per customer. Password hashes never leave
// the database.
func (s *exportService) CustomersXLSX(ctx context.Context, w io.Writer) error {
	customers, err := s.customers.List(ctx, repositories.CustomerListFilter{})
	if err != nil {
		return wrapDB(err)
	}

	now := s.clock.Now()
	rows := make([][]interface{}, 0, len(customers))
	for i := range customers {
		c := &customers[i]
		view := DeriveMembershipStatus(c.StartDate, c.EndDate, c.MembershipPlan, now)

		var planName, location, schedule, phone string
		if c.MembershipPlan != nil {
			planName = c.MembershipPlan.Name
		}
		if c.PickupLocation != nil {
			location = c.PickupLocation.Label()
			schedule = deref(c.PickupLocation.Schedule)
		}
		phone = deref(c.Phone)

		remaining := "Vencida"
		switch {
		case view.DaysRemaining != nil:
			remaining = strconv.Itoa(*view.DaysRemaining)
		case view.EndDate == nil:
			remaining = "-"
		}

		rows = append(rows, []interface{}{
			c.Name, c.Email, phone, c.MembershipCode, planName, string(c.Status),
			location, schedule, utils.FormatDate(c.StartDate), utils.FormatDate(view.EndDate),
			remaining, view.Bucket,
		})
	}
	return writeSheet(w, "Clientes", customerHeaders, rows)
}

func (s *exportService) RenewalsXLSX(ctx context.Context, w io.Writer) error {
	renewals, err := s.renewals.List(ctx, nil)
	if err != nil {
		return wrapDB(err)
	}

	rows := make([][]interface{}, 0, len(renewals))
	for i := range renewals {
		r := toRenewalResponse(&renewals[i])
		rows = append(rows, []interface{}{
			utils.FormatDate(&r.RenewalDate), r.CustomerName, r.CustomerEmail, r.PlanName,
			r.Concept, FormatAmount(r.Amount), r.MethodOfPayment, r.ReceivedBy,
			utils.FormatDate(r.PreviousEndDate), utils.FormatDate(&r.NewStartDate), utils.FormatDate(&r.NewEndDate),
		})
	}
	return writeSheet(w, "Renovaciones", renewalHeaders, rows)
}

func (s *exportService) pickupReport(ctx context.Context) (*resp.PickupReport, error) {
	customers, err := s.customers.List(ctx, repositories.CustomerListFilter{})
	if err != nil {
		return nil, wrapDB(err)
	}
	return BuildPickupReport(customers), nil
}

func (s *exportService) PickupsXLSX(ctx context.Context, w io.Writer) error {
	report, err := s.pickupReport(ctx)
	if err != nil {
		return err
	}

	var rows [][]interface{}
	for _, g := range report.Groups {
		name, address, schedule := groupLabels(g)
		for _, c := range g.Customers {
			rows = append(rows, []interface{}{
				name, address, schedule, c.Name, c.Email, c.MembershipCode, c.PlanName,
				yesNo(c.Delivered), utils.FormatDateTime(c.DeliveredAt),
			})
		}
	}
	return writeSheet(w, "Calendario", pickupHeaders, rows)
}

// PickupsPDF prints one page per pickup group.
func (s *exportService) PickupsPDF(ctx context.Context, w io.Writer) error {
	report, err := s.pickupReport(ctx)
	if err != nil {
		return err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Calendario de recolección", true)
	pdf.SetMargins(12, 14, 12)
	pdf.SetAutoPageBreak(true, 16)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("Página %d/{nb}", pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	widths := []float64{60, 62, 32, 32}
	headers := []string{"Cliente", "Email", "Código", "Entregado"}

	if len(report.Groups) == 0 {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 10, tr("No hay clientes registrados."), "", 1, "L", false, 0, "")
	}

	for _, g := range report.Groups {
		name, address, schedule := groupLabels(g)

		pdf.AddPage()
		pdf.SetTextColor(60, 40, 20)
		pdf.SetFont("Helvetica", "B", 15)
		pdf.CellFormat(0, 9, tr(name), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		if address != "" {
			pdf.CellFormat(0, 6, tr(address), "", 1, "L", false, 0, "")
		}
		if schedule != "" {
			pdf.CellFormat(0, 6, tr("Horario: "+schedule), "", 1, "L", false, 0, "")
		}
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("Total: %d  Entregados: %d  Pendientes: %d", g.Total, g.Delivered, g.Pending)),
			"", 1, "L", false, 0, "")
		pdf.Ln(3)

		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(243, 227, 199)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, c := range g.Customers {
			cells := []string{c.Name, c.Email, c.MembershipCode, yesNo(c.Delivered)}
			for i, v := range cells {
				pdf.CellFormat(widths[i], 6, tr(v), "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	return pdf.Output(w)
}

func groupLabels(g resp.PickupGroup) (name, address, schedule string) {
	if g.Location == nil {
		return UnassignedLabel, "", ""
	}
	return g.Location.Name, g.Location.Address, deref(g.Location.Schedule)
}

// writeSheet streams a single-sheet workbook with a bold header row.
func writeSheet(w io.Writer, sheet string, headers []string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	if err := sw.SetColWidth(1, len(headers), 20); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#F3E3C7"}},
	})
	if err != nil {
		return err
	}

	head := make([]interface{}, len(headers))
	for i, h := range headers {
		head[i] = h
	}
	if err := sw.SetRow("A1", head, excelize.RowOpts{StyleID: headerStyle}); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.Write(w)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
