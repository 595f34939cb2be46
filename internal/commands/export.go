package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ococalli/internal/services"
)

var (
	exportFormat string
	exportOutput string
)

type exportFunc func(context.Context, io.Writer) error

// exportTarget picks the renderer for a dataset and format. svc is only
// consulted when the returned func runs.
func exportTarget(svc services.ExportService, dataset, format string) (exportFunc, error) {
	switch {
	case dataset == "customers" && format == "xlsx":
		return func(ctx context.Context, w io.Writer) error { return svc.CustomersXLSX(ctx, w) }, nil
	case dataset == "renewals" && format == "xlsx":
		return func(ctx context.Context, w io.Writer) error { return svc.RenewalsXLSX(ctx, w) }, nil
	case dataset == "pickups" && format == "xlsx":
		return func(ctx context.Context, w io.Writer) error { return svc.PickupsXLSX(ctx, w) }, nil
	case dataset == "pickups" && format == "pdf":
		return func(ctx context.Context, w io.Writer) error { return svc.PickupsPDF(ctx, w) }, nil
	}
	return nil, fmt.Errorf("cannot export %s as %s", dataset, format)
}

var exportCmd = &cobra.Command{
	Use:       "export customers|renewals|pickups",
	Short:     "Write a spreadsheet or PDF export",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"customers", "renewals", "pickups"},
	RunE: func(cmd *cobra.Command, args []string) error {
		render, err := exportTarget(current.exports, args[0], exportFormat)
		if err != nil {
			return err
		}

		out := exportOutput
		if out == "" {
			out = fmt.Sprintf("%s-%s.%s", args[0], current.clock.Now().Format("2006-01-02"), exportFormat)
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		if err := render(cmd.Context(), f); err != nil {
			f.Close()
			os.Remove(out)
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}

		color.Green("wrote %s\n", out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "xlsx", "xlsx or pdf (pdf only for pickups)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file")
}
