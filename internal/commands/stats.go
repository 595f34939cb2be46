package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"ococalli/internal/services"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the dashboard counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := current.dashboard.BuildDashboard(cmd.Context())
		if err != nil {
			return err
		}

		t := table.New().Border(lipgloss.HiddenBorder())
		t.Row("Plans", fmt.Sprint(s.TotalPlans))
		t.Row("Customers", fmt.Sprint(s.TotalCustomers))
		t.Row("  active", fmt.Sprint(s.ActiveCustomers))
		t.Row("  pending", fmt.Sprint(s.PendingCustomers))
		t.Row("  cancelled", fmt.Sprint(s.CancelledCustomers))
		t.Row("Expiring in 30 days", fmt.Sprint(s.ExpiringSoon))
		t.Row("Expired", fmt.Sprint(s.Expired))
		t.Row("Renewals (30 days)", fmt.Sprint(s.RenewalsLast30Days))
		t.Row("Revenue (30 days)", services.FormatAmount(s.RevenueLast30Days))
		t.Row("Pickup locations", fmt.Sprint(s.PickupLocations))
		t.Row("Delivered / pending", fmt.Sprintf("%d / %d", s.Delivered, s.PendingDelivery))
		fmt.Println(t)
		return nil
	},
}
