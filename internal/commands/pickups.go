package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	resp "ococalli/internal/models/response_models"
	"ococalli/internal/services"
)

var groupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))

func groupHeading(g resp.PickupGroup) string {
	if g.Location == nil {
		return services.UnassignedLabel
	}
	h := g.Location.Name + " · " + g.Location.Address
	if g.Location.Schedule != nil && *g.Location.Schedule != "" {
		h += " · " + *g.Location.Schedule
	}
	return h
}

var pickupsCmd = &cobra.Command{
	Use:   "pickups",
	Short: "Show customers grouped by pickup location",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := current.pickups.GroupByPickupLocation(cmd.Context())
		if err != nil {
			return err
		}

		for _, g := range report.Groups {
			fmt.Println(groupTitle.Render(fmt.Sprintf("%s (%d/%d delivered)", groupHeading(g), g.Delivered, g.Total)))
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				Headers("CODE", "NAME", "PLAN", "DELIVERED")
			for _, c := range g.Customers {
				mark := "-"
				if c.Delivered {
					mark = "yes"
				}
				t.Row(c.MembershipCode, c.Name, c.PlanName, mark)
			}
			fmt.Println(t)
			fmt.Println()
		}

		summary := fmt.Sprintf("%d customers, %d delivered, %d pending", report.Total, report.Delivered, report.Pending)
		if report.Pending > 0 {
			color.Yellow("%s\n", summary)
		} else {
			color.Green("%s\n", summary)
		}
		return nil
	},
}
