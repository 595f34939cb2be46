package commands

import (
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ococalli/internal/models/db_models"
	resp "ococalli/internal/models/response_models"
	"ococalli/internal/services"
)

var (
	expiringWithin  int
	expiringExpired bool
	expiringNotify  bool
)

var bucketColors = map[string]lipgloss.Color{
	string(services.BucketFresh):    lipgloss.Color("2"),
	string(services.BucketWarning):  lipgloss.Color("3"),
	string(services.BucketCaution):  lipgloss.Color("208"),
	string(services.BucketCritical): lipgloss.Color("1"),
	string(services.BucketExpired):  lipgloss.Color("241"),
}

func bucketStyle(bucket string) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(0, 1)
	if c, ok := bucketColors[bucket]; ok {
		s = s.Foreground(c)
	}
	return s
}

// selectExpiring keeps active customers whose derived days remaining are at
// most within, soonest first. Expired memberships are kept only when asked
// and lead the list.
func selectExpiring(customers []resp.CustomerResponse, within int, includeExpired bool) []resp.CustomerResponse {
	out := make([]resp.CustomerResponse, 0)
	for _, c := range customers {
		if c.Status != string(db_models.StatusActive) {
			continue
		}
		if c.Membership.Bucket == string(services.BucketExpired) {
			if includeExpired {
				out = append(out, c)
			}
			continue
		}
		if d := c.Membership.DaysRemaining; d != nil && *d <= within {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return expiringRank(out[i]) < expiringRank(out[j])
	})
	return out
}

func expiringRank(c resp.CustomerResponse) int {
	if c.Membership.DaysRemaining == nil {
		return -1
	}
	return *c.Membership.DaysRemaining
}

var expiringCmd = &cobra.Command{
	Use:   "expiring",
	Short: "List memberships that expire soon",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, err := current.customers.ListEndingWithin(cmd.Context(), expiringWithin)
		if err != nil {
			return err
		}
		rows := selectExpiring(all, expiringWithin, expiringExpired)
		if len(rows) == 0 {
			color.Green("no memberships expire within %d days\n", expiringWithin)
			return nil
		}

		buckets := make([]string, len(rows))
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("CODE", "NAME", "EMAIL", "PLAN", "ENDS", "LEFT").
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow || row < 0 || row >= len(buckets) {
					return lipgloss.NewStyle().Bold(true).Padding(0, 1)
				}
				return bucketStyle(buckets[row])
			})
		for i, c := range rows {
			buckets[i] = c.Membership.Bucket
			plan := ""
			if c.Plan != nil {
				plan = c.Plan.Name
			}
			ends := ""
			if c.Membership.EndDate != nil {
				ends = c.Membership.EndDate.Format("2006-01-02")
			}
			t.Row(c.MembershipCode, c.Name, c.Email, plan, ends, c.Membership.Label)
		}
		fmt.Fprintln(os.Stdout, t)

		if expiringNotify {
			notifyExpiring(cmd, rows)
		}
		return nil
	},
}

func notifyExpiring(cmd *cobra.Command, rows []resp.CustomerResponse) {
	sent := 0
	for _, c := range rows {
		if c.Membership.DaysRemaining == nil || c.Membership.EndDate == nil {
			continue
		}
		if err := current.mailer.SendExpiryReminder(cmd.Context(), c.Email, c.Name, *c.Membership.EndDate, *c.Membership.DaysRemaining); err != nil {
			current.log.Warn("expiry reminder failed", zap.String("customer_id", c.ID.String()), zap.Error(err))
			color.Red("\treminder failed: %s\n", c.Email)
			continue
		}
		sent++
	}
	color.Green("sent %d reminders\n", sent)
}

func init() {
	expiringCmd.Flags().IntVar(&expiringWithin, "within", 30, "days ahead to look")
	expiringCmd.Flags().BoolVar(&expiringExpired, "include-expired", false, "also list expired memberships")
	expiringCmd.Flags().BoolVar(&expiringNotify, "notify", false, "email a reminder to each listed member")
}
