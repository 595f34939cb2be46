package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ococalli/internal/models/request_models"
)

var (
	seedEmail    string
	seedName     string
	seedPassword string
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create an administrator account, or reset its password",
	Long: `Creates the admin account for --email, or updates its name and password
when it already exists. The email must also be listed in ADMIN_EMAILS to sign in.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		account, created, err := current.auth.SeedAdmin(cmd.Context(), request_models.SeedAdminRequest{
			Name:     seedName,
			Email:    seedEmail,
			Password: seedPassword,
		})
		if err != nil {
			return err
		}

		verb := "updated"
		if created {
			verb = "created"
		}
		color.Green("admin %s: %s (%s)\n", verb, account.Email, account.ID)
		if !current.cfg.Auth.HasAdmin(account.Email) {
			color.Yellow("warning: %s is not in ADMIN_EMAILS and will be refused at login\n", account.Email)
		}
		return nil
	},
}

// DefaultPlans is the catalog seeded into an empty database.
var DefaultPlans = []request_models.PlanRequest{
	{Name: "Mensual", Price: 350, DurationMonths: 1, SubscriptionFee: 100},
	{Name: "Trimestral", Price: 990, DurationMonths: 3, SubscriptionFee: 100},
	{Name: "Semestral", Price: 1900, DurationMonths: 6, FreeMonths: 1},
	{Name: "Anual", Price: 3600, DurationMonths: 12, FreeMonths: 2},
}

var seedPlansCmd = &cobra.Command{
	Use:   "seed-plans",
	Short: "Insert the default membership plans into an empty catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		existing, err := current.plans.GetPlans(cmd.Context())
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			fmt.Printf("catalog already has %d plans, nothing to do\n", len(existing))
			return nil
		}

		for _, p := range DefaultPlans {
			plan, err := current.plans.CreatePlan(cmd.Context(), p)
			if err != nil {
				return fmt.Errorf("create %s: %w", p.Name, err)
			}
			color.Green("\tcreated  %-12s %d+%d months\n", plan.Name, plan.DurationMonths, plan.FreeMonths)
		}
		return nil
	},
}

func init() {
	seedAdminCmd.Flags().StringVar(&seedEmail, "email", "", "admin email")
	seedAdminCmd.Flags().StringVar(&seedName, "name", "", "display name")
	seedAdminCmd.Flags().StringVar(&seedPassword, "password", "", "password, at least 8 characters")
	_ = seedAdminCmd.MarkFlagRequired("email")
	_ = seedAdminCmd.MarkFlagRequired("password")
}
