package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ococalli/internal/config"
	"ococalli/internal/infra"
	"ococalli/internal/repositories"
	"ococalli/internal/services"
	"ococalli/pkg/utils"
)

// app is the service graph shared by every subcommand.
type app struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB

	clock     utils.Clock
	mailer    services.IMailService
	plans     services.PlanServiceInterface
	customers services.CustomerService
	pickups   services.PickupService
	exports   services.ExportService
	dashboard services.DashboardService
	auth      services.AuthService
}

var current *app

var rootCmd = &cobra.Command{
	Use:   "memberctl",
	Short: "Ococalli membership back-office tool",
	Long: `memberctl runs maintenance tasks against the membership database:
migrations, seeding, expiry reports, pickup sheets and exports.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if current != nil {
			return nil
		}
		cfg, err := config.LoadTools()
		if err != nil {
			return err
		}
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		current = a
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if current != nil {
			current.close()
			current = nil
		}
	},
}

func newApp(cfg *config.Config) (*app, error) {
	log, err := infra.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	db, err := infra.OpenDatabase(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	return wire(cfg, log, db)
}

func wire(cfg *config.Config, log *zap.Logger, db *gorm.DB) (*app, error) {
	codes, err := utils.NewCodeGenerator(cfg.SnowflakeNode)
	if err != nil {
		return nil, err
	}
	mailer, err := services.NewMailService(cfg.SMTP, cfg.BaseURL, log)
	if err != nil {
		return nil, fmt.Errorf("mail service: %w", err)
	}

	clock := utils.SystemClock{}
	customerRepo := repositories.NewCustomerRepository(db)
	planRepo := repositories.NewPlanRepository(db)
	locationRepo := repositories.NewPickupLocationRepository(db)
	renewalRepo := repositories.NewRenewalRepository(db)
	gate := services.NewAccessGate(cfg.Auth.AdminEmails, cfg.Auth.LoginPath)

	return &app{
		cfg:       cfg,
		log:       log,
		db:        db,
		clock:     clock,
		mailer:    mailer,
		plans:     services.NewPlanService(planRepo),
		customers: services.NewCustomerService(customerRepo, planRepo, locationRepo, codes, mailer, clock, log),
		pickups:   services.NewPickupService(locationRepo, customerRepo, clock, log),
		exports:   services.NewExportService(customerRepo, renewalRepo, clock, log),
		dashboard: services.NewDashboardService(repositories.NewDashboardRepository(db), clock),
		// no tokens are signed from the command line
		auth: services.NewAuthService(repositories.NewAccountRepository(db), customerRepo, nil, nil, gate, log),
	}, nil
}

func (a *app) close() {
	infra.CloseDatabase(a.db, a.log)
	_ = a.log.Sync()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedAdminCmd)
	rootCmd.AddCommand(seedPlansCmd)
	rootCmd.AddCommand(expiringCmd)
	rootCmd.AddCommand(pickupsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
}
