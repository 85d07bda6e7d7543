package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	appbilling "github.com/imperialbinding/billing/internal/application/billing"
	"github.com/imperialbinding/billing/internal/domain/shared"
	"github.com/imperialbinding/billing/internal/infrastructure/config"
	"github.com/imperialbinding/billing/internal/infrastructure/logger"
	"github.com/imperialbinding/billing/internal/infrastructure/persistence"
	"github.com/imperialbinding/billing/internal/infrastructure/printing"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "1.0.0"

// app holds the services shared by every subcommand
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	db        *persistence.Database
	clock     shared.Clock
	sequences *persistence.GormInvoiceSequenceRepository
	customers *appbilling.CustomerService
	invoices  *appbilling.InvoiceService
	payments  *appbilling.PaymentService
	documents *appbilling.DocumentService
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "billingctl",
		Short: "Manage customers, invoices and payments from the command line",
		Long: `billingctl works directly against the billing database.

It uses the same configuration as the API server (config.toml and
BILLING_* environment variables). Use --sqlite to point it at a local
database file instead.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	root.PersistentFlags().String("config", "", "Path to a configuration file")
	root.PersistentFlags().String("sqlite", "", "Use the SQLite database at this path")
	root.PersistentFlags().Bool("migrate", false, "Create or update the schema before running")
	root.PersistentFlags().BoolP("verbose", "v", false, "Log SQL and service activity to stderr")

	root.AddCommand(
		newCustomersCmd(a),
		newInvoicesCmd(a),
		newPaymentsCmd(a),
		newRenderCmd(a),
	)
	return root
}

func (a *app) open(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	sqlitePath, _ := cmd.Flags().GetString("sqlite")
	migrate, _ := cmd.Flags().GetBool("migrate")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if sqlitePath != "" {
		cfg.Database.Driver = config.DriverSQLite
		cfg.Database.Path = sqlitePath
		migrate = true
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	log, err := logger.New(&logger.Config{Level: level, Format: "console", Output: "stderr"})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database,
		logger.NewGormLogger(log, logger.MapGormLogLevel(level)))
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	if migrate || cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(a.ctx(cmd)); err != nil {
			_ = db.Close()
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	loc, err := cfg.App.Location()
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("invalid timezone: %w", err)
	}
	clock := shared.NewSystemClock(loc)

	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	pdfStorage, err := printing.NewFileSystemStorage(&printing.FileSystemStorageConfig{
		BasePath: cfg.Documents.BasePath,
		Logger:   log,
	})
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("initialize invoice storage: %w", err)
	}

	a.cfg = cfg
	a.log = log
	a.db = db
	a.clock = clock
	a.sequences = persistence.NewGormInvoiceSequenceRepository(db.DB)
	a.customers = appbilling.NewCustomerService(customerRepo, invoiceRepo, paymentRepo, clock, log)
	a.invoices = appbilling.NewInvoiceService(invoiceRepo, txScope, clock, log)
	a.payments = appbilling.NewPaymentService(paymentRepo, txScope, clock, log)
	a.documents = appbilling.NewDocumentService(invoiceRepo, a.customers.Balances(),
		printing.NewFPDFRenderer(&printing.FPDFConfig{Logger: log}), pdfStorage, nil,
		appbilling.DocumentSettings{
			BusinessName:     cfg.Documents.BusinessName,
			BusinessSubtitle: cfg.Documents.BusinessSubtitle,
			CurrencySymbol:   cfg.Documents.CurrencySymbol,
		}, clock, log)
	return nil
}

func (a *app) close() error {
	if a.log != nil {
		_ = a.log.Sync()
	}
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

func (a *app) ctx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}
