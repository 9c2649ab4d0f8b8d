package main

import (
	"context"
	"fmt"

	catalogapp "github.com/erp/productext/internal/application/catalog"
	financeapp "github.com/erp/productext/internal/application/finance"
	identityapp "github.com/erp/productext/internal/application/identity"
	"github.com/erp/productext/internal/domain/catalog"
	"github.com/erp/productext/internal/domain/identity"
	"github.com/erp/productext/internal/infrastructure/cache"
	"github.com/erp/productext/internal/infrastructure/config"
	"github.com/erp/productext/internal/infrastructure/event"
	"github.com/erp/productext/internal/infrastructure/logger"
	"github.com/erp/productext/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type jobRunner interface {
	RunUntilDone(ctx context.Context, tenantID uuid.UUID, opts catalogapp.RunOptions) ([]*catalogapp.BatchResult, error)
	RunAllUntilDone(ctx context.Context, opts catalogapp.RunOptions) ([]*catalogapp.BatchResult, error)
}

type plannedPricer interface {
	PlannedPriceOf(ctx context.Context, tenantID, companyID uuid.UUID, tmpl *catalog.ProductTemplate) (decimal.Decimal, error)
}

type userAdmin interface {
	Create(ctx context.Context, input identityapp.CreateUserInput) (*identityapp.UserInfo, error)
	SetGroups(ctx context.Context, tenantID, userID uuid.UUID, groups []string) (*identityapp.UserInfo, error)
}

type accessGranter interface {
	Grant(ctx context.Context, input identityapp.GrantAccessInput) (*identity.ModelAccess, error)
}

type financeAdmin interface {
	CreateCompany(ctx context.Context, input financeapp.CreateCompanyInput) (*financeapp.CompanyInfo, error)
	CreateCurrency(ctx context.Context, input financeapp.CreateCurrencyInput) (*financeapp.CurrencyInfo, error)
	AddRate(ctx context.Context, input financeapp.AddRateInput) (*financeapp.CurrencyInfo, error)
	CreateTax(ctx context.Context, input financeapp.CreateTaxInput) (*financeapp.TaxInfo, error)
}

type templateFinder interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.ProductTemplate, error)
}

// app is what the commands run against
type app struct {
	job       jobRunner
	planned   plannedPricer
	templates templateFinder
	users     userAdmin
	access    accessGranter
	finance   financeAdmin
	log       *zap.Logger
	close     func() error
}

type bootstrapFunc func(ctx context.Context, logLevel string) (*app, error)

func newRootCmd(boot bootstrapFunc) *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "pricectl",
		Short:         "Planned price maintenance and pricing setup",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	withApp := func(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			a, err := boot(cmd.Context(), logLevel)
			if err != nil {
				return err
			}
			defer func() {
				if a.close != nil {
					if err := a.close(); err != nil {
						a.log.Warn("Error releasing resources", zap.Error(err))
					}
				}
			}()
			return run(cmd, a, args)
		}
	}

	root.AddCommand(
		newUpdatePricesCmd(withApp),
		newPlannedPriceCmd(withApp),
		newUserCmd(withApp),
		newAccessCmd(withApp),
		newCompanyCmd(withApp),
		newCurrencyCmd(withApp),
		newTaxCmd(withApp),
	)
	return root
}

// bootstrap wires the job the same way the server does, without HTTP
func bootstrap(_ context.Context, logLevel string) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, logger.MapGormLogLevel(logLevel))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	templateRepo := persistence.NewGormProductTemplateRepository(db.DB)
	variantRepo := persistence.NewGormProductVariantRepository(db.DB)
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	currencyRepo := persistence.NewGormCurrencyRepository(db.DB)
	taxRepo := persistence.NewGormTaxRepository(db.DB)
	paramRepo := persistence.NewGormConfigParameterRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	accessRepo := persistence.NewGormModelAccessRepository(db.DB)

	bus := event.NewInMemoryEventBus(log)
	loader := catalogapp.NewPricedProductLoader(templateRepo, variantRepo, taxRepo, currencyRepo)
	planned := catalogapp.NewPlannedPriceService(
		templateRepo, companyRepo, currencyRepo, loader, catalog.NewPriceCalculator(), bus, cfg.Pricing.ProductPriceDigits,
	)

	lock, err := cache.NewJobLockFactory(cfg.Redis, cache.WithLogger(log)).CreateLock()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create job lock: %w", err)
	}
	job := catalogapp.NewPlannedPriceJob(
		templateRepo, paramRepo, persistence.NewGormTransactionScope(db.DB), planned, lock, nil, cfg.PlannedPrice.LockTTL, log,
	)

	return &app{
		job:       job,
		planned:   planned,
		templates: templateRepo,
		users:     identityapp.NewUserService(userRepo, log),
		access:    identityapp.NewAccessService(userRepo, accessRepo, log),
		finance:   financeapp.NewFinanceService(companyRepo, currencyRepo, taxRepo, log),
		log:       log,
		close: func() error {
			if closer, ok := lock.(interface{ Close() error }); ok {
				_ = closer.Close()
			}
			_ = logger.Sync(log)
			return db.Close()
		},
	}, nil
}

func parseUUIDFlag(name, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("--%s: %w", name, err)
	}
	return id, nil
}
