//go:build integration

package persistence

import (
	"context"
	"testing"
	"time"

	catalogapp "github.com/erp/productext/internal/application/catalog"
	"github.com/erp/productext/internal/domain/catalog"
	"github.com/erp/productext/internal/domain/finance"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/erp/productext/internal/infrastructure/cache"
	"github.com/erp/productext/internal/infrastructure/migration"
	"github.com/erp/productext/migrations"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, ...shared.DomainEvent) error { return nil }

// newPostgresDB starts a throwaway PostgreSQL container and applies the
// embedded migrations to it.
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("productext_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.New(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	return db
}

func TestPostgres_PlannedPriceJobEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("container test")
	}
	ctx := context.Background()
	db := newPostgresDB(t)
	tenantID := uuid.New()

	companies := NewGormCompanyRepository(db)
	currencies := NewGormCurrencyRepository(db)
	templates := NewGormProductTemplateRepository(db)
	params := NewGormConfigParameterRepository(db)

	company, err := finance.NewCompany(tenantID, "Main", "EUR")
	require.NoError(t, err)
	require.NoError(t, companies.Save(ctx, company))
	eur, err := finance.NewCurrency(tenantID, "EUR", decimal.RequireFromString("0.01"))
	require.NoError(t, err)
	require.NoError(t, currencies.Save(ctx, eur))

	planned := []decimal.Decimal{
		decimal.NewFromInt(12),
		decimal.NewFromInt(30),
		decimal.NewFromInt(7),
	}
	ids := make([]uuid.UUID, len(planned))
	for i, price := range planned {
		tmpl, err := catalog.NewProductTemplate(tenantID, "P-"+string(rune('A'+i)), "Product", "EUR")
		require.NoError(t, err)
		require.NoError(t, tmpl.ConfigurePlannedPrice(catalog.PlannedPriceSettings{
			ListPriceType:           catalog.ListPriceTypeManual,
			ComputedListPriceManual: price,
		}))
		require.NoError(t, templates.Save(ctx, tmpl))
		ids[i] = tmpl.ID
	}

	loader := catalogapp.NewPricedProductLoader(templates, NewGormProductVariantRepository(db), NewGormTaxRepository(db), currencies)
	service := catalogapp.NewPlannedPriceService(templates, companies, currencies, loader, catalog.NewPriceCalculator(), nopPublisher{}, 2)
	job := catalogapp.NewPlannedPriceJob(templates, params, NewGormTransactionScope(db), service, cache.NewInMemoryJobLock(), nil, time.Minute, zap.NewNop())

	results, err := job.RunUntilDone(ctx, tenantID, catalogapp.RunOptions{BatchSize: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 2, results[0].Updated)
	assert.False(t, results[0].Done())
	assert.True(t, results[1].Done())

	for i, id := range ids {
		tmpl, err := templates.FindByID(ctx, tenantID, id)
		require.NoError(t, err)
		assert.True(t, tmpl.ListPrice.Equal(planned[i]), "template %d list price %s", i, tmpl.ListPrice)
	}

	cursor, err := params.FindByKey(ctx, tenantID, catalogapp.CursorParameterKey)
	require.NoError(t, err)
	assert.Equal(t, "0", cursor.Value)

	// A second pass finds nothing left to change.
	again, err := job.Run(ctx, tenantID, catalogapp.RunOptions{BatchSize: 10, NoRetrigger: true})
	require.NoError(t, err)
	assert.Equal(t, 3, again.Processed)
	assert.Zero(t, again.Updated)
}

func TestPostgres_TemplateSeqFollowsInsertOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("container test")
	}
	ctx := context.Background()
	db := newPostgresDB(t)
	tenantID := uuid.New()
	templates := NewGormProductTemplateRepository(db)

	for _, code := range []string{"A", "B", "C"} {
		tmpl, err := catalog.NewProductTemplate(tenantID, code, "Product "+code, "USD")
		require.NoError(t, err)
		require.NoError(t, tmpl.ConfigurePlannedPrice(catalog.PlannedPriceSettings{
			ListPriceType:           catalog.ListPriceTypeManual,
			ComputedListPriceManual: decimal.NewFromInt(1),
		}))
		require.NoError(t, templates.Save(ctx, tmpl))
	}

	first, err := templates.FindWithPlannedPriceAfter(ctx, tenantID, 0, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "A", first[0].Code)
	assert.Less(t, first[0].Seq, first[1].Seq)

	rest, err := templates.FindWithPlannedPriceAfter(ctx, tenantID, first[1].Seq, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "C", rest[0].Code)
}
