package catalog

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/erp/productext/internal/domain/catalog"
	"github.com/erp/productext/internal/domain/settings"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/erp/productext/internal/infrastructure/logger"
	"github.com/erp/productext/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CursorParameterKey stores the Seq of the last template processed by the
// planned price job
const CursorParameterKey = "product_planned_price.last_updated_record_id"

const (
	// DefaultBatchSize is the number of templates per job run
	DefaultBatchSize = 1000
	// JobName identifies the planned price job in logs, locks and metrics
	JobName = "planned_price_update"
)

// PlannedPriceRepositories are the repositories bound to one transaction
type PlannedPriceRepositories interface {
	Templates() catalog.ProductTemplateRepository
	Parameters() settings.ConfigParameterRepository
}

// TransactionScope runs fn inside a database transaction
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos PlannedPriceRepositories) error) error
}

// JobLock serializes job runs of a tenant
type JobLock interface {
	// TryLock acquires key for ttl. ok is false when another holder owns it.
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Unlock(ctx context.Context, key, token string) error
}

// JobTrigger schedules another run for a tenant
type JobTrigger interface {
	Trigger(tenantID uuid.UUID)
}

// JobMetrics records job runs
type JobMetrics interface {
	ObserveRun(job string, result *BatchResult, duration time.Duration, err error)
}

// RunOptions tune one job run
type RunOptions struct {
	BatchSize int
	// CompanyID forces the company prices are computed for. uuid.Nil picks
	// the tenant's first company.
	CompanyID uuid.UUID
	// NoRetrigger leaves the next batch to the caller
	NoRetrigger bool
}

// BatchResult is the outcome of one job run
type BatchResult struct {
	TenantID    uuid.UUID `json:"tenant_id"`
	Processed   int       `json:"processed"`
	Updated     int       `json:"updated"`
	Cursor      int64     `json:"cursor"`
	NextCursor  int64     `json:"next_cursor"`
	Retriggered bool      `json:"retriggered"`
}

// Done reports whether the run reached the last template
func (r *BatchResult) Done() bool {
	return r.NextCursor == 0
}

// PlannedPriceJob copies planned prices into list prices in resumable batches.
// The cursor is persisted with the price updates so an interrupted run
// resumes after the last committed batch.
type PlannedPriceJob struct {
	templateRepo catalog.ProductTemplateRepository
	paramRepo    settings.ConfigParameterRepository
	txScope      TransactionScope
	planned      *PlannedPriceService
	lock         JobLock
	metrics      JobMetrics
	trigger      JobTrigger
	lockTTL      time.Duration
	logger       *zap.Logger
}

// NewPlannedPriceJob creates a new PlannedPriceJob
func NewPlannedPriceJob(
	templateRepo catalog.ProductTemplateRepository,
	paramRepo settings.ConfigParameterRepository,
	txScope TransactionScope,
	planned *PlannedPriceService,
	lock JobLock,
	metrics JobMetrics,
	lockTTL time.Duration,
	logger *zap.Logger,
) *PlannedPriceJob {
	if lockTTL <= 0 {
		lockTTL = 10 * time.Minute
	}
	return &PlannedPriceJob{
		templateRepo: templateRepo,
		paramRepo:    paramRepo,
		txScope:      txScope,
		planned:      planned,
		lock:         lock,
		metrics:      metrics,
		lockTTL:      lockTTL,
		logger:       logger,
	}
}

// SetTrigger sets where follow-up runs are scheduled
func (j *PlannedPriceJob) SetTrigger(trigger JobTrigger) {
	j.trigger = trigger
}

// Run processes one batch of templates of a tenant. Profiles taken during the
// batch carry the planned_price_batch operation and tenant labels.
func (j *PlannedPriceJob) Run(ctx context.Context, tenantID uuid.UUID, opts RunOptions) (result *BatchResult, err error) {
	labels := telemetry.OperationLabels(telemetry.OperationPlannedPriceBatch, map[string]string{
		telemetry.ProfilingLabelTenantID: tenantID.String(),
	})
	telemetry.WithProfilingLabels(ctx, labels, func(ctx context.Context) {
		result, err = j.run(ctx, tenantID, opts)
	})
	return result, err
}

func (j *PlannedPriceJob) run(ctx context.Context, tenantID uuid.UUID, opts RunOptions) (result *BatchResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, JobName, "run", "tenant_id", tenantID, "batch_size", opts.BatchSize)
	defer span.End()
	ctx, log := logger.WithJobRun(ctx, j.logger.With(zap.String("tenant_id", tenantID.String())), JobName, uuid.New().String())
	started := time.Now()
	defer func() {
		if err != nil {
			telemetry.RecordError(span, err)
		} else {
			telemetry.SetAttributes(span, "processed", result.Processed, "updated", result.Updated, "next_cursor", result.NextCursor)
		}
		if j.metrics != nil {
			j.metrics.ObserveRun(JobName, result, time.Since(started), err)
		}
	}()

	lockKey := JobName + ":" + tenantID.String()
	token, ok, err := j.lock.TryLock(ctx, lockKey, j.lockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.ErrJobRunning
	}
	defer func() {
		if unlockErr := j.lock.Unlock(context.WithoutCancel(ctx), lockKey, token); unlockErr != nil {
			log.Warn("Failed to release job lock", zap.Error(unlockErr))
		}
	}()

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	companyID, err := j.planned.ResolveCompany(ctx, tenantID, opts.CompanyID)
	if err != nil {
		return nil, err
	}

	param, err := j.cursorParameter(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	cursor, err := param.Int64Value()
	if err != nil {
		return nil, err
	}

	records, err := j.templateRepo.FindWithPlannedPriceAfter(ctx, tenantID, cursor, batchSize+1)
	if err != nil {
		return nil, err
	}
	batch := records
	if len(batch) > batchSize {
		batch = batch[:batchSize]
	}

	var nextCursor int64
	if len(records) > batchSize {
		nextCursor = batch[len(batch)-1].Seq
	}

	updates, err := j.planned.PlanUpdates(ctx, tenantID, companyID, batch)
	if err != nil {
		return nil, err
	}

	var updated int
	err = j.txScope.Execute(ctx, func(repos PlannedPriceRepositories) error {
		n, err := j.planned.ApplyUpdates(ctx, repos.Templates(), updates)
		if err != nil {
			return err
		}
		updated = n
		return repos.Parameters().UpdateValue(ctx, param.ID, strconv.FormatInt(nextCursor, 10))
	})
	if err != nil {
		log.Error("Planned price batch failed", zap.Int64("cursor", cursor), zap.Error(err))
		return nil, err
	}
	j.planned.PublishUpdates(ctx, updates)

	result = &BatchResult{
		TenantID:   tenantID,
		Processed:  len(batch),
		Updated:    updated,
		Cursor:     cursor,
		NextCursor: nextCursor,
	}
	if nextCursor != 0 && !opts.NoRetrigger && j.trigger != nil {
		j.trigger.Trigger(tenantID)
		result.Retriggered = true
	}

	log.Info("Planned price batch done",
		zap.Int("processed", result.Processed),
		zap.Int("updated", result.Updated),
		zap.Int64("cursor", cursor),
		zap.Int64("next_cursor", nextCursor),
		zap.Duration("duration", time.Since(started)),
	)
	return result, nil
}

// RunUntilDone runs batches until the last template is processed
func (j *PlannedPriceJob) RunUntilDone(ctx context.Context, tenantID uuid.UUID, opts RunOptions) ([]*BatchResult, error) {
	opts.NoRetrigger = true
	results := make([]*BatchResult, 0, 1)
	for {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result, err := j.Run(ctx, tenantID, opts)
		if err != nil {
			return results, err
		}
		results = append(results, result)
		if result.Done() {
			return results, nil
		}
	}
}

// RunAll runs one batch for every tenant owning planned prices. Tenants with
// a run in progress are skipped.
func (j *PlannedPriceJob) RunAll(ctx context.Context, opts RunOptions) ([]*BatchResult, error) {
	var results []*BatchResult
	err := j.eachTenant(ctx, func(tenantID uuid.UUID) error {
		result, err := j.Run(ctx, tenantID, opts)
		if err == nil {
			results = append(results, result)
		}
		return err
	})
	return results, err
}

// RunAllUntilDone processes every tenant owning planned prices to its last
// template. Each tenant is visited once; a finished tenant is not restarted
// while others still have batches left.
func (j *PlannedPriceJob) RunAllUntilDone(ctx context.Context, opts RunOptions) ([]*BatchResult, error) {
	var results []*BatchResult
	err := j.eachTenant(ctx, func(tenantID uuid.UUID) error {
		tenantResults, err := j.RunUntilDone(ctx, tenantID, opts)
		results = append(results, tenantResults...)
		return err
	})
	return results, err
}

// eachTenant calls run for every tenant owning planned prices, collecting
// errors. A held job lock only skips the tenant.
func (j *PlannedPriceJob) eachTenant(ctx context.Context, run func(tenantID uuid.UUID) error) error {
	tenants, err := j.templateRepo.FindTenantsWithPlannedPrices(ctx)
	if err != nil {
		return err
	}

	var errs []error
	for _, tenantID := range tenants {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		err := run(tenantID)
		switch {
		case errors.Is(err, shared.ErrJobRunning):
			j.logger.Info("Planned price job already running, skipping tenant", zap.String("tenant_id", tenantID.String()))
		case err != nil:
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// cursorParameter loads the cursor parameter, creating it at zero
func (j *PlannedPriceJob) cursorParameter(ctx context.Context, tenantID uuid.UUID) (*settings.ConfigParameter, error) {
	param, err := j.paramRepo.FindByKey(ctx, tenantID, CursorParameterKey)
	if err == nil {
		return param, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	param, err = settings.NewConfigParameter(tenantID, CursorParameterKey, "0")
	if err != nil {
		return nil, err
	}
	if err := j.paramRepo.Create(ctx, param); err != nil {
		return nil, err
	}
	return param, nil
}
