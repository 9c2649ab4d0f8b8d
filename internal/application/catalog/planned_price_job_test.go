package catalog

import (
	"context"
	"errors"
	"runtime/pprof"
	"testing"
	"time"

	"github.com/erp/productext/internal/domain/catalog"
	"github.com/erp/productext/internal/domain/settings"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type jobFixture struct {
	*serviceFixture
	params  *MockConfigParameterRepository
	lock    *memoryLock
	trigger *triggerRecorder
	metrics *metricsRecorder
	job     *PlannedPriceJob
}

func newJobFixture(t *testing.T) *jobFixture {
	t.Helper()
	f := &jobFixture{
		serviceFixture: newServiceFixture(t),
		params:         new(MockConfigParameterRepository),
		lock:           newMemoryLock(),
		trigger:        &triggerRecorder{},
		metrics:        &metricsRecorder{},
	}
	scope := &txScopeStub{templates: f.templates, params: f.params}
	f.job = NewPlannedPriceJob(f.templates, f.params, scope, f.planned, f.lock, f.metrics, time.Minute, zap.NewNop())
	f.job.SetTrigger(f.trigger)
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
	return f
}

func (f *jobFixture) cursor(t *testing.T, value string) *settings.ConfigParameter {
	t.Helper()
	param, err := settings.NewConfigParameter(f.tenantID, CursorParameterKey, value)
	require.NoError(t, err)
	f.params.On("FindByKey", mock.Anything, f.tenantID, CursorParameterKey).Return(param, nil)
	return param
}

func TestPlannedPriceJob_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("first run creates the cursor and retriggers", func(t *testing.T) {
		f := newJobFixture(t)
		f.params.On("FindByKey", mock.Anything, f.tenantID, CursorParameterKey).Return(nil, shared.ErrNotFound).Once()
		f.params.On("Create", mock.Anything, mock.MatchedBy(func(p *settings.ConfigParameter) bool {
			return p.Key == CursorParameterKey && p.Value == "0"
		})).Return(nil).Once()

		a := f.marginTemplate(t, "A", 10, "100", "28", "100")
		b := f.marginTemplate(t, "B", 20, "100", "28", "128")
		c := f.marginTemplate(t, "C", 30, "100", "28", "1")
		f.templates.On("FindWithPlannedPriceAfter", mock.Anything, f.tenantID, int64(0), 3).
			Return([]*catalog.ProductTemplate{a, b, c}, nil)
		f.templates.On("UpdateListPrice", mock.Anything, a.ID, decEq("128")).Return(nil).Once()
		f.params.On("UpdateValue", mock.Anything, mock.Anything, "20").Return(nil).Once()

		result, err := f.job.Run(ctx, f.tenantID, RunOptions{BatchSize: 2})
		require.NoError(t, err)
		assert.Equal(t, 2, result.Processed)
		assert.Equal(t, 1, result.Updated)
		assert.Equal(t, int64(0), result.Cursor)
		assert.Equal(t, int64(20), result.NextCursor)
		assert.True(t, result.Retriggered)
		assert.False(t, result.Done())
		assert.Equal(t, []uuid.UUID{f.tenantID}, f.trigger.tenants)
		assert.True(t, c.ListPrice.Equal(d("1")))

		f.templates.AssertExpectations(t)
		f.params.AssertExpectations(t)
		assert.Equal(t, []error{nil}, f.metrics.runs)
	})

	t.Run("last batch resets the cursor", func(t *testing.T) {
		f := newJobFixture(t)
		param := f.cursor(t, "20")

		c := f.marginTemplate(t, "C", 30, "100", "28", "1")
		f.templates.On("FindWithPlannedPriceAfter", mock.Anything, f.tenantID, int64(20), 3).
			Return([]*catalog.ProductTemplate{c}, nil)
		f.templates.On("UpdateListPrice", mock.Anything, c.ID, decEq("128")).Return(nil).Once()
		f.params.On("UpdateValue", mock.Anything, param.ID, "0").Return(nil).Once()

		result, err := f.job.Run(ctx, f.tenantID, RunOptions{BatchSize: 2})
		require.NoError(t, err)
		assert.True(t, result.Done())
		assert.False(t, result.Retriggered)
		assert.Empty(t, f.trigger.tenants)
		f.params.AssertExpectations(t)
	})

	t.Run("exactly one batch left", func(t *testing.T) {
		f := newJobFixture(t)
		param := f.cursor(t, "0")

		a := f.marginTemplate(t, "A", 10, "100", "28", "128")
		b := f.marginTemplate(t, "B", 20, "100", "28", "128")
		f.templates.On("FindWithPlannedPriceAfter", mock.Anything, f.tenantID, int64(0), 3).
			Return([]*catalog.ProductTemplate{a, b}, nil)
		f.params.On("UpdateValue", mock.Anything, param.ID, "0").Return(nil).Once()

		result, err := f.job.Run(ctx, f.tenantID, RunOptions{BatchSize: 2})
		require.NoError(t, err)
		assert.Equal(t, 2, result.Processed)
		assert.Equal(t, 0, result.Updated)
		assert.True(t, result.Done())
		f.templates.AssertNotCalled(t, "UpdateListPrice", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no retrigger when asked", func(t *testing.T) {
		f := newJobFixture(t)
		f.cursor(t, "0")

		a := f.marginTemplate(t, "A", 10, "100", "28", "128")
		b := f.marginTemplate(t, "B", 20, "100", "28", "128")
		f.templates.On("FindWithPlannedPriceAfter", mock.Anything, f.tenantID, int64(0), 2).
			Return([]*catalog.ProductTemplate{a, b}, nil)
		f.params.On("UpdateValue", mock.Anything, mock.Anything, "10").Return(nil)

		result, err := f.job.Run(ctx, f.tenantID, RunOptions{BatchSize: 1, NoRetrigger: true})
		require.NoError(t, err)
		assert.Equal(t, int64(10), result.NextCursor)
		assert.False(t, result.Retriggered)
		assert.Empty(t, f.trigger.tenants)
	})

	t.Run("concurrent run is rejected", func(t *testing.T) {
		f := newJobFixture(t)
		_, ok, err := f.lock.TryLock(ctx, JobName+":"+f.tenantID.String(), time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		_, err = f.job.Run(ctx, f.tenantID, RunOptions{})
		assert.ErrorIs(t, err, shared.ErrJobRunning)
		f.templates.AssertNotCalled(t, "FindWithPlannedPriceAfter", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.Len(t, f.metrics.runs, 1)
	})

	t.Run("failed transaction keeps the cursor and releases the lock", func(t *testing.T) {
		f := newJobFixture(t)
		f.cursor(t, "0")

		a := f.marginTemplate(t, "A", 10, "100", "28", "100")
		f.templates.On("FindWithPlannedPriceAfter", mock.Anything, f.tenantID, int64(0), DefaultBatchSize+1).
			Return([]*catalog.ProductTemplate{a}, nil)
		f.templates.On("UpdateListPrice", mock.Anything, a.ID, mock.Anything).Return(errors.New("deadlock"))

		_, err := f.job.Run(ctx, f.tenantID, RunOptions{})
		require.Error(t, err)
		f.params.AssertNotCalled(t, "UpdateValue", mock.Anything, mock.Anything, mock.Anything)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)

		_, ok, err := f.lock.TryLock(ctx, JobName+":"+f.tenantID.String(), time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("invalid cursor value", func(t *testing.T) {
		f := newJobFixture(t)
		f.cursor(t, "abc")

		_, err := f.job.Run(ctx, f.tenantID, RunOptions{})
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_PARAMETER", de.Code)
	})
}

func TestPlannedPriceJob_RunUntilDone(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture(t)
	param := f.cursor(t, "0")
	f.params.On("UpdateValue", mock.Anything, param.ID, mock.Anything).
		Run(func(args mock.Arguments) { param.Value = args.String(2) }).
		Return(nil)

	a := f.marginTemplate(t, "A", 10, "100", "28", "100")
	b := f.marginTemplate(t, "B", 20, "100", "28", "100")
	f.templates.On("FindWithPlannedPriceAfter", mock.Anything, f.tenantID, int64(0), 2).
		Return([]*catalog.ProductTemplate{a, b}, nil)
	f.templates.On("FindWithPlannedPriceAfter", mock.Anything, f.tenantID, int64(10), 2).
		Return([]*catalog.ProductTemplate{b}, nil)
	f.templates.On("UpdateListPrice", mock.Anything, mock.Anything, decEq("128")).Return(nil).Twice()

	results, err := f.job.RunUntilDone(ctx, f.tenantID, RunOptions{BatchSize: 1})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, int64(10), results[0].NextCursor)
	assert.True(t, results[1].Done())
	assert.Equal(t, "0", param.Value)
	assert.Empty(t, f.trigger.tenants)
	f.templates.AssertExpectations(t)
}

func TestPlannedPriceJob_RunAll(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture(t)
	f.cursor(t, "0")

	busy := uuid.New()
	_, ok, err := f.lock.TryLock(ctx, JobName+":"+busy.String(), time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	f.templates.On("FindTenantsWithPlannedPrices", mock.Anything).Return([]uuid.UUID{busy, f.tenantID}, nil)
	f.templates.On("FindWithPlannedPriceAfter", mock.Anything, f.tenantID, int64(0), DefaultBatchSize+1).
		Return([]*catalog.ProductTemplate{}, nil)
	f.params.On("UpdateValue", mock.Anything, mock.Anything, "0").Return(nil)

	results, err := f.job.RunAll(ctx, RunOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, f.tenantID, results[0].TenantID)
	assert.Equal(t, 0, results[0].Processed)
}

func TestPlannedPriceJob_RunAllUntilDone(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture(t)
	f.cursor(t, "0")

	other := uuid.New()
	otherCursor, err := settings.NewConfigParameter(other, CursorParameterKey, "0")
	require.NoError(t, err)
	f.params.On("FindByKey", mock.Anything, other, CursorParameterKey).Return(otherCursor, nil)
	f.params.On("UpdateValue", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	a := f.marginTemplate(t, "A", 10, "100", "28", "128")
	b := f.marginTemplate(t, "B", 20, "100", "28", "128")
	f.templates.On("FindTenantsWithPlannedPrices", mock.Anything).Return([]uuid.UUID{f.tenantID, other}, nil).Once()
	f.templates.On("FindWithPlannedPriceAfter", mock.Anything, f.tenantID, int64(0), 2).
		Return([]*catalog.ProductTemplate{a, b}, nil).Once()
	f.templates.On("FindWithPlannedPriceAfter", mock.Anything, f.tenantID, int64(10), 2).
		Return([]*catalog.ProductTemplate{b}, nil).Once()
	f.templates.On("FindWithPlannedPriceAfter", mock.Anything, other, int64(0), 2).
		Return([]*catalog.ProductTemplate{}, nil).Once()

	results, err := f.job.RunAllUntilDone(ctx, RunOptions{BatchSize: 1})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, f.tenantID, results[0].TenantID)
	assert.False(t, results[0].Done())
	assert.True(t, results[1].Done())
	assert.Equal(t, other, results[2].TenantID)
	assert.True(t, results[2].Done())
	assert.Empty(t, f.trigger.tenants)
	f.templates.AssertExpectations(t)
}

func TestPlannedPriceJob_RunLabelsProfiles(t *testing.T) {
	f := newJobFixture(t)
	param := f.cursor(t, "0")
	f.params.On("UpdateValue", mock.Anything, param.ID, "0").Return(nil).Once()

	var operation, tenant string
	f.templates.On("FindWithPlannedPriceAfter", mock.Anything, f.tenantID, int64(0), 2).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			operation, _ = pprof.Label(ctx, "operation")
			tenant, _ = pprof.Label(ctx, "tenant_id")
		}).
		Return([]*catalog.ProductTemplate{}, nil)

	result, err := f.job.Run(context.Background(), f.tenantID, RunOptions{BatchSize: 1})
	require.NoError(t, err)
	assert.True(t, result.Done())
	assert.Equal(t, "planned_price_batch", operation)
	assert.Equal(t, f.tenantID.String(), tenant)
}
