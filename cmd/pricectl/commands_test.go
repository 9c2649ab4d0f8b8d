package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	catalogapp "github.com/erp/productext/internal/application/catalog"
	"github.com/erp/productext/internal/domain/catalog"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockJob struct{ mock.Mock }

func (m *mockJob) RunUntilDone(ctx context.Context, tenantID uuid.UUID, opts catalogapp.RunOptions) ([]*catalogapp.BatchResult, error) {
	args := m.Called(ctx, tenantID, opts)
	results, _ := args.Get(0).([]*catalogapp.BatchResult)
	return results, args.Error(1)
}

func (m *mockJob) RunAllUntilDone(ctx context.Context, opts catalogapp.RunOptions) ([]*catalogapp.BatchResult, error) {
	args := m.Called(ctx, opts)
	results, _ := args.Get(0).([]*catalogapp.BatchResult)
	return results, args.Error(1)
}

type stubPlanned struct {
	price decimal.Decimal
	err   error
}

func (s stubPlanned) PlannedPriceOf(context.Context, uuid.UUID, uuid.UUID, *catalog.ProductTemplate) (decimal.Decimal, error) {
	return s.price, s.err
}

type stubTemplates map[uuid.UUID]*catalog.ProductTemplate

func (s stubTemplates) FindByID(_ context.Context, _ uuid.UUID, id uuid.UUID) (*catalog.ProductTemplate, error) {
	if tmpl, ok := s[id]; ok {
		return tmpl, nil
	}
	return nil, shared.ErrNotFound
}

func execute(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	closed := false
	a.log = zap.NewNop()
	a.close = func() error {
		closed = true
		return nil
	}
	boot := func(context.Context, string) (*app, error) { return a, nil }

	var out bytes.Buffer
	cmd := newRootCmd(boot)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		assert.True(t, closed, "resources should be released")
	}
	return out.String(), err
}

func TestUpdatePrices_Tenant(t *testing.T) {
	tenantID := uuid.New()
	job := new(mockJob)
	job.On("RunUntilDone", mock.Anything, tenantID, catalogapp.RunOptions{BatchSize: 50, NoRetrigger: true}).
		Return([]*catalogapp.BatchResult{
			{TenantID: tenantID, Processed: 50, Updated: 3, NextCursor: 50},
			{TenantID: tenantID, Processed: 20, Updated: 1, Cursor: 50},
		}, nil)

	out, err := execute(t, &app{job: job}, "update-prices", "--tenant", tenantID.String(), "--batch-size", "50")
	require.NoError(t, err)

	var summary updateSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 2, summary.Batches)
	assert.Equal(t, 70, summary.Processed)
	assert.Equal(t, 4, summary.Updated)
	job.AssertExpectations(t)
}

func TestUpdatePrices_AllProcessesEachTenantOnce(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	job := new(mockJob)
	opts := catalogapp.RunOptions{BatchSize: catalogapp.DefaultBatchSize, NoRetrigger: true}
	job.On("RunAllUntilDone", mock.Anything, opts).Return([]*catalogapp.BatchResult{
		{TenantID: a, Processed: 10, NextCursor: 10},
		{TenantID: a, Processed: 2, Updated: 1, Cursor: 10},
		{TenantID: b, Processed: 4, Updated: 4},
	}, nil).Once()

	out, err := execute(t, &app{job: job}, "update-prices", "--all")
	require.NoError(t, err)

	var summary updateSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 3, summary.Batches)
	assert.Equal(t, 16, summary.Processed)
	assert.Equal(t, 5, summary.Updated)
	job.AssertNumberOfCalls(t, "RunAllUntilDone", 1)
	job.AssertNotCalled(t, "RunUntilDone", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdatePrices_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no tenant", []string{"update-prices"}},
		{"bad tenant", []string{"update-prices", "--tenant", "nope"}},
		{"bad company", []string{"update-prices", "--tenant", uuid.NewString(), "--company", "x"}},
		{"tenant and all", []string{"update-prices", "--tenant", uuid.NewString(), "--all"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := new(mockJob)
			_, err := execute(t, &app{job: job}, tt.args...)
			assert.Error(t, err)
			job.AssertNotCalled(t, "RunUntilDone", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUpdatePrices_JobRunning(t *testing.T) {
	tenantID := uuid.New()
	job := new(mockJob)
	job.On("RunUntilDone", mock.Anything, tenantID, mock.Anything).Return(nil, shared.ErrJobRunning)

	_, err := execute(t, &app{job: job}, "update-prices", "--tenant", tenantID.String())
	assert.ErrorIs(t, err, shared.ErrJobRunning)
}

func TestPlannedPrice(t *testing.T) {
	tenantID := uuid.New()
	tmpl, err := catalog.NewProductTemplate(tenantID, "p-1", "Widget", "EUR")
	require.NoError(t, err)
	tmpl.ListPrice = decimal.NewFromInt(10)

	a := &app{
		planned:   stubPlanned{price: decimal.RequireFromString("12.5")},
		templates: stubTemplates{tmpl.ID: tmpl},
	}
	out, err := execute(t, a, "planned-price", tmpl.ID.String(), "--tenant", tenantID.String())
	require.NoError(t, err)

	var got plannedPriceOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "P-1", got.Code)
	assert.Equal(t, "10", got.ListPrice)
	assert.Equal(t, "12.5", got.PlannedPrice)
	assert.Equal(t, string(catalog.ListPriceTypeManual), got.ListPriceType)
}

func TestPlannedPrice_UnknownTemplate(t *testing.T) {
	a := &app{planned: stubPlanned{}, templates: stubTemplates{}}
	_, err := execute(t, a, "planned-price", uuid.NewString(), "--tenant", uuid.NewString())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPlannedPrice_RequiresTenant(t *testing.T) {
	a := &app{planned: stubPlanned{}, templates: stubTemplates{}}
	_, err := execute(t, a, "planned-price", uuid.NewString())
	assert.Error(t, err)
}
