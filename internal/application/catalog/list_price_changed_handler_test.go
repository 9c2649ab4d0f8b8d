package catalog

import (
	"context"
	"testing"

	"github.com/erp/productext/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type priceChangeCounter struct {
	bySource map[string]int
}

func (c *priceChangeCounter) RecordListPriceChange(source string) {
	if c.bySource == nil {
		c.bySource = make(map[string]int)
	}
	c.bySource[source]++
}

func TestListPriceChangedHandler_Handle(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	counter := &priceChangeCounter{}
	h := NewListPriceChangedHandler(counter, zap.New(core))

	tmpl, err := catalog.NewProductTemplate(uuid.New(), "p-100", "Chair", "EUR")
	require.NoError(t, err)
	tmpl.ApplyPlannedPrice(d("49.90"))
	events := tmpl.GetDomainEvents()
	changed := events[len(events)-1]

	assert.Equal(t, []string{catalog.EventTypeListPriceChanged}, h.EventTypes())
	require.NoError(t, h.Handle(context.Background(), changed))

	assert.Equal(t, 1, counter.bySource["planned"])
	entries := logs.FilterMessage("List price changed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "P-100", fields["code"])
	assert.Equal(t, "0", fields["old_list_price"])
	assert.Equal(t, "49.9", fields["new_list_price"])
}

func TestListPriceChangedHandler_WrongEvent(t *testing.T) {
	h := NewListPriceChangedHandler(nil, zap.NewNop())
	tmpl, err := catalog.NewProductTemplate(uuid.New(), "P-1", "Chair", "EUR")
	require.NoError(t, err)

	err = h.Handle(context.Background(), catalog.NewProductTemplateCreatedEvent(tmpl))
	assert.ErrorContains(t, err, "unexpected event type")
}
