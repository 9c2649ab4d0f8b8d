package event

import (
	"testing"

	"github.com/erp/productext/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry_TypedBeforeWildcard(t *testing.T) {
	r := NewHandlerRegistry()
	audit := newRecordingHandler()
	price := newRecordingHandler()
	r.Register(audit)
	r.Register(price, catalog.EventTypeListPriceChanged, catalog.EventTypePlannedPriceConfigured)

	handlers := r.Handlers(catalog.EventTypeListPriceChanged)
	assert.Len(t, handlers, 2)
	assert.Same(t, price, handlers[0])
	assert.Same(t, audit, handlers[1])

	handlers = r.Handlers(catalog.EventTypeProductTemplateCreated)
	assert.Len(t, handlers, 1)
	assert.Same(t, audit, handlers[0])
	assert.Equal(t, 2, r.Len())
}

func TestHandlerRegistry_DuplicateRegistration(t *testing.T) {
	r := NewHandlerRegistry()
	h := newRecordingHandler()
	r.Register(h, catalog.EventTypeListPriceChanged)
	r.Register(h, catalog.EventTypeListPriceChanged)

	assert.Len(t, r.Handlers(catalog.EventTypeListPriceChanged), 1)
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	r := NewHandlerRegistry()
	keep := newRecordingHandler()
	drop := newRecordingHandler()
	r.Register(drop)
	r.Register(drop, catalog.EventTypeListPriceChanged)
	r.Register(keep, catalog.EventTypeListPriceChanged)

	r.Unregister(drop)

	handlers := r.Handlers(catalog.EventTypeListPriceChanged)
	assert.Len(t, handlers, 1)
	assert.Same(t, keep, handlers[0])
	assert.Equal(t, 1, r.Len())
}

func TestHandlerRegistry_Empty(t *testing.T) {
	r := NewHandlerRegistry()
	assert.Empty(t, r.Handlers(catalog.EventTypeListPriceChanged))
	assert.Zero(t, r.Len())
}
