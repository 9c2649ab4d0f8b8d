package catalog

import (
	"context"
	"fmt"

	"github.com/erp/productext/internal/domain/catalog"
	"github.com/erp/productext/internal/domain/shared"
	"go.uber.org/zap"
)

// PriceChangeRecorder counts list price changes
type PriceChangeRecorder interface {
	RecordListPriceChange(source string)
}

// ListPriceChangedHandler logs list price changes and counts them by source
type ListPriceChangedHandler struct {
	recorder PriceChangeRecorder
	logger   *zap.Logger
}

// NewListPriceChangedHandler creates a new handler for list price changed
// events. recorder may be nil.
func NewListPriceChangedHandler(recorder PriceChangeRecorder, logger *zap.Logger) *ListPriceChangedHandler {
	return &ListPriceChangedHandler{
		recorder: recorder,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *ListPriceChangedHandler) EventTypes() []string {
	return []string{catalog.EventTypeListPriceChanged}
}

// Handle processes a ListPriceChangedEvent
func (h *ListPriceChangedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*catalog.ListPriceChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			catalog.EventTypeListPriceChanged, event.EventType())
	}

	h.logger.Info("List price changed",
		zap.String("tenant_id", changed.TenantID().String()),
		zap.String("product_template_id", changed.AggregateID().String()),
		zap.String("code", changed.Code),
		zap.String("old_list_price", changed.OldListPrice.String()),
		zap.String("new_list_price", changed.NewListPrice.String()),
		zap.String("source", string(changed.Source)),
	)
	if h.recorder != nil {
		h.recorder.RecordListPriceChange(string(changed.Source))
	}
	return nil
}

var _ shared.EventHandler = (*ListPriceChangedHandler)(nil)
