package handler

import (
	"context"
	"errors"

	catalogapp "github.com/erp/productext/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PlannedPriceRunner runs the planned price update job synchronously
type PlannedPriceRunner interface {
	Run(ctx context.Context, tenantID uuid.UUID, opts catalogapp.RunOptions) (*catalogapp.BatchResult, error)
	RunUntilDone(ctx context.Context, tenantID uuid.UUID, opts catalogapp.RunOptions) ([]*catalogapp.BatchResult, error)
}

// RunQueue accepts job runs to execute in the background
type RunQueue interface {
	RunNow(tenantID uuid.UUID) error
}

// JobHandler starts planned price update runs for the caller's tenant
type JobHandler struct {
	BaseHandler
	runner PlannedPriceRunner
	queue  RunQueue
}

// NewJobHandler creates a new JobHandler. queue may be nil when no
// scheduler runs in the process; queued runs then answer 503.
func NewJobHandler(runner PlannedPriceRunner, queue RunQueue) *JobHandler {
	return &JobHandler{runner: runner, queue: queue}
}

// RunPlannedPriceRequest tunes a synchronous run
type RunPlannedPriceRequest struct {
	BatchSize int        `json:"batch_size" binding:"omitempty,min=1,max=10000"`
	CompanyID *uuid.UUID `json:"company_id"`
	// UntilDone processes every batch before answering
	UntilDone bool `json:"until_done"`
}

// RunPlannedPriceResponse lists the batches a run processed
type RunPlannedPriceResponse struct {
	Batches   []*catalogapp.BatchResult `json:"batches"`
	Processed int                       `json:"processed"`
	Updated   int                       `json:"updated"`
	Done      bool                      `json:"done"`
}

// RunPlannedPrice godoc
// @Summary      Run the planned price update
// @Description  Run the planned price update for the caller's tenant. Without until_done one batch runs and the remainder is left to the scheduler. A run already in progress answers 409.
// @Tags         planned-price
// @Accept       json
// @Produce      json
// @Param        request body RunPlannedPriceRequest false "Run options"
// @Success      200 {object} dto.Response{data=RunPlannedPriceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/planned-price/run [post]
func (h *JobHandler) RunPlannedPrice(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req RunPlannedPriceRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}

	opts := catalogapp.RunOptions{BatchSize: req.BatchSize, CompanyID: actor.CompanyID}
	if req.CompanyID != nil {
		opts.CompanyID = *req.CompanyID
	}

	var batches []*catalogapp.BatchResult
	if req.UntilDone {
		results, err := h.runner.RunUntilDone(c.Request.Context(), actor.TenantID, opts)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		batches = results
	} else {
		result, err := h.runner.Run(c.Request.Context(), actor.TenantID, opts)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		batches = []*catalogapp.BatchResult{result}
	}

	response := RunPlannedPriceResponse{Batches: batches}
	for _, b := range batches {
		response.Processed += b.Processed
		response.Updated += b.Updated
	}
	response.Done = len(batches) > 0 && batches[len(batches)-1].Done()
	h.Success(c, response)
}

// ErrNoRunQueue is returned when a queued run is requested without a scheduler
var ErrNoRunQueue = errors.New("no job scheduler in this process")

// QueuePlannedPrice godoc
// @Summary      Queue the planned price update
// @Description  Queue a planned price update run for the scheduler
// @Tags         planned-price
// @Produce      json
// @Success      202 {object} dto.Response
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/planned-price/queue [post]
func (h *JobHandler) QueuePlannedPrice(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	err := ErrNoRunQueue
	if h.queue != nil {
		err = h.queue.RunNow(actor.TenantID)
	}
	if err != nil {
		h.ServiceUnavailable(c, "Planned price run could not be queued: "+err.Error())
		return
	}
	h.Accepted(c, gin.H{"tenant_id": actor.TenantID, "queued": true})
}
