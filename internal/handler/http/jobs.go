package http

import (
	"net/http"

	"github.com/cmlabs-hris/faceid-bridge-go/internal/handler/http/response"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/pkg/cron"
	"github.com/go-chi/chi/v5"
)

type JobHandler interface {
	Trigger(w http.ResponseWriter, r *http.Request)
}

type jobHandlerImpl struct {
	scheduler *cron.Scheduler
}

// NewJobHandler lets operators kick a scheduled job on demand. Triggers
// share the scheduler's single-flight guard, so a manual run never overlaps
// a ticking one.
func NewJobHandler(scheduler *cron.Scheduler) JobHandler {
	return &jobHandlerImpl{scheduler: scheduler}
}

// Trigger implements JobHandler.
func (h *jobHandlerImpl) Trigger(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.scheduler.Trigger(r.Context(), name); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Job completed", nil)
}
