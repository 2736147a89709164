package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/attendance"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/event"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/handler/http/response"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/pkg/validator"
)

type AttendanceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	ListLogs(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendances attendance.AttendanceRepository
	events      event.LogRepository
	loc         *time.Location
}

// NewAttendanceHandler serves the read-only attendance query API. The
// bridge is the writer of this data; the API exists for operators checking
// what the terminals produced.
func NewAttendanceHandler(
	attendances attendance.AttendanceRepository,
	events event.LogRepository,
	loc *time.Location,
) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendances: attendances,
		events:      events,
		loc:         loc,
	}
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendance.Filter{Page: 1, Limit: 20}

	q := r.URL.Query()
	if v := q.Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := q.Get("from"); v != "" {
		d, ok := validator.IsValidDate(v)
		if !ok {
			response.BadRequest(w, "from must be YYYY-MM-DD", nil)
			return
		}
		from := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, h.loc).UTC()
		filter.From = &from
	}
	if v := q.Get("to"); v != "" {
		d, ok := validator.IsValidDate(v)
		if !ok {
			response.BadRequest(w, "to must be YYYY-MM-DD", nil)
			return
		}
		// Exclusive upper bound: the whole "to" day is included.
		to := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, h.loc).AddDate(0, 0, 1).UTC()
		filter.To = &to
	}
	filter.OpenOnly = q.Get("open") == "true"
	if v := q.Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if v := q.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 && limit <= 100 {
			filter.Limit = limit
		}
	}

	spans, total, err := h.attendances.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	items := make([]attendance.AttendanceResponse, 0, len(spans))
	for _, a := range spans {
		items = append(items, attendance.ToResponse(a))
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	response.SuccessWithMeta(w, items, &response.Meta{
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// ListLogs implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	logs, err := h.events.ListRecent(r.Context(), limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	items := make([]event.LogResponse, 0, len(logs))
	for _, l := range logs {
		items = append(items, event.ToResponse(l))
	}

	response.Success(w, items)
}
