package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Dosada05/school-tournament/models"
	"github.com/Dosada05/school-tournament/scheduling"
	"github.com/Dosada05/school-tournament/services"
)

type ScheduleHandler struct {
	scheduleService services.ScheduleService
}

func NewScheduleHandler(ss services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: ss}
}

func (h *ScheduleHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"config": h.scheduleService.Config()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetAlternation answers which disciplines play on ?week=&day=.
func (h *ScheduleHandler) GetAlternation(w http.ResponseWriter, r *http.Request) {
	week, err := queryInt(r, "week")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.scheduleService.Alternation(week, r.URL.Query().Get("day"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) ValidateSchedule(w http.ResponseWriter, r *http.Request) {
	report, err := h.scheduleService.Validate(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, report, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) ListFreeSlots(w http.ResponseWriter, r *http.Request) {
	d, err := models.ParseDiscipline(r.URL.Query().Get("discipline"))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	slots, err := h.scheduleService.FreeSlots(r.Context(), d)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"slots": slots}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AutoAssign accepts an optional policy body; an empty body runs with the
// default policy.
func (h *ScheduleHandler) AutoAssign(w http.ResponseWriter, r *http.Request) {
	var policy scheduling.ConflictPolicy
	if err := readJSON(w, r, &policy); err != nil && !errors.Is(err, errEmptyBody) {
		badRequestResponse(w, r, err)
		return
	}

	logAdminAction(r, "auto_assign", slog.Bool("no_double_booking", policy.NoDoubleBookingPerDay))
	res, err := h.scheduleService.AutoAssign(r.Context(), policy)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, res, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
