package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Dosada05/school-tournament/models"
	"github.com/Dosada05/school-tournament/scheduling"
	"github.com/Dosada05/school-tournament/services"
)

type MatchHandler struct {
	matchService    services.MatchService
	scheduleService services.ScheduleService
}

func NewMatchHandler(ms services.MatchService, ss services.ScheduleService) *MatchHandler {
	return &MatchHandler{matchService: ms, scheduleService: ss}
}

type placeMatchRequest struct {
	Week                  int    `json:"week"`
	Day                   string `json:"day"`
	Time                  string `json:"time"`
	NoDoubleBookingPerDay bool   `json:"no_double_booking_per_day"`
}

type finishMatchRequest struct {
	ScoreA *int `json:"score_a"`
	ScoreB *int `json:"score_b"`
}

func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	d, err := getDisciplineFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.matchService.ListByDiscipline(r.Context(), d)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	m, err := h.matchService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": m}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var input services.CreateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	m, err := h.matchService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": m}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	logAdminAction(r, "delete_match", slog.String("match_id", id))
	if err := h.matchService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MatchHandler) PlaceMatch(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input placeMatchRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	slot := models.Slot{Week: input.Week, Day: input.Day, Time: input.Time}
	policy := scheduling.ConflictPolicy{NoDoubleBookingPerDay: input.NoDoubleBookingPerDay}
	m, err := h.scheduleService.Place(r.Context(), id, slot, policy)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": m}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) UnscheduleMatch(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.scheduleService.Unschedule)
}

func (h *MatchHandler) StartMatch(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.matchService.Start)
}

func (h *MatchHandler) PauseMatch(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.matchService.Pause)
}

func (h *MatchHandler) ReopenMatch(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.matchService.Reopen)
}

func (h *MatchHandler) FinishMatch(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input finishMatchRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.ScoreA == nil || input.ScoreB == nil {
		errorResponse(w, r, http.StatusUnprocessableEntity, map[string]string{
			"score_a": "required",
			"score_b": "required",
		})
		return
	}

	logAdminAction(r, "finish_match", slog.String("match_id", id), slog.Int("score_a", *input.ScoreA), slog.Int("score_b", *input.ScoreB))
	res, err := h.matchService.Finish(r.Context(), id, *input.ScoreA, *input.ScoreB)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, res, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) applyTransition(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id string) (*models.Match, error)) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	m, err := apply(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": m}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
