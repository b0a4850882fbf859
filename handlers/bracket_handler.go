package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/school-tournament/services"
)

type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bs services.BracketService) *BracketHandler {
	return &BracketHandler{bracketService: bs}
}

func (h *BracketHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	key, err := getBracketKeyFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.bracketService.Standings(r.Context(), key)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) GenerateGroupStage(w http.ResponseWriter, r *http.Request) {
	key, err := getBracketKeyFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	logAdminAction(r, "generate_group_stage", slog.String("bracket", key.String()))
	res, err := h.bracketService.GenerateGroupStage(r.Context(), key)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	status := http.StatusCreated
	if len(res.Created) == 0 {
		status = http.StatusOK
	}
	if err := writeJSON(w, status, res, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AdvanceBracket reports issues such as an unsupported group count in the
// body; they do not turn the response into an error.
func (h *BracketHandler) AdvanceBracket(w http.ResponseWriter, r *http.Request) {
	key, err := getBracketKeyFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	logAdminAction(r, "advance_bracket", slog.String("bracket", key.String()))
	res, err := h.bracketService.Advance(r.Context(), key)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, res, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
