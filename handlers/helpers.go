package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dosada05/school-tournament/middleware"
	"github.com/Dosada05/school-tournament/models"
	"github.com/Dosada05/school-tournament/services"
	"github.com/go-chi/chi/v5"
)

type jsonResponse map[string]interface{}

const maxBodyBytes = 1_048_576

var errEmptyBody = errors.New("body must not be empty")

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBodyBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errEmptyBody
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBodyBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.ErrorContext(r.Context(), "failed to write error response", slog.String("path", r.URL.Path), slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	errorResponse(w, r, http.StatusNotFound, message)
}

// logAdminAction records which operator triggered a mutating request.
func logAdminAction(r *http.Request, action string, attrs ...any) {
	operator, err := middleware.GetSubjectFromContext(r.Context())
	if err != nil {
		operator = "unknown"
	}
	args := append([]any{slog.String("action", action), slog.String("operator", operator)}, attrs...)
	slog.InfoContext(r.Context(), "admin action", args...)
}

// issueOrMessage keeps the structured form of engine issues in responses.
func issueOrMessage(err error) interface{} {
	var issue *models.Issue
	if errors.As(err, &issue) {
		return issue
	}
	return err.Error()
}

// mapServiceErrorToHTTP turns service and engine errors into HTTP responses.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrMatchNotFound),
		errors.Is(err, services.ErrTeamNotFound):
		notFoundResponse(w, r)

	case errors.Is(err, services.ErrConflict),
		errors.Is(err, services.ErrTeamConflict),
		errors.Is(err, services.ErrSlotTaken),
		errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrDuplicateGeneration):
		errorResponse(w, r, http.StatusConflict, issueOrMessage(err))

	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrInvalidBracketKey):
		badRequestResponse(w, r, err)

	case errors.Is(err, models.ErrInvalidAssignment),
		errors.Is(err, models.ErrInvalidScore),
		errors.Is(err, models.ErrInvalidMatch),
		errors.Is(err, models.ErrInsufficientStandings),
		errors.Is(err, models.ErrTieUnresolved),
		errors.Is(err, models.ErrUnsupportedConfiguration):
		errorResponse(w, r, http.StatusUnprocessableEntity, issueOrMessage(err))

	case errors.Is(err, services.ErrUploadNotConfigured):
		errorResponse(w, r, http.StatusServiceUnavailable, err.Error())

	default:
		serverErrorResponse(w, r, err)
	}
}

func getIDFromURL(r *http.Request, param string) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, param))
	if id == "" {
		return "", fmt.Errorf("missing %s in URL", param)
	}
	return id, nil
}

func getDisciplineFromURL(r *http.Request) (models.Discipline, error) {
	return models.ParseDiscipline(chi.URLParam(r, "discipline"))
}

func getBracketKeyFromURL(r *http.Request) (models.BracketKey, error) {
	d, err := getDisciplineFromURL(r)
	if err != nil {
		return models.BracketKey{}, err
	}
	return models.BracketKey{
		Discipline: d,
		Gender:     chi.URLParam(r, "gender"),
		Level:      chi.URLParam(r, "level"),
		Category:   chi.URLParam(r, "category"),
	}, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("query parameter %q is required", name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("query parameter %q must be an integer", name)
	}
	return v, nil
}
