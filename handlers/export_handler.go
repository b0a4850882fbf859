package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Dosada05/school-tournament/export"
	"github.com/Dosada05/school-tournament/services"
)

const maxWorkbookBytes = 10 << 20

type ExportHandler struct {
	exportService services.ExportService
}

func NewExportHandler(es services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: es}
}

// DownloadSchedule renders the whole schedule as a workbook. The workbook is
// buffered so a failure still produces a JSON error.
func (h *ExportHandler) DownloadSchedule(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.exportService.WriteSchedule(r.Context(), &buf); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", `attachment; filename="schedule.xlsx"`)
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ExportHandler) PublishSchedule(w http.ResponseWriter, r *http.Request) {
	res, err := h.exportService.PublishSchedule(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"export": res}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ImportMatches accepts a workbook either as multipart field "file" or as
// the raw request body.
func (h *ExportHandler) ImportMatches(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWorkbookBytes)

	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxWorkbookBytes); err != nil {
			badRequestResponse(w, r, fmt.Errorf("invalid multipart form: %w", err))
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			badRequestResponse(w, r, fmt.Errorf("form field \"file\" is required: %w", err))
			return
		}
		defer file.Close()
		src = file
	}

	logAdminAction(r, "import_matches")
	res, err := h.exportService.ImportMatches(r.Context(), src)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	status := http.StatusOK
	if len(res.Created) > 0 {
		status = http.StatusCreated
	}
	if err := writeJSON(w, status, res, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
