package report

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/claim-management/internal/transport"
	"github.com/frahmantamala/claim-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// Summary returns aggregate figures for the filtered claim set.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilter(r.URL.Query())
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.Service.Summarize(r.Context(), filter)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "failed to build report summary")
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}

// ExportCSV streams the filtered claims as a CSV attachment.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilter(r.URL.Query())
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.Service.Claims(r.Context(), filter)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "failed to build claims report")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", attachment("csv"))
	if err := WriteCSV(w, rows); err != nil {
		h.Logger.Error("csv export failed", "error", err)
	}
}

// ExportPDF streams the filtered claims as a PDF attachment.
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilter(r.URL.Query())
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.Service.Claims(r.Context(), filter)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "failed to build claims report")
		return
	}
	summary := SummarizeRows(rows, filter)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", attachment("pdf"))
	if err := WritePDF(w, rows, summary); err != nil {
		h.Logger.Error("pdf export failed", "error", err)
	}
}

// ExportXLSX streams the filtered claims as a spreadsheet attachment.
func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilter(r.URL.Query())
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.Service.Claims(r.Context(), filter)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "failed to build claims report")
		return
	}
	summary := SummarizeRows(rows, filter)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", attachment("xlsx"))
	if err := WriteXLSX(w, rows, summary); err != nil {
		h.Logger.Error("xlsx export failed", "error", err)
	}
}

func attachment(ext string) string {
	return fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("claims-report-%s.%s", time.Now().Format("20060102"), ext))
}
