package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "growthpulse/internal/errors"
	"growthpulse/internal/exporter"
	"growthpulse/internal/middleware"
)

// defaultTopN is the ranking size served when no limit parameter is given.
const defaultTopN = 5

// DashboardHandler handles dashboard HTTP requests with RFC 7807 compliance
type DashboardHandler struct {
	service      DashboardServiceInterface
	exporter     *exporter.Exporter
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, exp *exporter.Exporter, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		exporter:     exp,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes with proper Chi patterns
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/summary", h.GetSummary)
	r.Get("/companies", h.GetCompanies)
	r.Get("/chart", h.GetChart)
	r.Get("/top-margin-expansion", h.GetTopMarginExpansion)
	r.Post("/refresh", h.TriggerRefresh)

	r.Route("/export/{format}", func(r chi.Router) {
		r.Use(h.ExportCtx)
		r.Get("/", h.ExportSnapshot)
	})

	return r
}

// ExportCtx validates the export format parameter
func (h *DashboardHandler) ExportCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		format := chi.URLParam(r, "format")
		if format != "csv" && format != "xlsx" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", fmt.Sprintf("unsupported export format: %s", format)))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSummary handles GET /api/dashboard/summary
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, summary)
}

// GetCompanies handles GET /api/dashboard/companies.
// It serves the literal table view: header order plus raw cell values.
func (h *DashboardHandler) GetCompanies(w http.ResponseWriter, r *http.Request) {
	headers, records, err := h.service.Companies(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"headers": headers,
		"records": records,
		"count":   len(records),
	})
}

// GetChart handles GET /api/dashboard/chart
func (h *DashboardHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	series, err := h.service.ChartSeries(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"series": series,
	})
}

// GetTopMarginExpansion handles GET /api/dashboard/top-margin-expansion?limit=n
func (h *DashboardHandler) GetTopMarginExpansion(w http.ResponseWriter, r *http.Request) {
	limit := defaultTopN
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("limit", "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	entries, err := h.service.TopMarginExpansion(r.Context(), limit)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"entries": entries,
		"limit":   limit,
	})
}

// TriggerRefresh handles POST /api/dashboard/refresh
func (h *DashboardHandler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	h.logger.InfoContext(r.Context(), "manual refresh requested",
		slog.String("request_id", reqID))

	snap, err := h.service.Refresh(r.Context())
	if err != nil {
		var apiErr *apierrors.APIError
		if !errors.As(err, &apiErr) {
			err = apierrors.RefreshError(err)
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]interface{}{
		"snapshot_id":  snap.ID,
		"fetched_at":   snap.FetchedAt,
		"record_count": len(snap.Records),
	})
}

// ExportSnapshot handles GET /api/dashboard/export/{format}
func (h *DashboardHandler) ExportSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.service.Snapshot()
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.ErrSnapshotNotReady)
		return
	}

	format := chi.URLParam(r, "format")
	filename := fmt.Sprintf("growthpulse-%s.%s", snap.FetchedAt.Format("2006-01-02"), format)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	var err error
	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		err = h.exporter.WriteCSV(w, snap)
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		err = h.exporter.WriteExcel(w, snap)
	}

	if err != nil {
		// Headers may already be written; log rather than re-render.
		h.logger.ErrorContext(r.Context(), "snapshot export failed",
			slog.String("format", format),
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(r.Context(), "snapshot exported",
		slog.String("format", format),
		slog.String("snapshot_id", snap.ID),
		slog.Duration("snapshot_age", time.Since(snap.FetchedAt)))
}
