package handler

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/deepbluepool/poolchem/internal/api/models"
	"github.com/deepbluepool/poolchem/internal/api/response"
	"github.com/deepbluepool/poolchem/internal/chemistry"
	"github.com/deepbluepool/poolchem/internal/export"
	"github.com/deepbluepool/poolchem/internal/history"
)

// DefaultExportLimit caps the rows in a single export.
const DefaultExportLimit = 1000

// ReadingHandler handles water test reading endpoints.
type ReadingHandler struct {
	service     *history.Service
	exporter    *export.Service
	exportLimit int
}

// NewReadingHandler creates a new ReadingHandler. A non-positive exportLimit
// falls back to DefaultExportLimit.
func NewReadingHandler(service *history.Service, exporter *export.Service, exportLimit int) *ReadingHandler {
	if exportLimit <= 0 {
		exportLimit = DefaultExportLimit
	}
	return &ReadingHandler{
		service:     service,
		exporter:    exporter,
		exportLimit: exportLimit,
	}
}

// CreateReading handles POST /v1/readings - record a water test.
func (h *ReadingHandler) CreateReading(w http.ResponseWriter, r *http.Request) {
	var input models.ReadingCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	recordInput := history.RecordInput{
		PoolID:        input.PoolID,
		Customer:      input.Customer,
		VolumeGallons: input.VolumeGallons,
		Source:        input.Source,
		Chemistry:     input.Reading,
	}
	if input.RecordedAt != nil {
		recordInput.RecordedAt = input.RecordedAt.Time()
	}

	reading, err := h.service.Record(r.Context(), recordInput)
	if err != nil {
		writeError(w, r, err)
		return
	}

	location := fmt.Sprintf("/v1/readings/%s", reading.ID)
	response.Created(w, r, location, models.NewReading(reading))
}

// ListReadings handles GET /v1/readings - list stored readings, newest first.
func (h *ReadingHandler) ListReadings(w http.ResponseWriter, r *http.Request) {
	opts := history.ListOptions{
		Customer: r.URL.Query().Get("customer"),
		Days:     intQuery(r, "days", 0),
		Limit:    intQuery(r, "limit", 0),
	}

	readings, err := h.service.List(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items := make([]models.Reading, 0, len(readings))
	for _, reading := range readings {
		items = append(items, models.NewReading(reading))
	}

	response.JSON(w, r, http.StatusOK, models.ReadingList{
		Items: items,
		Total: len(items),
	})
}

// GetReading handles GET /v1/readings/{readingId}.
func (h *ReadingHandler) GetReading(w http.ResponseWriter, r *http.Request) {
	readingID := chi.URLParam(r, "readingId")
	if readingID == "" {
		response.BadRequest(w, r, "readingId is required", nil)
		return
	}

	reading, err := h.service.Get(r.Context(), readingID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.NewReading(reading))
}

// DeleteReading handles DELETE /v1/readings/{readingId}.
func (h *ReadingHandler) DeleteReading(w http.ResponseWriter, r *http.Request) {
	readingID := chi.URLParam(r, "readingId")
	if readingID == "" {
		response.BadRequest(w, r, "readingId is required", nil)
		return
	}

	if err := h.service.Delete(r.Context(), readingID); err != nil {
		writeError(w, r, err)
		return
	}

	response.NoContent(w, r)
}

// Series handles GET /v1/readings/series - chart-ready value columns.
func (h *ReadingHandler) Series(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r, "days", 0)
	customer := r.URL.Query().Get("customer")

	series, err := h.service.Series(r.Context(), days, customer)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.NewSeriesResponse(series))
}

// Trend handles GET /v1/readings/trends/{parameter} - direction, volatility
// and recommendation for one chemistry parameter.
func (h *ReadingHandler) Trend(w http.ResponseWriter, r *http.Request) {
	parameter := chi.URLParam(r, "parameter")
	if parameter == "" {
		response.BadRequest(w, r, "parameter is required", nil)
		return
	}

	days := intQuery(r, "days", 0)
	customer := r.URL.Query().Get("customer")

	analysis, err := h.service.Trend(r.Context(), chemistry.Parameter(parameter), days, customer)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.NewTrendResponse(analysis))
}

// Export handles GET /v1/readings/export?format=csv|xlsx - download the
// reading history as a file.
func (h *ReadingHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		response.BadRequest(w, r, "format must be csv or xlsx", nil)
		return
	}

	days := intQuery(r, "days", 0)
	customer := r.URL.Query().Get("customer")

	readings, err := h.service.List(r.Context(), history.ListOptions{
		Customer: customer,
		Days:     days,
		Limit:    h.exportLimit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	switch format {
	case "csv":
		h.exportCSV(w, r, readings, customer)
	case "xlsx":
		h.exportExcel(w, r, readings, days, customer)
	}
}

func (h *ReadingHandler) exportCSV(w http.ResponseWriter, r *http.Request, readings []*history.Reading, customer string) {
	records, err := h.exporter.GenerateCSV(readings)
	if err != nil {
		response.InternalError(w, r, "export failed")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", contentDisposition(exportFilename(customer, "csv")))

	cw := csv.NewWriter(w)
	_ = h.exporter.WriteCSV(cw, records)
}

func (h *ReadingHandler) exportExcel(w http.ResponseWriter, r *http.Request, readings []*history.Reading, days int, customer string) {
	dateRange := "All time"
	if days > 0 {
		dateRange = fmt.Sprintf("Last %d days", days)
	}
	customerLabel := customer
	if customerLabel == "" {
		customerLabel = "All"
	}

	f, err := h.exporter.GenerateExcel(export.Data{
		Readings: readings,
		Metadata: export.Metadata{
			GeneratedAt:   time.Now(),
			DateRange:     dateRange,
			Customer:      customerLabel,
			TotalReadings: len(readings),
		},
	})
	if err != nil {
		response.InternalError(w, r, "export failed")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", contentDisposition(exportFilename(customer, "xlsx")))

	_ = f.Write(w)
}

// exportFilename builds pool_data[_customer_<name>]_<timestamp>.<ext>.
func exportFilename(customer, ext string) string {
	stamp := time.Now().Format("20060102_150405")
	if customer != "" {
		return fmt.Sprintf("pool_data_customer_%s_%s.%s", sanitizeFilename(customer), stamp, ext)
	}
	return fmt.Sprintf("pool_data_%s.%s", stamp, ext)
}

// sanitizeFilename keeps letters, digits, dashes and underscores.
func sanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return b.String()
}

func contentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", filename)
}

// intQuery parses an integer query parameter, returning def when absent or
// malformed.
func intQuery(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
