package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	priceResponse "github.com/LavaJover/shvark-price-etl/internal/delivery/http/dto/price/response"
	"github.com/LavaJover/shvark-price-etl/internal/domain"
	"github.com/LavaJover/shvark-price-etl/internal/usecase"
)

type PriceHandler struct {
	reports usecase.ReportUsecase
	log     *slog.Logger
}

func NewPriceHandler(reports usecase.ReportUsecase, log *slog.Logger) *PriceHandler {
	return &PriceHandler{
		reports: reports,
		log:     log,
	}
}

// NewRouter exposes the read side and the metrics of registry over HTTP.
func NewRouter(h *PriceHandler, registry *prometheus.Registry) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/prices", h.History).Methods(http.MethodGet)
	api.HandleFunc("/prices/latest", h.Latest).Methods(http.MethodGet)
	api.HandleFunc("/stats", h.Stats).Methods(http.MethodGet)
	return r
}

func (h *PriceHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *PriceHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := usecase.DefaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := h.reports.History(r.Context(), limit)
	if err != nil {
		h.internalError(w, err)
		return
	}

	out := make([]priceResponse.PriceResponse, len(records))
	for i, record := range records {
		out[i] = toPriceResponse(record)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *PriceHandler) Latest(w http.ResponseWriter, r *http.Request) {
	records, err := h.reports.History(r.Context(), 1)
	if err != nil {
		h.internalError(w, err)
		return
	}
	if len(records) == 0 {
		writeError(w, http.StatusNotFound, "no records")
		return
	}
	writeJSON(w, http.StatusOK, toPriceResponse(records[0]))
}

func (h *PriceHandler) Stats(w http.ResponseWriter, r *http.Request) {
	window, err := domain.ParseStatsWindow(r.URL.Query().Get("window"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := h.reports.Stats(r.Context(), window)
	if errors.Is(err, domain.ErrStatsUnavailable) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, priceResponse.StatsResponse{
		Window:       string(stats.Window),
		Count:        stats.Count,
		Mean:         stats.Mean,
		Min:          stats.Min,
		Max:          stats.Max,
		First:        stats.First,
		Last:         stats.Last,
		VariationPct: stats.VariationPct,
		From:         stats.From.Format(domain.TimestampLayout),
		To:           stats.To.Format(domain.TimestampLayout),
	})
}

func (h *PriceHandler) internalError(w http.ResponseWriter, err error) {
	h.log.Error("request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func toPriceResponse(record *domain.PriceRecord) priceResponse.PriceResponse {
	return priceResponse.PriceResponse{
		Timestamp: record.FormattedTimestamp(),
		PriceUSD:  record.PriceUSD,
		PriceReal: record.PriceReal,
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, priceResponse.ErrorResponse{Error: message})
}
