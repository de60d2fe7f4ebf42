package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adestock/quant/internal/contracts"
	"github.com/adestock/quant/pkg/logger"
)

// StockHandler handles per-instrument API endpoints
// ⭐ SSOT: 종목 조회 API 핸들러는 이 구조체에서만
type StockHandler struct {
	pool     *pgxpool.Pool
	features contracts.FeatureRepository
	logger   *logger.Logger
}

// NewStockHandler creates a new stock handler
func NewStockHandler(pool *pgxpool.Pool, features contracts.FeatureRepository, log *logger.Logger) *StockHandler {
	return &StockHandler{
		pool:     pool,
		features: features,
		logger:   log,
	}
}

// GetWeeklyHistory returns the weekly feature history for one ticker
// GET /api/v1/stocks/{ticker}/weekly?limit=26
func (h *StockHandler) GetWeeklyHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := mux.Vars(r)["ticker"]

	limit := 26
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 260 {
			respondError(w, http.StatusBadRequest, "Invalid 'limit' (expected 1-260)")
			return
		}
		limit = parsed
	}

	query := `
		SELECT ticker, weekly_date, weekly_return, rs_value,
		       is_above_200ma, deviation_200ma, is_vcp, is_vol_dry, atr_stop_loss,
		       rs_rating, rs_momentum, rs_trend, stock_grade
		FROM price_weekly
		WHERE ticker = $1
		ORDER BY weekly_date DESC
		LIMIT $2
	`

	rows, err := h.pool.Query(ctx, query, ticker, limit)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Error("Failed to query weekly history")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve weekly history")
		return
	}
	defer rows.Close()

	var history []contracts.WeeklyFeature
	for rows.Next() {
		var rec contracts.WeeklyFeature
		var trend, grade *string
		if err := rows.Scan(
			&rec.Ticker, &rec.WeeklyDate, &rec.WeeklyReturn, &rec.RSValue,
			&rec.IsAbove200MA, &rec.Deviation200MA, &rec.IsVCP, &rec.IsVolDry, &rec.ATRStopLoss,
			&rec.RSRating, &rec.RSMomentum, &trend, &grade,
		); err != nil {
			h.logger.WithError(err).Error("Failed to scan weekly row")
			respondError(w, http.StatusInternalServerError, "Failed to retrieve weekly history")
			return
		}
		if trend != nil {
			t := contracts.Trend(*trend)
			rec.RSTrend = &t
		}
		if grade != nil {
			g := contracts.Grade(*grade)
			rec.StockGrade = &g
		}
		history = append(history, rec)
	}

	if len(history) == 0 {
		respondError(w, http.StatusNotFound, "No weekly data for ticker")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":  ticker,
		"count":   len(history),
		"history": history,
	})
}

// GetFundamentals returns the latest composite fundamentals score
// GET /api/v1/stocks/{ticker}/fundamentals
func (h *StockHandler) GetFundamentals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := mux.Vars(r)["ticker"]

	query := `
		SELECT ticker, latest_q_date, eps_rating, fundamental_grade,
		       eps_growth_yoy, roe, updated_at
		FROM stock_fundamentals
		WHERE ticker = $1
	`

	var f contracts.Fundamentals
	var grade string
	err := h.pool.QueryRow(ctx, query, ticker).Scan(
		&f.Ticker, &f.LatestQDate, &f.EPSRating, &grade,
		&f.EPSGrowthYoY, &f.ROE, &f.UpdatedAt,
	)
	if err != nil {
		respondError(w, http.StatusNotFound, "No fundamentals for ticker")
		return
	}
	f.Grade = contracts.Grade(grade)

	respondJSON(w, http.StatusOK, f)
}

// GetLatestRankings returns the most recent ranked cross-section
// GET /api/v1/rankings/latest
func (h *StockHandler) GetLatestRankings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	latest, err := h.features.GetLatestDate(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get latest weekly date")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve rankings")
		return
	}
	if latest.IsZero() {
		respondError(w, http.StatusNotFound, "No ranked cross-section yet")
		return
	}

	records, err := h.features.GetCrossSection(ctx, latest)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load cross-section")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve rankings")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":    latest.Format("2006-01-02"),
		"count":   len(records),
		"records": records,
	})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
