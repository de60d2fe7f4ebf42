package handlers

import (
	"net/http"
	"time"

	"github.com/adestock/quant/internal/scanner"
	"github.com/adestock/quant/pkg/logger"
	"github.com/adestock/quant/pkg/redis"
)

const leadersCacheTTL = 10 * time.Minute

// ScanHandler handles market scan API endpoints
// ⭐ SSOT: 스캔 API 핸들러는 이 구조체에서만
type ScanHandler struct {
	scanner *scanner.Scanner
	cache   *redis.Cache
	logger  *logger.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(sc *scanner.Scanner, cache *redis.Cache, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		scanner: sc,
		cache:   cache,
		logger:  log,
	}
}

// GetLeaders returns the current momentum leaders.
// 리더 목록은 주간 단면이 바뀔 때만 달라지므로 짧게 캐싱한다.
// GET /api/v1/scan/leaders
func (h *ScanHandler) GetLeaders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var leaders []scanner.Leader
	if hit, err := h.cache.Get(ctx, "scan:leaders", &leaders); err == nil && hit {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"count":   len(leaders),
			"leaders": leaders,
			"cached":  true,
		})
		return
	}

	leaders, err := h.scanner.ScanLeaders(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to scan leaders")
		respondError(w, http.StatusInternalServerError, "Failed to scan leaders")
		return
	}

	if err := h.cache.Set(ctx, "scan:leaders", leaders, leadersCacheTTL); err != nil {
		h.logger.WithError(err).Warn("Failed to cache leaders")
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(leaders),
		"leaders": leaders,
		"cached":  false,
	})
}

// GetBreakouts returns today's box breakout candidates
// GET /api/v1/scan/breakouts
func (h *ScanHandler) GetBreakouts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	breakouts, err := h.scanner.ScanBreakouts(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to scan breakouts")
		respondError(w, http.StatusInternalServerError, "Failed to scan breakouts")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":     len(breakouts),
		"breakouts": breakouts,
	})
}
