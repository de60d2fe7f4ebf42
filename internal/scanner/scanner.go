package scanner

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adestock/quant/pkg/logger"
)

// Breakout is one instrument escaping its consolidation box on volume
type Breakout struct {
	Ticker      string    `json:"ticker"`
	Date        time.Time `json:"date"`
	Close       float64   `json:"close"`
	BoxHigh     float64   `json:"box_high"`
	BoxWidthPct float64   `json:"box_width_pct"`
	VolSpikePct float64   `json:"vol_spike_pct"`
	DataCount   int       `json:"data_count"`
}

// Scanner finds box breakouts in the latest daily cross-section
// ⭐ SSOT: 돌파 스캔은 여기서만
type Scanner struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// NewScanner creates a new Scanner instance
func NewScanner(pool *pgxpool.Pool, log *logger.Logger) *Scanner {
	return &Scanner{
		pool:   pool,
		logger: log.WithField("module", "scanner"),
	}
}

// ScanBreakouts returns instruments whose latest close escapes a tight
// 60-day box on at least 3x average volume.
// 조건: 박스폭 20% 이내 횡보 + 종가가 박스 고점 돌파 + 거래량 폭발 +
// 거래대금 필터. 과거 데이터 60개 미만(신규 상장)은 제외.
func (s *Scanner) ScanBreakouts(ctx context.Context) ([]Breakout, error) {
	query := `
		WITH market_data AS (
			SELECT
				d.ticker,
				d.date,
				d.close,
				d.volume,
				MAX(d.high) OVER w60 AS box_high,
				MIN(d.low) OVER w60 AS box_low,
				AVG(d.volume) OVER (PARTITION BY d.ticker ORDER BY d.date
					ROWS BETWEEN 20 PRECEDING AND 1 PRECEDING) AS avg_vol_20,
				COUNT(d.close) OVER w60 AS data_count
			FROM price_daily d
			JOIN stock_master m ON d.ticker = m.ticker
			WHERE m.market_type = 'STOCK'
			WINDOW w60 AS (PARTITION BY d.ticker ORDER BY d.date
				ROWS BETWEEN 60 PRECEDING AND 1 PRECEDING)
		),
		latest_data AS (
			SELECT * FROM market_data
			WHERE date = (SELECT MAX(date) FROM price_daily)
		)
		SELECT
			ticker,
			date,
			close,
			box_high,
			ROUND(((box_high - box_low) / box_low * 100)::numeric, 1) AS box_width_pct,
			ROUND((volume / avg_vol_20 * 100)::numeric, 0) AS vol_spike_pct,
			data_count
		FROM latest_data
		WHERE data_count >= 60
		  AND (box_high - box_low) / box_low <= 0.20
		  AND close > box_high
		  AND volume >= avg_vol_20 * 3.0
		  AND (close * volume) > 1000000
		ORDER BY vol_spike_pct DESC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var breakouts []Breakout
	for rows.Next() {
		var b Breakout
		if err := rows.Scan(
			&b.Ticker, &b.Date, &b.Close, &b.BoxHigh,
			&b.BoxWidthPct, &b.VolSpikePct, &b.DataCount,
		); err != nil {
			return nil, err
		}
		breakouts = append(breakouts, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.logger.WithField("count", len(breakouts)).Info("Breakout scan completed")
	return breakouts, nil
}

// Leader is one instrument passing the momentum leadership screen
type Leader struct {
	Ticker       string   `json:"ticker"`
	Name         string   `json:"name"`
	RSRating     float64  `json:"rs_rating"`
	RSMomentum   *float64 `json:"rs_momentum,omitempty"`
	StockGrade   string   `json:"stock_grade"`
	WeeklyReturn float64  `json:"weekly_return"`
	ATRStopLoss  float64  `json:"atr_stop_loss"`
}

// ScanLeaders returns the latest cross-section's top instruments:
// 상대강도 최상위(랭킹 90 이상, A등급)에 단기 수익률까지 양수인 종목
func (s *Scanner) ScanLeaders(ctx context.Context) ([]Leader, error) {
	query := `
		SELECT w.ticker, m.name, w.rs_rating, w.rs_momentum, w.stock_grade,
		       w.weekly_return, w.atr_stop_loss
		FROM price_weekly w
		JOIN stock_master m ON w.ticker = m.ticker
		WHERE w.weekly_date = (SELECT MAX(weekly_date) FROM price_weekly)
		  AND m.market_type = 'STOCK'
		  AND w.rs_rating >= 90
		  AND w.stock_grade = 'A'
		  AND w.weekly_return > 0
		ORDER BY w.rs_rating DESC, w.weekly_return DESC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leaders []Leader
	for rows.Next() {
		var l Leader
		if err := rows.Scan(
			&l.Ticker, &l.Name, &l.RSRating, &l.RSMomentum, &l.StockGrade,
			&l.WeeklyReturn, &l.ATRStopLoss,
		); err != nil {
			return nil, err
		}
		leaders = append(leaders, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.logger.WithField("count", len(leaders)).Info("Leader scan completed")
	return leaders, nil
}
