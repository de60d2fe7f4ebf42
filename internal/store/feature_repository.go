package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adestock/quant/internal/contracts"
)

// FeatureRepository implements contracts.FeatureRepository
// ⭐ SSOT: 주간 피처 테이블 접근은 여기서만
type FeatureRepository struct {
	pool *pgxpool.Pool
}

// NewFeatureRepository creates a new feature repository
func NewFeatureRepository(pool *pgxpool.Pool) *FeatureRepository {
	return &FeatureRepository{pool: pool}
}

// SaveWeekly upserts the metrics-pass fields keyed by (ticker, weekly_date).
// 충돌 시에도 랭킹 4개 컬럼은 건드리지 않는다 — 같은 날짜를 다시 계산해도
// 이미 매겨진 랭킹이 지워지면 안 됨.
func (r *FeatureRepository) SaveWeekly(ctx context.Context, weekly *contracts.WeeklyFeature) error {
	query := `
		INSERT INTO price_weekly (
			ticker, weekly_date, weekly_return, rs_value,
			is_above_200ma, deviation_200ma, is_vcp, is_vol_dry, atr_stop_loss
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (ticker, weekly_date) DO UPDATE SET
			weekly_return = EXCLUDED.weekly_return,
			rs_value = EXCLUDED.rs_value,
			is_above_200ma = EXCLUDED.is_above_200ma,
			deviation_200ma = EXCLUDED.deviation_200ma,
			is_vcp = EXCLUDED.is_vcp,
			is_vol_dry = EXCLUDED.is_vol_dry,
			atr_stop_loss = EXCLUDED.atr_stop_loss
	`

	_, err := r.pool.Exec(ctx, query,
		weekly.Ticker, weekly.WeeklyDate, weekly.WeeklyReturn, weekly.RSValue,
		weekly.IsAbove200MA, weekly.Deviation200MA, weekly.IsVCP, weekly.IsVolDry, weekly.ATRStopLoss,
	)
	return err
}

// GetCrossSection returns every instrument's record for one as-of date
func (r *FeatureRepository) GetCrossSection(ctx context.Context, date time.Time) ([]contracts.WeeklyFeature, error) {
	query := `
		SELECT ticker, weekly_date, weekly_return, rs_value,
		       is_above_200ma, deviation_200ma, is_vcp, is_vol_dry, atr_stop_loss,
		       rs_rating, rs_momentum, rs_trend, stock_grade
		FROM price_weekly
		WHERE weekly_date = $1
		ORDER BY ticker ASC
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []contracts.WeeklyFeature
	for rows.Next() {
		var w contracts.WeeklyFeature
		var trend, grade *string
		if err := rows.Scan(
			&w.Ticker, &w.WeeklyDate, &w.WeeklyReturn, &w.RSValue,
			&w.IsAbove200MA, &w.Deviation200MA, &w.IsVCP, &w.IsVolDry, &w.ATRStopLoss,
			&w.RSRating, &w.RSMomentum, &trend, &grade,
		); err != nil {
			return nil, err
		}
		if trend != nil {
			t := contracts.Trend(*trend)
			w.RSTrend = &t
		}
		if grade != nil {
			g := contracts.Grade(*grade)
			w.StockGrade = &g
		}
		records = append(records, w)
	}
	return records, rows.Err()
}

// GetLatestDate returns the most recent weekly_date present in the store
func (r *FeatureRepository) GetLatestDate(ctx context.Context) (time.Time, error) {
	query := `SELECT MAX(weekly_date) FROM price_weekly`

	var latest *time.Time
	if err := r.pool.QueryRow(ctx, query).Scan(&latest); err != nil {
		return time.Time{}, err
	}
	if latest == nil {
		return time.Time{}, nil
	}
	return *latest, nil
}

// GetDates returns the distinct weekly dates in [from, to], ascending
func (r *FeatureRepository) GetDates(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	query := `
		SELECT DISTINCT weekly_date
		FROM price_weekly
		WHERE weekly_date BETWEEN $1 AND $2
		ORDER BY weekly_date ASC
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// GetPriorRatings returns, per ticker, the rs_rating values of up to n
// cross-sections strictly before date, most recent first. 랭킹이 비어 있는
// 행은 추세 판정에 쓸 수 없으므로 제외.
func (r *FeatureRepository) GetPriorRatings(ctx context.Context, date time.Time, n int) (map[string][]float64, error) {
	query := `
		SELECT ticker, rs_rating
		FROM (
			SELECT ticker, rs_rating,
			       ROW_NUMBER() OVER (PARTITION BY ticker ORDER BY weekly_date DESC) AS rn
			FROM price_weekly
			WHERE weekly_date < $1 AND rs_rating IS NOT NULL
		) ranked
		WHERE rn <= $2
		ORDER BY ticker, rn ASC
	`

	rows, err := r.pool.Query(ctx, query, date, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := make(map[string][]float64)
	for rows.Next() {
		var ticker string
		var rating float64
		if err := rows.Scan(&ticker, &rating); err != nil {
			return nil, err
		}
		ratings[ticker] = append(ratings[ticker], rating)
	}
	return ratings, rows.Err()
}

// UpdateRankings writes back only the four ranking fields.
// 메트릭 컬럼은 이미 1차 패스가 적재한 상태.
func (r *FeatureRepository) UpdateRankings(ctx context.Context, records []contracts.WeeklyFeature) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		UPDATE price_weekly SET
			rs_rating = $3,
			rs_momentum = $4,
			rs_trend = $5,
			stock_grade = $6
		WHERE ticker = $1 AND weekly_date = $2
	`

	// Use simple loop for now (batch optimization can be added later)
	for _, w := range records {
		var trend, grade *string
		if w.RSTrend != nil {
			s := string(*w.RSTrend)
			trend = &s
		}
		if w.StockGrade != nil {
			s := string(*w.StockGrade)
			grade = &s
		}
		if _, err := r.pool.Exec(ctx, query,
			w.Ticker, w.WeeklyDate, w.RSRating, w.RSMomentum, trend, grade,
		); err != nil {
			return err
		}
	}
	return nil
}
