package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adestock/quant/internal/contracts"
)

// InstrumentRepository implements contracts.InstrumentRepository
// ⭐ SSOT: 종목 마스터 조회는 여기서만
type InstrumentRepository struct {
	pool *pgxpool.Pool
}

// NewInstrumentRepository creates a new instrument repository
func NewInstrumentRepository(pool *pgxpool.Pool) *InstrumentRepository {
	return &InstrumentRepository{pool: pool}
}

// List returns every registered instrument, benchmark ETF included
func (r *InstrumentRepository) List(ctx context.Context) ([]contracts.Instrument, error) {
	query := `
		SELECT ticker, name, market_type
		FROM stock_master
		ORDER BY ticker ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instruments []contracts.Instrument
	for rows.Next() {
		var inst contracts.Instrument
		if err := rows.Scan(&inst.Ticker, &inst.Name, &inst.MarketType); err != nil {
			return nil, err
		}
		instruments = append(instruments, inst)
	}
	return instruments, rows.Err()
}

// ListByMarketType returns instruments of a single market type
func (r *InstrumentRepository) ListByMarketType(ctx context.Context, marketType string) ([]contracts.Instrument, error) {
	query := `
		SELECT ticker, name, market_type
		FROM stock_master
		WHERE market_type = $1
		ORDER BY ticker ASC
	`

	rows, err := r.pool.Query(ctx, query, marketType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instruments []contracts.Instrument
	for rows.Next() {
		var inst contracts.Instrument
		if err := rows.Scan(&inst.Ticker, &inst.Name, &inst.MarketType); err != nil {
			return nil, err
		}
		instruments = append(instruments, inst)
	}
	return instruments, rows.Err()
}
