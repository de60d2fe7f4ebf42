package contracts

import "time"

// PriceBar represents one instrument's OHLCV for a single trading date.
// 외부 수집기가 적재하며 여기서는 읽기 전용으로만 소비
type PriceBar struct {
	Ticker string    `json:"ticker"`
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Instrument is one row of the stock master registry
type Instrument struct {
	Ticker     string `json:"ticker"`
	Name       string `json:"name"`
	MarketType string `json:"market_type"` // STOCK | SECTOR
}

// DailyFeature is the latest-bar snapshot persisted per instrument per cycle
type DailyFeature struct {
	Ticker string    `json:"ticker"`
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// WeeklyFeature is the cross-sectional unit of ranking.
// 랭킹 4개 필드(RSRating/RSMomentum/RSTrend/StockGrade)는 랭킹 엔진만 채운다 —
// 같은 날짜의 전체 단면이 쌓인 뒤 두 번째 쓰기 패스로 갱신됨.
type WeeklyFeature struct {
	Ticker     string    `json:"ticker"`
	WeeklyDate time.Time `json:"weekly_date"`

	// Metrics pass
	WeeklyReturn   float64 `json:"weekly_return"`   // 5거래일 수익률 (%)
	RSValue        float64 `json:"rs_value"`        // 벤치마크 대비 가중 상대수익 ×100
	IsAbove200MA   bool    `json:"is_above_200ma"`
	Deviation200MA float64 `json:"deviation_200ma"` // 200일선 이격도 (%)
	IsVCP          bool    `json:"is_vcp"`
	IsVolDry       bool    `json:"is_vol_dry"`
	ATRStopLoss    float64 `json:"atr_stop_loss"`

	// Ranking pass (nil until the cross-section is ranked)
	RSRating   *float64 `json:"rs_rating,omitempty"`  // 0~100 백분위
	RSMomentum *float64 `json:"rs_momentum,omitempty"`
	RSTrend    *Trend   `json:"rs_trend,omitempty"`
	StockGrade *Grade   `json:"stock_grade,omitempty"`
}

// QuarterlyFinancial is one quarter's income statement extract
type QuarterlyFinancial struct {
	Ticker       string    `json:"ticker"`
	Date         time.Time `json:"date"`
	NetIncome    int64     `json:"net_income"`
	Revenue      int64     `json:"revenue"`
	BasicEPS     float64   `json:"basic_eps"`
	RevGrowthYoY *float64  `json:"rev_growth_yoy,omitempty"`
	EPSGrowthYoY *float64  `json:"eps_growth_yoy,omitempty"`
}

// AnnualFinancial is one fiscal year's extract, kept for ROE
type AnnualFinancial struct {
	Ticker    string   `json:"ticker"`
	Year      int      `json:"year"`
	NetIncome int64    `json:"net_income"`
	Revenue   int64    `json:"revenue"`
	ROE       *float64 `json:"roe,omitempty"`
}

// Fundamentals is the latest-state composite score per instrument.
// 시계열이 아니라 "현재 상태"만 유지 — 새 재무데이터가 올 때마다 제자리 갱신.
// 원본 입력(EPSGrowthYoY, ROE)을 점수와 함께 저장해 재검증이 가능하게 한다.
type Fundamentals struct {
	Ticker         string    `json:"ticker"`
	LatestQDate    time.Time `json:"latest_q_date"`
	EPSRating      float64   `json:"eps_rating"` // 0~100 복합 점수
	Grade          Grade     `json:"fundamental_grade"`
	EPSGrowthYoY   *float64  `json:"eps_growth_yoy,omitempty"`
	ROE            *float64  `json:"roe,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}
