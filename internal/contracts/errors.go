package contracts

import (
	"errors"
	"fmt"
)

// ErrInsufficientHistory signals that an instrument has fewer bars than the
// calculation window requires. 배치 전체가 아니라 해당 종목만 스킵하는 신호 —
// 다음 사이클에 이력이 쌓이면 자동으로 재시도된다.
var ErrInsufficientHistory = errors.New("insufficient price history")

// ErrBenchmarkMismatch signals that the benchmark series does not line up with
// the instrument's series. InsufficientHistory와 동일하게 스킵으로 처리.
var ErrBenchmarkMismatch = fmt.Errorf("benchmark series misaligned: %w", ErrInsufficientHistory)

// InsufficientHistoryError carries the observed vs. required bar counts
type InsufficientHistoryError struct {
	Ticker   string
	Got      int
	Required int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("%s: insufficient price history (%d bars, need %d)", e.Ticker, e.Got, e.Required)
}

// Unwrap lets errors.Is(err, ErrInsufficientHistory) match
func (e *InsufficientHistoryError) Unwrap() error {
	return ErrInsufficientHistory
}
