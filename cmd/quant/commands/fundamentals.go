package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adestock/quant/internal/fundamentals"
	"github.com/adestock/quant/internal/store"
	"github.com/adestock/quant/pkg/config"
	"github.com/adestock/quant/pkg/database"
	"github.com/adestock/quant/pkg/logger"
)

// fundamentalsCmd represents the fundamentals command
var fundamentalsCmd = &cobra.Command{
	Use:   "fundamentals",
	Short: "펀더멘털 점수 갱신",
	Long: `분기·연간 재무제표에서 복합 펀더멘털 점수를 계산합니다.

이 명령어는:
- 분기 시계열의 YoY 성장률 재산출
- EPS 성장 + ROE 복합 점수 계산 (적자 기업은 상한 적용)
- 종목별 최신 상태 업서트

Example:
  go run ./cmd/quant fundamentals
  go run ./cmd/quant fundamentals --ticker AAPL`,
	RunE: runFundamentals,
}

var fundamentalsTicker string

func init() {
	rootCmd.AddCommand(fundamentalsCmd)

	fundamentalsCmd.Flags().StringVar(&fundamentalsTicker, "ticker", "", "단일 종목만 갱신")
}

func runFundamentals(cmd *cobra.Command, args []string) error {
	fmt.Println("=== AdeStock Quant Fundamentals ===")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	scorer := fundamentals.NewScorer(
		store.NewInstrumentRepository(db.Pool),
		store.NewFinancialRepository(db.Pool),
		log,
	)

	ctx := context.Background()

	if fundamentalsTicker != "" {
		result, err := scorer.ScoreInstrument(ctx, fundamentalsTicker)
		if err != nil {
			return fmt.Errorf("score %s: %w", fundamentalsTicker, err)
		}
		if result == nil {
			fmt.Printf("\n⚠️ No quarterly financials for %s\n", fundamentalsTicker)
			return nil
		}

		fmt.Printf("\n✅ %s scored\n", result.Ticker)
		fmt.Printf("   EPS Rating: %.1f (grade %s)\n", result.EPSRating, result.Grade)
		fmt.Printf("   Latest quarter: %s\n", result.LatestQDate.Format("2006-01-02"))
		return nil
	}

	if err := scorer.RefreshAll(ctx); err != nil {
		return fmt.Errorf("refresh fundamentals: %w", err)
	}

	fmt.Println("\n✅ Fundamentals refresh completed")
	return nil
}
