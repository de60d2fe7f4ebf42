package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/adestock/quant/internal/metrics"
	"github.com/adestock/quant/internal/pipeline"
	"github.com/adestock/quant/internal/ranking"
	"github.com/adestock/quant/internal/store"
	"github.com/adestock/quant/pkg/config"
	"github.com/adestock/quant/pkg/database"
	"github.com/adestock/quant/pkg/logger"
)

// rankCmd represents the rank command
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "단면 랭킹 재계산",
	Long: `저장된 주간 단면에 백분위 랭킹을 다시 매깁니다.

지표 계산 없이 랭킹 패스만 실행:
- 기본: 가장 최근 단면 1개
- --date: 특정 날짜 단면
- --backfill: 구간 내 전체 단면을 과거부터 순서대로

모멘텀·추세가 직전 랭킹에 의존하므로 백필은 날짜 순서대로 진행됩니다.

Example:
  go run ./cmd/quant rank
  go run ./cmd/quant rank --date 2026-08-21
  go run ./cmd/quant rank --backfill --from 2026-01-01 --to 2026-08-28`,
	RunE: runRank,
}

var (
	rankDate     string
	rankBackfill bool
	rankFrom     string
	rankTo       string
)

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringVar(&rankDate, "date", "", "랭킹할 단면 날짜 (YYYY-MM-DD)")
	rankCmd.Flags().BoolVar(&rankBackfill, "backfill", false, "구간 내 전체 단면 재랭킹")
	rankCmd.Flags().StringVar(&rankFrom, "from", "", "백필 시작일 (YYYY-MM-DD)")
	rankCmd.Flags().StringVar(&rankTo, "to", "", "백필 종료일 (YYYY-MM-DD, 기본: 오늘)")
}

func runRank(cmd *cobra.Command, args []string) error {
	fmt.Println("=== AdeStock Quant Ranking ===")

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

	features := store.NewFeatureRepository(db.Pool)
	runner := pipeline.NewRunner(
		store.NewInstrumentRepository(db.Pool),
		store.NewPriceRepository(db.Pool),
		features,
		metrics.NewCalculator(log),
		ranking.NewEngine(log),
		log,
	)

	ctx := context.Background()

	if rankBackfill {
		if rankFrom == "" {
			return fmt.Errorf("--backfill requires --from")
		}
		from, err := time.Parse("2006-01-02", rankFrom)
		if err != nil {
			return fmt.Errorf("invalid --from date: %w", err)
		}
		to := time.Now()
		if rankTo != "" {
			if to, err = time.Parse("2006-01-02", rankTo); err != nil {
				return fmt.Errorf("invalid --to date: %w", err)
			}
		}

		ranked, err := runner.Backfill(ctx, from, to)
		if err != nil {
			return fmt.Errorf("backfill: %w", err)
		}
		fmt.Printf("\n✅ Backfill completed: %d cross-sections ranked\n", ranked)
		return nil
	}

	// Single date: explicit or latest
	var date time.Time
	if rankDate != "" {
		if date, err = time.Parse("2006-01-02", rankDate); err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
	} else {
		if date, err = features.GetLatestDate(ctx); err != nil {
			return fmt.Errorf("get latest date: %w", err)
		}
		if date.IsZero() {
			return fmt.Errorf("no weekly cross-sections stored yet")
		}
	}

	if err := runner.RankDate(ctx, date); err != nil {
		return fmt.Errorf("rank %s: %w", date.Format("2006-01-02"), err)
	}

	fmt.Printf("\n✅ Cross-section ranked: %s\n", date.Format("2006-01-02"))
	return nil
}
