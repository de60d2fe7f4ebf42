package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adestock/quant/internal/scanner"
	"github.com/adestock/quant/pkg/config"
	"github.com/adestock/quant/pkg/database"
	"github.com/adestock/quant/pkg/logger"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "시장 스캔",
	Long: `저장된 데이터에서 후보 종목을 스캔합니다.

Subcommands:
  breakouts - 박스권 돌파 종목 (횡보 후 거래량 실린 상승)
  leaders   - 상대강도 리더 (랭킹 90 이상 + A등급 + 주간 수익 양수)

Example:
  go run ./cmd/quant scan breakouts
  go run ./cmd/quant scan leaders`,
}

var scanBreakoutsCmd = &cobra.Command{
	Use:   "breakouts",
	Short: "박스권 돌파 종목 스캔",
	RunE:  runScanBreakouts,
}

var scanLeadersCmd = &cobra.Command{
	Use:   "leaders",
	Short: "상대강도 리더 스캔",
	RunE:  runScanLeaders,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.AddCommand(scanBreakoutsCmd)
	scanCmd.AddCommand(scanLeadersCmd)
}

func newScanner() (*scanner.Scanner, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	return scanner.NewScanner(db.Pool, log), db.Close, nil
}

func runScanBreakouts(cmd *cobra.Command, args []string) error {
	fmt.Println("=== AdeStock Quant Breakout Scan ===")

	sc, closeDB, err := newScanner()
	if err != nil {
		return err
	}
	defer closeDB()

	breakouts, err := sc.ScanBreakouts(context.Background())
	if err != nil {
		return fmt.Errorf("scan breakouts: %w", err)
	}

	if len(breakouts) == 0 {
		fmt.Println("\n🔍 조건에 맞는 종목이 없습니다.")
		return nil
	}

	fmt.Printf("\n🚀 박스권 돌파 종목 발견: %d개\n\n", len(breakouts))
	fmt.Printf("%-8s %-12s %10s %10s %10s %10s\n",
		"TICKER", "DATE", "CLOSE", "BOX HIGH", "WIDTH%", "VOL%")
	for _, b := range breakouts {
		fmt.Printf("%-8s %-12s %10.2f %10.2f %10.1f %10.0f\n",
			b.Ticker, b.Date.Format("2006-01-02"), b.Close, b.BoxHigh,
			b.BoxWidthPct, b.VolSpikePct)
	}

	return nil
}

func runScanLeaders(cmd *cobra.Command, args []string) error {
	fmt.Println("=== AdeStock Quant Leader Scan ===")

	sc, closeDB, err := newScanner()
	if err != nil {
		return err
	}
	defer closeDB()

	leaders, err := sc.ScanLeaders(context.Background())
	if err != nil {
		return fmt.Errorf("scan leaders: %w", err)
	}

	if len(leaders) == 0 {
		fmt.Println("\n🔍 조건에 맞는 종목이 없습니다.")
		return nil
	}

	fmt.Printf("\n⭐ 상대강도 리더: %d개\n\n", len(leaders))
	fmt.Printf("%-8s %-20s %8s %8s %8s %10s\n",
		"TICKER", "NAME", "RATING", "GRADE", "WEEK%", "ATR STOP")
	for _, l := range leaders {
		fmt.Printf("%-8s %-20s %8.0f %8s %8.2f %10.2f\n",
			l.Ticker, l.Name, l.RSRating, l.StockGrade, l.WeeklyReturn, l.ATRStopLoss)
	}

	return nil
}
