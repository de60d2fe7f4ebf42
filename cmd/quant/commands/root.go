package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quant",
	Short: "AdeStock Quant - 지표 계산·단면 랭킹 엔진",
	Long: `AdeStock Quant Unified CLI

주식 지표 계산과 크로스섹션 랭킹 엔진.
일별 가격에서 상대강도·패턴 지표를 뽑고 전체 단면 대비 백분위 랭킹을 매긴다.

Usage:
  go run ./cmd/quant [command]

Examples:
  go run ./cmd/quant analyze
  go run ./cmd/quant rank --backfill
  go run ./cmd/quant api
  go run ./cmd/quant test-db`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
