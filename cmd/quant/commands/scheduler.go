package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/adestock/quant/internal/fundamentals"
	"github.com/adestock/quant/internal/metrics"
	"github.com/adestock/quant/internal/pipeline"
	"github.com/adestock/quant/internal/ranking"
	"github.com/adestock/quant/internal/scheduler"
	"github.com/adestock/quant/internal/scheduler/jobs"
	"github.com/adestock/quant/internal/store"
	"github.com/adestock/quant/pkg/config"
	"github.com/adestock/quant/pkg/database"
	"github.com/adestock/quant/pkg/logger"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `스케줄러를 시작하거나 작업을 관리합니다.

등록되는 작업:
- daily_analysis: 평일 오후 6시 (지표 계산 + 단면 랭킹)
- weekly_fundamentals: 토요일 오전 8시 (펀더멘털 점수 갱신)

Subcommands:
  start - 스케줄러 시작
  list  - 등록된 작업 목록
  run   - 특정 작업 즉시 실행

Example:
  go run ./cmd/quant scheduler start
  go run ./cmd/quant scheduler run daily_analysis`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		RunE:  runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJobNow,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

// initScheduler wires the scheduler with every registered job
func initScheduler() (*scheduler.Scheduler, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	instruments := store.NewInstrumentRepository(db.Pool)
	financials := store.NewFinancialRepository(db.Pool)

	runner := pipeline.NewRunner(
		instruments,
		store.NewPriceRepository(db.Pool),
		store.NewFeatureRepository(db.Pool),
		metrics.NewCalculator(log),
		ranking.NewEngine(log),
		log,
	)
	scorer := fundamentals.NewScorer(instruments, financials, log)

	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewAnalysisJob(runner, cfg, log)); err != nil {
		db.Close()
		return nil, nil, err
	}
	if err := sched.AddJob(jobs.NewFundamentalsJob(scorer, log)); err != nil {
		db.Close()
		return nil, nil, err
	}

	return sched, db.Close, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== AdeStock Quant Scheduler ===")

	sched, closeDB, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer closeDB()

	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, closeDB, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer closeDB()

	fmt.Println("Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	return nil
}

func runJobNow(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	sched, closeDB, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer closeDB()

	fmt.Printf("Running job %s...\n", jobName)
	if err := sched.RunJob(jobName); err != nil {
		return err
	}

	// RunJob is async; wait for the result to land in history
	for {
		time.Sleep(500 * time.Millisecond)

		history, err := sched.GetJobHistory(jobName)
		if err != nil {
			return err
		}
		if len(history.Results) > 0 {
			result := history.Results[len(history.Results)-1]
			if result.Success {
				fmt.Printf("✅ Job %s completed in %v\n", jobName, result.Duration)
			} else {
				fmt.Printf("❌ Job %s failed: %s\n", jobName, result.Error)
			}
			return nil
		}
	}
}
