package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/adestock/quant/internal/api"
	"github.com/adestock/quant/internal/api/handlers"
	"github.com/adestock/quant/internal/scanner"
	"github.com/adestock/quant/internal/store"
	"github.com/adestock/quant/pkg/config"
	"github.com/adestock/quant/pkg/database"
	"github.com/adestock/quant/pkg/logger"
	"github.com/adestock/quant/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 주간 지표·랭킹·펀더멘털 조회 엔드포인트 제공
- 스캔 엔드포인트 제공 (리더는 Redis 캐싱)

Endpoints:
  GET /health                              - Health check
  GET /api/v1/stocks/{ticker}/weekly       - 주간 지표 이력
  GET /api/v1/stocks/{ticker}/fundamentals - 펀더멘털 점수
  GET /api/v1/rankings/latest              - 최신 단면 랭킹
  GET /api/v1/scan/leaders                 - 상대강도 리더
  GET /api/v1/scan/breakouts               - 박스권 돌파

Example:
  go run ./cmd/quant api
  go run ./cmd/quant api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: config)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== AdeStock Quant API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Connected to database")

	// 4. Connect to Redis (optional, cache falls through when disabled)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	// 5. Create handlers
	features := store.NewFeatureRepository(db.Pool)
	sc := scanner.NewScanner(db.Pool, log)
	cache := redis.NewCache(redisClient, "quant")

	stockHandler := handlers.NewStockHandler(db.Pool, features, log)
	scanHandler := handlers.NewScanHandler(sc, cache, log)

	// 6. Create router and server
	router := api.NewRouter(stockHandler, scanHandler, log)
	server := api.New(cfg, log, router)

	// 7. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
