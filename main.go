package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"worldstage/auth"        //JWTの発行と検証
	"worldstage/config"      //環境変数の読み込み
	"worldstage/database"    //PostgreSQLとRedisの初期化、スキーマとカタログ
	"worldstage/handlers"    //RESTハンドラー
	"worldstage/ledger"      //資源・建物・研究
	"worldstage/lobby"       //ゲームの作成・参加・開始
	"worldstage/middlewares" //認証・レート制限
	"worldstage/realtime"    //WebSocketのハブ
	"worldstage/router"      //ルーティング
	"worldstage/utils"       //ロガーとCronジョブ

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// @title                       WorldStage API
// @version                     1.0
// @description                 Turn-based multiplayer nation building: lobby, economy ledger and realtime relay.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	logger, err := utils.InitLogger(cfg.AppEnv) // ロガーの初期化
	if err != nil {
		panic(err) // 失敗した場合はプログラム停止
	}
	defer logger.Sync() // ロガーのクリーンアップ

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is not set; every token operation will fail")
	}

	// 非同期でPostgreSQLとRedisの初期化
	var db *gorm.DB
	var rdb *redis.Client
	dbErr := make(chan error, 1)
	redisDone := make(chan struct{})

	go func() {
		var err error
		db, err = database.InitPostgreSQL(cfg, logger)
		dbErr <- err
	}()
	go func() {
		// Redisに接続できなくても起動は続ける
		rdb = database.InitRedis(cfg, logger)
		close(redisDone)
	}()

	// 2つの初期化が完了するのを待つ
	if err := <-dbErr; err != nil {
		logger.Fatal("PostgreSQLの初期化に失敗しました", zap.Error(err))
	}
	<-redisDone

	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Fatal("スキーマの作成に失敗しました", zap.Error(err))
		}
		if err := database.SeedCatalog(db, logger); err != nil {
			logger.Fatal("カタログの投入に失敗しました", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := realtime.NewHub(rdb, logger)
	hubDone := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(hubDone)
	}()

	issuer := auth.NewIssuer(cfg.JWTSecret, time.Duration(cfg.JWTExpiryHours)*time.Hour)
	lobbySvc := lobby.NewService(db, logger, cfg.RequireAllReady)
	ledgerSvc := ledger.NewService(db, logger, hub)
	limiter := middlewares.NewIPRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)

	// クーロンスケジューラのセットアップ
	scheduler, err := utils.StartCronJobs(logger,
		utils.CronJob{
			Name: "research-sweep",
			Spec: cfg.ResearchSweepSchedule,
			Run: func(ctx context.Context) error {
				_, err := ledgerSvc.CompleteDueResearch(ctx)
				return err
			},
		},
		utils.CronJob{
			Name: "rate-limiter-cleanup",
			Spec: "@every 5m",
			Run: func(context.Context) error {
				limiter.Cleanup()
				return nil
			},
		},
	)
	if err != nil {
		logger.Fatal("cronジョブの登録に失敗しました", zap.Error(err))
	}

	h := handlers.New(handlers.Deps{
		DB:       db,
		Lobby:    lobbySvc,
		Ledger:   ledgerSvc,
		Issuer:   issuer,
		Realtime: hub,
		Logger:   logger,
		AppEnv:   cfg.AppEnv,
	})
	engine := router.New(router.Deps{
		Handler:        h,
		Issuer:         issuer,
		Hub:            hub,
		Limiter:        limiter,
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("WorldStage server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTPサーバーの起動に失敗しました", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTPサーバーの停止に失敗しました", zap.Error(err))
	}
	<-scheduler.Stop().Done()
	<-hubDone

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Warn("Redis close failed", zap.Error(err))
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("PostgreSQL close failed", zap.Error(err))
		}
	}
	logger.Info("Shutdown complete")
}
