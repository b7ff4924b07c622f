package database

import (
	"context"
	"fmt"
	"time"

	"worldstage/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	maxRetries    = 3
	retryInterval = 5 * time.Second
)

// GormConfig is shared by the server and the tests so that unique violations
// surface as gorm.ErrDuplicatedKey on every dialect.
func GormConfig(verbose bool) *gorm.Config {
	level := gormlogger.Warn
	if verbose {
		level = gormlogger.Info
	}
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(level),
	}
}

// InitPostgreSQL はリトライ付きでPostgreSQLに接続する。失敗は起動停止扱い
func InitPostgreSQL(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	var err error
	for i := 0; i <= maxRetries; i++ {
		var gormDB *gorm.DB
		gormDB, err = gorm.Open(postgres.Open(cfg.PostgresDSN()), GormConfig(cfg.IsDevelopment()))
		if err == nil {
			sqlDB, poolErr := gormDB.DB()
			if poolErr != nil {
				return nil, poolErr
			}
			sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
			sqlDB.SetMaxIdleConns(cfg.DBMaxOpenConns / 2)
			sqlDB.SetConnMaxIdleTime(30 * time.Second)

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			err = sqlDB.PingContext(ctx)
			cancel()
			if err == nil {
				logger.Info("Connected to PostgreSQL", zap.String("host", cfg.DBHost), zap.String("database", cfg.DBName))
				return gormDB, nil
			}
		}
		logger.Error("データベース接続のリトライ", zap.Int("retry", i), zap.Error(err))
		if i < maxRetries {
			time.Sleep(retryInterval)
		}
	}
	return nil, fmt.Errorf("データベース接続に失敗しました: %w", err)
}

// InitRedis はRedisに接続する。接続できない場合はnilを返し、リアルタイム層はローカル配信のみで動作する
func InitRedis(cfg *config.Config, logger *zap.Logger) *redis.Client {
	if !cfg.RedisEnabled {
		logger.Info("Redis disabled by configuration")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Warn("Failed to connect to Redis, continuing without realtime cache", zap.String("addr", cfg.RedisAddr()), zap.Error(err))
		_ = rdb.Close()
		return nil
	}

	logger.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr()))
	return rdb
}
