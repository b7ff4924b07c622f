package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ジョブ1回あたりの上限時間
const cronJobTimeout = 30 * time.Second

// CronJob はスケジュール（"分 時 日 月 曜日" または "@every 1m" 形式）と処理の組
type CronJob struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

// StartCronJobs registers every job and starts the scheduler. A job that is
// still running when its next tick arrives is skipped rather than stacked.
// 呼び出し側は終了時に Stop() を呼ぶこと
func StartCronJobs(logger *zap.Logger, jobs ...CronJob) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(
		cron.Recover(cronLogger{logger}),
		cron.SkipIfStillRunning(cronLogger{logger}),
	))

	for _, job := range jobs {
		if _, err := c.AddFunc(job.Spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), cronJobTimeout)
			defer cancel()

			start := time.Now()
			if err := job.Run(ctx); err != nil {
				logger.Error("cronジョブが失敗しました", zap.String("job", job.Name), zap.Error(err))
				return
			}
			logger.Debug("cron job finished", zap.String("job", job.Name), zap.Duration("took", time.Since(start)))
		}); err != nil {
			return nil, fmt.Errorf("schedule %s (%q): %w", job.Name, job.Spec, err)
		}
		logger.Info("cron job scheduled", zap.String("job", job.Name), zap.String("spec", job.Spec))
	}

	c.Start()
	return c, nil
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, zap.Any("cron", keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, zap.Error(err), zap.Any("cron", keysAndValues))
}
