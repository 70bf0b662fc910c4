package service

import (
	"context"
	"log"
	"time"

	"github.com/user/moviesearch/internal/model"
)

// Runner 可重复执行的任务
type Runner interface {
	Run(ctx context.Context) (*model.LoadReport, error)
}

// Scheduler 定时执行 ETL
type Scheduler struct {
	runner   Runner
	interval time.Duration
}

// NewScheduler 创建定时任务
func NewScheduler(runner Runner, interval time.Duration) *Scheduler {
	return &Scheduler{runner: runner, interval: interval}
}

// Start 启动时先运行一次，之后每隔 interval 运行一次，直到 ctx 取消
// 单次运行失败只记录日志，不影响下一次
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
		if ctx.Err() != nil {
			log.Println("[Scheduler] 已停止")
			return
		}
		s.runOnce(ctx)
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	log.Printf("[Scheduler] 开始定时运行，间隔 %v", s.interval)
	report, err := s.runner.Run(ctx)
	if err != nil {
		log.Printf("[Scheduler] 本次运行失败: %v", err)
		return
	}
	if report.Failed() {
		log.Printf("[Scheduler] 本次运行有 %d 条文档写入失败: %v", len(report.Failures), report.FailedIDs())
	}
}
