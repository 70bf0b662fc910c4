// Package metrics 记录 ETL 运行指标，默认不做任何事，
// 配置了 Pushgateway 时在运行结束后推送一次。
package metrics

import (
	"time"
)

// Recorder ETL 指标记录器
type Recorder interface {
	// RecordStep 记录一个步骤（extract/transform/load）的耗时与结果
	RecordStep(step string, err error, d time.Duration)
	// RecordDocs 按类别累计文档数（extracted/transformed/accepted/failed）
	RecordDocs(kind string, n int)
	// Flush 推送或落盘
	Flush() error
}

// Nop 不记录任何指标
type Nop struct{}

func (Nop) RecordStep(string, error, time.Duration) {}
func (Nop) RecordDocs(string, int)                  {}
func (Nop) Flush() error                            { return nil }

// Status 步骤结果标签
func Status(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
