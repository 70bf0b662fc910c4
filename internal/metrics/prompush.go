package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// PushRecorder 将指标推送到 Prometheus Pushgateway
type PushRecorder struct {
	gatewayURL string
	jobName    string
	reg        *prometheus.Registry

	stepDuration *prometheus.GaugeVec   // movies_etl_step_duration_seconds
	stepTotal    *prometheus.CounterVec // movies_etl_step_total
	docsTotal    *prometheus.CounterVec // movies_etl_documents_total
	lastRun      prometheus.Gauge       // movies_etl_last_run_timestamp_seconds
}

// NewPushRecorder 创建推送记录器
func NewPushRecorder(gatewayURL, jobName string) (*PushRecorder, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "movies_etl"
	}

	reg := prometheus.NewRegistry()

	stepDuration := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "movies_etl_step_duration_seconds",
		Help: "Duration of the last run of each ETL step.",
	}, []string{"step", "status"})
	stepTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "movies_etl_step_total",
		Help: "ETL step executions by step and status.",
	}, []string{"step", "status"})
	docsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "movies_etl_documents_total",
		Help: "Documents by kind (extracted, transformed, accepted, failed).",
	}, []string{"kind"})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "movies_etl_last_run_timestamp_seconds",
		Help: "Unix time of the last pushed run.",
	})

	for _, c := range []prometheus.Collector{stepDuration, stepTotal, docsTotal, lastRun} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register collector: %w", err)
		}
	}

	return &PushRecorder{
		gatewayURL:   gatewayURL,
		jobName:      jobName,
		reg:          reg,
		stepDuration: stepDuration,
		stepTotal:    stepTotal,
		docsTotal:    docsTotal,
		lastRun:      lastRun,
	}, nil
}

func (r *PushRecorder) RecordStep(step string, err error, d time.Duration) {
	status := Status(err)
	r.stepDuration.WithLabelValues(step, status).Set(d.Seconds())
	r.stepTotal.WithLabelValues(step, status).Inc()
}

func (r *PushRecorder) RecordDocs(kind string, n int) {
	r.docsTotal.WithLabelValues(kind).Add(float64(n))
}

// Flush 推送当前注册表到 Pushgateway
func (r *PushRecorder) Flush() error {
	r.lastRun.SetToCurrentTime()
	return push.New(r.gatewayURL, r.jobName).
		Gatherer(r.reg).
		Push()
}

// Gatherer 暴露注册表，便于测试
func (r *PushRecorder) Gatherer() prometheus.Gatherer {
	return r.reg
}
