package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/user/moviesearch/internal/metrics"
	"github.com/user/moviesearch/internal/model"
)

// RowSource 关系库数据源
type RowSource interface {
	Extract(ctx context.Context) ([]model.RawRow, error)
	LoadWriters(ctx context.Context) (map[string]model.WriterRecord, error)
}

// Loader 索引写入
type Loader interface {
	Load(ctx context.Context, docs []model.MovieDocument, index string) (*model.LoadReport, error)
}

// ETLService 一次完整的 抽取 -> 转换 -> 写入
type ETLService struct {
	source  RowSource
	loader  Loader
	index   string
	metrics metrics.Recorder
	dryRun  bool
}

// ETLOption 可选配置
type ETLOption func(*ETLService)

// WithMetrics 设置指标记录器
func WithMetrics(m metrics.Recorder) ETLOption {
	return func(s *ETLService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithDryRun 只抽取和转换，不写入索引
func WithDryRun(dryRun bool) ETLOption {
	return func(s *ETLService) { s.dryRun = dryRun }
}

// NewETLService 创建 ETL 服务
func NewETLService(source RowSource, loader Loader, index string, opts ...ETLOption) *ETLService {
	s := &ETLService{
		source:  source,
		loader:  loader,
		index:   index,
		metrics: metrics.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run 执行一次 ETL
// 抽取、转换或传输失败直接返回错误，不写入任何数据；
// 单个文档写入失败只体现在报告中
func (s *ETLService) Run(ctx context.Context) (*model.LoadReport, error) {
	runID := uuid.NewString()
	started := time.Now()
	log.Printf("[ETL] 开始运行 run=%s index=%s", runID, s.index)
	defer func() {
		if err := s.metrics.Flush(); err != nil {
			log.Printf("[ETL] run=%s 推送指标失败: %v", runID, err)
		}
	}()

	// 1. 抽取
	stepStart := time.Now()
	rows, err := s.source.Extract(ctx)
	s.metrics.RecordStep("extract", err, time.Since(stepStart))
	if err != nil {
		log.Printf("[ETL] run=%s 抽取失败: %v", runID, err)
		return nil, err
	}
	s.metrics.RecordDocs("extracted", len(rows))
	log.Printf("[ETL] run=%s 抽取 %d 行", runID, len(rows))

	// 2. 编剧字典，每次运行只加载一次
	stepStart = time.Now()
	writers, err := s.source.LoadWriters(ctx)
	s.metrics.RecordStep("load_writers", err, time.Since(stepStart))
	if err != nil {
		log.Printf("[ETL] run=%s 加载编剧失败: %v", runID, err)
		return nil, err
	}

	// 3. 转换，遇到第一个错误即终止
	stepStart = time.Now()
	docs, err := TransformAll(rows, writers)
	s.metrics.RecordStep("transform", err, time.Since(stepStart))
	if err != nil {
		log.Printf("[ETL] run=%s 转换失败: %v", runID, err)
		return nil, err
	}
	s.metrics.RecordDocs("transformed", len(docs))

	if s.dryRun {
		log.Printf("[ETL] run=%s dry-run，跳过写入，共 %d 条文档", runID, len(docs))
		return &model.LoadReport{Total: len(docs), Failures: []model.LoadFailure{}}, nil
	}

	// 4. 写入
	stepStart = time.Now()
	report, err := s.loader.Load(ctx, docs, s.index)
	s.metrics.RecordStep("load", err, time.Since(stepStart))
	if err != nil {
		log.Printf("[ETL] run=%s 写入失败: %v", runID, err)
		return report, err
	}
	s.metrics.RecordDocs("accepted", report.Accepted)
	s.metrics.RecordDocs("failed", len(report.Failures))

	log.Printf("[ETL] run=%s 完成，耗时 %v: 共 %d 条，成功 %d，失败 %d",
		runID, time.Since(started), report.Total, report.Accepted, len(report.Failures))
	return report, nil
}
