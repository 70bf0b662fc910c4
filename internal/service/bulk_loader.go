package service

import (
	"context"
	"errors"
	"log"

	"github.com/olivere/elastic/v7"
	"github.com/user/moviesearch/internal/model"
	"github.com/user/moviesearch/internal/utils"
)

var errEmptyBulkResponse = errors.New("empty bulk response")

// BulkLoader 将文档批量写入索引
type BulkLoader struct {
	client    *elastic.Client
	chunkSize int // 0 表示整批一次请求
}

// NewBulkLoader 创建批量写入器
func NewBulkLoader(client *elastic.Client, chunkSize int) *BulkLoader {
	return &BulkLoader{client: client, chunkSize: chunkSize}
}

// Load 写入全部文档
// 单个文档被拒绝只记录在报告中；传输或解析失败返回 *model.LoadError 并停止后续分块
func (l *BulkLoader) Load(ctx context.Context, docs []model.MovieDocument, index string) (*model.LoadReport, error) {
	report := &model.LoadReport{Failures: []model.LoadFailure{}}
	if len(docs) == 0 {
		return report, nil
	}

	size := l.chunkSize
	if size <= 0 || size > len(docs) {
		size = len(docs)
	}

	for start := 0; start < len(docs); start += size {
		end := min(start+size, len(docs))
		chunkReport, err := l.loadChunk(ctx, docs[start:end], index)
		if err != nil {
			return report, err
		}
		report.Merge(chunkReport)
	}

	return report, nil
}

func (l *BulkLoader) loadChunk(ctx context.Context, docs []model.MovieDocument, index string) (*model.LoadReport, error) {
	resp, err := l.client.Bulk().
		Index(index).
		Add(BuildBulkRequests(docs, index)...).
		Do(ctx)
	if err != nil {
		return nil, &model.LoadError{Op: "bulk", Status: utils.ESStatus(err), Err: err}
	}
	if resp == nil {
		return nil, &model.LoadError{Op: "bulk", Err: errEmptyBulkResponse}
	}

	report := &model.LoadReport{Total: len(docs), Failures: []model.LoadFailure{}}
	if resp.Errors {
		report.Failures = collectFailures(resp.Items)
	}
	report.Accepted = report.Total - len(report.Failures)

	log.Printf("[BulkLoader] 写入 %s: %d 条，成功 %d，失败 %d",
		index, report.Total, report.Accepted, len(report.Failures))
	return report, nil
}

// collectFailures 从逐条结果中找出被拒绝的文档
func collectFailures(items []map[string]*elastic.BulkResponseItem) []model.LoadFailure {
	failures := []model.LoadFailure{}
	for _, item := range items {
		for _, result := range item {
			if result == nil || result.Error == nil {
				continue
			}
			failure := model.LoadFailure{
				ID:     result.Id,
				Status: result.Status,
				Type:   result.Error.Type,
				Reason: result.Error.Reason,
			}
			log.Printf("[BulkLoader] 写入文档 %s 失败: %s: %s", failure.ID, failure.Type, failure.Reason)
			failures = append(failures, failure)
		}
	}
	return failures
}

// BuildBulkRequests 每个文档一条按 ID 覆盖写入的 index 动作
func BuildBulkRequests(docs []model.MovieDocument, index string) []elastic.BulkableRequest {
	reqs := make([]elastic.BulkableRequest, 0, len(docs))
	for i := range docs {
		reqs = append(reqs, elastic.NewBulkIndexRequest().Index(index).Id(docs[i].ID).Doc(docs[i]))
	}
	return reqs
}
