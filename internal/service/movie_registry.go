package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/olivere/elastic/v7"
	"github.com/user/moviesearch/internal/model"
)

// MovieRegistry 电影查询能力（搜索接口只依赖此接口）
type MovieRegistry interface {
	// GetMovieByID 未找到时返回 nil, nil
	GetMovieByID(ctx context.Context, id string) (*model.Movie, error)
	SearchMovies(ctx context.Context, params model.SearchParams) ([]model.ShortMovie, error)
}

// 排序字段到索引字段的映射；文本字段按 keyword 子字段排序
var sortFields = map[string]string{
	model.SortID:         "id.keyword",
	model.SortTitle:      "title.keyword",
	model.SortImdbRating: "imdb_rating",
}

// ESMovieRegistry 基于索引服务的实现
type ESMovieRegistry struct {
	client *elastic.Client
	index  string
}

// NewESMovieRegistry 创建索引查询服务
func NewESMovieRegistry(client *elastic.Client, index string) *ESMovieRegistry {
	return &ESMovieRegistry{client: client, index: index}
}

// GetMovieByID 按 ID 获取电影详情
func (r *ESMovieRegistry) GetMovieByID(ctx context.Context, id string) (*model.Movie, error) {
	result, err := r.client.Get().Index(r.index).Id(id).Do(ctx)
	if err != nil {
		if elastic.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("获取电影 %s 失败: %w", id, err)
	}
	if result == nil || !result.Found {
		return nil, nil
	}

	var doc model.MovieDocument
	if err := json.Unmarshal(result.Source, &doc); err != nil {
		return nil, fmt.Errorf("解析电影 %s 失败: %w", id, err)
	}
	return doc.ToMovie(), nil
}

// SearchMovies 分页搜索电影
func (r *ESMovieRegistry) SearchMovies(ctx context.Context, params model.SearchParams) ([]model.ShortMovie, error) {
	result, err := r.client.Search(r.index).
		SearchSource(BuildSearchSource(params)).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("搜索失败: %w", err)
	}

	movies := []model.ShortMovie{}
	if result.Hits == nil {
		return movies, nil
	}
	for _, hit := range result.Hits.Hits {
		var m model.ShortMovie
		if err := json.Unmarshal(hit.Source, &m); err != nil {
			return nil, fmt.Errorf("解析搜索结果 %s 失败: %w", hit.Id, err)
		}
		movies = append(movies, m)
	}
	return movies, nil
}

// BuildSearchSource 由搜索参数构建查询体
func BuildSearchSource(params model.SearchParams) *elastic.SearchSource {
	field, ok := sortFields[params.Sort]
	if !ok {
		field = sortFields[model.SortID]
	}

	source := elastic.NewSearchSource().
		From(params.Offset()).
		Size(params.Limit).
		Sort(field, params.SortOrder != model.SortOrderDesc).
		FetchSourceContext(elastic.NewFetchSourceContext(true).Include("id", "title", "imdb_rating"))

	if params.Search != "" {
		query := elastic.NewMultiMatchQuery(params.Search).
			FieldWithBoost("title", 5).
			FieldWithBoost("description", 4).
			FieldWithBoost("genre", 3).
			FieldWithBoost("actors_names", 3).
			FieldWithBoost("writers_names", 2).
			Field("director").
			Fuzziness("auto")
		source = source.Query(query)
	}

	return source
}
