package model

// 排序字段
const (
	SortID         = "id"
	SortTitle      = "title"
	SortImdbRating = "imdb_rating"
)

// 排序方向
const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// SearchParams 电影搜索参数（已校验）
type SearchParams struct {
	Search    string `json:"search"`
	Sort      string `json:"sort" validate:"oneof=id title imdb_rating"`
	SortOrder string `json:"sort_order" validate:"oneof=asc desc"`
	Limit     int    `json:"limit" validate:"min=0"`
	Page      int    `json:"page" validate:"min=1"`
}

// DefaultSearchParams 未传参时的默认值
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Sort:      SortID,
		SortOrder: SortOrderAsc,
		Limit:     50,
		Page:      1,
	}
}

// Offset 由页码和每页条数换算的起始位置
func (p SearchParams) Offset() int {
	return p.Limit * (p.Page - 1)
}

// LoadFailure 批量写入中被拒绝的单个文档
type LoadFailure struct {
	ID     string `json:"id"`
	Status int    `json:"status"`
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// LoadReport 批量写入结果
type LoadReport struct {
	Total    int           `json:"total"`
	Accepted int           `json:"accepted"`
	Failures []LoadFailure `json:"failures"`
}

// Failed 是否存在部分失败
func (r *LoadReport) Failed() bool {
	return len(r.Failures) > 0
}

// FailedIDs 失败文档 ID，保持响应顺序
func (r *LoadReport) FailedIDs() []string {
	ids := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		ids = append(ids, f.ID)
	}
	return ids
}

// Merge 合并分块写入的结果
func (r *LoadReport) Merge(other *LoadReport) {
	if other == nil {
		return
	}
	r.Total += other.Total
	r.Accepted += other.Accepted
	r.Failures = append(r.Failures, other.Failures...)
}
