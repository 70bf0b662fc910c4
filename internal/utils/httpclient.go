package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/olivere/elastic/v7"
)

// ErrMissingErrorsFlag 批量响应缺少 errors 字段，无法判断写入结果
var ErrMissingErrorsFlag = errors.New("bulk response has no errors flag")

// NewESClient 创建索引服务客户端
// 一次 ETL 运行或一个 API 进程持有一个实例，连接复用 keep-alive；
// 关闭嗅探和健康检查，只访问配置的地址
// connectTimeout 限制建立连接的时间，requestTimeout 限制整个请求
func NewESClient(baseURL string, connectTimeout, requestTimeout time.Duration) (*elastic.Client, error) {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: connectTimeout,
	}

	client, err := elastic.NewClient(
		elastic.SetURL(strings.TrimRight(baseURL, "/")),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
		elastic.SetHttpClient(&http.Client{
			Timeout:   requestTimeout,
			Transport: transport,
		}),
		elastic.SetDecoder(esDecoder{}),
	)
	if err != nil {
		return nil, fmt.Errorf("创建索引服务客户端失败: %w", err)
	}
	return client, nil
}

// ESStatus 从客户端错误中取 HTTP 状态码，传输层错误返回 0
func ESStatus(err error) int {
	var e *elastic.Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// esDecoder 批量响应单独解析，其余与默认解码一致
type esDecoder struct{}

func (esDecoder) Decode(data []byte, v interface{}) error {
	if resp, ok := v.(*elastic.BulkResponse); ok {
		return DecodeBulkResponse(data, resp)
	}
	return json.Unmarshal(data, v)
}

// DecodeBulkResponse 解析 _bulk 响应
// 条目既可以是 {"index": {"_id": ..}}，也可以是字段直接在条目上的 {"_id": .., "error": ..}，
// 后者统一归到 "index" 下
func DecodeBulkResponse(data []byte, resp *elastic.BulkResponse) error {
	var raw struct {
		Took   int                          `json:"took"`
		Errors *bool                        `json:"errors"`
		Items  []map[string]json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("解析批量响应失败: %w, 响应体: %s", err, truncate(data, 512))
	}
	if raw.Errors == nil {
		return ErrMissingErrorsFlag
	}

	resp.Took = raw.Took
	resp.Errors = *raw.Errors
	resp.Items = make([]map[string]*elastic.BulkResponseItem, 0, len(raw.Items))
	for i, item := range raw.Items {
		if isFlatBulkItem(item) {
			b, err := json.Marshal(item)
			if err != nil {
				return fmt.Errorf("解析第 %d 条批量结果失败: %w", i, err)
			}
			var flat elastic.BulkResponseItem
			if err := json.Unmarshal(b, &flat); err != nil {
				return fmt.Errorf("解析第 %d 条批量结果失败: %w", i, err)
			}
			resp.Items = append(resp.Items, map[string]*elastic.BulkResponseItem{"index": &flat})
			continue
		}

		nested := make(map[string]*elastic.BulkResponseItem, len(item))
		for op, body := range item {
			var result elastic.BulkResponseItem
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("解析第 %d 条批量结果失败: %w", i, err)
			}
			nested[op] = &result
		}
		resp.Items = append(resp.Items, nested)
	}
	return nil
}

func isFlatBulkItem(item map[string]json.RawMessage) bool {
	_, hasID := item["_id"]
	_, hasErr := item["error"]
	return hasID || hasErr
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
