package model

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable 关系库无法打开或查询失败，整次运行终止
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrTransform 行数据格式错误
	ErrTransform = errors.New("transform failed")
	// ErrLoad 与索引服务通信失败
	ErrLoad = errors.New("load failed")
)

// TransformError 单行转换失败
type TransformError struct {
	MovieID string
	Field   string
	Err     error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform movie %s: field %s: %v", e.MovieID, e.Field, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }

// Is 使 errors.Is(err, ErrTransform) 成立
func (e *TransformError) Is(target error) bool { return target == ErrTransform }

// LoadError 批量写入的传输或解析失败
type LoadError struct {
	Op     string
	Status int
	Err    error
}

func (e *LoadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("load %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Op, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrLoad }
