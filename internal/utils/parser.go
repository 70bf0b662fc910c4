package utils

import (
	"strings"
	"unicode"

	"github.com/user/moviesearch/internal/model"
)

// IsNotAvailable 判断是否为占位值 "N/A"
func IsNotAvailable(s string) bool {
	return s == model.NotAvailable
}

// SplitTrim 按逗号分割并去除每项首尾空白，保持顺序
// "Jane Doe, John Roe" -> ["Jane Doe", "John Roe"]
func SplitTrim(s string) []string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// SplitCompact 去掉所有空白后按逗号分割
// "Action, Drama" -> ["Action", "Drama"]；空串得到 [""]
func SplitCompact(s string) []string {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return strings.Split(compact, ",")
}

// SplitList 按逗号分割，不做任何清理
func SplitList(s string) []string {
	return strings.Split(s, ",")
}
