package service

import (
	"encoding/json"

	"github.com/user/moviesearch/internal/model"
	"github.com/user/moviesearch/internal/utils"
)

// ResolveWriters 将行内编剧引用解析为完整编剧记录
// 按源顺序保留：字典中存在、姓名不是 N/A、且本行尚未出现过的编剧
// 引用缺少 id 键视为数据错误；id 为 null 或不是字符串的引用查不到字典，直接跳过
func ResolveWriters(movieID, raw string, dict map[string]model.WriterRecord) ([]model.WriterRecord, error) {
	var refs []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &refs); err != nil {
		return nil, &model.TransformError{MovieID: movieID, Field: "writers", Err: err}
	}

	writers := make([]model.WriterRecord, 0, len(refs))
	seen := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		rawID, ok := ref["id"]
		if !ok {
			return nil, &model.TransformError{MovieID: movieID, Field: "writers", Err: errMissingWriterID}
		}
		var id string
		if err := json.Unmarshal(rawID, &id); err != nil {
			continue
		}
		w, ok := dict[id]
		if !ok || utils.IsNotAvailable(w.Name) {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		writers = append(writers, w)
	}
	return writers, nil
}

// WriterNames 编剧姓名投影，顺序与 writers 一致
func WriterNames(writers []model.WriterRecord) []string {
	names := make([]string, 0, len(writers))
	for _, w := range writers {
		names = append(names, w.Name)
	}
	return names
}
