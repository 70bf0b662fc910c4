package service

import (
	"errors"
	"log"
	"strconv"

	"github.com/user/moviesearch/internal/model"
	"github.com/user/moviesearch/internal/utils"
)

var errMissingWriterID = errors.New("writer reference without id")

// Transform 将一行源数据转换为索引文档
// 纯函数：同样的输入总是得到同样的文档
func Transform(row model.RawRow, writersDict map[string]model.WriterRecord) (model.MovieDocument, error) {
	rating, err := parseRating(row)
	if err != nil {
		return model.MovieDocument{}, err
	}

	actors, actorsNames, err := parseActors(row)
	if err != nil {
		return model.MovieDocument{}, err
	}

	writers, err := ResolveWriters(row.ID, row.Writers, writersDict)
	if err != nil {
		return model.MovieDocument{}, err
	}

	return model.MovieDocument{
		ID:           row.ID,
		ImdbRating:   rating,
		Director:     parseDirector(row.Director),
		Genre:        parseGenre(row.Genre),
		Title:        row.Title,
		Actors:       actors,
		ActorsNames:  actorsNames,
		Writers:      writers,
		WritersNames: WriterNames(writers),
		Description:  optional(row.Description),
	}, nil
}

// TransformAll 依次转换所有行，遇到第一个错误即中止
func TransformAll(rows []model.RawRow, writersDict map[string]model.WriterRecord) ([]model.MovieDocument, error) {
	docs := make([]model.MovieDocument, 0, len(rows))
	for _, row := range rows {
		doc, err := Transform(row, writersDict)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func parseRating(row model.RawRow) (*float64, error) {
	if row.ImdbRating == nil || utils.IsNotAvailable(*row.ImdbRating) {
		return nil, nil
	}
	v, err := strconv.ParseFloat(*row.ImdbRating, 64)
	if err != nil {
		return nil, &model.TransformError{MovieID: row.ID, Field: "imdb_rating", Err: err}
	}
	return &v, nil
}

func parseDirector(director *string) []string {
	if director == nil || utils.IsNotAvailable(*director) {
		return nil
	}
	return utils.SplitTrim(*director)
}

// parseGenre 类型为 N/A 时返回空列表而不是 nil
func parseGenre(genre string) []string {
	if utils.IsNotAvailable(genre) {
		return []string{}
	}
	return utils.SplitCompact(genre)
}

// parseActors 演员 ID 与姓名按位置配对，丢弃姓名为 N/A 的演员
func parseActors(row model.RawRow) ([]model.ActorRecord, []string, error) {
	actors := []model.ActorRecord{}
	names := []string{}
	if row.ActorsNames == nil || row.ActorsIDs == nil {
		return actors, names, nil
	}

	rawIDs := utils.SplitList(*row.ActorsIDs)
	rawNames := utils.SplitList(*row.ActorsNames)
	n := min(len(rawIDs), len(rawNames))
	if len(rawIDs) != len(rawNames) {
		log.Printf("[Transform] 电影 %s 演员 ID 与姓名数量不一致: %d != %d，按较短者配对",
			row.ID, len(rawIDs), len(rawNames))
	}

	for i := 0; i < n; i++ {
		name := rawNames[i]
		if utils.IsNotAvailable(name) {
			continue
		}
		id, err := strconv.Atoi(rawIDs[i])
		if err != nil {
			return nil, nil, &model.TransformError{MovieID: row.ID, Field: "actors_ids", Err: err}
		}
		actors = append(actors, model.ActorRecord{ID: id, Name: name})
		names = append(names, name)
	}
	return actors, names, nil
}

func optional(s *string) *string {
	if s == nil || utils.IsNotAvailable(*s) {
		return nil
	}
	v := *s
	return &v
}
