package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/user/moviesearch/internal/config"
	"github.com/user/moviesearch/internal/model"
)

// 每部电影一行，演员姓名与 ID 聚合为两个顺序一致的逗号串
const sqliteMoviesQuery = `
	WITH x AS (
		SELECT ma.movie_id AS id,
		       group_concat(a.name) AS actors_names,
		       group_concat(a.id) AS actors_ids
		FROM movie_actors ma
		JOIN actors a ON a.id = ma.actor_id
		GROUP BY ma.movie_id
	)
	SELECT m.id, m.title, m.plot, m.director, m.genre, m.imdb_rating,
	       x.actors_names, x.actors_ids, m.writers, m.writer
	FROM movies m
	LEFT JOIN x ON x.id = m.id
	ORDER BY m.id
`

const postgresMoviesQuery = `
	WITH x AS (
		SELECT ma.movie_id AS id,
		       string_agg(a.name, ',' ORDER BY a.id) AS actors_names,
		       string_agg(a.id::text, ',' ORDER BY a.id) AS actors_ids
		FROM movie_actors ma
		JOIN actors a ON a.id = ma.actor_id
		GROUP BY ma.movie_id
	)
	SELECT m.id, m.title, m.plot, m.director, m.genre, m.imdb_rating,
	       x.actors_names, x.actors_ids, m.writers, m.writer
	FROM movies m
	LEFT JOIN x ON x.id = m.id
	ORDER BY m.id
`

const writersQuery = `SELECT DISTINCT id, name FROM writers`

// MovieRepository 电影源数据（只读）
type MovieRepository struct {
	db      *sql.DB
	dialect string
}

func NewMovieRepository(db *sql.DB, dialect string) *MovieRepository {
	return &MovieRepository{db: db, dialect: dialect}
}

// Extract 抽取全部电影行
func (r *MovieRepository) Extract(ctx context.Context) ([]model.RawRow, error) {
	query := sqliteMoviesQuery
	if r.dialect == config.DriverPostgres {
		query = postgresMoviesQuery
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: 查询电影失败: %v", model.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var records []model.RawRow
	for rows.Next() {
		var (
			row                           model.RawRow
			title, genre, writers, writer sql.NullString
			description, director, rating sql.NullString
			actorsNames, actorsIDs        sql.NullString
		)
		if err := rows.Scan(&row.ID, &title, &description, &director, &genre, &rating,
			&actorsNames, &actorsIDs, &writers, &writer); err != nil {
			return nil, fmt.Errorf("%w: 读取电影行失败: %v", model.ErrSourceUnavailable, err)
		}

		row.Title = title.String
		row.Genre = genre.String
		row.Description = nullable(description)
		row.Director = nullable(director)
		row.ImdbRating = nullable(rating)
		row.ActorsNames = nullable(actorsNames)
		row.ActorsIDs = nullable(actorsIDs)
		row.Writers = WritersField(writers.String, writer.String)

		records = append(records, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: 遍历电影行失败: %v", model.ErrSourceUnavailable, err)
	}

	return records, nil
}

// LoadWriters 加载编剧字典，按 ID 索引
func (r *MovieRepository) LoadWriters(ctx context.Context) (map[string]model.WriterRecord, error) {
	rows, err := r.db.QueryContext(ctx, writersQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: 查询编剧失败: %v", model.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	writers := make(map[string]model.WriterRecord)
	for rows.Next() {
		var w model.WriterRecord
		var name sql.NullString
		if err := rows.Scan(&w.ID, &name); err != nil {
			return nil, fmt.Errorf("%w: 读取编剧失败: %v", model.ErrSourceUnavailable, err)
		}
		w.Name = name.String
		writers[w.ID] = w
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: 遍历编剧失败: %v", model.ErrSourceUnavailable, err)
	}

	return writers, nil
}

// WritersField 返回电影的编剧引用 JSON
// 新数据存在 writers 列；为空时由旧的单值 writer 列合成 [{"id": writer}]
func WritersField(writers, writer string) string {
	if writers != "" {
		return writers
	}
	b, _ := json.Marshal([]map[string]string{{"id": writer}})
	return string(b)
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
