package model

// NotAvailable 源数据中表示"未知"的占位值
const NotAvailable = "N/A"

// RawRow 关系库中的一行电影记录（已按电影聚合演员）
type RawRow struct {
	ID          string  `json:"id" db:"id"`
	Title       string  `json:"title" db:"title"`
	Description *string `json:"description" db:"description"`
	Director    *string `json:"director" db:"director"`
	Genre       string  `json:"genre" db:"genre"`
	ImdbRating  *string `json:"imdb_rating" db:"imdb_rating"`
	ActorsNames *string `json:"actors_names" db:"actors_names"`
	ActorsIDs   *string `json:"actors_ids" db:"actors_ids"`
	Writers     string  `json:"writers" db:"writers"` // JSON: [{"id": "..."}]
}

// WriterRecord 编剧
type WriterRecord struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// ActorRecord 演员
type ActorRecord struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieDocument 写入索引的电影文档
type MovieDocument struct {
	ID           string         `json:"id"`
	ImdbRating   *float64       `json:"imdb_rating"`
	Director     []string       `json:"director"`
	Genre        []string       `json:"genre"`
	Title        string         `json:"title"`
	Actors       []ActorRecord  `json:"actors"`
	ActorsNames  []string       `json:"actors_names"`
	Writers      []WriterRecord `json:"writers"`
	WritersNames []string       `json:"writers_names"`
	Description  *string        `json:"description"`
}

// ShortMovie 搜索列表中的电影摘要
type ShortMovie struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	ImdbRating *float64 `json:"imdb_rating"`
}

// Movie 详情接口返回的电影
type Movie struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	ImdbRating  *float64       `json:"imdb_rating"`
	Description *string        `json:"description"`
	Genre       []string       `json:"genre"`
	Director    []string       `json:"director"`
	Writers     []WriterRecord `json:"writers"`
	Actors      []ActorRecord  `json:"actors"`
}

// ToMovie 投影为详情接口结构
func (d *MovieDocument) ToMovie() *Movie {
	return &Movie{
		ID:          d.ID,
		Title:       d.Title,
		ImdbRating:  d.ImdbRating,
		Description: d.Description,
		Genre:       d.Genre,
		Director:    d.Director,
		Writers:     d.Writers,
		Actors:      d.Actors,
	}
}
