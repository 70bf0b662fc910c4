package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/moviesearch/internal/model"
)

func strPtr(s string) *string { return &s }

var testWriters = map[string]model.WriterRecord{
	"w1": {ID: "w1", Name: "Writer One"},
	"w2": {ID: "w2", Name: "N/A"},
	"w3": {ID: "w3", Name: "Writer Three"},
}

func TestTransform_ExampleRow(t *testing.T) {
	row := model.RawRow{
		ID:          "tt1",
		Title:       "X",
		ImdbRating:  strPtr("N/A"),
		Director:    strPtr("N/A"),
		Genre:       "Action, Drama",
		ActorsNames: strPtr("Bob,N/A"),
		ActorsIDs:   strPtr("1,2"),
		Writers:     "[]",
	}

	doc, err := Transform(row, testWriters)
	require.NoError(t, err)

	b, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "tt1",
		"title": "X",
		"imdb_rating": null,
		"director": null,
		"genre": ["Action", "Drama"],
		"actors": [{"id": 1, "name": "Bob"}],
		"actors_names": ["Bob"],
		"writers": [],
		"writers_names": [],
		"description": null
	}`, string(b))
}

func TestTransform_FullRow(t *testing.T) {
	row := model.RawRow{
		ID:          "tt2",
		Title:       "Y",
		Description: strPtr("A plot"),
		ImdbRating:  strPtr("7.5"),
		Director:    strPtr("Jane Doe, John Roe"),
		Genre:       "Comedy",
		ActorsNames: strPtr("Alice,Carol"),
		ActorsIDs:   strPtr("3,4"),
		Writers:     `[{"id": "w3"}, {"id": "w1"}, {"id": "w3"}, {"id": "w2"}, {"id": "missing"}]`,
	}

	doc, err := Transform(row, testWriters)
	require.NoError(t, err)

	require.NotNil(t, doc.ImdbRating)
	assert.InDelta(t, 7.5, *doc.ImdbRating, 1e-9)
	assert.Equal(t, []string{"Jane Doe", "John Roe"}, doc.Director)
	assert.Equal(t, []string{"Comedy"}, doc.Genre)
	require.NotNil(t, doc.Description)
	assert.Equal(t, "A plot", *doc.Description)
	assert.Equal(t, []model.ActorRecord{{ID: 3, Name: "Alice"}, {ID: 4, Name: "Carol"}}, doc.Actors)
	assert.Equal(t, []string{"Alice", "Carol"}, doc.ActorsNames)
	assert.Equal(t, []model.WriterRecord{{ID: "w3", Name: "Writer Three"}, {ID: "w1", Name: "Writer One"}}, doc.Writers)
	assert.Equal(t, []string{"Writer Three", "Writer One"}, doc.WritersNames)
}

func TestTransform_Deterministic(t *testing.T) {
	row := model.RawRow{
		ID:          "tt3",
		Title:       "Z",
		ImdbRating:  strPtr("6.1"),
		Genre:       "Horror,Thriller",
		ActorsNames: strPtr("A,B,N/A,C"),
		ActorsIDs:   strPtr("1,2,3,4"),
		Writers:     `[{"id": "w1"}]`,
	}

	first, err := Transform(row, testWriters)
	require.NoError(t, err)
	second, err := Transform(row, testWriters)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTransform_SentinelsBecomeNull(t *testing.T) {
	row := model.RawRow{
		ID:          "tt4",
		Title:       "N/A",
		Description: strPtr("N/A"),
		ImdbRating:  strPtr("N/A"),
		Director:    strPtr("N/A"),
		Genre:       "N/A",
		Writers:     "[]",
	}

	doc, err := Transform(row, testWriters)
	require.NoError(t, err)

	assert.Nil(t, doc.Description)
	assert.Nil(t, doc.ImdbRating)
	assert.Nil(t, doc.Director)
	// 标题没有占位值处理，原样保留
	assert.Equal(t, "N/A", doc.Title)
	assert.NotNil(t, doc.Genre)
	assert.Empty(t, doc.Genre)
}

func TestTransform_NullColumns(t *testing.T) {
	row := model.RawRow{
		ID:          "tt5",
		Title:       "W",
		Genre:       "",
		ActorsNames: strPtr("Bob"),
		ActorsIDs:   nil,
		Writers:     "[]",
	}

	doc, err := Transform(row, testWriters)
	require.NoError(t, err)

	assert.Nil(t, doc.ImdbRating)
	assert.Nil(t, doc.Director)
	assert.Nil(t, doc.Description)
	assert.Equal(t, []string{""}, doc.Genre)
	assert.NotNil(t, doc.Actors)
	assert.Empty(t, doc.Actors)
	assert.NotNil(t, doc.ActorsNames)
	assert.Empty(t, doc.ActorsNames)
}

func TestTransform_ActorAlignment(t *testing.T) {
	tests := []struct {
		name      string
		names     string
		ids       string
		wantIDs   []int
		wantNames []string
	}{
		{"all kept", "A,B,C", "1,2,3", []int{1, 2, 3}, []string{"A", "B", "C"}},
		{"sentinel in middle", "A,N/A,C", "1,2,3", []int{1, 3}, []string{"A", "C"}},
		{"all sentinels", "N/A,N/A", "1,2", []int{}, []string{}},
		{"sentinel id is never parsed", "A,N/A", "1,x", []int{1}, []string{"A"}},
		{"more names than ids", "A,B,C", "1,2", []int{1, 2}, []string{"A", "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := model.RawRow{ID: "tt", Genre: "Drama", Writers: "[]",
				ActorsNames: strPtr(tt.names), ActorsIDs: strPtr(tt.ids)}

			doc, err := Transform(row, nil)
			require.NoError(t, err)

			require.Len(t, doc.ActorsNames, len(doc.Actors))
			gotIDs := make([]int, 0, len(doc.Actors))
			for i, a := range doc.Actors {
				assert.Equal(t, a.Name, doc.ActorsNames[i])
				gotIDs = append(gotIDs, a.ID)
			}
			assert.Equal(t, tt.wantIDs, gotIDs)
			assert.Equal(t, tt.wantNames, doc.ActorsNames)
		})
	}
}

func TestTransform_Errors(t *testing.T) {
	tests := []struct {
		name  string
		row   model.RawRow
		field string
	}{
		{
			name:  "non numeric rating",
			row:   model.RawRow{ID: "bad1", ImdbRating: strPtr("eight"), Writers: "[]"},
			field: "imdb_rating",
		},
		{
			name:  "non numeric actor id",
			row:   model.RawRow{ID: "bad2", ActorsNames: strPtr("Bob"), ActorsIDs: strPtr("nm01"), Writers: "[]"},
			field: "actors_ids",
		},
		{
			name:  "malformed writers json",
			row:   model.RawRow{ID: "bad3", Writers: `[{"id": "w1"`},
			field: "writers",
		},
		{
			name:  "writer reference without id",
			row:   model.RawRow{ID: "bad4", Writers: `[{"name": "w1"}]`},
			field: "writers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Transform(tt.row, testWriters)
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrTransform)

			var terr *model.TransformError
			require.ErrorAs(t, err, &terr)
			assert.Equal(t, tt.row.ID, terr.MovieID)
			assert.Equal(t, tt.field, terr.Field)
		})
	}
}

func TestTransformAll_StopsAtFirstError(t *testing.T) {
	rows := []model.RawRow{
		{ID: "ok", Genre: "Drama", Writers: "[]"},
		{ID: "bad", ImdbRating: strPtr("x"), Writers: "[]"},
		{ID: "never", Writers: "not json"},
	}

	docs, err := TransformAll(rows, testWriters)
	assert.Nil(t, docs)

	var terr *model.TransformError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "bad", terr.MovieID)
}

func TestResolveWriters_DedupFirstOccurrence(t *testing.T) {
	raw := `[{"id": "w1"}, {"id": "w3"}, {"id": "w1"}, {"id": "w3"}, {"id": "w2"}]`

	writers, err := ResolveWriters("tt", raw, testWriters)
	require.NoError(t, err)

	assert.Equal(t, []model.WriterRecord{
		{ID: "w1", Name: "Writer One"},
		{ID: "w3", Name: "Writer Three"},
	}, writers)

	seen := make(map[string]bool)
	for _, w := range writers {
		assert.False(t, seen[w.ID], "duplicate writer %s", w.ID)
		seen[w.ID] = true
	}
}

func TestResolveWriters_EmptyDictionary(t *testing.T) {
	writers, err := ResolveWriters("tt", `[{"id": "w1"}]`, nil)
	require.NoError(t, err)
	assert.NotNil(t, writers)
	assert.Empty(t, writers)
}

func TestResolveWriters_NonStringIDsSkipped(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"null id", `[{"id": null}, {"id": "w1"}]`},
		{"numeric id", `[{"id": 7}, {"id": "w1"}]`},
		{"object id", `[{"id": {"v": "w1"}}, {"id": "w1"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writers, err := ResolveWriters("tt", tt.raw, testWriters)
			require.NoError(t, err)
			assert.Equal(t, []model.WriterRecord{{ID: "w1", Name: "Writer One"}}, writers)
		})
	}
}

func TestTransform_NullWriterIDKeepsRow(t *testing.T) {
	row := model.RawRow{ID: "tt9", Genre: "Drama", Title: "Z", Writers: `[{"id": null}, {"id": "w1"}]`}

	doc, err := Transform(row, testWriters)
	require.NoError(t, err)
	assert.Equal(t, []string{"Writer One"}, doc.WritersNames)
}
