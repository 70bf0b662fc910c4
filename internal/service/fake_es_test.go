package service

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/olivere/elastic/v7"
	"github.com/stretchr/testify/require"
	"github.com/user/moviesearch/internal/utils"
)

// fakeES 内存版索引服务，只实现 _bulk、_doc 和 _search
type fakeES struct {
	t      *testing.T
	server *httptest.Server

	mu          sync.Mutex
	docs        map[string]map[string]json.RawMessage // index -> id -> source
	reject      map[string]string                     // id -> error type
	bulkCalls   int
	lastBulk    []byte
	lastSearch  map[string]interface{}
	searchPaths []string
}

func newFakeES(t *testing.T) *fakeES {
	t.Helper()
	f := &fakeES{
		t:      t,
		docs:   make(map[string]map[string]json.RawMessage),
		reject: make(map[string]string),
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeES) client() *elastic.Client {
	return newTestESClient(f.t, f.server.URL)
}

// newTestESClient 指向任意测试服务的客户端
func newTestESClient(t *testing.T, url string) *elastic.Client {
	t.Helper()
	client, err := utils.NewESClient(url, time.Second, 3*time.Second)
	require.NoError(t, err)
	t.Cleanup(client.Stop)
	return client
}

func (f *fakeES) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	path := strings.Trim(r.URL.Path, "/")
	parts := strings.Split(path, "/")

	switch {
	case r.Method == http.MethodPost && parts[len(parts)-1] == "_bulk":
		f.handleBulk(w, body)
	case r.Method == http.MethodGet && len(parts) == 3 && parts[1] == "_doc":
		f.handleGet(w, parts[0], parts[2])
	case (r.Method == http.MethodGet || r.Method == http.MethodPost) && len(parts) == 2 && parts[1] == "_search":
		f.handleSearch(w, parts[0], body)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeES) handleBulk(w http.ResponseWriter, body []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bulkCalls++
	f.lastBulk = body

	var items []map[string]interface{}
	hasErrors := false

	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		var action struct {
			Index struct {
				Index string `json:"_index"`
				ID    string `json:"_id"`
			} `json:"index"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &action); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if !scanner.Scan() {
			http.Error(w, "missing document line", http.StatusBadRequest)
			return
		}
		source := json.RawMessage(append([]byte(nil), scanner.Bytes()...))

		id := action.Index.ID
		if errType, ok := f.reject[id]; ok {
			hasErrors = true
			items = append(items, map[string]interface{}{
				"index": map[string]interface{}{
					"_index": action.Index.Index,
					"_id":    id,
					"status": 400,
					"error": map[string]interface{}{
						"type":   errType,
						"reason": fmt.Sprintf("failed to parse document %s", id),
					},
				},
			})
			continue
		}

		if f.docs[action.Index.Index] == nil {
			f.docs[action.Index.Index] = make(map[string]json.RawMessage)
		}
		f.docs[action.Index.Index][id] = source
		items = append(items, map[string]interface{}{
			"index": map[string]interface{}{
				"_index": action.Index.Index,
				"_id":    id,
				"status": 201,
				"result": "created",
			},
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"took":   3,
		"errors": hasErrors,
		"items":  items,
	})
}

func (f *fakeES) handleGet(w http.ResponseWriter, index, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	source, ok := f.docs[index][id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"_index": index, "_id": id, "found": false,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"_index": index, "_id": id, "found": true, "_source": source,
	})
}

func (f *fakeES) handleSearch(w http.ResponseWriter, index string, body []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var req map[string]interface{}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.lastSearch = req
	f.searchPaths = append(f.searchPaths, index)

	hits := []map[string]interface{}{}
	for id, source := range f.docs[index] {
		hits = append(hits, map[string]interface{}{"_id": id, "_source": source})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"took": 1,
		"hits": map[string]interface{}{
			"total": map[string]interface{}{"value": len(hits), "relation": "eq"},
			"hits":  hits,
		},
	})
}

func (f *fakeES) count(index string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.docs[index])
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
