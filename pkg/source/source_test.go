package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mholzen/treegrid/pkg/hierarchy"
	"github.com/mholzen/treegrid/pkg/rowmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name        string
		spec        string
		opts        Options
		expectType  any
		expectError bool
	}{
		{name: "empty means sample", spec: "", expectType: rowmodel.StaticSource{}},
		{name: "sample", spec: "sample", expectType: rowmodel.StaticSource{}},
		{name: "json file", spec: "/tmp/records.json", expectType: FileSource("")},
		{name: "http", spec: "http://localhost:9999/records", expectType: &HTTPSource{}},
		{name: "http cached", spec: "https://example.com/records", opts: Options{CacheFile: "/tmp/cache.json"}, expectType: &CachedSource{}},
		{name: "neo4j", spec: "neo4j://localhost:7687", expectType: &Neo4jSource{}},
		{name: "bolt", spec: "bolt://localhost:7687", expectType: &Neo4jSource{}},
		{name: "unknown", spec: "ftp://nope", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Open(tt.spec, tt.opts)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.expectType, src)
			assert.NoError(t, Close(context.Background(), src))
		})
	}
}

func TestSample_BuildsForestWithOrphan(t *testing.T) {
	records, err := Sample().Records(context.Background())
	require.NoError(t, err)

	forest := hierarchy.BuildHierarchy(records)
	require.Len(t, forest, 3)
	assert.Nil(t, hierarchy.FindByID(forest, "switch-9"))
	assert.Len(t, hierarchy.Flatten(forest), len(records)-1)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	content := `[{"id":"a","data_path":["a"],"name":"A"},{"id":"b","data_path":["a","b"],"name":"B"}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	records, err := FileSource(path).Records(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []hierarchy.Record{
		{ID: "a", Path: []string{"a"}, Name: "A"},
		{ID: "b", Path: []string{"a", "b"}, Name: "B"},
	}, records)
}

func TestFileSource_Errors(t *testing.T) {
	_, err := FileSource("/nonexistent/records.json").Records(context.Background())
	assert.ErrorContains(t, err, "cannot open records file")

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err = FileSource(path).Records(context.Background())
	assert.ErrorContains(t, err, "cannot parse records file")
}

func TestHTTPSource(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"a","data_path":["a"],"name":"A"}]`))
	}))
	defer server.Close()

	records, err := NewHTTPSource(server.URL, WithBearerToken("secret")).Records(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth)
	require.Len(t, records, 1)
	assert.Equal(t, "A", records[0].Name)
}

func TestHTTPSource_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("slow down"))
	}))
	defer server.Close()

	_, err := NewHTTPSource(server.URL).Records(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	assert.Equal(t, "30", apiErr.RetryAfter)
	assert.Equal(t, "api 429: slow down", apiErr.Error())
}

func TestRecordFromValues(t *testing.T) {
	tests := []struct {
		name        string
		values      []any
		expected    hierarchy.Record
		expectError bool
	}{
		{
			name:     "driver list",
			values:   []any{"b", []any{"a", "b"}, "B"},
			expected: hierarchy.Record{ID: "b", Path: []string{"a", "b"}, Name: "B"},
		},
		{
			name:     "string slice",
			values:   []any{"a", []string{"a"}, "A"},
			expected: hierarchy.Record{ID: "a", Path: []string{"a"}, Name: "A"},
		},
		{
			name:     "null path and name",
			values:   []any{"a", nil, nil},
			expected: hierarchy.Record{ID: "a"},
		},
		{name: "too few columns", values: []any{"a"}, expectError: true},
		{name: "non string id", values: []any{1, nil, "A"}, expectError: true},
		{name: "non string path element", values: []any{"a", []any{1}, "A"}, expectError: true},
		{name: "path not a list", values: []any{"a", "a", "A"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := recordFromValues(tt.values)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, record)
		})
	}
}
