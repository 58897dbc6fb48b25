package triplestore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const emptyResults = `{"head":{"vars":[]},"results":{"bindings":[]}}`

func writeInsertFiles(t *testing.T, dir string, contents map[string]string) {
	t.Helper()
	for name, body := range contents {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
	}
}

func TestStore_PushExecutesInOrder(t *testing.T) {
	var received []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if upd := r.PostFormValue("update"); upd != "" {
			received = append(received, upd)
		}
		w.Header().Set("Content-Type", "application/sparql-results+json")
		w.Write([]byte(emptyResults))
	}))
	defer srv.Close()

	dir := t.TempDir()
	writeInsertFiles(t, dir, map[string]string{
		"insert-002.rq": "INSERT DATA { <b> <p> <o> }",
		"insert-001.rq": "INSERT DATA { <a> <p> <o> }",
		"insert-010.rq": "INSERT DATA { <c> <p> <o> }",
		"dataset-001.trig": "ignored",
		"notes.txt":        "ignored",
	})

	s, err := New(srv.URL)
	require.NoError(t, err)

	summary, err := s.Push(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Files)
	assert.Equal(t, 0, summary.Failures)
	require.Len(t, received, 3)
	assert.Contains(t, received[0], "<a>")
	assert.Contains(t, received[1], "<b>")
	assert.Contains(t, received[2], "<c>")
}

func TestStore_PushContinuesPastFailure(t *testing.T) {
	var count int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		count++
		if strings.Contains(r.PostFormValue("update"), "<bad>") {
			http.Error(w, "malformed update", http.StatusBadRequest)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	writeInsertFiles(t, dir, map[string]string{
		"insert-001.rq": "INSERT DATA { <bad> <p> <o> }",
		"insert-002.rq": "INSERT DATA { <good> <p> <o> }",
	})

	s, err := New(srv.URL)
	require.NoError(t, err)

	summary, err := s.Push(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Files)
	assert.Equal(t, 1, summary.Failures)
	assert.Equal(t, 2, count, "failure must not stop the remaining files")
}

func TestStore_PushEmptyDirErrors(t *testing.T) {
	s, err := New("http://localhost:9/sparql")
	require.NoError(t, err)

	_, err = s.Push(context.Background(), t.TempDir())
	assert.Error(t, err)
}

func TestStore_Select(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/sparql-results+json")
		w.Write([]byte(`{
			"head": {"vars": ["subject", "title"]},
			"results": {"bindings": [
				{
					"subject": {"type": "uri", "value": "http://example.org/doc/1"},
					"title": {"type": "literal", "value": "First document"}
				}
			]}
		}`))
	}))
	defer srv.Close()

	s, err := New(srv.URL)
	require.NoError(t, err)

	rows, err := s.Select("SELECT ?subject ?title WHERE { ?subject <http://purl.org/dc/terms/title> ?title }")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "http://example.org/doc/1", rows[0]["subject"].String())
	assert.Equal(t, "First document", rows[0]["title"].String())
}
