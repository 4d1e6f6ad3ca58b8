package pagesync

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdekker/confluence-sync/confluence"
	"github.com/pdekker/confluence-sync/localstore"
)

// fakeWiki is an in-memory stand-in for the v1 content API, just enough for
// the walk and sync paths: page retrieval, child listing and versioned update.
type fakeWiki struct {
	t     *testing.T
	pages map[string]*fakePage

	// pages that answer every update with a version conflict.
	conflictOn map[string]bool

	pageGets   int
	childLists int
	updates    int
}

type fakePage struct {
	title    string
	body     string
	version  int
	children []string
}

func newFakeWiki(t *testing.T, pages map[string]*fakePage) (*fakeWiki, *confluence.API) {
	t.Helper()

	wiki := &fakeWiki{t: t, pages: pages, conflictOn: map[string]bool{}}
	server := httptest.NewServer(wiki)
	t.Cleanup(server.Close)

	api, err := confluence.NewAPI(server.URL, "me@example.com", "secret-token")
	require.NoError(t, err)
	api.Client = server.Client()

	return wiki, api
}

func (f *fakeWiki) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/wiki/rest/api/content/")

	if childID, ok := strings.CutSuffix(id, "/child/page"); ok {
		f.childLists++
		f.serveChildren(w, childID)
		return
	}

	page, ok := f.pages[id]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "no content found with id"}`)
		return
	}

	switch r.Method {
	case http.MethodGet:
		f.pageGets++
		writeJSON(w, map[string]any{
			"id": id, "type": "page", "status": "current", "title": page.title,
			"space":   map[string]any{"key": "DOC"},
			"version": map[string]any{"number": page.version},
			"body": map[string]any{
				"storage": map[string]any{"value": page.body, "representation": "storage"},
				"view":    map[string]any{"value": "<p>rendered " + id + "</p>", "representation": "view"},
			},
			"_links": map[string]any{"webui": "/spaces/DOC/pages/" + id},
		})

	case http.MethodPut:
		f.updates++

		var payload struct {
			Title   string `json:"title"`
			Version struct {
				Number int `json:"number"`
			} `json:"version"`
			Body struct {
				Storage struct {
					Value string `json:"value"`
				} `json:"storage"`
			} `json:"body"`
		}
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&payload))

		if f.conflictOn[id] || payload.Version.Number != page.version+1 {
			w.WriteHeader(http.StatusConflict)
			fmt.Fprint(w, `{"message": "version must be incremented on update"}`)
			return
		}

		page.version = payload.Version.Number
		page.body = payload.Body.Storage.Value
		writeJSON(w, map[string]any{
			"id": id, "title": page.title,
			"version": map[string]any{"number": page.version},
		})
	}
}

func (f *fakeWiki) serveChildren(w http.ResponseWriter, id string) {
	page, ok := f.pages[id]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	results := []map[string]any{}
	for _, childID := range page.children {
		var title string
		if child, ok := f.pages[childID]; ok {
			title = child.title
		}
		results = append(results, map[string]any{"id": childID, "title": title})
	}
	writeJSON(w, map[string]any{
		"results": results, "size": len(results), "_links": map[string]any{},
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func newTestStore(t *testing.T) *localstore.Store {
	t.Helper()

	store, err := localstore.NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func newTestLogger(buf *strings.Builder) *log.Logger {
	return log.New(buf, "", 0)
}
