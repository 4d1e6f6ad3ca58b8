package pagesync

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdekker/confluence-sync/confluence"
	"github.com/pdekker/confluence-sync/localstore"
)

func newTestDownloader(t *testing.T, wikiPages map[string]*fakePage, maxDepth int) (*Downloader, *fakeWiki, *strings.Builder) {
	t.Helper()

	wiki, api := newFakeWiki(t, wikiPages)
	logs := &strings.Builder{}

	d := &Downloader{
		API:      api,
		Store:    newTestStore(t),
		Format:   localstore.FormatStorage,
		MaxDepth: maxDepth,
		Logger:   newTestLogger(logs),
	}
	return d, wiki, logs
}

func TestDownloadTreeDepthBounded(t *testing.T) {
	d, wiki, _ := newTestDownloader(t, map[string]*fakePage{
		"100": {title: "Root", body: "<p>root</p>", version: 3, children: []string{"101", "102"}},
		"101": {title: "Guide", body: "<p>guide</p>", version: 1, children: []string{"103"}},
		"102": {title: "FAQ", body: "<p>faq</p>", version: 5},
		"103": {title: "Too Deep", body: "<p>deep</p>", version: 1},
	}, 1)

	require.NoError(t, d.DownloadTree(context.Background(), "100"))

	names, err := d.Store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"100-root.xhtml", "101-guide.xhtml", "102-faq.xhtml"}, names)

	// pages at the depth limit are persisted but never expanded.
	assert.Equal(t, 3, wiki.pageGets)
	assert.Equal(t, 1, wiki.childLists)

	record, err := d.Store.ReadRecord("101-guide.xhtml")
	require.NoError(t, err)
	assert.Equal(t, "101", record.Header.ConfluenceID)
	assert.Equal(t, "DOC", record.Header.Space)
	assert.Equal(t, 1, record.Header.Version)
	assert.Equal(t, localstore.FormatStorage, record.Header.Format)
	assert.Equal(t, "<p>guide</p>", record.Body)
	assert.Equal(t, localstore.Fingerprint("<p>guide</p>"), record.Header.ContentHash)
	assert.Contains(t, record.Header.Source, "/spaces/DOC/pages/101")
	assert.NotEmpty(t, record.Header.Retrieved)
}

func TestDownloadTreeDepthZeroIsSinglePage(t *testing.T) {
	d, wiki, _ := newTestDownloader(t, map[string]*fakePage{
		"100": {title: "Root", body: "<p>root</p>", version: 3, children: []string{"101"}},
		"101": {title: "Child", body: "<p>child</p>", version: 1},
	}, 0)

	require.NoError(t, d.DownloadTree(context.Background(), "100"))

	names, err := d.Store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"100-root.xhtml"}, names)
	assert.Zero(t, wiki.childLists)
}

func TestDownloadTreeVisitsDiamondOnce(t *testing.T) {
	// 103 is reachable through both 101 and 102; it must be fetched and
	// persisted exactly once.
	d, wiki, _ := newTestDownloader(t, map[string]*fakePage{
		"100": {title: "Root", body: "<p>r</p>", version: 1, children: []string{"101", "102"}},
		"101": {title: "Left", body: "<p>l</p>", version: 1, children: []string{"103"}},
		"102": {title: "Right", body: "<p>r</p>", version: 1, children: []string{"103"}},
		"103": {title: "Shared", body: "<p>s</p>", version: 1},
	}, 10)

	require.NoError(t, d.DownloadTree(context.Background(), "100"))

	names, err := d.Store.List()
	require.NoError(t, err)
	assert.Len(t, names, 4)
	assert.Equal(t, 4, wiki.pageGets)
}

func TestDownloadTreeAbortsOnFetchFailure(t *testing.T) {
	d, _, _ := newTestDownloader(t, map[string]*fakePage{
		"100": {title: "Root", body: "<p>r</p>", version: 1, children: []string{"101", "404404"}},
		"101": {title: "Fine", body: "<p>f</p>", version: 1},
	}, 5)

	err := d.DownloadTree(context.Background(), "100")

	var notFound *confluence.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "404404", notFound.PageID)
}

func TestDownloadTreeRejectsInvalidRoot(t *testing.T) {
	d, wiki, _ := newTestDownloader(t, map[string]*fakePage{}, 5)

	err := d.DownloadTree(context.Background(), "not-an-id")

	var invalid *confluence.InvalidIDError
	require.True(t, errors.As(err, &invalid))
	assert.Zero(t, wiki.pageGets)
}

func TestDownloadTreeViewFormat(t *testing.T) {
	d, _, _ := newTestDownloader(t, map[string]*fakePage{
		"100": {title: "Root", body: "<p>storage body</p>", version: 2},
	}, 0)
	d.Format = localstore.FormatView

	require.NoError(t, d.DownloadTree(context.Background(), "100"))

	record, err := d.Store.ReadRecord("100-root.html")
	require.NoError(t, err)
	assert.Equal(t, localstore.FormatView, record.Header.Format)
	assert.Equal(t, "<p>rendered 100</p>", record.Body)
}
