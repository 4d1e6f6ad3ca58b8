package pagesync

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdekker/confluence-sync/confluence"
	"github.com/pdekker/confluence-sync/localstore"
)

func TestDownloadTreeMarkdownFormat(t *testing.T) {
	d, _, _ := newTestDownloader(t, map[string]*fakePage{
		"100": {title: "Root", body: "<p>storage body</p>", version: 2},
	}, 0)
	d.Format = localstore.FormatMarkdown

	require.NoError(t, d.DownloadTree(context.Background(), "100"))

	record, err := d.Store.ReadRecord("100-root.md")
	require.NoError(t, err)
	assert.Equal(t, localstore.FormatMarkdown, record.Header.Format)
	assert.Equal(t, "rendered 100", strings.TrimSpace(record.Body))
}

func TestConvertToMarkdownResolvesRelativeLinks(t *testing.T) {
	_, api := newFakeWiki(t, map[string]*fakePage{})
	d := &Downloader{API: api, Format: localstore.FormatMarkdown}

	page := &confluence.Page{
		ID: "100",
		Body: confluence.Body{
			View: &confluence.Storage{
				Representation: "view",
				Value:          `<p>see <a href="/wiki/spaces/DOC/pages/200/Other">the other page</a></p>`,
			},
		},
	}

	markdown, err := d.convertToMarkdown(page)
	require.NoError(t, err)

	assert.Contains(t, markdown, "[the other page]")
	assert.Contains(t, markdown, api.BaseURI.Host)
	assert.Contains(t, markdown, "/wiki/spaces/DOC/pages/200/Other")
}
