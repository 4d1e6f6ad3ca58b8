package pagesync

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pdekker/confluence-sync/confluence"
	"github.com/pdekker/confluence-sync/localstore"
)

// requestTimeout bounds every individual REST call; a hung server surfaces as
// a typed error instead of a stuck invocation.
const requestTimeout = 15 * time.Second

// Downloader walks a page tree and persists every visited page into a flat
// local store.
type Downloader struct {
	API    *confluence.API
	Store  *localstore.Store
	Format localstore.Format

	// MaxDepth bounds descent.  The root is depth 0 and is always persisted;
	// the limit only ever stops us going deeper.
	MaxDepth int

	Logger *log.Logger
}

type node struct {
	id    string
	depth int
}

// DownloadTree visits the root and its descendants up to MaxDepth, writing
// each page through the store.  The walk is all-or-nothing: the first failed
// fetch or write aborts it.  An explicit stack plus a visited set keeps
// hierarchies of untrusted depth (and diamond-shaped ones) from recursing
// forever; a page reachable via two parents is persisted once, first path
// wins.
func (d *Downloader) DownloadTree(ctx context.Context, rootID string) error {
	if _, err := confluence.ParsePageID(rootID); err != nil {
		return err
	}

	visited := map[string]bool{}
	stack := []node{{id: rootID, depth: 0}}
	persisted := 0

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[n.id] {
			continue
		}
		visited[n.id] = true

		page, err := d.fetchPage(ctx, n.id)
		if err != nil {
			return fmt.Errorf("pagesync: fetching page %s failed: %w", n.id, err)
		}

		record, err := d.buildRecord(page)
		if err != nil {
			return fmt.Errorf("pagesync: couldn't build record for page %s: %w", n.id, err)
		}

		name, err := d.Store.WriteRecord(record, page.Title)
		if err != nil {
			return fmt.Errorf("pagesync: couldn't persist page %s: %w", n.id, err)
		}
		d.Logger.Printf("Fetched: %s (v%d) -> %s\n", page.Title, record.Header.Version, name)
		persisted++

		if n.depth >= d.MaxDepth {
			continue
		}

		children, err := d.listChildren(ctx, n.id)
		if err != nil {
			return fmt.Errorf("pagesync: listing children of page %s failed: %w", n.id, err)
		}

		// push in reverse so children are visited in server order
		for i := len(children) - 1; i >= 0; i-- {
			if !visited[children[i].ID] {
				stack = append(stack, node{id: children[i].ID, depth: n.depth + 1})
			}
		}
	}

	d.Logger.Printf("Persisted %d pages.\n", persisted)
	return nil
}

func (d *Downloader) fetchPage(ctx context.Context, id string) (*confluence.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	return d.API.GetPage(ctx, id)
}

func (d *Downloader) listChildren(ctx context.Context, id string) ([]confluence.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	return d.API.ListChildren(ctx, id)
}

// buildRecord selects the requested body representation and assembles the
// front-matter metadata the upload path will later rely on.
func (d *Downloader) buildRecord(page *confluence.Page) (localstore.Record, error) {
	if page.Version == nil {
		return localstore.Record{}, fmt.Errorf("pagesync: found nil .Version field for page %s", page.ID)
	}

	var body string
	switch d.Format {
	case localstore.FormatView:
		if page.Body.View == nil {
			return localstore.Record{}, fmt.Errorf("pagesync: found nil .Body.View field for page %s", page.ID)
		}
		body = page.Body.View.Value

	case localstore.FormatMarkdown:
		markdown, err := d.convertToMarkdown(page)
		if err != nil {
			return localstore.Record{}, err
		}
		body = markdown

	default:
		if page.Body.Storage == nil {
			return localstore.Record{}, fmt.Errorf("pagesync: found nil .Body.Storage field for page %s", page.ID)
		}
		body = page.Body.Storage.Value
	}

	var space string
	if page.Space != nil {
		space = page.Space.Key
	}

	counts := localstore.CountMacros(body)

	header := localstore.RecordHeader{
		Source:               d.API.BaseURI.String() + page.Links.WebUI,
		ConfluenceID:         page.ID,
		Space:                space,
		Version:              page.Version.Number,
		Retrieved:            time.Now().Format(time.RFC3339),
		Format:               d.Format,
		ContentHash:          localstore.Fingerprint(body),
		MacroStructuredMacro: counts.StructuredMacro,
		MacroImage:           counts.Image,
		MacroLink:            counts.Link,
	}

	return localstore.Record{Header: header, Body: body}, nil
}
