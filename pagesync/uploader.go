package pagesync

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/pdekker/confluence-sync/confluence"
	"github.com/pdekker/confluence-sync/internal/termfmt"
	"github.com/pdekker/confluence-sync/localstore"
)

// Uploader pushes locally edited records back to the wiki.  Unlike the
// download walk, the batch has partial-success semantics: each file stands or
// falls on its own, and one bad file never blocks the rest.
type Uploader struct {
	API    *confluence.API
	Store  *localstore.Store
	DryRun bool

	// Progress enables the terminal progress bar; tests leave it off.
	Progress bool

	Logger *log.Logger
}

// Summary is the outcome of one upload pass, per file.
type Summary struct {
	Updated     []string
	WouldUpdate []string
	Skipped     []string
	Failed      []FileError
}

type FileError struct {
	Name string
	Err  error
}

// SyncAll processes every record in the store in sorted order.  The returned
// error covers batch-level failures only (e.g. an unreadable store); per-file
// outcomes live in the summary.
func (u *Uploader) SyncAll(ctx context.Context) (Summary, error) {
	summary := Summary{}

	names, err := u.Store.List()
	if err != nil {
		return summary, fmt.Errorf("pagesync: couldn't list local records: %w", err)
	}
	if len(names) == 0 {
		u.Logger.Println("No local records found, nothing to upload.")
		return summary, nil
	}

	var progress *mpb.Progress
	var bar *mpb.Bar
	if u.Progress {
		progress = mpb.New(mpb.WithWidth(64))
		bar = progress.AddBar(int64(len(names)),
			mpb.PrependDecorators(
				decor.Name("upload:", decor.WC{C: decor.DindentRight | decor.DextraSpace}),
			),
			mpb.AppendDecorators(
				decor.CountersNoUnit("(%d/%d) "),
				decor.NewPercentage("%d"),
			),
		)
	}

	for _, name := range names {
		u.syncFile(ctx, name, &summary)
		if bar != nil {
			bar.Increment()
		}
	}

	if progress != nil {
		progress.Wait()
	}

	return summary, nil
}

func (u *Uploader) syncFile(ctx context.Context, name string, summary *Summary) {
	record, err := u.Store.ReadRecord(name)
	if err != nil {
		var malformed *localstore.MalformedRecordError
		if errors.As(err, &malformed) {
			u.Logger.Printf("%s %s: %v\n", termfmt.Paint(termfmt.Yellow, "Skipping"), name, err)
			summary.Skipped = append(summary.Skipped, name)
			return
		}
		summary.Failed = append(summary.Failed, FileError{Name: name, Err: err})
		return
	}

	header := record.Header

	// a file without an identity cannot be synced.
	if header.ConfluenceID == "" {
		u.Logger.Printf("%s %s: no confluence_id in front matter\n", termfmt.Paint(termfmt.Yellow, "Skipping"), name)
		summary.Skipped = append(summary.Skipped, name)
		return
	}

	// the PUT endpoint accepts storage representation only.
	if header.Format != "" && header.Format != localstore.FormatStorage {
		u.Logger.Printf("%s %s: format %q cannot be uploaded, re-download with --format storage\n",
			termfmt.Paint(termfmt.Yellow, "Skipping"), name, header.Format)
		summary.Skipped = append(summary.Skipped, name)
		return
	}

	// A recorded hash that matches the recomputed one means nobody edited the
	// body since download (or since the last successful upload): no-op.  No
	// recorded hash at all means first-time sync, always proceed.
	currentHash := localstore.Fingerprint(record.Body)
	if header.ContentHash != "" && currentHash == header.ContentHash {
		u.Logger.Printf("Unchanged: %s\n", name)
		summary.Skipped = append(summary.Skipped, name)
		return
	}

	counts := localstore.CountMacros(record.Body)
	u.warnDecrease(name, "structured-macro", header.MacroStructuredMacro, counts.StructuredMacro)
	u.warnDecrease(name, "image", header.MacroImage, counts.Image)
	u.warnDecrease(name, "link", header.MacroLink, counts.Link)

	// Re-fetch right before writing so the version number is as fresh as it
	// can be.  Best effort: the conflict window shrinks, it never closes.
	remote, err := u.fetchPage(ctx, header.ConfluenceID)
	if err != nil {
		u.Logger.Printf("%s %s: %v\n", termfmt.Paint(termfmt.Red, "Failed"), name, err)
		summary.Failed = append(summary.Failed, FileError{Name: name, Err: err})
		return
	}
	if remote.Version == nil {
		err := fmt.Errorf("pagesync: page %s carried no version information", header.ConfluenceID)
		u.Logger.Printf("%s %s: %v\n", termfmt.Paint(termfmt.Red, "Failed"), name, err)
		summary.Failed = append(summary.Failed, FileError{Name: name, Err: err})
		return
	}

	if u.DryRun {
		u.Logger.Printf("[dry-run] Would update %q (ID %s) from v%d to v%d.\n",
			remote.Title, header.ConfluenceID, remote.Version.Number, remote.Version.Number+1)
		summary.WouldUpdate = append(summary.WouldUpdate, name)
		return
	}

	newVersion, err := u.updatePage(ctx, header.ConfluenceID, remote.Title, record.Body, remote.Version.Number)
	if err != nil {
		u.Logger.Printf("%s %s: %v\n", termfmt.Paint(termfmt.Red, "Failed"), name, err)
		summary.Failed = append(summary.Failed, FileError{Name: name, Err: err})
		return
	}

	u.Logger.Printf("%s %q (ID %s), now at v%d.\n",
		termfmt.Paint(termfmt.Green, "Updated"), remote.Title, header.ConfluenceID, newVersion)
	summary.Updated = append(summary.Updated, name)

	// Refresh the header in place so an immediate re-run is a no-op.
	header.ContentHash = currentHash
	header.Version = newVersion
	header.MacroStructuredMacro = counts.StructuredMacro
	header.MacroImage = counts.Image
	header.MacroLink = counts.Link
	record.Header = header

	if err := u.Store.WriteRecordAs(name, record); err != nil {
		// the remote update already succeeded, so only warn.
		u.Logger.Printf("%s couldn't refresh local header for %s: %v\n",
			termfmt.Paint(termfmt.Yellow, "Warning:"), name, err)
	}
}

// warnDecrease flags possible accidental loss of embedded rich content during
// manual editing.  Never blocks the upload.
func (u *Uploader) warnDecrease(name string, what string, recorded int, current int) {
	if recorded > 0 && current < recorded {
		u.Logger.Printf("%s %s count decreased in %s: %d, was %d.  Verify nothing was lost.\n",
			termfmt.Paint(termfmt.Yellow, "Warning:"), what, name, current, recorded)
	}
}

func (u *Uploader) fetchPage(ctx context.Context, id string) (*confluence.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	return u.API.GetPage(ctx, id)
}

func (u *Uploader) updatePage(ctx context.Context, id string, title string, body string, expectedVersion int) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	return u.API.UpdatePage(ctx, id, title, body, expectedVersion)
}
