/*
Copyright © 2025 pdekker
*/
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdekker/confluence-sync/config"
	"github.com/pdekker/confluence-sync/confluence"
	"github.com/pdekker/confluence-sync/internal/termfmt"
	"github.com/pdekker/confluence-sync/localstore"
	"github.com/pdekker/confluence-sync/pagesync"
)

// uploadCmd represents the upload command
var uploadCmd = &cobra.Command{
	Use:   "upload [dir]",
	Short: "Upload locally edited pages back to Confluence",
	Long: `
Walk the content directory, find records whose body no longer matches the
fingerprint recorded at download time, and push each one back as a new page
version.  Files are processed independently: one failure never aborts the
batch.
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dirArg := ""
		if len(args) == 1 {
			dirArg = args[0]
		}
		debugLog("  DryRun: %v\n", DryRun)
		return runUpload(cmd.Context(), dirArg)
	},
}

var (
	DryRun        bool
	UploadWithVCR bool
)

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().BoolVar(&DryRun, "dry-run", false, "report intended updates without performing them")
	uploadCmd.Flags().BoolVar(&UploadWithVCR, "with-vcr", false, "use go-vcr to cache responses")
}

func runUpload(ctx context.Context, dirArg string) error {
	dir, err := contentDir(dirArg)
	if err != nil {
		return err
	}

	token, err := resolveToken()
	if err != nil {
		return err
	}

	settings, err := config.Resolve(dir, config.Overrides{
		BaseURL: BaseURL,
		Email:   AuthUsername,
		Token:   token,
	}, os.Getenv)
	if err != nil {
		return fmt.Errorf("confluence-sync: couldn't resolve configuration: %w", err)
	}
	if err := settings.Validate(config.NeedAuth); err != nil {
		return err
	}

	api, err := confluence.NewAPI(settings.BaseURL, settings.Email, settings.Token)
	if err != nil {
		return fmt.Errorf("confluence-sync: Confluence API creation failed: %w", err)
	}

	if UploadWithVCR {
		stop, err := installVCR(api, dir)
		if err != nil {
			return err
		}
		defer stop()
	}

	if err := probeAuth(ctx, api); err != nil {
		return err
	}
	fmt.Printf("Authenticated with Confluence at %s.\n", settings.BaseURL)

	store, err := localstore.NewStore(dir)
	if err != nil {
		return fmt.Errorf("confluence-sync: couldn't open local store: %w", err)
	}

	uploader := pagesync.Uploader{
		API:      api,
		Store:    store,
		DryRun:   DryRun,
		Progress: !Debug,
		Logger:   log.New(os.Stdout, "", 0),
	}

	summary, err := uploader.SyncAll(ctx)
	if err != nil {
		return fmt.Errorf("confluence-sync: upload failed: %w", err)
	}

	printSummary(summary)

	return nil
}

func printSummary(summary pagesync.Summary) {
	fmt.Printf("\n%s\n", termfmt.Bold("Upload finished."))
	if len(summary.WouldUpdate) > 0 {
		fmt.Printf("  Would update: %d page(s)\n", len(summary.WouldUpdate))
		for _, name := range summary.WouldUpdate {
			fmt.Printf("   - %s\n", name)
		}
	}
	fmt.Printf("  Updated: %s\n", termfmt.Paint(termfmt.Green, fmt.Sprintf("%d", len(summary.Updated))))
	fmt.Printf("  Skipped: %d\n", len(summary.Skipped))
	if len(summary.Failed) > 0 {
		fmt.Printf("  Failed: %s\n", termfmt.Paint(termfmt.Red, fmt.Sprintf("%d", len(summary.Failed))))
		for _, failure := range summary.Failed {
			fmt.Printf("   - %s: %v\n", failure.Name, failure.Err)
		}
	}
}
