/*
Copyright © 2025 pdekker
*/
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdekker/confluence-sync/config"
	"github.com/pdekker/confluence-sync/confluence"
	"github.com/pdekker/confluence-sync/localstore"
	"github.com/pdekker/confluence-sync/pagesync"
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download [root-page-id-or-url]",
	Short: "Download a Confluence page tree into local files",
	Long: `
Fetch the root page and its descendants up to --max-depth, writing each page
as a flat file with front-matter metadata into the content directory.  The
root may be given as an argument, via --page-id, or as PageId in
confluence.config.
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := ""
		if len(args) == 1 {
			root = args[0]
		}
		debugLog("  MaxDepth: %d, Format: %s, SinglePage: %v\n", MaxDepth, FormatChoice, SinglePage)
		return runDownload(cmd.Context(), root)
	},
}

var (
	PageID       string
	FormatChoice string
	MaxDepth     int
	SinglePage   bool
	WithVCR      bool
)

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVar(&PageID, "page-id", "", "id or URL of the root page (overrides PageId in confluence.config)")
	downloadCmd.Flags().StringVar(&FormatChoice, "format", "storage", "body representation to store: storage, view or markdown")
	downloadCmd.Flags().IntVar(&MaxDepth, "max-depth", 5, "how many levels below the root to descend")
	downloadCmd.Flags().BoolVar(&SinglePage, "single-page", false, "download only the root page, no children")
	downloadCmd.Flags().BoolVar(&WithVCR, "with-vcr", false, "use go-vcr to cache responses")
}

func runDownload(ctx context.Context, rootArg string) error {
	dir, err := contentDir("")
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
		PageID:  firstNonEmpty(rootArg, PageID),
	}, os.Getenv)
	if err != nil {
		return fmt.Errorf("confluence-sync: couldn't resolve configuration: %w", err)
	}
	if err := settings.Validate(config.NeedAuthAndPage); err != nil {
		return err
	}

	// normalises URLs to bare ids and rejects garbage before we go near the network.
	rootID, err := confluence.ParsePageID(settings.PageID)
	if err != nil {
		return err
	}

	format, err := localstore.ParseFormat(FormatChoice)
	if err != nil {
		return err
	}

	api, err := confluence.NewAPI(settings.BaseURL, settings.Email, settings.Token)
	if err != nil {
		return fmt.Errorf("confluence-sync: Confluence API creation failed: %w", err)
	}

	if WithVCR {
		stop, err := installVCR(api, dir)
		if err != nil {
			return err
		}
		defer stop()
	}

	if err := probeAuth(ctx, api); err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("confluence-sync: couldn't create directory %s: %w", dir, err)
	}
	store, err := localstore.NewStore(dir)
	if err != nil {
		return fmt.Errorf("confluence-sync: couldn't open local store: %w", err)
	}

	maxDepth := MaxDepth
	if SinglePage {
		maxDepth = 0
	}

	downloader := pagesync.Downloader{
		API:      api,
		Store:    store,
		Format:   format,
		MaxDepth: maxDepth,
		Logger:   log.New(os.Stdout, "", 0),
	}

	if err := downloader.DownloadTree(ctx, rootID); err != nil {
		return fmt.Errorf("confluence-sync: download failed: %w", err)
	}

	return nil
}

// probeAuth fails fast with a remediation hint before any real work starts.
func probeAuth(ctx context.Context, api *confluence.API) error {
	probeCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	ok, err := api.ProbeAuth(probeCtx)
	if err != nil {
		return fmt.Errorf("confluence-sync: couldn't reach Confluence: %w", err)
	}
	if !ok {
		return fmt.Errorf("confluence-sync: authentication failed; check CONF_EMAIL and CONF_TOKEN (create a token at https://id.atlassian.com/manage-profile/security/api-tokens)")
	}

	debugLog("authenticated against %s\n", api.BaseURI)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
