package pagesync

import (
	"fmt"
	"net/url"

	md "github.com/JohannesKaufmann/html-to-markdown"
	mdplugin "github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"

	"github.com/pdekker/confluence-sync/confluence"
)

// convertToMarkdown renders the page's rendered-view HTML as GitHub-flavoured
// Markdown.  md.NewConverter only accepts a hostname, not a base URI, so we
// supply our own GetAbsoluteURL hook to fill in scheme and host on the
// relative links Confluence emits (adapted from
// https://github.com/JohannesKaufmann/html-to-markdown/issues/44).
func (d *Downloader) convertToMarkdown(page *confluence.Page) (string, error) {
	if page.Body.View == nil {
		return "", fmt.Errorf("pagesync: found nil .Body.View field for page %s", page.ID)
	}

	opt := &md.Options{
		GetAbsoluteURL: func(selec *goquery.Selection, rawURL string, domain string) string {
			if domain == "" {
				return rawURL
			}

			u, err := url.Parse(rawURL)
			if err != nil {
				// we can't do anything with this url because it is invalid
				return rawURL
			}

			if u.Scheme == "data" {
				// this is a data uri (for example an inline base64 image)
				return rawURL
			}

			if u.Scheme == "" {
				u.Scheme = d.API.BaseURI.Scheme
			}
			if u.Host == "" {
				u.Host = domain
			}

			return u.String()
		},
	}

	converter := md.NewConverter(d.API.BaseURI.Host, true, opt)
	// Github flavoured Markdown knows about tables 👍
	converter.Use(mdplugin.GitHubFlavored())

	markdown, err := converter.ConvertString(page.Body.View.Value)
	if err != nil {
		return "", fmt.Errorf("pagesync: failed to convert page %s to Markdown: %w", page.ID, err)
	}

	return markdown, nil
}
