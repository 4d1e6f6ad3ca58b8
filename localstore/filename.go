package localstore

import (
	"fmt"
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// canonicalise turns a page title into a stable filesystem-safe slug.
func canonicalise(title string) string {
	str := nonAlnum.ReplaceAllString(title, " ")
	str = strings.ToLower(str)
	str = strings.Join(strings.Fields(str), "-")

	if len(str) > 101 {
		str = str[:100]
	}

	str = strings.Trim(str, "-")

	if len(str) < 2 {
		// titles of emoji and punctuation happen; the id still identifies the page.
		return "untitled"
	}

	return str
}

// Filename is deterministic from id + title + format, so the same page always
// maps to the same file across re-downloads.
func Filename(id string, title string, format Format) string {
	return fmt.Sprintf("%s-%s%s", id, canonicalise(title), format.Extension())
}
