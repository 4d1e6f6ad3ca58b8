package localstore

import "fmt"

// Format names the body representation a record was downloaded in.  Only
// storage-format records can be uploaded back; view and markdown exist for
// humans and local tooling.
type Format string

const (
	FormatStorage  Format = "storage"
	FormatView     Format = "view"
	FormatMarkdown Format = "markdown"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatStorage, FormatView, FormatMarkdown:
		return Format(s), nil
	}
	return "", fmt.Errorf("localstore: unknown format %q (want storage, view or markdown)", s)
}

// Extension is the file suffix a record of this format is stored under.
func (f Format) Extension() string {
	switch f {
	case FormatView:
		return ".html"
	case FormatMarkdown:
		return ".md"
	default:
		return ".xhtml"
	}
}

// RecordHeader is the front-matter block at the top of every stored page.
// Field names match the on-disk key names exactly; don't rename them without
// a migration story for existing dumps.
type RecordHeader struct {
	Source               string `yaml:"source,omitempty"`
	ConfluenceID         string `yaml:"confluence_id,omitempty"`
	Space                string `yaml:"space,omitempty"`
	Version              int    `yaml:"version,omitempty"`
	Retrieved            string `yaml:"retrieved,omitempty"`
	Format               Format `yaml:"format,omitempty"`
	ContentHash          string `yaml:"content_hash,omitempty"`
	MacroStructuredMacro int    `yaml:"macro_structured_macro"`
	MacroImage           int    `yaml:"macro_image"`
	MacroLink            int    `yaml:"macro_link"`
}

// Record is one page on disk: parsed header plus the body, byte for byte.
type Record struct {
	Header RecordHeader
	Body   string
}

// MalformedRecordError means a file couldn't be parsed as a record at all.
// The upload path skips such files with a warning rather than aborting.
type MalformedRecordError struct {
	Path   string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("localstore: malformed record: %s", e.Reason)
	}
	return fmt.Sprintf("localstore: malformed record %s: %s", e.Path, e.Reason)
}
