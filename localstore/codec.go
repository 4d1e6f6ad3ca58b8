package localstore

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Encode renders a record as front matter followed by the verbatim body.
// The body is appended untouched: Confluence storage markup is whitespace
// sensitive inside macros, so no trailing newline, no reflowing, nothing.
func Encode(r Record) (string, error) {
	header, err := yaml.Marshal(r.Header)
	if err != nil {
		return "", fmt.Errorf("localstore: couldn't marshal record header: %w", err)
	}

	return fmt.Sprintf("%s\n%s\n%s\n%s",
		delimiter,
		strings.TrimSpace(string(header)),
		delimiter,
		r.Body), nil
}

// Decode splits a stored file back into header and body.  The opening
// delimiter must be the very first line; a missing one means the file is no
// record of ours.  An opening delimiter without a closing one yields the
// parsed header and an empty body -- that file has metadata but no content
// yet, which is odd but not fatal.
func Decode(content string) (Record, error) {
	newline := "\n"
	switch {
	case strings.HasPrefix(content, delimiter+"\r\n"):
		newline = "\r\n"
	case strings.HasPrefix(content, delimiter+"\n"):
	default:
		return Record{}, &MalformedRecordError{Reason: "no opening front-matter delimiter"}
	}

	opening := delimiter + newline
	closing := newline + delimiter + newline

	var headerBlock, body string
	rest := content[len(opening):]
	if idx := strings.Index(rest, closing); idx >= 0 {
		headerBlock = rest[:idx]
		body = rest[idx+len(closing):]
	} else {
		headerBlock = rest
		body = ""
	}

	var header RecordHeader
	if err := yaml.Unmarshal([]byte(headerBlock), &header); err != nil {
		return Record{}, &MalformedRecordError{Reason: fmt.Sprintf("unparseable front matter: %v", err)}
	}

	return Record{Header: header, Body: body}, nil
}
