package localstore

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint hashes a body for change detection.  Line endings are
// normalised and outer whitespace trimmed first, so re-downloading
// byte-identical content from a server with different newline conventions
// never flags a spurious change.  This is change detection, not integrity
// verification.
func Fingerprint(body string) string {
	normalized := strings.ReplaceAll(body, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	normalized = strings.TrimSpace(normalized)

	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// MacroCounts tallies the embedded-markup constructs that tend to get lost
// when a human edits storage markup by hand.  Purely a diagnostic signal.
type MacroCounts struct {
	StructuredMacro int
	Image           int
	Link            int
}

func CountMacros(body string) MacroCounts {
	return MacroCounts{
		StructuredMacro: strings.Count(body, "<ac:structured-macro"),
		Image:           strings.Count(body, "<ac:image"),
		Link:            strings.Count(body, "<ac:link"),
	}
}
