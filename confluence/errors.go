package confluence

import "fmt"

// InvalidIDError means a page id wasn't a well-formed positive integer.  It is
// raised before any network call is attempted.
type InvalidIDError struct {
	ID string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("confluence: %q is not a valid page id (want a positive integer or a page URL)", e.ID)
}

// AuthError is a 401/403 from the server.  The remediation hint matters more
// than the status code: nine times out of ten the token has expired.
type AuthError struct {
	StatusCode int
	Operation  string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("confluence: authentication rejected (HTTP %d) during %s; check CONF_EMAIL and CONF_TOKEN", e.StatusCode, e.Operation)
}

// NotFoundError is a 404 for a specific page id.
type NotFoundError struct {
	PageID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("confluence: page %s does not exist (or you can't see it)", e.PageID)
}

// VersionConflictError means the server rejected an update because someone
// else wrote to the page since we last read it.
type VersionConflictError struct {
	PageID           string
	SubmittedVersion int
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("confluence: page %s was updated concurrently, version %d rejected; re-download and retry", e.PageID, e.SubmittedVersion)
}

// TransportError covers every other non-2xx outcome.  We keep a snippet of the
// response body because Confluence error JSON is usually the only clue.
type TransportError struct {
	Operation  string
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("confluence: %s: %s %s returned %s: %s", e.Operation, e.Method, e.URL, e.Status, e.Body)
}

const bodySnippetLen = 240

func snippet(body []byte) string {
	if len(body) > bodySnippetLen {
		return string(body[:bodySnippetLen]) + "…"
	}
	return string(body)
}
