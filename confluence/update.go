package confluence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// updatePayload is the v1 content PUT shape:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content/#api-wiki-rest-api-content-id-put
type updatePayload struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Version struct {
		Number int `json:"number"`
	} `json:"version"`
	Body struct {
		Storage Storage `json:"storage"`
	} `json:"body"`
}

// UpdatePage submits a full-body replacement of the page, tagged with
// expectedVersion+1.  The server enforces optimistic concurrency: if someone
// else has written since expectedVersion was read, we get a conflict back and
// surface it as *VersionConflictError.  Returns the new version number.
func (api *API) UpdatePage(ctx context.Context, id string, title string, newBody string, expectedVersion int) (int, error) {
	if _, err := ParsePageID(id); err != nil {
		return 0, err
	}
	if expectedVersion < 1 {
		return 0, fmt.Errorf("confluence: expected version must be positive, got %d", expectedVersion)
	}

	payload := updatePayload{
		ID:    id,
		Type:  "page",
		Title: title,
	}
	payload.Version.Number = expectedVersion + 1
	payload.Body.Storage = Storage{
		Value:          newBody,
		Representation: "storage",
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("confluence: couldn't marshal update payload: %w", err)
	}

	ep, err := api.contentByIDEndpoint(id, GetPageQuery{})
	if err != nil {
		return 0, fmt.Errorf("confluence: couldn't get content endpoint: %w", err)
	}

	body, status, err := api.request(ctx, http.MethodPut, ep, encoded)
	if err != nil {
		return 0, fmt.Errorf("confluence: couldn't perform request: %w", err)
	}

	// A plain 409 is a conflict; some deployments report it as a 400 whose
	// message mentions the version instead.
	if status == http.StatusConflict ||
		(status == http.StatusBadRequest && bytes.Contains(bytes.ToLower(body), []byte("version"))) {
		return 0, &VersionConflictError{PageID: id, SubmittedVersion: expectedVersion + 1}
	}
	if !successful(status) {
		return 0, api.statusError("update page", id, http.MethodPut, ep, status, body)
	}

	var updated UpdateResponse
	if err := json.Unmarshal(body, &updated); err != nil {
		return 0, fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}
	if updated.Version == nil {
		return 0, fmt.Errorf("confluence: update response for page %s carried no version", id)
	}

	return updated.Version.Number, nil
}
