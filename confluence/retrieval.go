package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// pageExpand is everything one download needs in a single round trip.
var pageExpand = []string{"body.storage", "body.view", "version", "ancestors", "space"}

const childPageLimit = 100

// ParsePageID accepts a bare numeric id or a Confluence page URL of the shape
// https://ORG.atlassian.net/wiki/spaces/KEY/pages/123456/Some+Title and
// returns the id.  Anything else is an *InvalidIDError.
func ParsePageID(arg string) (string, error) {
	candidate := strings.TrimSpace(arg)

	if strings.Contains(candidate, "/") {
		u, err := url.Parse(candidate)
		if err != nil {
			return "", &InvalidIDError{ID: arg}
		}
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		candidate = ""
		for i, seg := range segments {
			if seg == "pages" && i+1 < len(segments) {
				candidate = segments[i+1]
				break
			}
		}
	}

	n, err := strconv.Atoi(candidate)
	if err != nil || n < 1 {
		return "", &InvalidIDError{ID: arg}
	}

	return candidate, nil
}

// GetPage fetches one page with body, version, ancestors and space expanded.
func (api *API) GetPage(ctx context.Context, id string) (*Page, error) {
	if _, err := ParsePageID(id); err != nil {
		return nil, err
	}

	ep, err := api.contentByIDEndpoint(id, GetPageQuery{Expand: pageExpand})
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get single page endpoint: %w", err)
	}

	body, status, err := api.request(ctx, http.MethodGet, ep, nil)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't perform request: %w", err)
	}
	if !successful(status) {
		return nil, api.statusError("get page", id, http.MethodGet, ep, status, body)
	}

	var page Page
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}

	return &page, nil
}

// ListChildren returns every direct child of the given page, transparently
// following '_links.next' offsets until the server runs out of results.
// Callers never see a cursor.
func (api *API) ListChildren(ctx context.Context, id string) ([]Page, error) {
	if _, err := ParsePageID(id); err != nil {
		return nil, err
	}

	children := []Page{}
	query := ChildPagesQuery{Limit: childPageLimit}

	for {
		ep, err := api.childPagesEndpoint(id, query)
		if err != nil {
			return nil, fmt.Errorf("confluence: couldn't get child pages endpoint: %w", err)
		}

		body, status, err := api.request(ctx, http.MethodGet, ep, nil)
		if err != nil {
			return nil, fmt.Errorf("confluence: couldn't perform request: %w", err)
		}
		if !successful(status) {
			return nil, api.statusError("list children", id, http.MethodGet, ep, status, body)
		}

		var page ChildPagesResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("confluence: couldn't parse json response: %w", err)
		}

		children = append(children, page.Results...)

		if page.Links.Next == "" {
			break
		}

		q, err := url.Parse(page.Links.Next)
		if err != nil {
			return nil, fmt.Errorf("confluence: couldn't parse _links.next: %w", err)
		}
		start := q.Query().Get("start")
		if start == "" {
			return nil, fmt.Errorf("confluence: expected parameter 'start' was empty")
		}
		query.Start, err = strconv.Atoi(start)
		if err != nil {
			return nil, fmt.Errorf("confluence: parameter 'start' was not an int: %w", err)
		}
	}

	return children, nil
}

// ProbeAuth issues a minimal authenticated read.  A 401/403 means the
// credentials are bad, which is an answer, not an error; anything else
// unexpected is a transport failure.
func (api *API) ProbeAuth(ctx context.Context) (bool, error) {
	ep, err := api.spaceListEndpoint(ProbeQuery{Limit: 1})
	if err != nil {
		return false, fmt.Errorf("confluence: couldn't get space list endpoint: %w", err)
	}

	body, status, err := api.request(ctx, http.MethodGet, ep, nil)
	if err != nil {
		return false, fmt.Errorf("confluence: couldn't perform request: %w", err)
	}

	switch {
	case successful(status):
		return true, nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return false, nil
	}

	return false, api.statusError("probe auth", "", http.MethodGet, ep, status, body)
}
