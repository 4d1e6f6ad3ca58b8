package confluence

import (
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
)

// contentByIDEndpoint returns the (v1) API endpoint to fetch or update one
// content item:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content/#api-wiki-rest-api-content-id-get
func (a *API) contentByIDEndpoint(id string, opts GetPageQuery) (*url.URL, error) {
	if id == "" {
		return nil, fmt.Errorf("confluence: please provide ID to get page by ID")
	}

	ep, err := a.resolveEndpoint(fmt.Sprintf("/wiki/rest/api/content/%s", id))
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// childPagesEndpoint returns the (v1) API endpoint to list direct child pages:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content---children-and-descendants/#api-wiki-rest-api-content-id-child-page-get
func (a *API) childPagesEndpoint(id string, opts ChildPagesQuery) (*url.URL, error) {
	if id == "" {
		return nil, fmt.Errorf("confluence: please provide ID to list children")
	}

	ep, err := a.resolveEndpoint(fmt.Sprintf("/wiki/rest/api/content/%s/child/page", id))
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// spaceListEndpoint returns the (v1) API endpoint to list spaces.  We use it
// as a cheap authenticated read to probe whether credentials work at all.
func (a *API) spaceListEndpoint(opts ProbeQuery) (*url.URL, error) {
	ep, err := a.resolveEndpoint("/wiki/rest/api/space")
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// Do a bit of error checking on endpoint format, and return it relative to the base URI.
func (a *API) resolveEndpoint(endpoint string) (*url.URL, error) {
	baseUri := a.BaseURI

	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("confluence: failed to parse endpoint ref: %w", err)
	}

	return baseUri.ResolveReference(ref), nil
}
