package confluence

// GetPageQuery defines the query parameters for fetching one content item:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content/#api-wiki-rest-api-content-id-get
type GetPageQuery struct {
	// Expansions to request; we always want body representations, version,
	// ancestors and space in one round trip.
	Expand []string `url:"expand,omitempty,comma"`
}

// ChildPagesQuery defines the query parameters for listing child pages:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content---children-and-descendants/#api-wiki-rest-api-content-id-child-page-get
//
// Pagination is limit/offset style: 'start' advances through the result set,
// and the '_links.next' relative URL in the response carries the next offset.
type ChildPagesQuery struct {
	Limit int `url:"limit,omitempty"` // page limit; default 25, range 1-100
	Start int `url:"start,omitempty"`
}

// ProbeQuery is the minimal authenticated read used to verify credentials.
type ProbeQuery struct {
	Limit int `url:"limit,omitempty"`
}
