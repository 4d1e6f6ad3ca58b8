package confluence

// ChildPagesResponse is one page of a child-page listing.
type ChildPagesResponse struct {
	Results []Page `json:"results"`
	Start   int    `json:"start"`
	Limit   int    `json:"limit"`
	Size    int    `json:"size"`

	Links struct {
		// Contains the relative URL for the next set of results, using a
		// 'start' query parameter.  This property will not be present if there
		// is no additional data available.
		Next string `json:"next"`
	} `json:"_links"`
}

// UpdateResponse is what the server returns after a successful PUT.
type UpdateResponse struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Version *Version `json:"version"`
}
