package confluence

// Page is the v1 content API shape of a Confluence page:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content/#api-wiki-rest-api-content-id-get
//
// Only the fields the sync tool reads are declared; the server sends plenty
// more that we happily ignore.
type Page struct {
	ID     string `json:"id,omitempty"`
	Type   string `json:"type,omitempty"`
	Status string `json:"status,omitempty"` // current, archived, deleted, trashed
	Title  string `json:"title,omitempty"`

	Space     *Space    `json:"space,omitempty"`
	Version   *Version  `json:"version,omitempty"`
	Ancestors []PageRef `json:"ancestors,omitempty"`

	Body Body `json:"body"`

	Links struct {
		WebUI string `json:"webui"`
		Self  string `json:"self"`
	} `json:"_links"`
}

// PageRef is the abbreviated page shape that appears in ancestor lists.
type PageRef struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title,omitempty"`
}

type Space struct {
	Key  string `json:"key,omitempty"`
	Name string `json:"name,omitempty"`
}

// Version defines the content version number
// the version number is used for updating content
type Version struct {
	Number    int    `json:"number"`
	When      string `json:"when,omitempty"`
	Message   string `json:"message,omitempty"`
	MinorEdit bool   `json:"minorEdit,omitempty"`
}

// Body holds the representations we asked for via expand.  Absent
// representations come back as nil.
type Body struct {
	Storage *Storage `json:"storage,omitempty"`
	View    *Storage `json:"view,omitempty"`
}

// Storage defines the storage information
type Storage struct {
	Representation string `json:"representation"`
	Value          string `json:"value"`
}
