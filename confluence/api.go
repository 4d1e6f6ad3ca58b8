package confluence

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

func NewAPI(baseURL string, email string, token string) (*API, error) {
	if baseURL == "" {
		return &API{}, fmt.Errorf("confluence: configure your Confluence base URL with --base-url or BASE_URL")
	}
	if email == "" {
		return &API{}, fmt.Errorf("confluence: configure your Atlassian account email with --auth-username or CONF_EMAIL")
	}
	if token == "" {
		return &API{}, fmt.Errorf("confluence: API token is empty, set CONF_TOKEN or check auth-token-cmd")
	}

	u, err := url.ParseRequestURI(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse REST API URL: %w", err)
	}

	a := &API{
		BaseURI: u,
		email:   email,
		token:   token,
	}
	a.Client = &http.Client{}

	return a, nil
}

type API struct {
	// The base URL of the Confluence site, e.g. https://ORG.atlassian.net
	BaseURI *url.URL

	// An HTTP client - you can substitute VCR or whatnot.
	Client *http.Client

	// Auth info
	email, token string
}
