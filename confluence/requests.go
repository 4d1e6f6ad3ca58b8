package confluence

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// request performs one HTTP exchange and hands the raw body and status code
// back to the operation.  Status-to-error mapping happens in the caller,
// which knows which page id and operation it's dealing with.
func (api *API) request(ctx context.Context, method string, url *url.URL, payload []byte) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url.String(), reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("confluence: couldn't instantiate http request: %w", err)
	}

	req.Header.Add("Accept", "application/json, */*")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	req.SetBasicAuth(api.email, api.token)

	response, err := api.Client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("confluence: couldn't perform http request: %w", err)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("confluence: couldn't read http response body: %w", err)
	}

	if err := response.Body.Close(); err != nil {
		return nil, 0, fmt.Errorf("confluence: couldn't close response body: %w", err)
	}

	return body, response.StatusCode, nil
}

func successful(status int) bool {
	return status >= 200 && status < 300
}

// statusError translates a non-2xx status into the error taxonomy shared by
// all read operations.  Update has its own handling for version conflicts.
func (api *API) statusError(op string, pageID string, method string, url *url.URL, status int, body []byte) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{StatusCode: status, Operation: op}
	case http.StatusNotFound:
		return &NotFoundError{PageID: pageID}
	}

	return &TransportError{
		Operation:  op,
		Method:     method,
		URL:        url.String(),
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       snippet(body),
	}
}
