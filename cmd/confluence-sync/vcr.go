/*
Copyright © 2025 pdekker
*/
package main

import (
	"fmt"
	"net/http"
	"path"

	"gopkg.in/dnaeon/go-vcr.v3/cassette"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"

	"github.com/pdekker/confluence-sync/confluence"
)

// installVCR swaps the API's HTTP client for a go-vcr recorder, caching
// responses in a cassette under the content directory.  Handy for replaying a
// big download without hammering the server.  Returns the recorder's stop
// function.
func installVCR(api *confluence.API, dir string) (func() error, error) {
	opts := &recorder.Options{
		CassetteName:       path.Join(dir, "fixtures", "confluence-sync"),
		Mode:               recorder.ModeReplayWithNewEpisodes,
		SkipRequestLatency: true,
		RealTransport:      http.DefaultTransport,
	}
	r, err := recorder.NewWithOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence-sync: couldn't set up go-vcr recording: %w", err)
	}

	// Never write credentials into the cassette.
	hook := func(i *cassette.Interaction) error {
		delete(i.Request.Headers, "Authorization")
		return nil
	}
	r.AddHook(hook, recorder.AfterCaptureHook)
	r.SetReplayableInteractions(true)

	api.Client = r.GetDefaultClient()

	return r.Stop, nil
}
