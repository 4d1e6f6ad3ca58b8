// Package config resolves the identity a sync run needs (base URL, account
// email, API token, target page id) from layered sources.  Precedence per
// field, first non-empty wins:
//
//	explicit value > confluence.config > process environment > .env file
//
// Both files live in the content directory, which is always passed in
// explicitly; the resolver never peeks at the working directory on its own.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	configFileName = "confluence.config"
	dotenvFileName = ".env"
)

// Overrides are values the caller already knows, typically from CLI flags.
type Overrides struct {
	BaseURL string
	Email   string
	Token   string
	PageID  string
}

// Settings is the effective configuration of one invocation.
type Settings struct {
	BaseURL string
	Email   string
	Token   string
	PageID  string

	// Dir is the content directory the settings were resolved against.
	Dir string
}

// Requirement selects which fields Validate insists on.  Upload runs have no
// single target page, so they only need the auth triple.
type Requirement int

const (
	NeedAuth Requirement = iota
	NeedAuthAndPage
)

// MissingFieldsError lists every required field that resolved to empty, not
// just the first one, so the user fixes their setup in one go.
type MissingFieldsError struct {
	Missing []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("config: missing required settings: %s (set them via flags, confluence.config, or .env)",
		strings.Join(e.Missing, ", "))
}

// Resolve merges all four layers.  It reads at most two local files and
// touches no network.  File-not-found is fine; any other read failure is not.
func Resolve(dir string, ov Overrides, getenv func(string) string) (Settings, error) {
	local, err := parseKeyValueFile(filepath.Join(dir, configFileName))
	if err != nil {
		return Settings{}, fmt.Errorf("config: couldn't read %s: %w", configFileName, err)
	}

	dotenv, err := parseKeyValueFile(filepath.Join(dir, dotenvFileName))
	if err != nil {
		return Settings{}, fmt.Errorf("config: couldn't read %s: %w", dotenvFileName, err)
	}

	return Settings{
		BaseURL: strings.TrimRight(first(ov.BaseURL, local["BaseUrl"], getenv("BASE_URL"), dotenv["BASE_URL"]), "/"),
		Email:   first(ov.Email, getenv("CONF_EMAIL"), dotenv["CONF_EMAIL"]),
		Token:   first(ov.Token, getenv("CONF_TOKEN"), dotenv["CONF_TOKEN"]),
		PageID:  first(ov.PageID, local["PageId"]),
		Dir:     dir,
	}, nil
}

// Validate reports every missing required field at once.
func (s Settings) Validate(need Requirement) error {
	var missing []string
	if s.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}
	if s.Email == "" {
		missing = append(missing, "CONF_EMAIL")
	}
	if s.Token == "" {
		missing = append(missing, "CONF_TOKEN")
	}
	if need == NeedAuthAndPage && s.PageID == "" {
		missing = append(missing, "PageId")
	}

	if len(missing) > 0 {
		return &MissingFieldsError{Missing: missing}
	}
	return nil
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseKeyValueFile reads a dotenv-style file: blank lines and #-comments are
// skipped, everything else splits on the first '='.
func parseKeyValueFile(path string) (map[string]string, error) {
	pairs := map[string]string{}

	source, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return pairs, nil
	}
	if err != nil {
		return nil, err
	}

	for _, line := range strings.Split(string(source), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(strings.TrimSpace(line), "#") || !strings.Contains(line, "=") {
			continue
		}
		k, v, _ := strings.Cut(line, "=")
		pairs[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}

	return pairs, nil
}
