package localstore

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"golang.org/x/exp/slices"
)

// Store owns one flat directory of records.  The remote hierarchy is not
// mirrored into subdirectories; identity lives in the filename and the
// front matter.
type Store struct {
	Dir string
}

func NewStore(dir string) (*Store, error) {
	stat, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("localstore: cannot stat %q: %w", dir, err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("localstore: store path is not a directory: %q", dir)
	}

	return &Store{Dir: dir}, nil
}

// WriteRecord persists a record under its canonical filename, derived from
// the page id and title.  Returns the filename used.
func (s *Store) WriteRecord(r Record, title string) (string, error) {
	name := Filename(r.Header.ConfluenceID, title, r.Header.Format)
	if err := s.WriteRecordAs(name, r); err != nil {
		return "", err
	}
	return name, nil
}

// WriteRecordAs persists a record under an explicit filename.  The upload
// path uses this to refresh headers in place without renaming files a human
// may have bookmarked.
func (s *Store) WriteRecordAs(name string, r Record) error {
	content, err := Encode(r)
	if err != nil {
		return fmt.Errorf("localstore: couldn't encode record %s: %w", name, err)
	}

	abs := path.Join(s.Dir, name)
	f, err := os.Create(abs)
	if err != nil {
		return fmt.Errorf("localstore: couldn't create file %s: %w", abs, err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("localstore: couldn't write to file %s: %w", abs, err)
	}

	return nil
}

// ReadRecord loads and decodes one record by filename.
func (s *Store) ReadRecord(name string) (Record, error) {
	abs := path.Join(s.Dir, name)
	source, err := os.ReadFile(abs)
	if err != nil {
		return Record{}, fmt.Errorf("localstore: couldn't read file %s: %w", abs, err)
	}

	record, err := Decode(string(source))
	if err != nil {
		var malformed *MalformedRecordError
		if errors.As(err, &malformed) {
			malformed.Path = name
			return Record{}, malformed
		}
		return Record{}, err
	}

	return record, nil
}

// List returns the record filenames in the store, sorted, across all known
// record extensions.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("localstore: couldn't list %q: %w", s.Dir, err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		for _, ext := range []string{".xhtml", ".html", ".md"} {
			if strings.HasSuffix(name, ext) {
				names = append(names, name)
				break
			}
		}
	}

	slices.Sort(names)
	return names, nil
}
