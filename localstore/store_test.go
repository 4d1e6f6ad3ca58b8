package localstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewStoreRejectsMissingOrFilePaths(t *testing.T) {
	_, err := NewStore(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "a-file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = NewStore(file)
	assert.Error(t, err)
}

func TestWriteAndReadRecord(t *testing.T) {
	store := newTestStore(t)

	record := Record{Header: sampleHeader(), Body: "<p>hello</p>"}
	name, err := store.WriteRecord(record, "Welcome Page")
	require.NoError(t, err)
	assert.Equal(t, "100-welcome-page.xhtml", name)

	got, err := store.ReadRecord(name)
	require.NoError(t, err)
	assert.Equal(t, record, got)
}

func TestWriteRecordAsRefreshesInPlace(t *testing.T) {
	store := newTestStore(t)

	record := Record{Header: sampleHeader(), Body: "<p>v7</p>"}
	name, err := store.WriteRecord(record, "Welcome Page")
	require.NoError(t, err)

	// simulate the post-upload header refresh: same filename, new metadata.
	record.Header.Version = 8
	record.Header.ContentHash = Fingerprint(record.Body)
	require.NoError(t, store.WriteRecordAs(name, record))

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{name}, names)

	got, err := store.ReadRecord(name)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Header.Version)
	assert.Equal(t, Fingerprint("<p>v7</p>"), got.Header.ContentHash)
}

func TestReadRecordReportsMalformedWithPath(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir, "broken.xhtml"), []byte("no front matter"), 0o644))

	_, err := store.ReadRecord("broken.xhtml")
	var malformed *MalformedRecordError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "broken.xhtml", malformed.Path)
}

func TestListSortedAndFiltered(t *testing.T) {
	store := newTestStore(t)

	for _, name := range []string{"20-zulu.xhtml", "10-alpha.xhtml", "30-mike.md", "40-hotel.html"} {
		require.NoError(t, store.WriteRecordAs(name, Record{Header: sampleHeader()}))
	}

	// noise the listing must ignore.
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(store.Dir, "fixtures"), 0o750))

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"10-alpha.xhtml", "20-zulu.xhtml", "30-mike.md", "40-hotel.html"}, names)
}
