// Package cachefile persists the catalog client's response cache as JSON
// blobs on disk: the strain-list cache (expiring) and the ETag store
// (non-expiring). Files survive database resets and are written atomically.
package cachefile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ListTTL is how long the persisted strain list stays servable.
const ListTTL = 24 * time.Hour

// Fixed file names under the cache directory.
const (
	listFileName = "strain_list_cache.json"
	etagFileName = "etag_store.json"
)

type listData struct {
	Version   int             `json:"version"`
	FetchedAt time.Time       `json:"fetched_at"`
	Payload   json.RawMessage `json:"payload"`
}

type etagData struct {
	Version int               `json:"version"`
	ETags   map[string]string `json:"etags"`
}

// Store manages both cache blobs under a single directory.
type Store struct {
	dir string
	now func() time.Time

	mu    sync.RWMutex
	list  *listData
	etags *etagData
}

// NewStore creates a cache store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{
		dir:   dir,
		now:   time.Now,
		list:  &listData{Version: 1},
		etags: &etagData{Version: 1, ETags: map[string]string{}},
	}
}

// Load reads both blobs from disk. Missing or corrupt files initialize empty.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var list listData
	if readJSON(filepath.Join(s.dir, listFileName), &list) {
		s.list = &list
	} else {
		s.list = &listData{Version: 1}
	}

	var etags etagData
	if readJSON(filepath.Join(s.dir, etagFileName), &etags) && etags.ETags != nil {
		s.etags = &etags
	} else {
		s.etags = &etagData{Version: 1, ETags: map[string]string{}}
	}
	return nil
}

// SetList persists a fetched strain-list payload with the current timestamp.
func (s *Store) SetList(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = &listData{Version: 1, FetchedAt: s.now(), Payload: payload}
	return writeJSON(s.dir, listFileName, s.list)
}

// List returns the cached strain-list payload, or (nil, false) when absent
// or older than ListTTL.
func (s *Store) List() ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.list.Payload) == 0 {
		return nil, false
	}
	if s.now().Sub(s.list.FetchedAt) > ListTTL {
		return nil, false
	}
	return s.list.Payload, true
}

// SetETag persists the ETag for a URL. The ETag store has no expiry.
func (s *Store) SetETag(url, etag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if etag == "" {
		delete(s.etags.ETags, url)
	} else {
		s.etags.ETags[url] = etag
	}
	return writeJSON(s.dir, etagFileName, s.etags)
}

// ETag returns the stored ETag for a URL, "" when none is known.
func (s *Store) ETag(url string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.etags.ETags[url]
}

// Clear removes both blobs from memory and disk.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = &listData{Version: 1}
	s.etags = &etagData{Version: 1, ETags: map[string]string{}}
	_ = os.Remove(filepath.Join(s.dir, listFileName))
	_ = os.Remove(filepath.Join(s.dir, etagFileName))
	return nil
}

// readJSON loads path into v, reporting success. A corrupt file is treated
// the same as a missing one.
func readJSON(path string, v interface{}) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// writeJSON writes v atomically: temp file, then rename.
func writeJSON(dir, name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path := filepath.Join(dir, name)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
