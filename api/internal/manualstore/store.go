// Package manualstore reads the output of the manual ingestion step: one
// directory per manual holding content.json and optional per-page renders
// named page_<number>.<ext>.
package manualstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Page is one page of an ingested manual.
type Page struct {
	Number  int    `json:"page"`
	Content string `json:"content"`
}

var imageExts = []string{"png", "jpg", "jpeg", "webp"}

type Store struct {
	root string
}

func New(root string) *Store {
	return &Store{root: root}
}

func (s *Store) Root() string { return s.root }

// List returns the names of available manuals, sorted. A missing data root is
// not an error: there are simply no manuals yet.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read manual root: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Load reads a manual's content.json in stored page order.
func (s *Store) Load(name string) ([]Page, error) {
	path := filepath.Join(s.root, name, "content.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manual %q unavailable: %w", name, err)
	}
	var pages []Page
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("manual %q unavailable: bad content.json: %w", name, err)
	}
	return pages, nil
}

// PageImage resolves the rendered image for a page by naming convention.
// The second return reports whether a file was found.
func (s *Store) PageImage(name string, page int) (string, bool) {
	for _, ext := range imageExts {
		p := filepath.Join(s.root, name, fmt.Sprintf("page_%d.%s", page, ext))
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p, true
		}
	}
	return "", false
}
