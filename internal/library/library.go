package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arcanaland/easel/internal/artwork"
)

// Entry is an artwork file in the library
type Entry struct {
	Name    string // file name without .json, usable with `easel show`
	Path    string
	Artwork *artwork.Artwork
}

// Library is a directory of artwork records
type Library struct {
	Path string
}

// Open returns the library rooted at path, resolving symlinks
func Open(path string) (*Library, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, fmt.Errorf("error resolving library path: %w", err)
	}
	return &Library{Path: resolved}, nil
}

// Init creates the library directory if it doesn't exist
func Init(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("error creating artwork library: %w", err)
	}
	return nil
}

// List loads every artwork in the library, sorted by name. Files that fail
// to decode are skipped and reported by name.
func (l *Library) List() ([]Entry, []string, error) {
	entries, err := os.ReadDir(l.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading artwork library: %w", err)
	}

	var found []Entry
	var skipped []string
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		entryPath := filepath.Join(l.Path, entry.Name())
		info, err := os.Stat(entryPath)
		if err != nil || info.IsDir() {
			continue
		}

		a, err := artwork.Load(entryPath)
		if err != nil {
			skipped = append(skipped, entry.Name())
			continue
		}

		found = append(found, Entry{
			Name:    strings.TrimSuffix(entry.Name(), ".json"),
			Path:    entryPath,
			Artwork: a,
		})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found, skipped, nil
}

// Summary is a one line description of an entry
func (e Entry) Summary() string {
	a := e.Artwork
	parts := []string{}
	if names := a.ArtistNames(); len(names) > 0 {
		parts = append(parts, strings.Join(names, ", "))
	}
	if a.Title != nil && *a.Title != "" {
		parts = append(parts, *a.Title)
	}
	if len(parts) == 0 {
		return a.ID
	}
	return strings.Join(parts, " · ")
}
