// AngelaMos | 2026
// legal.go

package legal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/carterperez-dev/templates/sessiongate/internal/core"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,63}$`)

type Entry struct {
	Title string `yaml:"title"`
	File  string `yaml:"file"`
}

type Manifest struct {
	Documents map[string]Entry `yaml:"documents"`
}

type Summary struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

type Document struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Store serves legal documents listed in a manifest. The manifest is parsed
// once; document bodies are read from fsys on every call and returned
// untouched.
type Store struct {
	fsys     fs.FS
	manifest Manifest
}

// Open loads the manifest at path and serves files relative to its
// directory.
func Open(path string) (*Store, error) {
	fsys := os.DirFS(filepath.Dir(path))
	return NewStore(fsys, filepath.Base(path))
}

func NewStore(fsys fs.FS, manifestName string) (*Store, error) {
	raw, err := fs.ReadFile(fsys, manifestName)
	if err != nil {
		return nil, fmt.Errorf("read legal manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse legal manifest: %w", err)
	}

	for slug, entry := range m.Documents {
		if !slugPattern.MatchString(slug) {
			return nil, fmt.Errorf("legal manifest: invalid slug %q", slug)
		}
		if !fs.ValidPath(entry.File) {
			return nil, fmt.Errorf("legal manifest: invalid file %q for %s",
				entry.File, slug)
		}
	}

	return &Store{fsys: fsys, manifest: m}, nil
}

func (s *Store) Get(slug string) (*Document, error) {
	entry, ok := s.manifest.Documents[slug]
	if !ok {
		return nil, fmt.Errorf("legal document %q: %w", slug, core.ErrNotFound)
	}

	raw, err := fs.ReadFile(s.fsys, entry.File)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("legal document %q: %w", slug, core.ErrNotFound)
		}
		return nil, fmt.Errorf("read legal document %q: %w", slug, err)
	}

	return &Document{
		Slug:    slug,
		Title:   entry.Title,
		Content: string(raw),
	}, nil
}

// List returns the manifest entries sorted by slug.
func (s *Store) List() []Summary {
	out := make([]Summary, 0, len(s.manifest.Documents))
	for slug, entry := range s.manifest.Documents {
		out = append(out, Summary{Slug: slug, Title: entry.Title})
	}
	slices.SortFunc(out, func(a, b Summary) int {
		return strings.Compare(a.Slug, b.Slug)
	})
	return out
}
