// Package importer turns CSV files into transactions for the import action
// and writes the native CSV export.
package importer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cleared-dev/tally/internal/model"
)

// Parser converts a CSV file into transactions. Parsed transactions carry
// no id; the category may be an id, a name or empty.
type Parser interface {
	Parse(r io.Reader) ([]model.Transaction, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats lists the registered format names.
func (r *Registry) Formats() []string {
	return slices.Sorted(maps.Keys(r.parsers))
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&TallyParser{})
	r.Register(&ChaseParser{})
	return r
}

const (
	inboxDir     = "import"
	processedDir = "processed"
)

// Scan lists the CSV files waiting in <root>/import/, sorted by name.
// A missing directory is an empty inbox.
func Scan(root string) ([]FileInfo, error) {
	dir := filepath.Join(root, inboxDir)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{Name: e.Name(), Path: filepath.Join(dir, e.Name()), Size: info.Size()})
	}
	return files, nil
}

// MarkProcessed moves name from import/ into import/processed/. An earlier
// file of the same name is kept; the new one gets a numeric suffix.
func MarkProcessed(root, name string) error {
	dstDir := filepath.Join(root, inboxDir, processedDir)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	dst := filepath.Join(dstDir, name)
	for n := 2; ; n++ {
		if _, err := os.Stat(dst); err != nil {
			break
		}
		dst = filepath.Join(dstDir, fmt.Sprintf("%s-%d%s", base, n, ext))
	}

	if err := os.Rename(filepath.Join(root, inboxDir, name), dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", name, err)
	}
	return nil
}
