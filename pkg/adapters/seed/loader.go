package seed

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/notekeeper/mongonote/pkg/core"
)

// Loader resolves glob patterns to seed files and parses them.
type Loader struct {
	parsers map[string]Parser
	logger  *slog.Logger
}

// NewLoader creates a Loader with the default parsers.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		parsers: DefaultParsers(),
		logger:  logger,
	}
}

// RegisterParser adds or replaces the parser for an extension (e.g. ".toml").
func (l *Loader) RegisterParser(ext string, p Parser) {
	l.parsers[strings.ToLower(ext)] = p
}

// Supports reports whether path has a registered extension.
func (l *Loader) Supports(path string) bool {
	_, ok := l.parsers[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Files returns the supported files matching pattern, in lexical order.
// Patterns use doublestar syntax, so "seed/**/*.yaml" descends into subdirectories.
func (l *Loader) Files(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		if !l.Supports(m) {
			l.logger.Debug("skipping unsupported file", "path", m)
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)
	return files, nil
}

// LoadFile parses every note in a single file.
func (l *Loader) LoadFile(path string) ([]core.Note, error) {
	p, ok := l.parsers[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	notes, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return notes, nil
}

// Load parses all supported files matching pattern.
func (l *Loader) Load(pattern string) ([]core.Note, error) {
	files, err := l.Files(pattern)
	if err != nil {
		return nil, err
	}

	var notes []core.Note
	for _, path := range files {
		fileNotes, err := l.LoadFile(path)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("seed file loaded", "path", path, "notes", len(fileNotes))
		notes = append(notes, fileNotes...)
	}
	return notes, nil
}
