// Package seed loads notes from local YAML, JSON and Markdown files.
package seed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/notekeeper/mongonote/pkg/core"
)

// Parser reads the notes contained in one file format.
type Parser interface {
	// Parse reads from r and returns the notes it describes.
	Parse(r io.Reader) ([]core.Note, error)
}

// DefaultParsers returns the standard set of parsers keyed by extension.
func DefaultParsers() map[string]Parser {
	return map[string]Parser{
		".json": JSONParser{},
		".yaml": YAMLParser{},
		".yml":  YAMLParser{},
		".md":   MarkdownParser{},
	}
}

// record is the on-disk shape of a note. Date accepts RFC 3339 or a bare date.
type record struct {
	Content   string `json:"content" yaml:"content"`
	Date      string `json:"date" yaml:"date"`
	Important bool   `json:"important" yaml:"important"`
}

func (r record) note() (core.Note, error) {
	n := core.Note{Content: r.Content, Important: r.Important}
	if r.Date == "" {
		return n, nil
	}
	date, err := parseDate(r.Date)
	if err != nil {
		return core.Note{}, err
	}
	n.Date = date
	return n, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func toNotes(records []record) ([]core.Note, error) {
	notes := make([]core.Note, 0, len(records))
	for i, r := range records {
		n, err := r.note()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		notes = append(notes, n)
	}
	return notes, nil
}

// --- JSON Parser ---

// JSONParser reads a single object or an array of objects.
type JSONParser struct{}

func (JSONParser) Parse(r io.Reader) ([]core.Note, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	var records []record
	if bytes.HasPrefix(trimmed, []byte("[")) {
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
	} else {
		var single record
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
		records = append(records, single)
	}
	return toNotes(records)
}

// --- YAML Parser ---

// YAMLParser reads a single mapping or a sequence of mappings.
type YAMLParser struct{}

func (YAMLParser) Parse(r io.Reader) ([]core.Note, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	if len(root.Content) == 0 {
		return []core.Note{}, nil
	}

	var records []record
	switch doc := root.Content[0]; doc.Kind {
	case yaml.SequenceNode:
		if err := doc.Decode(&records); err != nil {
			return nil, fmt.Errorf("invalid yaml: %w", err)
		}
	case yaml.MappingNode:
		var single record
		if err := doc.Decode(&single); err != nil {
			return nil, fmt.Errorf("invalid yaml: %w", err)
		}
		records = append(records, single)
	default:
		return nil, errors.New("invalid yaml: expected a mapping or a sequence")
	}
	return toNotes(records)
}

// --- Markdown Parser ---

// MarkdownParser reads one note per file: YAML frontmatter holds the fields,
// the body is the content.
type MarkdownParser struct{}

func (MarkdownParser) Parse(r io.Reader) ([]core.Note, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		return []core.Note{{Content: strings.TrimSpace(string(data))}}, nil
	}

	rest := data[3:]
	parts := bytes.SplitN(rest, []byte("\n---"), 2)
	if len(parts) == 1 {
		return nil, errors.New("frontmatter started but no closing delimiter found")
	}

	var front record
	if err := yaml.Unmarshal(parts[0], &front); err != nil {
		return nil, fmt.Errorf("invalid frontmatter: %w", err)
	}

	body := strings.TrimSpace(strings.TrimPrefix(string(parts[1]), "-"))
	if body != "" {
		front.Content = body
	}
	return toNotes([]record{front})
}
