package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"gopkg.in/yaml.v3"

	"github.com/notekeeper/mongonote/pkg/core"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func checkFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown format %q: use text, json or yaml", format)
	}
}

// printNotes writes notes to w in the requested format.
func printNotes(w io.Writer, format string, notes []core.Note) error {
	if notes == nil {
		notes = []core.Note{}
	}

	switch format {
	case formatText:
		for _, n := range notes {
			if _, err := fmt.Fprintln(w, formatNote(n)); err != nil {
				return err
			}
		}
		return nil
	case formatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(notes)
	case formatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(notes); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return checkFormat(format)
	}
}

// lineEscaper keeps multi-line content on a single output line.
var lineEscaper = strings.NewReplacer("\\", `\\`, "\r", `\r`, "\n", `\n`)

// formatNote renders the text line: <id> <date> important=<bool> <content>.
func formatNote(n core.Note) string {
	return fmt.Sprintf("%s %s important=%t %s",
		n.ID, n.Date.UTC().Format(time.RFC3339), n.Important, lineEscaper.Replace(n.Content))
}

func formatEvent(e lifecycle.Event) string {
	ne, ok := e.(core.Event)
	if !ok {
		return e.String()
	}
	if ne.Note == nil {
		return ne.String()
	}
	return fmt.Sprintf("%s %s", ne.String(), lineEscaper.Replace(ne.Note.Content))
}
