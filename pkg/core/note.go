// Package core holds the Note domain and the ports that storage adapters implement.
package core

import "time"

// Note is the central entity of the domain.
// ID is assigned by the store and is empty until the note has been saved.
type Note struct {
	ID        string    `json:"id" yaml:"id"`
	Content   string    `json:"content" yaml:"content"`
	Date      time.Time `json:"date" yaml:"date"`
	Important bool      `json:"important" yaml:"important"`
}

// ListOptions narrows a listing. The zero value lists every note.
type ListOptions struct {
	ImportantOnly bool
}

// Match reports whether n passes the options.
func (o ListOptions) Match(n Note) bool {
	if o.ImportantOnly && !n.Important {
		return false
	}
	return true
}
