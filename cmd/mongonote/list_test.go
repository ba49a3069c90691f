package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/notekeeper/mongonote"
	"github.com/notekeeper/mongonote/pkg/core"
)

// memoryRepository serves a fixed set of notes in insertion order.
type memoryRepository struct {
	notes   []core.Note
	listErr error
	closed  bool
}

func (m *memoryRepository) Initialize(ctx context.Context) error { return nil }

func (m *memoryRepository) Save(ctx context.Context, n core.Note) (core.Note, error) {
	return core.Note{}, core.ErrReadOnly
}

func (m *memoryRepository) List(ctx context.Context) ([]core.Note, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]core.Note{}, m.notes...), nil
}

func (m *memoryRepository) Close(ctx context.Context) error {
	m.closed = true
	return nil
}

func openMemory(t *testing.T, repo *memoryRepository) *core.Service {
	t.Helper()
	service, err := openService(context.Background(), "pw", mongonote.WithRepository(repo), mongonote.WithReadOnly(true))
	require.NoError(t, err)
	return service
}

func TestPrintListing_Text(t *testing.T) {
	service := openMemory(t, &memoryRepository{notes: sampleNotes})

	var out, status bytes.Buffer
	require.NoError(t, printListing(context.Background(), &out, &status, service, formatText, core.ListOptions{}))

	assert.Equal(t,
		"connected\n"+
			"5cf0134f1c9d440000c0b001 2019-05-30T17:30:31Z important=true HTML is easy\n"+
			"5cf0134f1c9d440000c0b002 2019-05-30T17:20:14Z important=false Browser can execute only JavaScript\n",
		out.String())
	assert.Empty(t, status.String())
}

func TestPrintListing_EmptyCollection(t *testing.T) {
	service := openMemory(t, &memoryRepository{})

	var out, status bytes.Buffer
	require.NoError(t, printListing(context.Background(), &out, &status, service, formatText, core.ListOptions{}))

	assert.Equal(t, "connected\n", out.String())
}

func TestPrintListing_Idempotent(t *testing.T) {
	service := openMemory(t, &memoryRepository{notes: sampleNotes})

	var first, second bytes.Buffer
	require.NoError(t, printListing(context.Background(), &first, &bytes.Buffer{}, service, formatText, core.ListOptions{}))
	require.NoError(t, printListing(context.Background(), &second, &bytes.Buffer{}, service, formatText, core.ListOptions{}))

	assert.Equal(t, first.String(), second.String())
}

func TestPrintListing_StructuredFormatsStayParseable(t *testing.T) {
	service := openMemory(t, &memoryRepository{notes: sampleNotes})

	t.Run("json", func(t *testing.T) {
		var out, status bytes.Buffer
		require.NoError(t, printListing(context.Background(), &out, &status, service, formatJSON, core.ListOptions{}))

		var notes []core.Note
		require.NoError(t, json.Unmarshal(out.Bytes(), &notes), out.String())
		assert.Len(t, notes, 2)
		assert.Equal(t, "connected\n", status.String())
	})

	t.Run("yaml", func(t *testing.T) {
		var out, status bytes.Buffer
		require.NoError(t, printListing(context.Background(), &out, &status, service, formatYAML, core.ListOptions{}))

		var notes []map[string]any
		require.NoError(t, yaml.Unmarshal(out.Bytes(), &notes), out.String())
		require.Len(t, notes, 2)
		assert.Equal(t, "HTML is easy", notes[0]["content"])
		assert.Equal(t, "connected\n", status.String())
	})
}

func TestPrintListing_ImportantOnly(t *testing.T) {
	service := openMemory(t, &memoryRepository{notes: sampleNotes})

	var out bytes.Buffer
	require.NoError(t, printListing(context.Background(), &out, &bytes.Buffer{}, service, formatText, core.ListOptions{ImportantOnly: true}))

	assert.Equal(t,
		"connected\n5cf0134f1c9d440000c0b001 2019-05-30T17:30:31Z important=true HTML is easy\n",
		out.String())
}

func TestPrintListing_QueryError(t *testing.T) {
	repo := &memoryRepository{listErr: errors.New("cursor killed")}
	service := openMemory(t, repo)

	var out bytes.Buffer
	err := printListing(context.Background(), &out, &bytes.Buffer{}, service, formatText, core.ListOptions{})
	assert.EqualError(t, err, "cursor killed")
	assert.Equal(t, "connected\n", out.String())

	require.NoError(t, service.Close(context.Background()))
	assert.True(t, repo.closed)
}
