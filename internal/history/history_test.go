// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/office2pdf/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "state", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func entryAt(id string, at time.Time, status Status, engine string) Entry {
	return Entry{
		RequestID:  id,
		SourcePath: "/docs/" + id + ".docx",
		OutputPath: "/out/" + id + ".pdf",
		DocType:    "word",
		Engine:     engine,
		Status:     status,
		StartedAt:  at,
		Duration:   1500 * time.Millisecond,
	}
}

func TestNewStoreReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), entryAt("a", time.Now(), StatusConverted, "libreoffice")))
	require.NoError(t, s.Close())

	s, err = NewStore(path)
	require.NoError(t, err)
	defer s.Close()
	entries, err := s.List(context.Background(), QueryOptions{})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRecordAndList(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Record(ctx, entryAt("first", base, StatusConverted, "msoffice")))
	failed := entryAt("second", base.Add(time.Minute), StatusFailed, "libreoffice")
	failed.Error = "conversion failed: exit status 1"
	require.NoError(t, s.Record(ctx, failed))
	require.NoError(t, s.Record(ctx, entryAt("third", base.Add(2*time.Minute), StatusConverted, "libreoffice")))

	entries, err := s.List(ctx, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "third", entries[0].RequestID)
	assert.Equal(t, "first", entries[2].RequestID)
	assert.Equal(t, 1500*time.Millisecond, entries[0].Duration)
	assert.True(t, base.Equal(entries[2].StartedAt))

	entries, err = s.List(ctx, QueryOptions{FailedOnly: true})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "conversion failed: exit status 1", entries[0].Error)

	entries, err = s.List(ctx, QueryOptions{Engine: "libreoffice", Limit: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "third", entries[0].RequestID)
}

func TestRecordReplaces(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	e := entryAt("same", time.Now(), StatusFailed, "wps")
	require.NoError(t, s.Record(ctx, e))
	e.Status = StatusConverted
	require.NoError(t, s.Record(ctx, e))

	entries, err := s.List(ctx, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, StatusConverted, entries[0].Status)
}

func TestNewEntry(t *testing.T) {
	start := time.Now()
	req := types.Request{ID: "r1", SourcePath: "a.xlsx", DocType: types.DocSpreadsheet}
	res := types.Result{RequestID: "r1", Engine: types.EngineLibreOffice, OutputPath: "a.pdf", Pages: 3,
		StartedAt: start, FinishedAt: start.Add(2 * time.Second)}

	e := NewEntry(req, res, nil)
	assert.Equal(t, StatusConverted, e.Status)
	assert.Equal(t, "libreoffice", e.Engine)
	assert.Equal(t, "excel", e.DocType)
	assert.Equal(t, 2*time.Second, e.Duration)
	assert.Equal(t, 3, e.Pages)

	e = NewEntry(types.Request{ID: "r2", SourcePath: "b.txt"}, types.Result{}, errors.New("unsupported file type: .txt"))
	assert.Equal(t, StatusFailed, e.Status)
	assert.Equal(t, "none", e.Engine)
	assert.Equal(t, "unsupported file type: .txt", e.Error)
	assert.False(t, e.StartedAt.IsZero())
	assert.Zero(t, e.Duration)
}

func TestExport(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Record(ctx, entryAt("a", base, StatusConverted, "msoffice")))
	require.NoError(t, s.Record(ctx, entryAt("b", base.Add(time.Second), StatusFailed, "wps")))

	var yamlOut bytes.Buffer
	require.NoError(t, s.Export(ctx, &yamlOut, "yaml", QueryOptions{}))
	var fromYAML []Entry
	require.NoError(t, yaml.Unmarshal(yamlOut.Bytes(), &fromYAML))
	require.Len(t, fromYAML, 2)
	assert.Equal(t, "b", fromYAML[0].RequestID)

	var jsonOut bytes.Buffer
	require.NoError(t, s.Export(ctx, &jsonOut, "JSON", QueryOptions{FailedOnly: true}))
	var fromJSON []Entry
	require.NoError(t, json.Unmarshal(jsonOut.Bytes(), &fromJSON))
	require.Len(t, fromJSON, 1)
	assert.Equal(t, StatusFailed, fromJSON[0].Status)

	assert.Error(t, s.Export(ctx, &jsonOut, "csv", QueryOptions{}))
}

func TestExportEmpty(t *testing.T) {
	s := testStore(t)
	var out bytes.Buffer
	require.NoError(t, s.Export(context.Background(), &out, "json", QueryOptions{}))
	assert.Equal(t, "[]\n", out.String())
}
