package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const captainsLogPages = `[
	{
		"id": "page-1",
		"created_time": "2025-01-01T10:00:00.000Z",
		"last_edited_time": "2025-01-02T10:00:00.000Z",
		"properties": {
			"Name": {"id": "title", "type": "title", "title": [{"plain_text": "Stardate"}, {"plain_text": "41153.7"}]},
			"Tags": {"id": "t", "type": "multi_select", "multi_select": [{"name": "A"}, {"name": "B"}]},
			"Done": {"id": "d", "type": "checkbox", "checkbox": true}
		}
	},
	{
		"id": "page-2",
		"created_time": "2025-01-03T10:00:00.000Z",
		"last_edited_time": "2025-01-04T10:00:00.000Z",
		"properties": {
			"Name": {"id": "title", "type": "title", "title": [{"plain_text": "Notes, \"quoted\"\nsecond line"}]},
			"Done": {"id": "d", "type": "checkbox", "checkbox": false},
			"Extra": {"id": "e", "type": "url", "url": "https://example.org"}
		}
	}
]`

func testLogger() (zerolog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return zerolog.New(&buf), &buf
}

func decodePages(t *testing.T, data string) []Page {
	var pages []Page
	require.NoError(t, json.Unmarshal([]byte(data), &pages))
	return pages
}

func fixedClock() time.Time {
	return time.Date(2025, 1, 5, 9, 30, 15, 0, time.Local)
}

type fakeSource struct {
	pages map[string][]Page
	errs  map[string]error
	calls []string
}

func (s *fakeSource) FetchPages(ctx context.Context, databaseID string) ([]Page, error) {
	s.calls = append(s.calls, databaseID)
	if err, ok := s.errs[databaseID]; ok {
		return nil, err
	}
	return s.pages[databaseID], nil
}

func newTestExporter(t *testing.T, source PageSource, format string) (*Exporter, *bytes.Buffer) {
	log, buf := testLogger()
	files, err := NewLocalFileStore(t.TempDir())
	require.NoError(t, err)
	exporter, err := NewExporter(source, files, format, log)
	require.NoError(t, err)
	exporter.Now = fixedClock
	return exporter, buf
}

// brokenPageID is the page id failingFormatter refuses to write.
const brokenPageID = "page-broken"

// failingFormatter writes CSV but fails on the row of brokenPageID, after
// the header and earlier rows reached the file.
type failingFormatter struct {
	Formatter
}

func (f failingFormatter) WriteRow(row []string) error {
	if len(row) > 0 && row[0] == brokenPageID {
		return errors.New("disk full")
	}
	return f.Formatter.WriteRow(row)
}

// withFailingFormat registers failingFormatter as the "failcsv" format for
// the duration of the test.
func withFailingFormat(t *testing.T) string {
	Formatters["failcsv"] = func(out io.Writer) Formatter {
		return failingFormatter{NewCSVFormatter(out)}
	}
	t.Cleanup(func() { delete(Formatters, "failcsv") })
	return "failcsv"
}

func brokenPages(t *testing.T) []Page {
	return decodePages(t, `[
		{"id": "page-1", "properties": {"Name": {"type": "title", "title": [{"plain_text": "ok"}]}}},
		{"id": "`+brokenPageID+`", "properties": {"Name": {"type": "title", "title": [{"plain_text": "broken"}]}}}
	]`)
}
