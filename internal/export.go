package internal

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const timestampLayout = "20060102_150405"

// ExportResult describes one written backup file. Path is empty when the
// database had no pages.
type ExportResult struct {
	Path    string
	Records int
	Columns []string
}

// Exporter writes one backup file per database.
type Exporter struct {
	Source PageSource
	Files  *LocalFileStore
	Format string

	// Mirror, when set, receives every written file.
	Mirror Store

	Now func() time.Time

	log zerolog.Logger
}

func NewExporter(source PageSource, files *LocalFileStore, format string, log zerolog.Logger) (*Exporter, error) {
	if format == "" {
		format = "csv"
	}
	if _, found := Formatters[format]; !found {
		return nil, fmt.Errorf("formatter %q is not supported", format)
	}

	return &Exporter{
		Source: source,
		Files:  files,
		Format: format,
		Now:    time.Now,
		log:    log,
	}, nil
}

// Export fetches every page of table and writes them to a new timestamped
// file. Fetch and write errors are returned to the caller.
func (e *Exporter) Export(ctx context.Context, table Table) (ExportResult, error) {
	e.log.Info().Msgf("Starting export of %s", table.displayName())

	pages, err := e.Source.FetchPages(ctx, table.ID)
	if err != nil {
		e.log.Error().Msgf("✗ Failed to export '%s': %v", table.Name, err)
		return ExportResult{}, err
	}

	if len(pages) == 0 {
		e.log.Warn().Msgf("No pages found in database '%s'", table.Name)
		return ExportResult{}, nil
	}

	schema := NewSchema(pages[0])
	if dropped := schema.DroppedColumns(pages); len(dropped) > 0 {
		e.log.Debug().Strs("columns", dropped).Msgf("Properties missing from the first page of '%s' are not exported", table.Name)
	}

	path, err := e.write(table, schema, pages)
	if err != nil {
		e.log.Error().Msgf("✗ Failed to export '%s': %v", table.Name, err)
		return ExportResult{}, err
	}

	if e.Mirror != nil {
		if err := e.Mirror.Put(ctx, path); err != nil {
			e.log.Error().Msgf("✗ Failed to copy '%s' off-site: %v", path, err)
			return ExportResult{}, fmt.Errorf("copy %s: %w", path, err)
		}
	}

	e.log.Info().Msgf("✓ Successfully exported %d pages to %s", len(pages), path)

	return ExportResult{Path: path, Records: len(pages), Columns: schema.Header()}, nil
}

func (e *Exporter) filename(table Table) string {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	return fmt.Sprintf("%s_%s.%s", table.Name, now().Format(timestampLayout), e.Format)
}

func (e *Exporter) write(table Table, schema Schema, pages []Page) (string, error) {
	file, err := e.Files.Create(e.filename(table))
	if err != nil {
		return "", err
	}
	path := file.Name()

	err = writeRows(Formatters[e.Format](file), e.log, schema, pages)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		// clean up partial file
		e.Files.Remove(path)
		return "", err
	}

	return path, nil
}

func writeRows(formatter Formatter, log zerolog.Logger, schema Schema, pages []Page) error {
	if err := formatter.WriteHeader(schema.Header()); err != nil {
		return err
	}
	for _, page := range pages {
		if err := formatter.WriteRow(schema.Row(log, page)); err != nil {
			return err
		}
	}
	return formatter.Flush()
}
