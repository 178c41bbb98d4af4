package internal

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// RunError is returned when at least one table failed. The individual
// causes are only in the log.
type RunError struct {
	Failed int
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%d backup(s) failed", e.Failed)
}

type TableStatus string

const (
	StatusSuccess TableStatus = "success"
	StatusEmpty   TableStatus = "empty"
	StatusSkipped TableStatus = "skipped"
	StatusFailed  TableStatus = "failed"
)

type TableResult struct {
	Table    Table
	Status   TableStatus
	Path     string
	Records  int
	Err      error
	Duration time.Duration
}

// Summary is what a run produced. Files holds the written paths in table
// order.
type Summary struct {
	Files    []string
	Errors   []string
	Tables   []TableResult
	Started  time.Time
	Duration time.Duration
}

func (s Summary) Count(status TableStatus) int {
	count := 0
	for _, t := range s.Tables {
		if t.Status == status {
			count++
		}
	}
	return count
}

type Backup struct {
	Exporter *Exporter

	log zerolog.Logger
}

func NewBackup(exporter *Exporter, log zerolog.Logger) *Backup {
	return &Backup{Exporter: exporter, log: log}
}

// Run exports every table in order. A failing table does not stop the
// others; if any failed, Run returns a *RunError after all were attempted.
func (b *Backup) Run(ctx context.Context, tables []Table) (Summary, error) {
	summary := Summary{
		Files:   []string{},
		Errors:  []string{},
		Started: time.Now(),
	}

	for _, table := range tables {
		if table.ID == "" {
			b.log.Warn().Msgf("Skipping '%s': No database ID provided", table.Name)
			summary.Tables = append(summary.Tables, TableResult{Table: table, Status: StatusSkipped})
			continue
		}

		start := time.Now()
		result, err := b.Exporter.Export(ctx, table)
		tableResult := TableResult{Table: table, Duration: time.Since(start)}

		if err != nil {
			msg := fmt.Sprintf("Failed to backup '%s': %v", table.Name, err)
			b.log.Error().Msg(msg)
			summary.Errors = append(summary.Errors, msg)
			tableResult.Status = StatusFailed
			tableResult.Err = err
		} else if result.Path == "" {
			tableResult.Status = StatusEmpty
		} else {
			summary.Files = append(summary.Files, result.Path)
			tableResult.Status = StatusSuccess
			tableResult.Path = result.Path
			tableResult.Records = result.Records
		}
		summary.Tables = append(summary.Tables, tableResult)
	}
	summary.Duration = time.Since(summary.Started)

	b.logSummary(summary)

	if len(summary.Errors) > 0 {
		return summary, &RunError{Failed: len(summary.Errors)}
	}
	return summary, nil
}

func (b *Backup) logSummary(summary Summary) {
	b.log.Info().Msg(rule)
	b.log.Info().Msg("Backup Summary")
	b.log.Info().Msg(rule)
	b.log.Info().Msgf("Successful backups: %d", len(summary.Files))
	b.log.Info().Msgf("Failed backups: %d", len(summary.Errors))

	if len(summary.Files) > 0 {
		b.log.Info().Msg("Backup files created:")
		for _, path := range summary.Files {
			b.log.Info().Msgf("  - %s", path)
		}
	}

	if len(summary.Errors) > 0 {
		b.log.Error().Msg("Errors encountered:")
		for _, msg := range summary.Errors {
			b.log.Error().Msgf("  - %s", msg)
		}
	}
}
