package internal

import (
	"time"
)

// HistoryEntry is the outcome of one table in one run.
type HistoryEntry struct {
	RunID      string    `db:"run_id" json:"run_id" bson:"run_id"`
	Table      string    `db:"table_name" json:"table" bson:"table"`
	DatabaseID string    `db:"database_id" json:"database_id" bson:"database_id"`
	Status     string    `db:"status" json:"status" bson:"status"`
	Path       string    `db:"path" json:"path" bson:"path"`
	Records    int       `db:"records" json:"records" bson:"records"`
	Error      string    `db:"error_message" json:"error,omitempty" bson:"error,omitempty"`
	StartedAt  time.Time `db:"started_at" json:"started_at" bson:"started_at"`
	DurationMS int64     `db:"duration_ms" json:"duration_ms" bson:"duration_ms"`
}

func historyEntries(runID string, summary Summary) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(summary.Tables))
	for _, t := range summary.Tables {
		entry := HistoryEntry{
			RunID:      runID,
			Table:      t.Table.Name,
			DatabaseID: t.Table.ID,
			Status:     string(t.Status),
			Path:       t.Path,
			Records:    t.Records,
			StartedAt:  summary.Started.UTC(),
			DurationMS: t.Duration.Milliseconds(),
		}
		if t.Err != nil {
			entry.Error = t.Err.Error()
		}
		entries = append(entries, entry)
	}
	return entries
}
