package internal

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Main performs one backup run: validate the configuration, export every
// table, record history and metrics, then notify. It returns the error that
// should make the process exit non-zero.
func Main(ctx context.Context, cfg *Config, out io.Writer, log zerolog.Logger) error {
	log.Info().Msg(rule)
	log.Info().Msg("Notion Backup Automation Started")
	log.Info().Msg(rule)

	notify := &notifiers{list: []Notifier{NewConsoleNotifier(out)}, log: log}
	defer notify.Close()

	if cfg.NotifyURL != "" {
		redisNotifier := &RedisNotifier{}
		if err := redisNotifier.Init(cfg.NotifyURL); err != nil {
			log.Warn().Msgf("Notifications disabled: %v", err)
		} else {
			notify.list = append(notify.list, redisNotifier)
		}
	}

	if err := cfg.Validate(); err != nil {
		log.Error().Msg(err.Error())
		switch {
		case errors.Is(err, ErrMissingToken):
			notify.Notify(ctx, false, "Backup failed: Missing NOTION_TOKEN")
		case errors.Is(err, ErrNoTables):
			notify.Notify(ctx, false, "Backup failed: No databases configured")
		default:
			notify.Notify(ctx, false, "Backup failed: "+err.Error())
		}
		return err
	}

	backup, err := newBackup(ctx, cfg, log)
	if err != nil {
		log.Error().Msgf("Backup failed with error: %v", err)
		notify.Notify(ctx, false, "Backup failed: "+err.Error())
		return err
	}

	log.Info().Msgf("Found %s to back up", pluralize(configuredTables(cfg.Tables), "database"))

	summary, runErr := backup.Run(ctx, cfg.Tables)

	recordHistory(ctx, cfg, log, summary)
	pushMetrics(cfg, log, summary, runErr)

	if runErr != nil {
		log.Error().Msgf("Backup failed with error: %v", runErr)
		notify.Notify(ctx, false, "Backup failed: "+runErr.Error())
		return runErr
	}

	notify.Notify(ctx, true, fmt.Sprintf("Successfully backed up %d database(s)", len(summary.Files)))
	log.Info().Msg("Backup completed successfully!")
	return nil
}

func newBackup(ctx context.Context, cfg *Config, log zerolog.Logger) (*Backup, error) {
	client, err := NewNotionClient(cfg, log)
	if err != nil {
		return nil, err
	}

	files, err := NewLocalFileStore(cfg.BackupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	exporter, err := NewExporter(client, files, cfg.Format, log)
	if err != nil {
		return nil, err
	}

	if cfg.S3URL != "" {
		store := &S3Store{}
		if err := store.Init(ctx, cfg.S3URL); err != nil {
			return nil, fmt.Errorf("failed to configure %s: %w", cfg.S3URL, err)
		}
		exporter.Mirror = store
	}

	return NewBackup(exporter, log), nil
}

// recordHistory and pushMetrics never change the outcome of a run.
func recordHistory(ctx context.Context, cfg *Config, log zerolog.Logger, summary Summary) {
	if cfg.HistoryURL == "" {
		return
	}

	store, err := NewHistoryStore(cfg.HistoryURL)
	if err != nil {
		log.Warn().Msgf("Run history disabled: %v", err)
		return
	}
	defer store.Close()

	runID := uuid.New().String()
	if err := store.Record(ctx, historyEntries(runID, summary)); err != nil {
		log.Warn().Msgf("Failed to record run history: %v", err)
		return
	}
	log.Debug().Str("run_id", runID).Msg("Recorded run history")
}

func pushMetrics(cfg *Config, log zerolog.Logger, summary Summary, runErr error) {
	if cfg.PushgatewayURL == "" {
		return
	}

	metrics := NewMetrics()
	metrics.Observe(summary, runErr)
	if err := metrics.Push(cfg.PushgatewayURL); err != nil {
		log.Warn().Msgf("Failed to push metrics: %v", err)
	}
}
