package internal

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Schedule runs job on every tick of the standard cron expression spec until
// ctx is cancelled. A tick that arrives while a run is still going is
// skipped.
func Schedule(ctx context.Context, spec string, log zerolog.Logger, job func(context.Context) error) error {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return err
	}

	logger := cronLogger{log}
	c := cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)))
	c.Schedule(schedule, cron.FuncJob(func() {
		if err := job(context.WithoutCancel(ctx)); err != nil {
			log.Error().Msgf("Scheduled backup failed: %v", err)
		}
		log.Info().Msgf("Next backup at %s", schedule.Next(time.Now()).Format(time.RFC3339))
	}))

	log.Info().Msgf("Scheduler started, next backup at %s", schedule.Next(time.Now()).Format(time.RFC3339))
	c.Start()

	<-ctx.Done()
	log.Info().Msg("Stopping scheduler.")
	<-c.Stop().Done()
	return nil
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
