package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/nbackup/notion-backup/internal"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. The root command performs one backup
// run.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "notion-backup",
		Short:         "Back up Notion databases to timestamped CSV files",
		Long:          "Back up Notion databases to timestamped CSV files",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackup(cmd, func(cfg *internal.Config, log zerolog.Logger) error {
				// a started run is not interrupted
				ctx := context.WithoutCancel(cmd.Context())
				return internal.Main(ctx, cfg, cmd.OutOrStdout(), log)
			})
		},
	}

	rootCmd.PersistentFlags().String("env-file", ".env", "Environment file to load")
	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().String("backup-dir", "", "Backup directory (default \"backups\")")
	rootCmd.PersistentFlags().String("format", "", "Export format: csv or ndjson (default \"csv\")")
	rootCmd.PersistentFlags().String("log-file", "", "Log file (default \"backup.log\")")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(newScheduleCmd())

	return rootCmd
}

func newScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule <cron-expression>",
		Short: "Run a backup on a cron schedule until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackup(cmd, func(cfg *internal.Config, log zerolog.Logger) error {
				return internal.Schedule(cmd.Context(), args[0], log, func(ctx context.Context) error {
					return internal.Main(ctx, cfg, cmd.OutOrStdout(), log)
				})
			})
		},
	}
}

func withBackup(cmd *cobra.Command, run func(*internal.Config, zerolog.Logger) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}

	log, closeLog, err := internal.NewLogger(cmd.OutOrStdout(), cfg.LogFile, verbose)
	if err != nil {
		return err
	}
	defer closeLog()

	return run(cfg, log)
}

func loadConfig(cmd *cobra.Command) (*internal.Config, error) {
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return nil, err
	}

	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := internal.LoadConfig(internal.LoadOptions{EnvFile: envFile, ConfigFile: configFile})
	if err != nil {
		return nil, err
	}

	for flag, dst := range map[string]*string{
		"backup-dir": &cfg.BackupDir,
		"format":     &cfg.Format,
		"log-file":   &cfg.LogFile,
	} {
		value, err := cmd.Flags().GetString(flag)
		if err != nil {
			return nil, err
		}
		if value != "" {
			*dst = value
		}
	}

	return cfg, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
