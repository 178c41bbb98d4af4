package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	ErrMissingToken = errors.New("NOTION_TOKEN environment variable is not set")
	ErrNoTables     = errors.New("No database IDs configured")
)

const (
	DefaultBackupDir = "backups"
	DefaultLogFile   = "backup.log"
	DefaultFormat    = "csv"
)

// Config is built once at startup and passed to everything that needs it.
type Config struct {
	Token         string
	APIURL        string
	NotionVersion string

	BackupDir string
	Format    string
	LogFile   string

	// Tables keeps its configured order. Entries without an id are skipped
	// at run time.
	Tables []Table

	S3URL          string
	HistoryURL     string
	NotifyURL      string
	PushgatewayURL string
}

type LoadOptions struct {
	// EnvFile is loaded into the environment first. A missing file is fine.
	EnvFile string

	// ConfigFile is an optional YAML file.
	ConfigFile string
}

type fileConfig struct {
	BackupDir      string  `yaml:"backup_dir"`
	Format         string  `yaml:"format"`
	LogFile        string  `yaml:"log_file"`
	APIURL         string  `yaml:"api_url"`
	NotionVersion  string  `yaml:"notion_version"`
	S3URL          string  `yaml:"s3_url"`
	HistoryURL     string  `yaml:"history_url"`
	NotifyURL      string  `yaml:"notify_url"`
	PushgatewayURL string  `yaml:"pushgateway_url"`
	Tables         []Table `yaml:"tables"`
}

// DefaultTables is the table map used when no config file lists tables.
func DefaultTables() []Table {
	return []Table{
		{Name: "captains_log", IDEnv: "CAPTAINS_LOG_DB_ID"},
		{Name: "projects_tracker", IDEnv: "PROJECTS_TRACKER_DB_ID"},
	}
}

func LoadConfig(opts LoadOptions) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %q: %w", opts.EnvFile, err)
		}
	}

	cfg := &Config{
		Token:          os.Getenv("NOTION_TOKEN"),
		APIURL:         getEnv("NOTION_API_URL", DefaultAPIURL),
		NotionVersion:  getEnv("NOTION_VERSION", DefaultNotionVersion),
		BackupDir:      getEnv("NOTION_BACKUP_DIR", DefaultBackupDir),
		Format:         getEnv("NOTION_BACKUP_FORMAT", DefaultFormat),
		LogFile:        getEnv("NOTION_BACKUP_LOG_FILE", DefaultLogFile),
		S3URL:          os.Getenv("NOTION_BACKUP_S3_URL"),
		HistoryURL:     os.Getenv("NOTION_BACKUP_HISTORY_URL"),
		NotifyURL:      os.Getenv("NOTION_BACKUP_NOTIFY_URL"),
		PushgatewayURL: os.Getenv("NOTION_BACKUP_PUSHGATEWAY_URL"),
		Tables:         DefaultTables(),
	}

	if opts.ConfigFile != "" {
		if err := cfg.applyFile(opts.ConfigFile); err != nil {
			return nil, err
		}
	}

	for i, t := range cfg.Tables {
		if t.ID == "" && t.IDEnv != "" {
			cfg.Tables[i].ID = os.Getenv(t.IDEnv)
		}
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	seen := map[string]bool{}
	for i, t := range fc.Tables {
		if t.Name == "" {
			return fmt.Errorf("configuration file %q: table %d has no name", path, i+1)
		}
		// the name is a file name prefix inside the backup directory
		if strings.ContainsAny(t.Name, `/\`) || t.Name == "." || t.Name == ".." {
			return fmt.Errorf("configuration file %q: table name %q is not a valid file name", path, t.Name)
		}
		if seen[t.Name] {
			return fmt.Errorf("configuration file %q: duplicate table name %q", path, t.Name)
		}
		seen[t.Name] = true
	}

	override(&c.BackupDir, fc.BackupDir)
	override(&c.Format, fc.Format)
	override(&c.LogFile, fc.LogFile)
	override(&c.APIURL, fc.APIURL)
	override(&c.NotionVersion, fc.NotionVersion)
	override(&c.S3URL, fc.S3URL)
	override(&c.HistoryURL, fc.HistoryURL)
	override(&c.NotifyURL, fc.NotifyURL)
	override(&c.PushgatewayURL, fc.PushgatewayURL)
	if len(fc.Tables) > 0 {
		c.Tables = fc.Tables
	}
	return nil
}

// Validate checks the preconditions for a run: a token and at least one
// table with an id.
func (c *Config) Validate() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	if configuredTables(c.Tables) == 0 {
		return ErrNoTables
	}
	if _, found := Formatters[c.Format]; !found {
		return fmt.Errorf("formatter %q is not supported", c.Format)
	}
	return nil
}

func override(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
