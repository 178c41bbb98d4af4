package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnv = []string{
	"NOTION_TOKEN",
	"CAPTAINS_LOG_DB_ID",
	"PROJECTS_TRACKER_DB_ID",
	"NOTION_API_URL",
	"NOTION_VERSION",
	"NOTION_BACKUP_DIR",
	"NOTION_BACKUP_FORMAT",
	"NOTION_BACKUP_LOG_FILE",
	"NOTION_BACKUP_S3_URL",
	"NOTION_BACKUP_HISTORY_URL",
	"NOTION_BACKUP_NOTIFY_URL",
	"NOTION_BACKUP_PUSHGATEWAY_URL",
	"OTHER_DB_ID",
}

// clearEnv unsets the variables for the test and restores them afterwards.
func clearEnv(t *testing.T) {
	for _, key := range configEnv {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeFile(t *testing.T, name string, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Token)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, DefaultNotionVersion, cfg.NotionVersion)
	assert.Equal(t, "backups", cfg.BackupDir)
	assert.Equal(t, "csv", cfg.Format)
	assert.Equal(t, "backup.log", cfg.LogFile)
	assert.Equal(t, []Table{
		{Name: "captains_log", IDEnv: "CAPTAINS_LOG_DB_ID"},
		{Name: "projects_tracker", IDEnv: "PROJECTS_TRACKER_DB_ID"},
	}, cfg.Tables)
}

func TestLoadConfigEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("NOTION_TOKEN", "secret_token")
	t.Setenv("CAPTAINS_LOG_DB_ID", "db-1")
	t.Setenv("NOTION_BACKUP_DIR", "/var/backups/notion")

	cfg, err := LoadConfig(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "secret_token", cfg.Token)
	assert.Equal(t, "db-1", cfg.Tables[0].ID)
	assert.Equal(t, "", cfg.Tables[1].ID)
	assert.Equal(t, "/var/backups/notion", cfg.BackupDir)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigEnvFile(t *testing.T) {
	clearEnv(t)
	envFile := writeFile(t, ".env", "NOTION_TOKEN=from_file\nPROJECTS_TRACKER_DB_ID=db-2\n")

	cfg, err := LoadConfig(LoadOptions{EnvFile: envFile})
	require.NoError(t, err)

	assert.Equal(t, "from_file", cfg.Token)
	assert.Equal(t, "db-2", cfg.Tables[1].ID)
}

func TestLoadConfigEnvFileDoesNotOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("NOTION_TOKEN", "from_env")
	envFile := writeFile(t, ".env", "NOTION_TOKEN=from_file\n")

	cfg, err := LoadConfig(LoadOptions{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.Token)
}

func TestLoadConfigMissingEnvFile(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig(LoadOptions{EnvFile: filepath.Join(t.TempDir(), ".env")})
	assert.NoError(t, err)
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("OTHER_DB_ID", "db-other")
	configFile := writeFile(t, "notion-backup.yml", `
backup_dir: archive
format: ndjson
tables:
  - name: reading_list
    id: db-reading
  - name: other
    id_env: OTHER_DB_ID
  - name: disabled
`)

	cfg, err := LoadConfig(LoadOptions{ConfigFile: configFile})
	require.NoError(t, err)

	assert.Equal(t, "archive", cfg.BackupDir)
	assert.Equal(t, "ndjson", cfg.Format)
	assert.Equal(t, []Table{
		{Name: "reading_list", ID: "db-reading"},
		{Name: "other", ID: "db-other", IDEnv: "OTHER_DB_ID"},
		{Name: "disabled"},
	}, cfg.Tables)
}

func TestLoadConfigFileWithoutTables(t *testing.T) {
	clearEnv(t)
	configFile := writeFile(t, "notion-backup.yml", "log_file: notion.log\n")

	cfg, err := LoadConfig(LoadOptions{ConfigFile: configFile})
	require.NoError(t, err)
	assert.Equal(t, "notion.log", cfg.LogFile)
	assert.Equal(t, DefaultTables(), cfg.Tables)
}

func TestLoadConfigFileErrors(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "missing.yml")})
	assert.Error(t, err)

	_, err = LoadConfig(LoadOptions{ConfigFile: writeFile(t, "bad.yml", "tables: [")})
	assert.Error(t, err)

	_, err = LoadConfig(LoadOptions{ConfigFile: writeFile(t, "unnamed.yml", "tables:\n  - id: db-1\n")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table 1 has no name")

	_, err = LoadConfig(LoadOptions{ConfigFile: writeFile(t, "duplicate.yml", "tables:\n  - name: log\n    id: a\n  - name: log\n    id: b\n")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate table name "log"`)

	for _, name := range []string{"../x", "a/b", `a\\b`, ".."} {
		_, err = LoadConfig(LoadOptions{ConfigFile: writeFile(t, "path.yml", fmt.Sprintf("tables:\n  - name: '%s'\n    id: a\n", name))})
		require.Error(t, err, name)
		assert.Contains(t, err.Error(), "is not a valid file name")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{Format: "csv", Tables: []Table{{Name: "a", ID: "db-a"}}}
	assert.ErrorIs(t, cfg.Validate(), ErrMissingToken)

	cfg.Token = "secret_token"
	assert.NoError(t, cfg.Validate())

	cfg.Tables = []Table{{Name: "a"}}
	assert.ErrorIs(t, cfg.Validate(), ErrNoTables)

	cfg.Tables = []Table{{Name: "a", ID: "db-a"}}
	cfg.Format = "xlsx"
	assert.Error(t, cfg.Validate())
}
