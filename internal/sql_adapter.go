package internal

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/xo/dburl"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

const historyTable = "backup_runs"

// SqlHistory keeps run history in any database dburl understands.
type SqlHistory struct {
	DB *sqlx.DB
}

func (a *SqlHistory) Init(url string) error {
	u, err := dburl.Parse(url)
	if err != nil {
		return err
	}

	db, err := sqlx.Connect(u.Driver, u.DSN)
	if err != nil {
		return err
	}

	a.DB = db

	return a.migrate()
}

func (a *SqlHistory) migrate() error {
	db := a.DB

	var query string

	switch db.DriverName() {
	case "sqlserver":
		query = fmt.Sprintf(`IF OBJECT_ID(N'%[1]s', N'U') IS NULL CREATE TABLE %[1]s (
			run_id NVARCHAR(36) NOT NULL,
			table_name NVARCHAR(255) NOT NULL,
			database_id NVARCHAR(64) NOT NULL,
			status NVARCHAR(16) NOT NULL,
			path NVARCHAR(1024) NOT NULL,
			records INT NOT NULL,
			error_message NVARCHAR(MAX),
			started_at DATETIME2 NOT NULL,
			duration_ms BIGINT NOT NULL
		)`, historyTable)
	case "mysql":
		query = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			run_id VARCHAR(36) NOT NULL,
			table_name VARCHAR(255) NOT NULL,
			database_id VARCHAR(64) NOT NULL,
			status VARCHAR(16) NOT NULL,
			path VARCHAR(1024) NOT NULL,
			records INT NOT NULL,
			error_message TEXT,
			started_at DATETIME NOT NULL,
			duration_ms BIGINT NOT NULL
		)`, historyTable)
	case "postgres":
		query = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			run_id VARCHAR(36) NOT NULL,
			table_name TEXT NOT NULL,
			database_id TEXT NOT NULL,
			status VARCHAR(16) NOT NULL,
			path TEXT NOT NULL,
			records INTEGER NOT NULL,
			error_message TEXT,
			started_at TIMESTAMPTZ NOT NULL,
			duration_ms BIGINT NOT NULL
		)`, quoteIdent(historyTable))
	default:
		query = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			run_id TEXT NOT NULL,
			table_name TEXT NOT NULL,
			database_id TEXT NOT NULL,
			status TEXT NOT NULL,
			path TEXT NOT NULL,
			records INTEGER NOT NULL,
			error_message TEXT,
			started_at DATETIME NOT NULL,
			duration_ms INTEGER NOT NULL
		)`, historyTable)
	}

	_, err := db.Exec(query)
	return err
}

func (a *SqlHistory) Record(ctx context.Context, entries []HistoryEntry) error {
	tx, err := a.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`INSERT INTO %s (run_id, table_name, database_id, status, path, records, error_message, started_at, duration_ms)
		VALUES (:run_id, :table_name, :database_id, :status, :path, :records, :error_message, :started_at, :duration_ms)`, historyTable)

	for _, entry := range entries {
		if _, err := tx.NamedExecContext(ctx, query, entry); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (a *SqlHistory) Close() error {
	return a.DB.Close()
}

// helpers

func quoteIdent(column string) string {
	return pq.QuoteIdentifier(column)
}
