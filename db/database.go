// Package db persists cleanup run history. Only counts and timestamps are
// stored, never message content.
package db

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/jyothri/mailclean/constants"
)

var db *sqlx.DB

// SetupDatabase opens the connection and runs migrations. History is an
// optional feature; callers skip this entirely when no db_host is set.
func SetupDatabase() error {
	psqlInfo := fmt.Sprintf("host=%s port=%d user=%s "+
		"password=%s dbname=%s sslmode=disable",
		constants.DbHost, constants.DbPort, constants.DbUser,
		constants.DbPassword, constants.DbName)

	var err error
	db, err = sqlx.Open("postgres", psqlInfo)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	err = db.Ping()
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Successfully connected to database")

	if err := migrateDB(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	return nil
}

// Ready reports whether history persistence is available.
func Ready() bool {
	return db != nil
}

// Close closes the database connection
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// SaveCleanupRun records the outcome of one cleanup invocation.
func SaveCleanupRun(run CleanupRun) error {
	insert_row := `insert into cleanupruns
			(email, unread_deleted, spam_deleted, trash_deleted, old_deleted,
				total_deleted, success, ran_at)
		values
			($1, $2, $3, $4, $5, $6, $7, current_timestamp) RETURNING id`
	_, err := db.Exec(insert_row, run.Email, run.UnreadDeleted, run.SpamDeleted,
		run.TrashDeleted, run.OldDeleted, run.TotalDeleted, run.Success)
	if err != nil {
		return fmt.Errorf("failed to save cleanup run for %s: %w", run.Email, err)
	}
	return nil
}

// GetCleanupRunsFromDb returns one page of an account's cleanup history,
// newest first, along with the total row count.
func GetCleanupRunsFromDb(email string, pageNo int) ([]CleanupRun, int, error) {
	limit := 10
	offset := limit * (pageNo - 1)
	count_rows := `select count(*) from cleanupruns where email = $1`
	read_row := `select id, email, unread_deleted, spam_deleted, trash_deleted,
							 old_deleted, total_deleted, success, ran_at
	             from cleanupruns
							 where email = $1 order by id desc limit $2 offset $3`
	runs := []CleanupRun{}
	var count int
	err := db.Get(&count, count_rows, email)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get cleanup run count for %s: %w", email, err)
	}
	err = db.Select(&runs, read_row, email, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get cleanup runs for %s, page %d: %w", email, pageNo, err)
	}
	return runs, count, nil
}

func migrateDB() error {
	var count int
	has_table_query := `select count(*)
		from information_schema.tables
		where table_name = $1`
	err := db.Get(&count, has_table_query, "version")
	if err != nil {
		return fmt.Errorf("failed to check for version table: %w", err)
	}
	if count == 0 {
		return migrateDBv0()
	}
	return nil
}

func migrateDBv0() error {
	insert_version_table := `delete from version;
		INSERT INTO version (id) VALUES (1)`

	statements := []struct {
		name string
		sql  string
	}{
		{"cleanupruns", create_cleanupruns_table},
		{"version", create_version_table},
	}

	for _, stmt := range statements {
		_, err := db.Exec(stmt.sql)
		if err != nil {
			return fmt.Errorf("failed to create table %s: %w", stmt.name, err)
		}
		slog.Info("Created table", "table", stmt.name)
	}

	_, err := db.Exec(insert_version_table)
	if err != nil {
		return fmt.Errorf("failed to insert version: %w", err)
	}
	return nil
}

const create_cleanupruns_table = `CREATE TABLE IF NOT EXISTS cleanupruns (
	id SERIAL PRIMARY KEY,
	email VARCHAR(320) NOT NULL,
	unread_deleted INTEGER NOT NULL DEFAULT 0,
	spam_deleted INTEGER NOT NULL DEFAULT 0,
	trash_deleted INTEGER NOT NULL DEFAULT 0,
	old_deleted INTEGER NOT NULL DEFAULT 0,
	total_deleted INTEGER NOT NULL DEFAULT 0,
	success BOOLEAN NOT NULL DEFAULT true,
	ran_at TIMESTAMP NOT NULL DEFAULT current_timestamp
)`

const create_version_table = `CREATE TABLE IF NOT EXISTS version (
	id INTEGER PRIMARY KEY
)`
