package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/tv-show-library/internal/config"
	"github.com/iliyamo/tv-show-library/internal/model"
)

// title_key holds model.TitleKey(title).  Both LOWER() and NOCASE only
// fold ASCII in SQLite, so filtering and uniqueness go through the key.
const sqliteSchema = `CREATE TABLE IF NOT EXISTS tv_shows (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL UNIQUE COLLATE NOCASE,
	title_key TEXT NOT NULL UNIQUE,
	cover_image_url TEXT NOT NULL,
	genre TEXT NOT NULL DEFAULT 'Drama',
	is_ended INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
)`

const mysqlSchema = `CREATE TABLE IF NOT EXISTS tv_shows (
	id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	title_key VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL,
	cover_image_url VARCHAR(2048) NOT NULL,
	genre VARCHAR(100) NOT NULL DEFAULT 'Drama',
	is_ended TINYINT(1) NOT NULL DEFAULT 0,
	created_at DATETIME(6) NOT NULL,
	UNIQUE KEY uq_tv_shows_title (title),
	UNIQUE KEY uq_tv_shows_title_key (title_key)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`

type dialect struct {
	schema      string
	columnQuery string
	titleKeyDef string
}

var dialects = map[string]dialect{
	config.DriverSQLite: {
		schema:      sqliteSchema,
		columnQuery: `SELECT COUNT(*) FROM pragma_table_info('tv_shows') WHERE name = ?`,
		titleKeyDef: `TEXT NOT NULL DEFAULT ''`,
	},
	config.DriverMySQL: {
		schema: mysqlSchema,
		columnQuery: `SELECT COUNT(*) FROM information_schema.COLUMNS
			WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = 'tv_shows' AND COLUMN_NAME = ?`,
		titleKeyDef: `VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL DEFAULT ''`,
	},
}

// Migrate creates the tv_shows table when missing and upgrades tables
// created before genre or title_key existed.  It is safe to run on every
// start.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	d, ok := dialects[driver]
	if !ok {
		return fmt.Errorf("unsupported driver %q", driver)
	}

	if _, err := db.ExecContext(ctx, d.schema); err != nil {
		return fmt.Errorf("create tv_shows: %w", err)
	}

	has, err := hasColumn(ctx, db, d, "genre")
	if err != nil {
		return err
	}
	if !has {
		if _, err := db.ExecContext(ctx, `ALTER TABLE tv_shows ADD COLUMN genre VARCHAR(100) NOT NULL DEFAULT 'Drama'`); err != nil {
			return fmt.Errorf("add genre column: %w", err)
		}
	}

	has, err = hasColumn(ctx, db, d, "title_key")
	if err != nil {
		return err
	}
	if !has {
		if _, err := db.ExecContext(ctx, `ALTER TABLE tv_shows ADD COLUMN title_key `+d.titleKeyDef); err != nil {
			return fmt.Errorf("add title_key column: %w", err)
		}
		if err := backfillTitleKeys(ctx, db); err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, `CREATE UNIQUE INDEX uq_tv_shows_title_key ON tv_shows (title_key)`); err != nil {
			return fmt.Errorf("index title_key (titles differing only by case?): %w", err)
		}
	}
	return nil
}

func hasColumn(ctx context.Context, db *sql.DB, d dialect, name string) (bool, error) {
	var n int
	if err := db.QueryRowContext(ctx, d.columnQuery, name).Scan(&n); err != nil {
		return false, fmt.Errorf("inspect tv_shows: %w", err)
	}
	return n > 0, nil
}

// backfillTitleKeys reads every title before writing so that it also works
// over a single-connection pool.
func backfillTitleKeys(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, `SELECT id, title FROM tv_shows`)
	if err != nil {
		return fmt.Errorf("read titles: %w", err)
	}
	keys := map[int64]string{}
	for rows.Next() {
		var (
			id    int64
			title string
		)
		if err := rows.Scan(&id, &title); err != nil {
			_ = rows.Close()
			return fmt.Errorf("read titles: %w", err)
		}
		keys[id] = model.TitleKey(title)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return fmt.Errorf("read titles: %w", err)
	}
	_ = rows.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for id, key := range keys {
		if _, err := tx.ExecContext(ctx, `UPDATE tv_shows SET title_key = ? WHERE id = ?`, key, id); err != nil {
			return fmt.Errorf("backfill title_key: %w", err)
		}
	}
	return tx.Commit()
}
