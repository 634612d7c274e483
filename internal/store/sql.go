package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/noorweb/noorweb/internal/config"
)

const schema = `CREATE TABLE IF NOT EXISTS ` + config.SQLTableName + ` (
	store_key  TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

type kvRow struct {
	Key       string    `db:"store_key"`
	Payload   string    `db:"payload"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SQLBackend stores entries in a single key-value table. Both the sqlite
// and postgres drivers understand the upsert it uses.
type SQLBackend struct {
	db *sqlx.DB
}

// OpenSQL connects with driver ("sqlite" or "postgres") and creates the
// table when missing.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQLBackend, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == config.StoreDriverSQLite {
		// A single connection serializes writers.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrStoreMigrate, err)
	}
	return &SQLBackend{db: db}, nil
}

func (b *SQLBackend) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var payload string
	query := b.db.Rebind(`SELECT payload FROM ` + config.SQLTableName + ` WHERE store_key = ?`)
	err := b.db.GetContext(ctx, &payload, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(payload), true, nil
}

func (b *SQLBackend) Save(ctx context.Context, key string, data []byte) error {
	row := kvRow{Key: key, Payload: string(data), UpdatedAt: time.Now().UTC()}
	_, err := b.db.NamedExecContext(ctx, `INSERT INTO `+config.SQLTableName+` (store_key, payload, updated_at)
		VALUES (:store_key, :payload, :updated_at)
		ON CONFLICT (store_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`, row)
	return err
}

func (b *SQLBackend) Delete(ctx context.Context, key string) error {
	_, err := b.db.ExecContext(ctx, b.db.Rebind(`DELETE FROM `+config.SQLTableName+` WHERE store_key = ?`), key)
	return err
}

func (b *SQLBackend) Close() error {
	return b.db.Close()
}
