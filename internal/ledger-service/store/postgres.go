package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/radieske/bet-ledger-poc/internal/shared/db"
)

const ledgerKVSchema = `
CREATE TABLE IF NOT EXISTS ledger_kv (
	key        BYTEA PRIMARY KEY,
	value      BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Postgres guarda o estado na tabela ledger_kv; cada Commit é uma transação SQL
type Postgres struct {
	db *sql.DB
}

// OpenPostgres conecta, valida a conexão e garante o schema
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	conn, err := db.ConnectPostgres(dsn)
	if err != nil {
		return nil, err
	}
	p := NewPostgres(conn)
	if err := p.Migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return p, nil
}

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// Migrate cria a tabela ledger_kv se não existir
func (p *Postgres) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, ledgerKVSchema)
	return errors.Wrap(err, "migrate ledger_kv")
}

func (p *Postgres) Get(ctx context.Context, key []byte) ([]byte, error) {
	var v []byte
	err := p.db.QueryRowContext(ctx, `SELECT value FROM ledger_kv WHERE key=$1`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "postgres get")
	}
	return v, nil
}

func (p *Postgres) Commit(ctx context.Context, writes []Write) error {
	if len(writes) == 0 {
		return nil
	}
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "postgres begin")
	}
	defer tx.Rollback()

	for _, w := range writes {
		if w.Delete {
			if _, err := tx.ExecContext(ctx, `DELETE FROM ledger_kv WHERE key=$1`, w.Key); err != nil {
				return errors.Wrap(err, "postgres delete")
			}
			continue
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO ledger_kv (key, value, updated_at) VALUES ($1, $2, NOW())
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
			w.Key, w.Value); err != nil {
			return errors.Wrap(err, "postgres upsert")
		}
	}
	return errors.Wrap(tx.Commit(), "postgres commit")
}

func (p *Postgres) Scan(ctx context.Context, prefix []byte) ([]Entry, error) {
	var (
		rows *sql.Rows
		err  error
	)
	// bytea compara byte a byte, então o intervalo [prefix, prefixEnd) cobre exatamente o prefixo
	if end := prefixEnd(prefix); end != nil {
		rows, err = p.db.QueryContext(ctx,
			`SELECT key, value FROM ledger_kv WHERE key >= $1 AND key < $2 ORDER BY key`, prefix, end)
	} else {
		rows, err = p.db.QueryContext(ctx,
			`SELECT key, value FROM ledger_kv WHERE key >= $1 ORDER BY key`, prefix)
	}
	if err != nil {
		return nil, errors.Wrap(err, "postgres scan")
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, errors.Wrap(err, "postgres scan row")
		}
		out = append(out, e)
	}
	return out, errors.Wrap(rows.Err(), "postgres rows")
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
