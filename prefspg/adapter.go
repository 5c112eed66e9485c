// Package prefspg persists table preferences as jsonb documents
// in a PostgreSQL table.
package prefspg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	headtable "github.com/domonda/go-headtable"
)

// DefaultTable is the name of the table holding the documents.
var DefaultTable = "headtable_preferences"

// DefaultTimeout limits each statement because
// the PreferencesAdapter interface carries no context.
var DefaultTimeout = 5 * time.Second

// DBTX is implemented by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ headtable.PreferencesAdapter = new(Adapter)

// Adapter is a headtable.PreferencesAdapter
// storing one row per preferences key.
type Adapter struct {
	db      DBTX
	table   string
	timeout time.Duration
	logger  *slog.Logger
}

func NewAdapter(db DBTX) *Adapter {
	return &Adapter{
		db:      db,
		table:   DefaultTable,
		timeout: DefaultTimeout,
		logger:  headtable.DefaultLogger,
	}
}

// WithTable sets the name of the table, it may be schema qualified
// like "app.preferences".
func (a *Adapter) WithTable(table string) *Adapter {
	a.table = table
	return a
}

// WithTimeout sets the timeout of each statement.
// Zero disables the timeout.
func (a *Adapter) WithTimeout(timeout time.Duration) *Adapter {
	a.timeout = timeout
	return a
}

func (a *Adapter) WithLogger(logger *slog.Logger) *Adapter {
	a.logger = logger
	return a
}

func (a *Adapter) tableIdentifier() string {
	return pgx.Identifier(splitQualified(a.table)).Sanitize()
}

func splitQualified(name string) []string {
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			return []string{name[:i], name[i+1:]}
		}
	}
	return []string{name}
}

func (a *Adapter) context() (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.Background(), func() {}
	}
	return context.WithTimeout(context.Background(), a.timeout)
}

// CreateTableSQL returns the statement creating the table if it does not exist.
func (a *Adapter) CreateTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS ` + a.tableIdentifier() + ` (
	key        text PRIMARY KEY,
	document   jsonb NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now()
)`
}

// EnsureTable creates the table if it does not exist.
func (a *Adapter) EnsureTable(ctx context.Context) error {
	_, err := a.db.Exec(ctx, a.CreateTableSQL())
	if err != nil {
		return fmt.Errorf("create preferences table %s: %w", a.table, err)
	}
	return nil
}

func (a *Adapter) Persist(key string, doc *headtable.PreferencesDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	ctx, cancel := a.context()
	defer cancel()

	query := `INSERT INTO ` + a.tableIdentifier() + ` (key, document, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`
	if _, err = a.db.Exec(ctx, query, key, data); err != nil {
		return fmt.Errorf("upsert preferences %q: %w", key, err)
	}
	a.logger.Debug("Stored preferences document", slog.String("key", key), slog.Int("bytes", len(data)))
	return nil
}

// Restore returns nil without error if no row exists for key.
func (a *Adapter) Restore(key string) (*headtable.PreferencesDocument, error) {
	ctx, cancel := a.context()
	defer cancel()

	var data []byte
	err := a.db.QueryRow(ctx, `SELECT document FROM `+a.tableIdentifier()+` WHERE key = $1`, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select preferences %q: %w", key, err)
	}
	doc := new(headtable.PreferencesDocument)
	if err = json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decode preferences %q: %w", key, err)
	}
	if doc.Plugins == nil {
		doc.Plugins = make(map[string]*headtable.PluginPreferences)
	}
	return doc, nil
}

// Delete removes the document of key and
// returns if there was one.
func (a *Adapter) Delete(ctx context.Context, key string) (bool, error) {
	tag, err := a.db.Exec(ctx, `DELETE FROM `+a.tableIdentifier()+` WHERE key = $1`, key)
	if err != nil {
		return false, fmt.Errorf("delete preferences %q: %w", key, err)
	}
	return tag.RowsAffected() > 0, nil
}
