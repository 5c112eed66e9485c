package prefspg

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	headtable "github.com/domonda/go-headtable"
	"github.com/domonda/go-headtable/plugins/visibility"
)

// fakeDB keeps documents in memory and records statements.
type fakeDB struct {
	docs       map[string][]byte
	statements []string
	deadlines  []bool
	err        error
}

func (db *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.record(ctx, sql)
	if db.err != nil {
		return pgconn.CommandTag{}, db.err
	}
	switch {
	case strings.HasPrefix(sql, "INSERT"):
		if db.docs == nil {
			db.docs = make(map[string][]byte)
		}
		db.docs[args[0].(string)] = args[1].([]byte)
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	case strings.HasPrefix(sql, "DELETE"):
		key := args[0].(string)
		if _, ok := db.docs[key]; !ok {
			return pgconn.NewCommandTag("DELETE 0"), nil
		}
		delete(db.docs, key)
		return pgconn.NewCommandTag("DELETE 1"), nil
	}
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	db.record(ctx, sql)
	if db.err != nil {
		return fakeRow{err: db.err}
	}
	data, ok := db.docs[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{data: data}
}

func (db *fakeDB) record(ctx context.Context, sql string) {
	_, hasDeadline := ctx.Deadline()
	db.statements = append(db.statements, sql)
	db.deadlines = append(db.deadlines, hasDeadline)
}

type fakeRow struct {
	data []byte
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*[]byte) = r.data
	return nil
}

func TestAdapter_PersistRestore(t *testing.T) {
	db := new(fakeDB)
	adapter := NewAdapter(db)

	doc, err := adapter.Restore("missing")
	require.NoError(t, err)
	require.Nil(t, doc)

	configs := []*headtable.ColumnConfig{{Key: "a"}, {Key: "b"}}
	newTable := func() *headtable.Table {
		table, err := headtable.New(headtable.Config{
			Columns:     func() []*headtable.ColumnConfig { return configs },
			Plugins:     []headtable.PluginEntry{visibility.Class.Entry()},
			Preferences: &headtable.PreferencesConfig{Key: "users", Adapter: adapter},
		})
		require.NoError(t, err)
		return table
	}
	table := newTable()
	require.NoError(t, visibility.Hide(table.ColumnByKey("b")))
	require.JSONEq(t,
		`{"plugins":{"column-visibility":{"table":{},"columns":{"b":{"isVisible":false}}}}}`,
		string(db.docs["users"]),
	)
	assert.True(t, visibility.IsHidden(newTable().ColumnByKey("b")))

	for i, statement := range db.statements {
		assert.Contains(t, statement, `"headtable_preferences"`)
		assert.True(t, db.deadlines[i], "statements run with the default timeout")
	}

	deleted, err := adapter.Delete(context.Background(), "users")
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = adapter.Delete(context.Background(), "users")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestAdapter_Errors(t *testing.T) {
	errConn := errors.New("connection refused")
	db := &fakeDB{err: errConn}
	adapter := NewAdapter(db).WithTimeout(0)

	err := adapter.Persist("k", &headtable.PreferencesDocument{})
	require.ErrorIs(t, err, errConn)
	_, err = adapter.Restore("k")
	require.ErrorIs(t, err, errConn)
	require.ErrorIs(t, adapter.EnsureTable(context.Background()), errConn)
	assert.Equal(t, []bool{false, false, false}, db.deadlines)

	db.err = nil
	db.docs = map[string][]byte{"k": []byte("{")}
	_, err = adapter.Restore("k")
	require.Error(t, err)
}

func TestAdapter_Table(t *testing.T) {
	adapter := NewAdapter(new(fakeDB)).WithTable("app.table_prefs").WithTimeout(time.Second)
	assert.Contains(t, adapter.CreateTableSQL(), `CREATE TABLE IF NOT EXISTS "app"."table_prefs"`)
	assert.Equal(t, `"plain"`, NewAdapter(nil).WithTable("plain").tableIdentifier())
}
