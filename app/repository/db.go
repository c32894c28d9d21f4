package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("record not found")

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Column is a single column assignment used by inserts and partial updates.
type Column struct {
	Name  string
	Value any
}

type rowScanner func(dest ...any) error

// table binds a row type to its table name, primary key and column list.
type table[T any] struct {
	db      DBTX
	name    string
	key     string
	columns []string
	scan    func(scan rowScanner) (*T, error)
}

func (t table[T]) selectQuery(where string) string {
	return "SELECT " + strings.Join(t.columns, ", ") + " FROM " + t.name + " WHERE " + where
}

func (t table[T]) findOne(ctx context.Context, column string, value any) (*T, error) {
	row := t.db.QueryRowContext(ctx, t.selectQuery(column+" = ?"), value)
	item, err := t.scan(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (t table[T]) findMany(ctx context.Context, where string, args ...any) ([]*T, error) {
	rows, err := t.db.QueryContext(ctx, t.selectQuery(where), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*T, 0)
	for rows.Next() {
		item, err := t.scan(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (t table[T]) insert(ctx context.Context, cols ...Column) error {
	names := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		names[i] = col.Name
		placeholders[i] = "?"
		args[i] = col.Value
	}

	query := "INSERT INTO " + t.name + " (" + strings.Join(names, ", ") + ") VALUES (" + strings.Join(placeholders, ", ") + ")"
	_, err := t.db.ExecContext(ctx, query, args...)
	return err
}

func (t table[T]) update(ctx context.Context, id any, cols ...Column) error {
	if len(cols) == 0 {
		return nil
	}

	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, col := range cols {
		sets[i] = col.Name + " = ?"
		args = append(args, col.Value)
	}
	args = append(args, id)

	query := "UPDATE " + t.name + " SET " + strings.Join(sets, ", ") + " WHERE " + t.key + " = ?"
	_, err := t.db.ExecContext(ctx, query, args...)
	return err
}
