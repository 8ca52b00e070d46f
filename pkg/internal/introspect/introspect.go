// Package introspect reads table, column and foreign key metadata from a
// MySQL information_schema.
package introspect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// ErrQuery is returned when a catalog query fails.
var ErrQuery = errors.New("catalog query failed")

// Querier is the subset of *sql.DB the introspector needs.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Introspector queries the catalog of a single database.
type Introspector struct {
	db       Querier
	database string
}

func New(db Querier, database string) *Introspector {
	return &Introspector{db: db, database: database}
}

// Database returns the schema name being introspected.
func (in *Introspector) Database() string {
	return in.database
}

// ListTables returns the table names of the database in name order.
func (in *Introspector) ListTables(ctx context.Context) ([]string, error) {
	query, args, err := sq.Select("TABLE_NAME").
		From("information_schema.TABLES").
		Where(sq.Eq{"TABLE_SCHEMA": in.database}).
		OrderBy("TABLE_NAME").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: build table query: %w", ErrQuery, err)
	}
	rows, err := in.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list tables of %s: %w", ErrQuery, in.database, err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: scan table name: %w", ErrQuery, err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list tables of %s: %w", ErrQuery, in.database, err)
	}
	return tables, nil
}

// Columns returns the columns of table in ordinal position order.
func (in *Introspector) Columns(ctx context.Context, table string) ([]ColumnDescriptor, error) {
	query, args, err := sq.Select("COLUMN_NAME", "COLUMN_TYPE", "IS_NULLABLE", "COLUMN_KEY", "EXTRA").
		From("information_schema.COLUMNS").
		Where(sq.Eq{"TABLE_SCHEMA": in.database}).
		Where(sq.Eq{"TABLE_NAME": table}).
		OrderBy("ORDINAL_POSITION").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: build column query: %w", ErrQuery, err)
	}
	rows, err := in.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: describe %s: %w", ErrQuery, table, err)
	}
	defer rows.Close()

	var columns []ColumnDescriptor
	for rows.Next() {
		var name, colType, nullable, key, extra string
		if err := rows.Scan(&name, &colType, &nullable, &key, &extra); err != nil {
			return nil, fmt.Errorf("%w: scan column of %s: %w", ErrQuery, table, err)
		}
		col := ColumnDescriptor{
			Name:          name,
			NativeType:    colType,
			Nullable:      strings.EqualFold(nullable, "YES"),
			AutoGenerated: strings.Contains(strings.ToLower(extra), "auto_increment"),
		}
		if key == "PRI" {
			col.KeyRole = KeyPrimary
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: describe %s: %w", ErrQuery, table, err)
	}
	return columns, nil
}

// ForeignKeys returns the foreign key edges declared on table that point
// into the same database. When a column takes part in several constraints
// the first one reported wins.
func (in *Introspector) ForeignKeys(ctx context.Context, table string) (map[string]ForeignKeyEdge, error) {
	query, args, err := sq.Select("COLUMN_NAME", "REFERENCED_TABLE_NAME", "REFERENCED_COLUMN_NAME").
		From("information_schema.KEY_COLUMN_USAGE").
		Where(sq.Eq{"TABLE_SCHEMA": in.database}).
		Where(sq.Eq{"TABLE_NAME": table}).
		Where(sq.Eq{"REFERENCED_TABLE_SCHEMA": in.database}).
		Where(sq.NotEq{"REFERENCED_TABLE_NAME": nil}).
		OrderBy("CONSTRAINT_NAME", "ORDINAL_POSITION").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: build foreign key query: %w", ErrQuery, err)
	}
	rows, err := in.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: foreign keys of %s: %w", ErrQuery, table, err)
	}
	defer rows.Close()

	edges := map[string]ForeignKeyEdge{}
	for rows.Next() {
		var fk ForeignKeyEdge
		if err := rows.Scan(&fk.SourceColumn, &fk.ReferencedTable, &fk.ReferencedColumn); err != nil {
			return nil, fmt.Errorf("%w: scan foreign key of %s: %w", ErrQuery, table, err)
		}
		if _, ok := edges[fk.SourceColumn]; ok {
			continue
		}
		edges[fk.SourceColumn] = fk
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: foreign keys of %s: %w", ErrQuery, table, err)
	}
	return edges, nil
}

// Describe builds the full schema of one table.
func (in *Introspector) Describe(ctx context.Context, table string) (TableSchema, error) {
	columns, err := in.Columns(ctx, table)
	if err != nil {
		return TableSchema{}, err
	}
	fks, err := in.ForeignKeys(ctx, table)
	if err != nil {
		return TableSchema{}, err
	}
	return TableSchema{
		Name:        table,
		Database:    in.database,
		Columns:     columns,
		ForeignKeys: fks,
	}, nil
}
