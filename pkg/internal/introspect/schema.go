package introspect

import "sort"

// KeyRole is the part a column plays in the table's key.
type KeyRole int

const (
	KeyNone KeyRole = iota
	KeyPrimary
)

// ColumnDescriptor describes one column as reported by the catalog.
type ColumnDescriptor struct {
	Name          string
	NativeType    string
	Nullable      bool
	KeyRole       KeyRole
	AutoGenerated bool
}

// IsPrimary reports whether the column belongs to the primary key.
func (c ColumnDescriptor) IsPrimary() bool {
	return c.KeyRole == KeyPrimary
}

// ForeignKeyEdge is a single-column reference to another table's column.
type ForeignKeyEdge struct {
	SourceColumn     string
	ReferencedTable  string
	ReferencedColumn string
}

// TableSchema is everything the renderers need to know about one table.
type TableSchema struct {
	Name     string
	Database string
	// Columns are in catalog order.
	Columns []ColumnDescriptor
	// ForeignKeys is keyed by source column.
	ForeignKeys map[string]ForeignKeyEdge
}

// PrimaryKey returns the first primary key column. Composite keys are not
// supported beyond that first column.
func (t TableSchema) PrimaryKey() (ColumnDescriptor, bool) {
	for _, c := range t.Columns {
		if c.IsPrimary() {
			return c, true
		}
	}
	return ColumnDescriptor{}, false
}

// ReferencedTables returns the distinct referenced tables, sorted.
func (t TableSchema) ReferencedTables() []string {
	seen := map[string]bool{}
	var tables []string
	for _, fk := range t.ForeignKeys {
		if seen[fk.ReferencedTable] {
			continue
		}
		seen[fk.ReferencedTable] = true
		tables = append(tables, fk.ReferencedTable)
	}
	sort.Strings(tables)
	return tables
}

// Restrict drops edges whose referenced table is not in tables, so that no
// entity points at a class that was never generated.
func (t TableSchema) Restrict(tables []string) TableSchema {
	known := make(map[string]bool, len(tables))
	for _, name := range tables {
		known[name] = true
	}
	fks := make(map[string]ForeignKeyEdge, len(t.ForeignKeys))
	for col, fk := range t.ForeignKeys {
		if known[fk.ReferencedTable] {
			fks[col] = fk
		}
	}
	t.ForeignKeys = fks
	return t
}
