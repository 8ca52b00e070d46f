// Package render turns introspected table schemas into entity source files.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/TechXTT/entitygen/pkg/internal/introspect"
	"github.com/TechXTT/entitygen/pkg/internal/naming"
	"github.com/TechXTT/entitygen/pkg/internal/typeconv"
)

// ErrRender is returned when a table cannot be turned into a valid entity.
var ErrRender = errors.New("render failed")

// Renderer produces the source of one entity file.
type Renderer interface {
	Render(schema introspect.TableSchema) ([]byte, error)
	// Extension is the file extension without the dot.
	Extension() string
}

// Relation is the many-to-one side of a foreign key.
type Relation struct {
	Table            string
	Class            string
	ReferencedColumn string
}

// Property is one column as seen by the renderers.
type Property struct {
	Column     introspect.ColumnDescriptor
	Type       typeconv.SemanticType
	Identifier bool
	Relation   *Relation
}

// Name is the column name, used verbatim as the property name.
func (p Property) Name() string {
	return p.Column.Name
}

// EntitySpec is the rendering-time view of a table.
type EntitySpec struct {
	Table      string
	Database   string
	ClassName  string
	Properties []Property
	// Identifier indexes Properties; -1 when the table has no primary key.
	Identifier int
	// ReferencedTables are the distinct relation targets, sorted.
	ReferencedTables []string
}

// IdentifierProperty returns the property bound to the identifier accessor.
func (e EntitySpec) IdentifierProperty() (Property, bool) {
	if e.Identifier < 0 {
		return Property{}, false
	}
	return e.Properties[e.Identifier], true
}

// BuildEntity derives the EntitySpec of a table. It fails when two columns
// would produce accessor names that differ only in case, since PHP method
// names are case-insensitive.
func BuildEntity(schema introspect.TableSchema) (EntitySpec, error) {
	spec := EntitySpec{
		Table:            schema.Name,
		Database:         schema.Database,
		ClassName:        naming.ClassName(schema.Name),
		Identifier:       -1,
		ReferencedTables: schema.ReferencedTables(),
	}
	if spec.ClassName == "" {
		return EntitySpec{}, fmt.Errorf("%w: table %q has no usable class name", ErrRender, schema.Name)
	}

	accessors := map[string]string{}
	for _, col := range schema.Columns {
		accessor := naming.AccessorName(col.Name)
		key := strings.ToLower(accessor)
		if prev, ok := accessors[key]; ok {
			return EntitySpec{}, fmt.Errorf("%w: columns %q and %q of %s both map to accessor %q",
				ErrRender, prev, col.Name, schema.Name, accessor)
		}
		accessors[key] = col.Name

		p := Property{
			Column: col,
			Type:   typeconv.Map(col.NativeType),
		}
		switch fk, isFK := schema.ForeignKeys[col.Name]; {
		case col.IsPrimary():
			p.Identifier = spec.Identifier < 0
			if p.Identifier {
				spec.Identifier = len(spec.Properties)
			}
		case isFK:
			p.Relation = &Relation{
				Table:            fk.ReferencedTable,
				Class:            naming.ClassName(fk.ReferencedTable),
				ReferencedColumn: fk.ReferencedColumn,
			}
		}
		spec.Properties = append(spec.Properties, p)
	}
	return spec, nil
}
