package render

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"

	"github.com/TechXTT/entitygen/pkg/internal/introspect"
	"github.com/TechXTT/entitygen/pkg/internal/naming"
	"github.com/TechXTT/entitygen/pkg/internal/typeconv"
)

const defaultGoPackage = "entity"

// GoRenderer renders plain Go structs with db tags, one per table.
type GoRenderer struct {
	Package string
}

// NewGoRenderer names the package after the output directory.
func NewGoRenderer(outDir string) *GoRenderer {
	return &GoRenderer{Package: PackageName(outDir)}
}

func (r *GoRenderer) Extension() string { return "go" }

// PackageName derives a valid Go package name from a directory path.
func PackageName(dir string) string {
	var b strings.Builder
	for _, c := range strings.ToLower(filepath.Base(dir)) {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			b.WriteRune(c)
		}
	}
	name := b.String()
	if name == "" || unicode.IsDigit(rune(name[0])) {
		return defaultGoPackage
	}
	return name
}

func (r *GoRenderer) Render(schema introspect.TableSchema) ([]byte, error) {
	spec, err := BuildEntity(schema)
	if err != nil {
		return nil, err
	}

	// Method names share the namespace with fields.
	used := map[string]bool{"TableName": true, "Identifier": true}
	var fields []jen.Code
	var edges []jen.Code
	for _, p := range spec.Properties {
		name := naming.ClassName(p.Name())
		if used[name] {
			return nil, fmt.Errorf("%w: %s: field %s clashes with a generated name", ErrRender, spec.Table, name)
		}
		used[name] = true

		field := jen.Id(name).Add(goType(p.Type, p.Column.Nullable && !p.Column.IsPrimary())).
			Tag(map[string]string{"db": p.Name()})
		switch {
		case p.Column.IsPrimary():
			field.Comment("primary key")
		case p.Relation != nil:
			field.Commentf("references %s.%s", p.Relation.Table, p.Relation.ReferencedColumn)
		}
		fields = append(fields, field)
	}
	for _, p := range spec.Properties {
		if p.Relation == nil {
			continue
		}
		name := edgeName(p.Name(), used)
		used[name] = true
		edges = append(edges, jen.Id(name).Op("*").Id(p.Relation.Class).Tag(map[string]string{"db": "-"}))
	}
	if len(edges) > 0 {
		fields = append(fields, jen.Line())
		fields = append(fields, edges...)
	}

	f := jen.NewFile(r.Package)
	f.HeaderComment("Code generated by entitygen. DO NOT EDIT.")
	f.Commentf("%s maps the %s.%s table.", spec.ClassName, spec.Database, spec.Table)
	f.Type().Id(spec.ClassName).Struct(fields...)

	f.Comment("TableName returns the name of the mapped table.")
	f.Func().Params(jen.Id("e").Op("*").Id(spec.ClassName)).Id("TableName").Params().String().Block(
		jen.Return(jen.Lit(spec.Table)),
	)

	if id, ok := spec.IdentifierProperty(); ok {
		f.Commentf("Identifier returns the %s primary key.", id.Name())
		f.Func().Params(jen.Id("e").Op("*").Id(spec.ClassName)).Id("Identifier").Params().Add(goType(id.Type, false)).Block(
			jen.Return(jen.Id("e").Dot(naming.ClassName(id.Name()))),
		)
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRender, spec.Table, err)
	}
	return buf.Bytes(), nil
}

// edgeName names the relation field after the column without its "_id"
// suffix, falling back to a "Ref" suffix when that name is taken.
func edgeName(column string, used map[string]bool) string {
	base := naming.ClassName(column)
	if strings.HasSuffix(strings.ToLower(column), "_id") {
		if name := naming.ClassName(column[:len(column)-3]); name != "" && !used[name] {
			return name
		}
	}
	name := base + "Ref"
	for i := 2; used[name]; i++ {
		name = fmt.Sprintf("%sRef%d", base, i)
	}
	return name
}

func goType(t typeconv.SemanticType, nullable bool) *jen.Statement {
	s := typeconv.GoType(t, nullable)
	stmt := &jen.Statement{}
	if strings.HasPrefix(s, "*") {
		stmt.Op("*")
		s = s[1:]
	}
	switch s {
	case "time.Time":
		return stmt.Qual("time", "Time")
	case "[]byte":
		return stmt.Index().Byte()
	default:
		return stmt.Id(s)
	}
}
