package typeconv

import "strings"

// SemanticType is the canonical scalar category a native column type is
// normalized to. The values double as Doctrine mapping type names.
type SemanticType string

const (
	Integer  SemanticType = "integer"
	Float    SemanticType = "float"
	DateTime SemanticType = "datetime"
	Date     SemanticType = "date"
	Time     SemanticType = "time"
	String   SemanticType = "string"
	Blob     SemanticType = "blob"
	Boolean  SemanticType = "boolean"
)

// Rule maps every native type containing Substring to Type.
type Rule struct {
	Substring string
	Type      SemanticType
}

// Rules is evaluated in order and the first match wins. "int" must stay
// ahead of the float family and "datetime" ahead of "date" and "time".
var Rules = []Rule{
	{"int", Integer},
	{"float", Float},
	{"double", Float},
	{"decimal", Float},
	{"datetime", DateTime},
	{"date", Date},
	{"time", Time},
	{"text", String},
	{"char", String},
	{"varchar", String},
	{"blob", Blob},
	{"bool", Boolean},
}

// Map normalizes a native column type such as "int(11) unsigned" or
// "VARCHAR(255)". Types that match no rule are strings.
func Map(nativeType string) SemanticType {
	t := strings.ToLower(nativeType)
	for _, r := range Rules {
		if strings.Contains(t, r.Substring) {
			return r.Type
		}
	}
	return String
}

// PHPDocType returns the PHPDoc type used in generated accessor docblocks.
func PHPDocType(t SemanticType) string {
	switch t {
	case Integer:
		return "int"
	case Float:
		return "float"
	case DateTime, Date, Time:
		return `\DateTimeInterface`
	case String:
		return "string"
	case Boolean:
		return "bool"
	default:
		return "mixed"
	}
}

// GoType returns the Go type for a semantic type. Nullable scalars become
// pointers; byte slices are already nilable.
func GoType(t SemanticType, nullable bool) string {
	var goType string
	switch t {
	case Integer:
		goType = "int64"
	case Float:
		goType = "float64"
	case DateTime, Date, Time:
		goType = "time.Time"
	case Blob:
		return "[]byte"
	case Boolean:
		goType = "bool"
	default:
		goType = "string"
	}
	if nullable {
		return "*" + goType
	}
	return goType
}
