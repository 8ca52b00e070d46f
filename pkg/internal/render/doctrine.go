package render

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/TechXTT/entitygen/pkg/internal/introspect"
	"github.com/TechXTT/entitygen/pkg/internal/naming"
	"github.com/TechXTT/entitygen/pkg/internal/typeconv"
)

const (
	DefaultNamespace           = `App\Entity`
	DefaultRepositoryNamespace = `App\Repository`

	identifierMethod         = "getId"
	fallbackIdentifierMethod = "getIdentifier"
)

// DoctrineRenderer renders Doctrine ORM entity classes.
type DoctrineRenderer struct {
	Namespace           string
	RepositoryNamespace string
	// CollectionPlaceholders declares and initializes one ArrayCollection
	// per referenced table, as older generated entities did.
	CollectionPlaceholders bool

	tmpl *template.Template
}

func NewDoctrineRenderer() *DoctrineRenderer {
	return &DoctrineRenderer{
		Namespace:           DefaultNamespace,
		RepositoryNamespace: DefaultRepositoryNamespace,
		tmpl:                template.Must(template.New("doctrine").Parse(doctrineTemplate)),
	}
}

func (r *DoctrineRenderer) Extension() string { return "php" }

type doctrineProperty struct {
	Column      string
	Annotations []string
	DocType     string
	Getter      string
	Setter      string
}

type doctrineCollection struct {
	Property string
}

type doctrineData struct {
	Namespace           string
	RepositoryNamespace string
	Table               string
	Database            string
	ClassName           string
	Properties          []doctrineProperty
	Collections         []doctrineCollection
	// IdentifierMethod is empty when the identifier's own getter is getId.
	IdentifierMethod string
	Identifier       *doctrineProperty
}

func (r *DoctrineRenderer) Render(schema introspect.TableSchema) ([]byte, error) {
	spec, err := BuildEntity(schema)
	if err != nil {
		return nil, err
	}
	data, err := r.data(spec)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRender, spec.Table, err)
	}
	return buf.Bytes(), nil
}

func (r *DoctrineRenderer) data(spec EntitySpec) (doctrineData, error) {
	data := doctrineData{
		Namespace:           r.Namespace,
		RepositoryNamespace: r.RepositoryNamespace,
		Table:               spec.Table,
		Database:            spec.Database,
		ClassName:           spec.ClassName,
	}
	getters := map[string]bool{}
	for _, p := range spec.Properties {
		dp := doctrineProperty{
			Column:      p.Name(),
			Annotations: r.annotations(p),
			DocType:     phpDocType(p),
			Getter:      naming.MethodName("get", p.Name()),
			Setter:      naming.MethodName("set", p.Name()),
		}
		getters[strings.ToLower(dp.Getter)] = true
		data.Properties = append(data.Properties, dp)
	}

	if r.CollectionPlaceholders {
		columns := map[string]bool{}
		for _, p := range spec.Properties {
			columns[p.Name()] = true
		}
		for _, table := range spec.ReferencedTables {
			name := table + "_collection"
			if columns[name] {
				return doctrineData{}, fmt.Errorf("%w: %s: collection property %s clashes with a column", ErrRender, spec.Table, name)
			}
			data.Collections = append(data.Collections, doctrineCollection{Property: name})
		}
	}

	if spec.Identifier >= 0 {
		id := data.Properties[spec.Identifier]
		data.Identifier = &id
		switch {
		case strings.EqualFold(id.Getter, identifierMethod):
		case !getters[strings.ToLower(identifierMethod)]:
			data.IdentifierMethod = identifierMethod
		case !getters[strings.ToLower(fallbackIdentifierMethod)]:
			data.IdentifierMethod = fallbackIdentifierMethod
		default:
			return doctrineData{}, fmt.Errorf("%w: %s: no free name for the identifier accessor", ErrRender, spec.Table)
		}
	}
	return data, nil
}

func (r *DoctrineRenderer) annotations(p Property) []string {
	col := p.Name()
	switch {
	case p.Column.IsPrimary():
		a := []string{
			`@ORM\Id`,
			fmt.Sprintf(`@ORM\Column(type="%s", name="%s")`, p.Type, col),
		}
		if p.Column.AutoGenerated {
			a = append(a, `@ORM\GeneratedValue(strategy="AUTO")`)
		}
		return a
	case p.Relation != nil:
		return []string{
			fmt.Sprintf(`@ORM\ManyToOne(targetEntity="%s\%s")`, r.Namespace, p.Relation.Class),
			fmt.Sprintf(`@ORM\JoinColumn(name="%s", referencedColumnName="%s")`, col, p.Relation.ReferencedColumn),
		}
	default:
		nullable := ""
		if p.Column.Nullable {
			nullable = ", nullable=true"
		}
		return []string{fmt.Sprintf(`@ORM\Column(type="%s", name="%s"%s)`, p.Type, col, nullable)}
	}
}

func phpDocType(p Property) string {
	if p.Relation != nil {
		return p.Relation.Class + "|null"
	}
	t := typeconv.PHPDocType(p.Type)
	if t == "mixed" {
		return t
	}
	return t + "|null"
}

const doctrineTemplate = `<?php

namespace {{ .Namespace }};

use Doctrine\ORM\Mapping as ORM;
{{- if .Collections }}
use Doctrine\Common\Collections\ArrayCollection;
use Doctrine\Common\Collections\Collection;
{{- end }}

/**
 * @ORM\Entity(repositoryClass="{{ .RepositoryNamespace }}\{{ .ClassName }}Repository")
 * @ORM\Table(name="{{ .Table }}", schema="{{ .Database }}")
 */
class {{ .ClassName }}
{
{{- range .Properties }}
    /**
{{- range .Annotations }}
     * {{ . }}
{{- end }}
     *
     * @var {{ .DocType }}
     */
    protected ${{ .Column }};
{{ end }}
{{- range .Collections }}
    /**
     * @var Collection
     */
    protected ${{ .Property }};
{{ end }}
    public function __construct()
    {
{{- range .Collections }}
        $this->{{ .Property }} = new ArrayCollection();
{{- end }}
    }
{{- if .IdentifierMethod }}

    /**
     * @return {{ .Identifier.DocType }}
     */
    public function {{ .IdentifierMethod }}()
    {
        return $this->{{ .Identifier.Column }};
    }
{{- end }}
{{- range .Properties }}

    /**
     * @return {{ .DocType }}
     */
    public function {{ .Getter }}()
    {
        return $this->{{ .Column }};
    }

    /**
     * @param {{ .DocType }} $value
     *
     * @return $this
     */
    public function {{ .Setter }}($value): self
    {
        $this->{{ .Column }} = $value;

        return $this;
    }
{{- end }}
}
`
