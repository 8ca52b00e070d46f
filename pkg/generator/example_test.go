package generator_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/TechXTT/entitygen/pkg/generator"
	"github.com/TechXTT/entitygen/pkg/internal/introspect"
	"github.com/TechXTT/entitygen/pkg/internal/render"
)

func ExampleRun() {
	out, err := os.MkdirTemp("", "entitygen-example")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(out)

	catalog := &fakeIntrospector{
		tables: []string{"customers", "orders"},
		schemas: map[string]introspect.TableSchema{
			"customers": simpleSchema("customers"),
			"orders": simpleSchema("orders", introspect.ForeignKeyEdge{
				SourceColumn: "customer_id", ReferencedTable: "customers", ReferencedColumn: "id",
			}),
		},
	}

	summary, err := generator.Run(context.Background(), generator.Options{
		OutDir:       out,
		Introspector: catalog,
		Renderer:     render.NewDoctrineRenderer(),
	})
	if err != nil {
		panic(err)
	}
	for _, res := range summary.Tables {
		fmt.Printf("%s -> %s\n", res.Table, filepath.Base(res.Path))
	}
	fmt.Printf("%d of %d generated\n", summary.Generated(), summary.Processed())
	// Output:
	// customers -> Customers.php
	// orders -> Orders.php
	// 2 of 2 generated
}
