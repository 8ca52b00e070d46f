package generator

import (
	"errors"
	"fmt"

	"github.com/TechXTT/entitygen/pkg/internal/introspect"
	"github.com/TechXTT/entitygen/pkg/internal/render"
	"github.com/TechXTT/entitygen/pkg/runtime"
)

// Error taxonomy, matched with errors.Is.
var (
	ErrUsage      = errors.New("usage")
	ErrConnection = runtime.ErrConnection
	ErrQuery      = introspect.ErrQuery
	ErrRender     = render.ErrRender
	ErrFilesystem = errors.New("filesystem error")
)

// TableError ties a failure to the table being generated.
type TableError struct {
	Table string
	Err   error
}

func (e *TableError) Error() string {
	return fmt.Sprintf("table %s: %v", e.Table, e.Err)
}

func (e *TableError) Unwrap() error {
	return e.Err
}
