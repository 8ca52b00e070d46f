// Package generator drives a generation run: enumerate tables, introspect,
// render and write one entity file per table.
package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/TechXTT/entitygen/pkg/internal/introspect"
	"github.com/TechXTT/entitygen/pkg/internal/naming"
	"github.com/TechXTT/entitygen/pkg/internal/render"
)

// Introspector is the catalog access a run needs.
type Introspector interface {
	ListTables(ctx context.Context) ([]string, error)
	Describe(ctx context.Context, table string) (introspect.TableSchema, error)
}

// Options configures a run.
type Options struct {
	OutDir       string
	Introspector Introspector
	Renderer     render.Renderer
	// Reporter receives progress; nil discards it.
	Reporter Reporter
}

// TableResult is the outcome of one table.
type TableResult struct {
	Table string
	Class string
	Path  string
	Err   error
}

// Summary collects the per-table results of a run in enumeration order.
type Summary struct {
	OutDir string
	Tables []TableResult
}

// Processed is the number of tables the run went through.
func (s Summary) Processed() int {
	return len(s.Tables)
}

// Generated is the number of entity files written.
func (s Summary) Generated() int {
	return s.Processed() - len(s.Failed())
}

// Failed returns the results that carry an error.
func (s Summary) Failed() []TableResult {
	var failed []TableResult
	for _, r := range s.Tables {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// Err joins the table failures, or returns nil when every table succeeded.
func (s Summary) Err() error {
	failed := s.Failed()
	if len(failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(failed))
	for _, r := range failed {
		errs = append(errs, r.Err)
	}
	return fmt.Errorf("%d of %d tables failed: %w", len(failed), s.Processed(), errors.Join(errs...))
}

// Run generates one entity file per table. Failing to create the output
// directory or to list tables aborts the run; a failing table is recorded
// and the run moves on to the next one. The returned error is non-nil if
// anything failed.
func Run(ctx context.Context, opts Options) (Summary, error) {
	report := opts.Reporter
	if report == nil {
		report = nopReporter{}
	}
	summary := Summary{OutDir: opts.OutDir}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return summary, fmt.Errorf("%w: create output directory %s: %w", ErrFilesystem, opts.OutDir, err)
	}

	tables, err := opts.Introspector.ListTables(ctx)
	if err != nil {
		return summary, err
	}
	report.TablesFound(len(tables))

	for _, table := range tables {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		report.Table(table)
		res := generateTable(ctx, opts, table, tables)
		if res.Err != nil {
			report.Failed(res)
		} else {
			report.Generated(res)
		}
		summary.Tables = append(summary.Tables, res)
	}

	report.Done(summary)
	return summary, summary.Err()
}

func generateTable(ctx context.Context, opts Options, table string, known []string) TableResult {
	res := TableResult{Table: table, Class: naming.ClassName(table)}
	fail := func(err error) TableResult {
		res.Err = &TableError{Table: table, Err: err}
		return res
	}

	schema, err := opts.Introspector.Describe(ctx, table)
	if err != nil {
		return fail(err)
	}
	out, err := opts.Renderer.Render(schema.Restrict(known))
	if err != nil {
		return fail(err)
	}

	res.Path = filepath.Join(opts.OutDir, res.Class+"."+opts.Renderer.Extension())
	if err := os.WriteFile(res.Path, out, 0o644); err != nil {
		return fail(fmt.Errorf("%w: write %s: %w", ErrFilesystem, res.Path, err))
	}
	return res
}
