package generator

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Reporter receives progress events of a run.
type Reporter interface {
	TablesFound(n int)
	Table(name string)
	Generated(res TableResult)
	Failed(res TableResult)
	Done(s Summary)
}

type nopReporter struct{}

func (nopReporter) TablesFound(int)       {}
func (nopReporter) Table(string)          {}
func (nopReporter) Generated(TableResult) {}
func (nopReporter) Failed(TableResult)    {}
func (nopReporter) Done(Summary)          {}

// ConsoleReporter prints one line per event.
type ConsoleReporter struct {
	w    io.Writer
	ok   *color.Color
	bad  *color.Color
	note *color.Color
}

func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{
		w:    w,
		ok:   color.New(color.FgGreen),
		bad:  color.New(color.FgRed),
		note: color.New(color.FgCyan),
	}
}

func (r *ConsoleReporter) TablesFound(n int) {
	fmt.Fprintf(r.w, "Tables found: %d\n", n)
}

func (r *ConsoleReporter) Table(name string) {
	fmt.Fprintf(r.w, "Processing table: %s\n", r.note.Sprint(name))
}

func (r *ConsoleReporter) Generated(res TableResult) {
	fmt.Fprintf(r.w, "Entity %s generated.\n", r.ok.Sprint(res.Class))
}

func (r *ConsoleReporter) Failed(res TableResult) {
	fmt.Fprintf(r.w, "%s %v\n", r.bad.Sprint("FAILED"), res.Err)
}

func (r *ConsoleReporter) Done(s Summary) {
	line := fmt.Sprintf("Done. %d tables processed, %d entities generated in %s", s.Processed(), s.Generated(), s.OutDir)
	if failed := len(s.Failed()); failed > 0 {
		fmt.Fprintf(r.w, "%s (%s)\n", line, r.bad.Sprintf("%d failed", failed))
		return
	}
	fmt.Fprintln(r.w, line)
}
