// Package console prints the user-facing progress lines of a bootstrap run.
//
// Lines follow a two-level outline: " * heading" for a step and "  - detail"
// for what happened inside it. PASS/FAIL markers are colored when the output
// is a terminal.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Reporter writes progress lines. A nil *Reporter discards everything.
type Reporter struct {
	mu  sync.Mutex
	w   io.Writer
	ok  *color.Color
	bad *color.Color
	hd  *color.Color
}

// New creates a Reporter for w. Colors are enabled only when w is a terminal
// and NO_COLOR is unset.
func New(w io.Writer) *Reporter {
	return NewWithColor(w, isTerminal(w))
}

// NewWithColor creates a Reporter with colors forced on or off.
func NewWithColor(w io.Writer, useColor bool) *Reporter {
	r := &Reporter{
		w:   w,
		ok:  color.New(color.FgGreen, color.Bold),
		bad: color.New(color.FgRed, color.Bold),
		hd:  color.New(color.Bold),
	}
	for _, c := range []*color.Color{r.ok, r.bad, r.hd} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Writer returns the underlying writer, used to echo command output.
func (r *Reporter) Writer() io.Writer {
	if r == nil || r.w == nil {
		return io.Discard
	}
	return r
}

// Write implements io.Writer so command output interleaves safely with
// progress lines.
func (r *Reporter) Write(p []byte) (int, error) {
	if r == nil || r.w == nil {
		return len(p), nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.w.Write(p)
}

// Step prints a " * " heading.
func (r *Reporter) Step(format string, args ...any) {
	if r == nil {
		return
	}
	r.line(" * " + r.paint(r.hd, fmt.Sprintf(format, args...)))
}

// Detail prints a "  - " line under the current step.
func (r *Reporter) Detail(format string, args ...any) {
	r.line("  - " + fmt.Sprintf(format, args...))
}

// Pass prints " * <what>: PASS."
func (r *Reporter) Pass(what string) {
	if r == nil {
		return
	}
	r.line(fmt.Sprintf(" * %s: %s.", what, r.paint(r.ok, "PASS")))
}

// Fail prints " * <what>: FAIL."
func (r *Reporter) Fail(what string) {
	if r == nil {
		return
	}
	r.line(fmt.Sprintf(" * %s: %s.", what, r.paint(r.bad, "FAIL")))
}

// Text prints free-form text, one line per input line.
func (r *Reporter) Text(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	r.line(text)
}

func (r *Reporter) paint(c *color.Color, s string) string {
	return c.Sprint(s)
}

func (r *Reporter) line(s string) {
	if r == nil || r.w == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, s)
}
