package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/jonathan/pathgenie/internal/observability"
	"github.com/mattn/go-isatty"
)

// terminal reads answers line by line and writes colored prompts.
type terminal struct {
	in      *bufio.Scanner
	out     io.Writer
	printer *observability.Printer

	heading *color.Color
	prompt  *color.Color
	hint    *color.Color
	ok      *color.Color
	warn    *color.Color
	fail    *color.Color
}

func newTerminal(in io.Reader, out io.Writer, colored bool) *terminal {
	t := &terminal{
		in:      bufio.NewScanner(in),
		out:     out,
		printer: observability.NewPrinter(out),
		heading: color.New(color.Bold, color.FgCyan),
		prompt:  color.New(color.Bold),
		hint:    color.New(color.Faint),
		ok:      color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		fail:    color.New(color.FgRed),
	}
	if !colored {
		for _, c := range []*color.Color{t.heading, t.prompt, t.hint, t.ok, t.warn, t.fail} {
			c.DisableColor()
		}
	}
	return t
}

// stdoutIsTerminal reports whether colors should be used on stdout.
func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ask prints a prompt and returns the next trimmed input line.
// io.EOF is returned once input is exhausted.
func (t *terminal) ask(prompt string) (string, error) {
	t.prompt.Fprint(t.out, prompt) //nolint:errcheck
	if !t.in.Scan() {
		if err := t.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(t.in.Text()), nil
}

//nolint:errcheck // writing to the terminal; errors are not recoverable
func (t *terminal) println(c *color.Color, format string, args ...any) {
	c.Fprintf(t.out, format, args...)
	fmt.Fprintln(t.out)
}
