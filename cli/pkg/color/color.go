package color

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ANSI color codes
const (
	reset = "\033[0m"

	FgRed    = 31
	FgGreen  = 32
	FgYellow = 33
	FgCyan   = 36
	FgWhite  = 37

	Bold = 1
)

// NoColor disables color output (useful for testing or when piping)
var NoColor = false

// Color represents a text color configuration
type Color struct {
	params []int
}

// New creates a new Color with the given attributes
func New(attrs ...int) *Color {
	return &Color{params: attrs}
}

func (c *Color) format() string {
	if len(c.params) == 0 || NoColor {
		return ""
	}
	parts := make([]string, len(c.params))
	for i, p := range c.params {
		parts[i] = strconv.Itoa(p)
	}
	return "\033[" + strings.Join(parts, ";") + "m"
}

func (c *Color) wrap(s string) string {
	prefix := c.format()
	if prefix == "" {
		return s
	}
	return prefix + s + reset
}

// Fprintf prints formatted output with color to the given writer
func (c *Color) Fprintf(w io.Writer, format string, a ...interface{}) {
	fmt.Fprint(w, c.wrap(fmt.Sprintf(format, a...)))
}

// Sprintf returns a formatted colored string
func (c *Color) Sprintf(format string, a ...interface{}) string {
	return c.wrap(fmt.Sprintf(format, a...))
}
