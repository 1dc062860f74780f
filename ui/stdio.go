package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// StdioAlerter prints alerts to a writer, typically stdout.
type StdioAlerter struct {
	Out io.Writer
}

func (a *StdioAlerter) Successf(format string, args ...interface{}) {
	fmt.Fprintf(a.Out, "✔ "+format+"\n", args...)
}

func (a *StdioAlerter) Errorf(format string, args ...interface{}) {
	fmt.Fprintf(a.Out, "✘ "+format+"\n", args...)
}

// StdioConfirmer prompts on a writer and reads a yes/no answer from a
// reader. Anything but y/yes declines.
type StdioConfirmer struct {
	In  io.Reader
	Out io.Writer
}

func (c *StdioConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(c.Out, "%s [y/N] ", prompt)

	answer, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
