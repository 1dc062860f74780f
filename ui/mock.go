package ui

import "fmt"

// RecordingAlerter collects alerts for inspection in tests.
type RecordingAlerter struct {
	Successes []string
	Errors    []string
}

func (a *RecordingAlerter) Successf(format string, args ...interface{}) {
	a.Successes = append(a.Successes, fmt.Sprintf(format, args...))
}

func (a *RecordingAlerter) Errorf(format string, args ...interface{}) {
	a.Errors = append(a.Errors, fmt.Sprintf(format, args...))
}

// StaticConfirmer always answers the same thing and records the prompts
// it was asked.
type StaticConfirmer struct {
	Answer  bool
	Prompts []string
}

func (c *StaticConfirmer) Confirm(prompt string) bool {
	c.Prompts = append(c.Prompts, prompt)
	return c.Answer
}
