package execx

import (
	"context"
	"strings"
)

// Call records a single invocation made through a MockRunner.
type Call struct {
	Name  string
	Args  []string
	Stdin string
}

// MockRunner is a Runner for tests. Responses are matched against the
// command name plus arguments, most specific prefix first.
type MockRunner struct {
	// Responses maps a command prefix (e.g. "git config --global user.name")
	// to the result it should produce.
	Responses map[string]Result
	// Errors maps a command prefix to an error to return instead.
	Errors map[string]error
	// MissingBinaries lists names that LookPath should fail for.
	MissingBinaries []string

	Calls []Call
}

// NewMockRunner creates an empty MockRunner.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		Responses: make(map[string]Result),
		Errors:    make(map[string]error),
	}
}

func (m *MockRunner) LookPath(file string) (string, error) {
	for _, missing := range m.MissingBinaries {
		if missing == file {
			return "", &notFoundError{file}
		}
	}
	return "/usr/bin/" + file, nil
}

func (m *MockRunner) Run(_ context.Context, opts Options) (Result, error) {
	m.Calls = append(m.Calls, Call{Name: opts.Name, Args: opts.Args, Stdin: opts.Stdin})

	cmdline := opts.Name
	if len(opts.Args) > 0 {
		cmdline += " " + strings.Join(opts.Args, " ")
	}

	// Longest matching prefix wins.
	var bestKey string
	for key := range m.Errors {
		if strings.HasPrefix(cmdline, key) && len(key) > len(bestKey) {
			bestKey = key
		}
	}
	if bestKey != "" {
		return Result{}, m.Errors[bestKey]
	}

	bestKey = ""
	for key := range m.Responses {
		if strings.HasPrefix(cmdline, key) && len(key) > len(bestKey) {
			bestKey = key
		}
	}
	if bestKey != "" {
		return m.Responses[bestKey], nil
	}

	return Result{}, nil
}

// CommandLines returns every recorded invocation as a single string each.
func (m *MockRunner) CommandLines() []string {
	lines := make([]string, 0, len(m.Calls))
	for _, c := range m.Calls {
		line := c.Name
		if len(c.Args) > 0 {
			line += " " + strings.Join(c.Args, " ")
		}
		lines = append(lines, line)
	}
	return lines
}

type notFoundError struct {
	name string
}

func (e *notFoundError) Error() string {
	return "exec: " + e.name + ": executable file not found in $PATH"
}
