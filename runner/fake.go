package runner

import (
	"context"
	"io"
)

// Call records one Fake invocation.
type Call struct {
	Dir  string
	Name string
	Args []string
}

// Argv returns the command name followed by its arguments.
func (c Call) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// Fake is a Runner for tests.  It records every call and never runs
// anything.  OnRun, when set, can inject output or an error per call.
type Fake struct {
	Calls []Call
	OnRun func(c Call, stdout io.Writer) error
}

// Run implements Runner.
func (f *Fake) Run(ctx context.Context, dir string, stdout io.Writer, name string, args ...string) error {
	c := Call{Dir: dir, Name: name, Args: args}
	f.Calls = append(f.Calls, c)
	if f.OnRun != nil {
		return f.OnRun(c, stdout)
	}
	return nil
}
