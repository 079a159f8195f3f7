// Package fsltest provides a recording fsl.Runner for tests that exercise
// command construction without real FSL binaries.
package fsltest

import (
	"context"
	"strings"
	"sync"
)

// Call is one recorded invocation.
type Call struct {
	Name string
	Args []string
}

// String renders the call the way it would appear on a shell line.
func (c Call) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Recorder implements fsl.Runner, recording every call. Outputs maps a tool
// name to the stdout Output should return for it. OnRun, when set, is
// invoked for every Run call and may create the files the caller expects
// the tool to have written.
type Recorder struct {
	mu      sync.Mutex
	Calls   []Call
	Outputs map[string]string
	Err     error
	OnRun   func(name string, args []string) error
}

func (r *Recorder) record(name string, args []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, Call{Name: name, Args: append([]string(nil), args...)})
}

func (r *Recorder) Run(_ context.Context, name string, args ...string) error {
	r.record(name, args)
	if r.Err != nil {
		return r.Err
	}
	if r.OnRun != nil {
		return r.OnRun(name, args)
	}
	return nil
}

func (r *Recorder) Output(_ context.Context, name string, args ...string) (string, error) {
	r.record(name, args)
	if r.Err != nil {
		return "", r.Err
	}
	return r.Outputs[name], nil
}

// CommandLines returns every recorded call rendered as a shell line.
func (r *Recorder) CommandLines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := make([]string, 0, len(r.Calls))
	for _, c := range r.Calls {
		lines = append(lines, c.String())
	}
	return lines
}
