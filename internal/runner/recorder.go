package runner

import (
	"context"
	"io"
	"strings"
)

// Call is one recorded command invocation.
type Call struct {
	Dir  string
	Name string
	Args []string
}

// String renders the call as "name arg arg...".
func (c Call) String() string {
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Stub scripts the result for commands whose rendered form starts with
// Match. First matching stub wins.
type Stub struct {
	Match string
	Out   string
	Err   error
}

// Recorder is a Runner for tests: it records every call and answers
// from scripted stubs, defaulting to empty success.
type Recorder struct {
	Calls []Call
	Stubs []Stub
}

func (r *Recorder) Run(dir, name string, args ...string) (string, error) {
	call := Call{Dir: dir, Name: name, Args: args}
	r.Calls = append(r.Calls, call)
	for _, s := range r.Stubs {
		if strings.HasPrefix(call.String(), s.Match) {
			return s.Out, s.Err
		}
	}
	return "", nil
}

func (r *Recorder) RunStream(ctx context.Context, w io.Writer, dir, name string, args ...string) error {
	out, err := r.Run(dir, name, args...)
	if out != "" {
		io.WriteString(w, out)
	}
	return err
}

// GitCalls returns the recorded git invocations.
func (r *Recorder) GitCalls() []Call {
	var calls []Call
	for _, c := range r.Calls {
		if c.Name == "git" {
			calls = append(calls, c)
		}
	}
	return calls
}

// MutatingGitCalls returns recorded git invocations that would modify
// the repository.
func (r *Recorder) MutatingGitCalls() []Call {
	var calls []Call
	for _, c := range r.GitCalls() {
		if IsMutatingGit(c.Args) {
			calls = append(calls, c)
		}
	}
	return calls
}
