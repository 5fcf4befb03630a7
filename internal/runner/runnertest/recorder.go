// Package runnertest provides a scripted runner.Runner for tests.
package runnertest

import (
	"context"
	"sync"

	"github.com/kingrea/jarlaunch/internal/runner"
)

// Reply is a scripted response for Recorder.
type Reply struct {
	Result runner.Result
	Err    error
}

// Recorder is a Runner that records every command and answers from a script.
// Replies are matched by command name in order; an unscripted command
// succeeds with exit code 0.
type Recorder struct {
	mu      sync.Mutex
	calls   []runner.Command
	replies map[string][]Reply
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{replies: map[string][]Reply{}}
}

// Script queues replies for the named executable.
func (r *Recorder) Script(name string, replies ...Reply) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies[name] = append(r.replies[name], replies...)
	return r
}

// Run implements runner.Runner.
func (r *Recorder) Run(_ context.Context, cmd runner.Command) (runner.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, cmd)
	queue := r.replies[cmd.Name]
	if len(queue) == 0 {
		return runner.Result{}, nil
	}
	reply := queue[0]
	r.replies[cmd.Name] = queue[1:]
	return reply.Result, reply.Err
}

// Calls returns a copy of the recorded commands.
func (r *Recorder) Calls() []runner.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]runner.Command, len(r.calls))
	copy(out, r.calls)
	return out
}

// CallsTo returns the recorded commands whose name matches.
func (r *Recorder) CallsTo(name string) []runner.Command {
	var out []runner.Command
	for _, c := range r.Calls() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}
