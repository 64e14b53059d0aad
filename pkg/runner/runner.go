// Copyright 2026 PromptVideo
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package runner supervises the dev processes launched by `pvdev run`.
// Children run in their own process groups, their output is prefixed and
// streamed, and the first unexpected exit tears the whole group down.
package runner

import (
	"context"
	"io"
	"os"
	osexec "os/exec"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/frostbyte73/core"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const DefaultGracePeriod = 5 * time.Second

// Process describes one supervised child.
type Process struct {
	Name    string
	Command []string
	Dir     string
	// Env is overlaid on the parent environment
	Env map[string]string
	// ReadyAddr, when set, gates Start until the TCP address accepts
	// connections or ReadyTimeout lapses.
	ReadyAddr    string
	ReadyTimeout time.Duration
}

type child struct {
	proc Process
	cmd  *osexec.Cmd

	done     chan struct{}
	exitErr  error
	exitCode int
}

// Supervisor starts processes one at a time and waits on all of them.
type Supervisor struct {
	log   *zap.Logger
	out   io.Writer
	grace time.Duration

	mu       sync.Mutex
	children []*child
	exits    chan *child

	stopping core.Fuse
	stopped  atomic.Bool
}

type Option func(*Supervisor)

// WithGracePeriod sets how long Stop waits between SIGTERM and SIGKILL.
func WithGracePeriod(d time.Duration) Option {
	return func(s *Supervisor) { s.grace = d }
}

// WithOutput redirects child output, used by tests.
func WithOutput(w io.Writer) Option {
	return func(s *Supervisor) { s.out = w }
}

func New(log *zap.Logger, opts ...Option) *Supervisor {
	s := &Supervisor{
		log:   log,
		out:   os.Stdout,
		grace: DefaultGracePeriod,
		exits: make(chan *child, 8),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches p and, when a readiness address is configured, blocks until
// the child is accepting connections. Readiness timeout is a hard failure and
// stops anything already running.
func (s *Supervisor) Start(ctx context.Context, p Process) error {
	if len(p.Command) == 0 {
		return errors.Errorf("%s: empty command", p.Name)
	}
	if s.stopping.IsBroken() {
		return errors.New("supervisor is shutting down")
	}

	cmd := osexec.Command(p.Command[0], p.Command[1:]...)
	cmd.Dir = p.Dir
	cmd.Env = mergedEnv(p.Env)
	cmd.Stdin = nil

	pw := newPrefixWriter(s.out, p.Name)
	cmd.Stdout = pw
	cmd.Stderr = pw

	// Own process group so Stop can signal interpreter children too.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	c := &child{
		proc: p,
		cmd:  cmd,
		done: make(chan struct{}),
	}

	if err := cmd.Start(); err != nil {
		s.stopAll()
		return errors.Wrapf(err, "starting %s", p.Name)
	}
	s.log.Info("process started",
		zap.String("name", p.Name),
		zap.Int("pid", cmd.Process.Pid),
		zap.Strings("command", p.Command),
	)

	s.mu.Lock()
	s.children = append(s.children, c)
	s.mu.Unlock()

	go s.reap(c, pw)

	if p.ReadyAddr != "" {
		timeout := p.ReadyTimeout
		if timeout == 0 {
			timeout = DefaultReadyTimeout
		}
		ready := make(chan error, 1)
		go func() {
			ready <- WaitTCP(ctx, p.ReadyAddr, timeout)
		}()

		// A child dying during startup beats any readiness timeout.
		select {
		case <-c.done:
			s.stopAll()
			if c.exitErr != nil {
				return errors.Errorf("%s exited during startup (status %d): %v", p.Name, c.exitCode, c.exitErr)
			}
			return errors.Errorf("%s exited during startup (status 0)", p.Name)
		case err := <-ready:
			if err != nil {
				s.stopAll()
				return errors.Wrapf(err, "%s did not become ready on %s", p.Name, p.ReadyAddr)
			}
		}
		s.log.Info("process ready", zap.String("name", p.Name), zap.String("addr", p.ReadyAddr))
	}

	return nil
}

// Wait blocks until ctx is cancelled (graceful stop, nil return) or a child
// exits on its own. A dev server exiting, even with status 0, is a failure.
func (s *Supervisor) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		s.stopAll()
		return nil
	case c := <-s.exits:
		if s.stopping.IsBroken() {
			return nil
		}
		s.stopAll()
		if c.exitErr != nil {
			return errors.Errorf("%s exited unexpectedly (status %d): %v", c.proc.Name, c.exitCode, c.exitErr)
		}
		return errors.Errorf("%s exited unexpectedly (status 0)", c.proc.Name)
	}
}

// Stop terminates all children: SIGTERM to each process group, then SIGKILL
// after the grace period. Idempotent and safe before Start.
func (s *Supervisor) Stop() {
	s.stopAll()
}

// Stopped reports whether shutdown has completed.
func (s *Supervisor) Stopped() bool {
	return s.stopped.Load()
}

func (s *Supervisor) stopAll() {
	s.stopping.Once(func() {
		s.mu.Lock()
		children := make([]*child, len(s.children))
		copy(children, s.children)
		s.mu.Unlock()

		// Stop in reverse start order: frontend first, backend last.
		for i := len(children) - 1; i >= 0; i-- {
			s.terminate(children[i])
		}
		s.stopped.Store(true)
	})
}

func (s *Supervisor) terminate(c *child) {
	if c.cmd.Process == nil {
		return
	}
	pid := c.cmd.Process.Pid

	s.log.Debug("stopping process", zap.String("name", c.proc.Name), zap.Int("pid", pid))
	signalGroup(pid, syscall.SIGTERM)

	select {
	case <-c.done:
		return
	case <-time.After(s.grace):
	}

	s.log.Warn("process did not exit in time, killing", zap.String("name", c.proc.Name), zap.Int("pid", pid))
	signalGroup(pid, syscall.SIGKILL)
	<-c.done
}

// signalGroup signals the process group, falling back to the process itself.
func signalGroup(pid int, sig syscall.Signal) {
	if err := syscall.Kill(-pid, sig); err != nil {
		_ = syscall.Kill(pid, sig)
	}
}

func (s *Supervisor) reap(c *child, pw *prefixWriter) {
	err := c.cmd.Wait()
	pw.Flush()

	c.exitErr = err
	if err != nil {
		c.exitCode = 1
		if ee, ok := err.(*osexec.ExitError); ok {
			c.exitCode = ee.ExitCode()
		}
	}
	close(c.done)

	s.log.Debug("process exited",
		zap.String("name", c.proc.Name),
		zap.Int("status", c.exitCode),
	)

	select {
	case s.exits <- c:
	default:
	}
}

// mergedEnv overlays extra on the parent environment.
func mergedEnv(extra map[string]string) []string {
	if len(extra) == 0 {
		return os.Environ()
	}
	env := os.Environ()
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}
	return env
}
