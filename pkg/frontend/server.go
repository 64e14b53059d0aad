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

// Package frontend serves the static UI during development, replacing an
// external `python -m http.server`. It never caches and refuses to serve
// files the UI has no business exposing (.env files, VCS metadata, anything
// matched by .pvdevignore).
package frontend

import (
	"context"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moby/patternmatcher"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const IgnoreFile = ".pvdevignore"

// builtinIgnores are always in effect, with or without a .pvdevignore.
var builtinIgnores = []string{
	".env*",
	".git",
	"node_modules",
	IgnoreFile,
}

type Server struct {
	log     *zap.Logger
	root    string
	port    int
	matcher *patternmatcher.PatternMatcher
	srv     *http.Server
}

// New builds a static server for root on the given port. Ignore patterns use
// dockerignore syntax, read from root/.pvdevignore when present.
func New(log *zap.Logger, root string, port int) (*Server, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrapf(err, "frontend dir %s", root)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("frontend dir %s is not a directory", root)
	}

	patterns := append([]string{}, builtinIgnores...)
	if data, err := os.ReadFile(filepath.Join(root, IgnoreFile)); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			patterns = append(patterns, line)
		}
	}
	matcher, err := patternmatcher.New(patterns)
	if err != nil {
		return nil, errors.Wrap(err, "parsing ignore patterns")
	}

	s := &Server{
		log:     log,
		root:    root,
		port:    port,
		matcher: matcher,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), noCache())
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.NoRoute(s.serveFile)

	s.srv = &http.Server{
		Addr:    net.JoinHostPort("", strconv.Itoa(port)),
		Handler: r,
	}
	return s, nil
}

// Addr returns the address readiness probes should dial.
func (s *Server) Addr() string {
	return net.JoinHostPort("localhost", strconv.Itoa(s.port))
}

// Run serves until ctx is cancelled, then shuts down gracefully. A nil error
// means a clean shutdown.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return errors.Wrapf(err, "frontend: binding port %d", s.port)
	}
	s.log.Info("frontend server listening",
		zap.Int("port", s.port),
		zap.String("root", s.root),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "frontend server")
	}
}

func (s *Server) serveFile(c *gin.Context) {
	reqPath := path.Clean("/" + c.Request.URL.Path)

	rel := strings.TrimPrefix(reqPath, "/")
	if rel == "" {
		rel = "index.html"
	}

	if s.ignored(rel) {
		c.Status(http.StatusNotFound)
		return
	}

	full := filepath.Join(s.root, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	if info.IsDir() {
		full = filepath.Join(full, "index.html")
		if s.ignored(rel + "/index.html") {
			c.Status(http.StatusNotFound)
			return
		}
		if _, err := os.Stat(full); err != nil {
			c.Status(http.StatusNotFound)
			return
		}
	}

	c.File(full)
}

// ignored matches rel (slash-separated, relative to root) against the ignore
// set. Any dotfile component is refused outright.
func (s *Server) ignored(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	ok, err := s.matcher.MatchesOrParentMatches(rel)
	return err == nil && ok
}

// noCache marks every response as uncacheable.
func noCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
