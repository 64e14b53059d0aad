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

package runner

import (
	"bytes"
	"io"
	"sync"

	"github.com/promptvideo/pvdev/pkg/util"
)

// prefixWriter rewrites a child's output so every line carries its name,
// keeping interleaved backend and frontend output legible. Safe for
// concurrent use as both Stdout and Stderr of the same command.
type prefixWriter struct {
	mu     sync.Mutex
	out    io.Writer
	prefix []byte
	buf    bytes.Buffer
}

func newPrefixWriter(out io.Writer, name string) *prefixWriter {
	return &prefixWriter{
		out:    out,
		prefix: []byte(util.Dimmed("["+name+"]") + " "),
	}
}

func (w *prefixWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadBytes('\n')
		if err != nil {
			// partial line, keep it buffered until the newline arrives
			w.buf.Write(line)
			break
		}
		if _, err := w.writeLine(line); err != nil {
			return len(p), err
		}
	}
	return len(p), nil
}

// Flush emits a trailing unterminated line, called once the child exits.
func (w *prefixWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() == 0 {
		return
	}
	rest := append(w.buf.Bytes(), '\n')
	w.buf.Reset()
	_, _ = w.writeLine(rest)
}

func (w *prefixWriter) writeLine(line []byte) (int, error) {
	if _, err := w.out.Write(w.prefix); err != nil {
		return 0, err
	}
	return w.out.Write(line)
}
