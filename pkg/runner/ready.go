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
	"context"
	"net"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

const DefaultReadyTimeout = 30 * time.Second

// WaitTCP blocks until addr accepts a TCP connection, replacing the fixed
// startup sleep a launcher script would use. Polling is rate limited to four
// dials per second.
func WaitTCP(ctx context.Context, addr string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(250*time.Millisecond), 1)
	var dialer net.Dialer
	var lastErr error

	for {
		if err := limiter.Wait(ctx); err != nil {
			if lastErr != nil {
				return errors.Wrapf(lastErr, "timed out after %s waiting for %s", timeout, addr)
			}
			return errors.Wrapf(err, "waiting for %s", addr)
		}

		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err == nil {
			_ = conn.Close()
			return nil
		}
		lastErr = err
	}
}
