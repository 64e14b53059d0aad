package doctor

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptvideo/pvdev/pkg/bootstrap"
)

func TestRunAllStatuses(t *testing.T) {
	checks := []Check{
		{
			Name: "passes",
			Run: func(ctx context.Context) (string, error) {
				return "fine", nil
			},
		},
		{
			Name:     "warns",
			Optional: true,
			Run: func(ctx context.Context) (string, error) {
				return "", errors.New("optional breakage")
			},
		},
		{
			Name: "fails",
			Run: func(ctx context.Context) (string, error) {
				return "", errors.New("broken")
			},
		},
	}

	results := RunAll(context.Background(), checks)
	require.Len(t, results, 3)
	assert.Equal(t, StatusOK, results[0].Status)
	assert.Equal(t, "fine", results[0].Detail)
	assert.Equal(t, StatusWarn, results[1].Status)
	assert.Equal(t, StatusFail, results[2].Status)
	assert.True(t, Failed(results))
}

func TestFailedIgnoresWarnings(t *testing.T) {
	results := []Result{
		{Status: StatusOK},
		{Status: StatusWarn},
	}
	assert.False(t, Failed(results))
}

func TestCheckTimeout(t *testing.T) {
	check := Check{
		Name:    "slow",
		Timeout: 50 * time.Millisecond,
		Run: func(ctx context.Context) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}

	start := time.Now()
	results := RunAll(context.Background(), []Check{check})
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, StatusFail, results[0].Status)
}

func TestPortFreeCheck(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()
	busyPort := ln.Addr().(*net.TCPAddr).Port

	results := RunAll(context.Background(), []Check{PortFreeCheck("backend", busyPort)})
	assert.Equal(t, StatusFail, results[0].Status)

	probe, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	freePort := probe.Addr().(*net.TCPAddr).Port
	require.NoError(t, probe.Close())

	results = RunAll(context.Background(), []Check{PortFreeCheck("frontend", freePort)})
	assert.Equal(t, StatusOK, results[0].Status)
}

func TestVenvCheck(t *testing.T) {
	venv := bootstrap.ProjectVenv(t.TempDir(), ".venv")
	results := RunAll(context.Background(), []Check{VenvCheck(venv)})
	assert.Equal(t, StatusFail, results[0].Status)
	assert.Contains(t, results[0].Err.Error(), "pvdev setup")
}

func TestDirWritableCheck(t *testing.T) {
	dir := t.TempDir()
	results := RunAll(context.Background(), []Check{DirWritableCheck("uploads", dir)})
	assert.Equal(t, StatusOK, results[0].Status)
	assert.Equal(t, dir, results[0].Detail)
}

func TestCommandCheckMissing(t *testing.T) {
	results := RunAll(context.Background(), []Check{CommandCheck("pvdev-no-such-binary")})
	assert.Equal(t, StatusFail, results[0].Status)
}
