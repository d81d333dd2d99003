package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xtpool/pkg/config/xconf"
	"github.com/omeyang/xtpool/pkg/pool/xtpool"
)

func runArgs(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(append([]string{"xtpoolctl"}, args...), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestLimits(t *testing.T) {
	code, out, _ := runArgs(t, "limits")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "max_workers")
	assert.Contains(t, out, "65536")
	assert.Contains(t, out, "queue_full")
	assert.Contains(t, out, "thread_failure")
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte("workers: 3\nqueue_capacity: 9\n"), 0o600))
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("workers: 100\n"), 0o600))

	code, out, _ := runArgs(t, "validate", "--config", good)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "queue_capacity")

	code, _, errOut := runArgs(t, "validate", "--config", bad)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "workers 100")
}

func TestUsageErrors(t *testing.T) {
	code, _, _ := runArgs(t, "run", "--no-such-flag")
	assert.Equal(t, 2, code)

	code, _, errOut := runArgs(t, "run", "--workers", "0", "--report-interval", "0")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "workers 0")

	code, _, _ = runArgs(t, "run", "--watch")
	assert.Equal(t, 2, code)

	code, _, errOut = runArgs(t, "run", "--retry", "--backlog", "8")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "mutually exclusive")
}

func TestRunCommand(t *testing.T) {
	code, out, _ := runArgs(t, "run",
		"--workers", "2", "--queue", "4", "--tasks", "40",
		"--retry", "--report-interval", "0", "--name", "cli",
	)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "cli")
	assert.Contains(t, out, "xtpool.task.executed")
}

func testLoadConfig() loadConfig {
	cfg := xconf.DefaultPoolConfig()
	cfg.Name = "load"
	cfg.Workers = 2
	cfg.QueueCapacity = 4
	return loadConfig{pool: cfg, tasks: 100, attempts: 1000}
}

func TestRunLoad_RetryExecutesEverything(t *testing.T) {
	lc := testLoadConfig()
	lc.retry = true

	var out, errOut bytes.Buffer
	res, err := runLoad(context.Background(), lc, &out, &errOut)
	require.NoError(t, err)

	assert.Equal(t, uint64(100), res.stats.Submitted)
	assert.Equal(t, uint64(100), res.stats.Executed)
	assert.Equal(t, int64(100), res.ran)
	assert.True(t, res.stats.Released)
	assert.False(t, res.interrupted)
	assert.NotEmpty(t, res.metrics)
}

func TestRunLoad_WithoutRetryCountsQueueFull(t *testing.T) {
	lc := testLoadConfig()
	lc.pool.Workers = 1
	lc.pool.QueueCapacity = 1
	lc.work = time.Millisecond
	lc.tasks = 50

	res, err := runLoad(context.Background(), lc, &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, uint64(50), res.stats.Submitted+res.stats.Rejected)
	assert.Equal(t, int(res.stats.Rejected), res.rejected[xtpool.StatusQueueFull])
	assert.Equal(t, res.stats.Submitted, res.stats.Executed)
}

func TestRunLoad_GuardAndRate(t *testing.T) {
	lc := testLoadConfig()
	lc.guard = true
	lc.retry = true
	lc.rate = 2000
	lc.tasks = 20
	lc.report = 5 * time.Millisecond

	var out bytes.Buffer
	res, err := runLoad(context.Background(), lc, &out, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, uint64(20), res.stats.Executed)
}

func TestRunLoad_ShutdownTimeout(t *testing.T) {
	lc := testLoadConfig()
	lc.pool.Workers = 1
	lc.pool.ShutdownTimeout = time.Millisecond
	lc.work = 50 * time.Millisecond
	lc.tasks = 2
	lc.retry = true

	res, err := runLoad(context.Background(), lc, &bytes.Buffer{}, &bytes.Buffer{})
	require.ErrorIs(t, err, xtpool.ErrThreadFailure)
	require.NotNil(t, res)
	assert.False(t, res.stats.Released)
	assert.Equal(t, uint64(2), res.stats.Executed)
}

func TestRunLoad_BacklogExecutesEverything(t *testing.T) {
	lc := testLoadConfig()
	lc.pool.Workers = 1
	lc.pool.QueueCapacity = 1
	lc.backlog = 100
	lc.tasks = 30

	var out bytes.Buffer
	res, err := runLoad(context.Background(), lc, &out, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, uint64(30), res.stats.Executed)
	assert.Zero(t, res.dropped)
	assert.Empty(t, res.rejected)
}

func TestRunLoad_WatchUpdatesLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 1\nlog:\n  level: error\n"), 0o600))
	l, err := xconf.New(path)
	require.NoError(t, err)

	lc := testLoadConfig()
	lc.loader = l
	lc.watch = true
	lc.tasks = 0

	_, err = runLoad(context.Background(), lc, &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)
}

func TestIsCLIUsageError(t *testing.T) {
	assert.True(t, isCLIUsageError(errors.New("flag provided but not defined: -x")))
	assert.False(t, isCLIUsageError(errors.New("boom")))
}
