package xrun

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/omeyang/xtpool/pkg/pool/xtpool"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestGroup_Empty(t *testing.T) {
	g, _ := NewGroup(context.Background())
	assert.NoError(t, g.Wait())
}

func TestGroup_ServiceErrorCancelsOthers(t *testing.T) {
	boom := errors.New("boom")
	g, _ := NewGroup(context.Background(), WithName("test"))

	g.Go(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	g.GoWithName("failing", func(context.Context) error { return boom })

	assert.ErrorIs(t, g.Wait(), boom)
}

func TestGroup_CancelCause(t *testing.T) {
	reason := errors.New("operator stop")
	g, ctx := NewGroup(context.Background())
	g.GoWithName("blocked", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	g.Cancel(reason)

	assert.ErrorIs(t, g.Wait(), reason)
	assert.Error(t, ctx.Err())
}

func TestGroup_CancelNil(t *testing.T) {
	g, _ := NewGroup(context.Background())
	g.Go(func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
	g.Cancel(nil)
	assert.NoError(t, g.Wait())
}

func TestGroup_ParentCancelIsNotAnError(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	g, _ := NewGroup(parent)
	g.Go(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	cancel()
	assert.NoError(t, g.Wait())
}

func TestGroup_InternalCanceledIsKept(t *testing.T) {
	g, _ := NewGroup(context.Background())
	g.Go(func(context.Context) error { return context.Canceled })
	assert.ErrorIs(t, g.Wait(), context.Canceled)
}

func TestGroup_NilFunc(t *testing.T) {
	//nolint:staticcheck // nil context 被归一化
	g, _ := NewGroup(nil, nil)
	g.Go(nil)
	assert.ErrorIs(t, g.Wait(), ErrNilFunc)
	assert.NotNil(t, g.Context())
}

func TestRun_Signal(t *testing.T) {
	sigc := make(chan os.Signal, 1)
	ctx := withTestSigChan(context.Background(), sigc)

	started := make(chan struct{})
	errCh := make(chan error, 1)
	go func() {
		errCh <- Run(ctx, func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		})
	}()
	<-started
	sigc <- syscall.SIGTERM

	err := <-errCh
	require.ErrorIs(t, err, ErrSignal)
	var sigErr *SignalError
	require.ErrorAs(t, err, &sigErr)
	assert.Equal(t, syscall.SIGTERM, sigErr.Signal)
}

func TestRunWithOptions_WithoutSignalHandler(t *testing.T) {
	sigc := make(chan os.Signal, 1)
	sigc <- syscall.SIGINT
	ctx := withTestSigChan(context.Background(), sigc)

	err := RunWithOptions(ctx, []Option{WithoutSignalHandler(), WithSignals(nil)},
		func(context.Context) error { return nil },
	)
	assert.NoError(t, err)
}

func TestTicker(t *testing.T) {
	var n atomic.Int32
	stop := errors.New("enough")
	err := Ticker(time.Millisecond, true, func(context.Context) error {
		if n.Add(1) == 3 {
			return stop
		}
		return nil
	})(context.Background())
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, int32(3), n.Load())

	assert.ErrorIs(t, Ticker(0, false, func(context.Context) error { return nil })(context.Background()), ErrInvalidInterval)
	assert.ErrorIs(t, Ticker(time.Second, false, nil)(context.Background()), ErrNilFunc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Ticker(time.Second, true, func(context.Context) error { return nil })(ctx), context.Canceled)
}

func TestPoolService_DestroysOnCancel(t *testing.T) {
	p, err := xtpool.New(2, 16)
	require.NoError(t, err)

	var ran atomic.Int32
	for range 10 {
		require.NoError(t, p.Submit(context.Background(), func() { ran.Add(1) }))
	}

	g, _ := NewGroup(context.Background())
	g.Go(PoolService(p, xtpool.ShutdownDrain, time.Second))
	g.Cancel(nil)

	require.NoError(t, g.Wait())
	assert.Equal(t, int32(10), ran.Load())
	assert.True(t, p.Stats().Released)
}

func TestPoolService_TimeoutReportsThreadFailure(t *testing.T) {
	p, err := xtpool.New(1, 4)
	require.NoError(t, err)

	gate := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, p.Submit(context.Background(), func() {
		close(started)
		<-gate
	}))
	<-started

	g, _ := NewGroup(context.Background())
	g.Go(PoolService(p, xtpool.ShutdownDrain, 10*time.Millisecond))
	g.Cancel(nil)

	assert.ErrorIs(t, g.Wait(), xtpool.ErrThreadFailure)
	close(gate)
	<-p.Done()
}

func TestPoolService_Nil(t *testing.T) {
	assert.ErrorIs(t, PoolService(nil, xtpool.ShutdownDrain, 0)(context.Background()), ErrNilPool)
}

func TestSignalError(t *testing.T) {
	err := &SignalError{Signal: syscall.SIGINT}
	assert.ErrorIs(t, err, ErrSignal)
	assert.Equal(t, "received signal interrupt", err.Error())
	assert.Equal(t, "received signal <nil>", (&SignalError{}).Error())
}

func TestDefaultSignals(t *testing.T) {
	a := DefaultSignals()
	a[0] = syscall.SIGUSR1
	assert.Equal(t, syscall.SIGHUP, DefaultSignals()[0])
	assert.Len(t, a, 4)
}

func TestGroup_HandleSignals(t *testing.T) {
	sigc := make(chan os.Signal, 1)
	g, _ := NewGroup(withTestSigChan(context.Background(), sigc))
	g.HandleSignals(syscall.SIGUSR1)
	g.Go(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	sigc <- syscall.SIGUSR1

	var sigErr *SignalError
	require.ErrorAs(t, g.Wait(), &sigErr)
	assert.Equal(t, syscall.SIGUSR1, sigErr.Signal)
}
