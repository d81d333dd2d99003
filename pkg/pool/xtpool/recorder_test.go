package xtpool

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/omeyang/xtpool/pkg/observability/xmetrics"
)

type spanRecorder struct {
	ended []error
}

func (s *spanRecorder) End(err error) { s.ended = append(s.ended, err) }

func TestRecorder_Lifecycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	rec := NewMockRecorder(ctrl)
	span := &spanRecorder{}

	var source func() xmetrics.Snapshot
	unregistered := false

	rec.EXPECT().Start(gomock.Any(), "xtpool.create").
		DoAndReturn(func(ctx context.Context, _ string) (context.Context, xmetrics.Span) { return ctx, span })
	rec.EXPECT().Observe(gomock.Any()).
		DoAndReturn(func(fn func() xmetrics.Snapshot) (func() error, error) {
			source = fn
			return func() error { unregistered = true; return nil }, nil
		})
	rec.EXPECT().Submitted(gomock.Any(), xmetrics.OutcomeOK).Times(2)
	rec.EXPECT().Executed(gomock.Any(), gomock.Any()).Times(2)
	rec.EXPECT().Start(gomock.Any(), "xtpool.destroy").
		DoAndReturn(func(ctx context.Context, _ string) (context.Context, xmetrics.Span) { return ctx, span })
	rec.EXPECT().Submitted(gomock.Any(), xmetrics.OutcomeShuttingDown)

	p := newTestPool(t, 2, 8, WithRecorder(rec))
	require.NotNil(t, source)
	snap := source()
	assert.Equal(t, 8, snap.Capacity)
	assert.Equal(t, 2, snap.LiveWorkers)

	require.NoError(t, p.Submit(context.Background(), func() {}))
	require.NoError(t, p.Submit(context.Background(), func() {}))
	require.NoError(t, p.Destroy(context.Background(), ShutdownDrain))
	assert.True(t, unregistered)
	assert.Equal(t, []error{nil, nil}, span.ended)

	assert.ErrorIs(t, p.Submit(context.Background(), func() {}), ErrShuttingDown)
}

func TestRecorder_QueueFullAndDiscard(t *testing.T) {
	ctrl := gomock.NewController(t)
	rec := NewMockRecorder(ctrl)

	rec.EXPECT().Start(gomock.Any(), gomock.Any()).Return(context.Background(), xmetrics.NoopSpan{}).AnyTimes()
	rec.EXPECT().Observe(gomock.Any()).Return(func() error { return nil }, nil)
	rec.EXPECT().Executed(gomock.Any(), gomock.Any()).Times(1)
	rec.EXPECT().Submitted(gomock.Any(), xmetrics.OutcomeOK).Times(2)
	rec.EXPECT().Submitted(gomock.Any(), xmetrics.OutcomeQueueFull)
	rec.EXPECT().Discarded(gomock.Any(), 1)

	p := newTestPool(t, 1, 1, WithRecorder(rec))
	release := block(t, p)
	require.NoError(t, p.Submit(context.Background(), func() {}))
	require.ErrorIs(t, p.Submit(context.Background(), func() {}), ErrQueueFull)

	errCh := make(chan error, 1)
	go func() { errCh <- p.Destroy(context.Background(), ShutdownImmediate) }()
	require.Eventually(t, func() bool { return p.Stats().Discarded == 1 }, eventually, time.Millisecond)
	release()
	require.NoError(t, <-errCh)
}

func TestRecorder_ObserveFailureUnwinds(t *testing.T) {
	ctrl := gomock.NewController(t)
	rec := NewMockRecorder(ctrl)
	span := &spanRecorder{}
	failure := errors.New("meter unavailable")

	rec.EXPECT().Start(gomock.Any(), "xtpool.create").Return(context.Background(), span)
	rec.EXPECT().Observe(gomock.Any()).Return(nil, failure)

	p, err := New(3, 4, WithRecorder(rec))
	assert.Nil(t, p)
	require.ErrorIs(t, err, ErrResource)
	assert.ErrorIs(t, err, failure)
	require.Len(t, span.ended, 1)
	assert.ErrorIs(t, span.ended[0], ErrResource)
}
