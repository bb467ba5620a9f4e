package store

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/gymblocks/planner/model"
)

type mockSaver struct{ mock.Mock }

func (m *mockSaver) SaveSnapshot(ctx context.Context, snap *model.Snapshot) error {
	return m.Called(ctx, snap).Error(0)
}

func snapAt(week int) *model.Snapshot {
	return &model.Snapshot{Version: model.SnapshotVersion, WeekIndex: week, Plan: model.NewPlan(1)}
}

func weekIs(w int) any {
	return mock.MatchedBy(func(s *model.Snapshot) bool { return s.WeekIndex == w })
}

func TestAutosaver_DebouncesToLatest(t *testing.T) {
	m := &mockSaver{}
	m.On("SaveSnapshot", mock.Anything, weekIs(3)).Return(nil).Once()

	var saved atomic.Int32
	a := NewAutosaver(m, 30*time.Millisecond, log.New(io.Discard), func() { saved.Add(1) })
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	a.Save(snapAt(1))
	a.Save(snapAt(2))
	a.Save(snapAt(3))

	require.Eventually(t, func() bool { return saved.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	m.AssertExpectations(t)
	assert.Equal(t, int32(1), saved.Load())
}

func TestAutosaver_FlushesOnShutdown(t *testing.T) {
	m := &mockSaver{}
	m.On("SaveSnapshot", mock.Anything, weekIs(7)).Return(nil).Once()

	a := NewAutosaver(m, time.Hour, log.New(io.Discard), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	a.Save(snapAt(7))
	cancel()
	require.NoError(t, <-done)
	m.AssertExpectations(t)
}

func TestAutosaver_FailedWriteIsRetried(t *testing.T) {
	m := &mockSaver{}
	boom := errors.New("disk full")
	m.On("SaveSnapshot", mock.Anything, weekIs(1)).Return(boom).Once()
	m.On("SaveSnapshot", mock.Anything, weekIs(1)).Return(nil).Once()

	a := NewAutosaver(m, time.Hour, log.New(io.Discard), nil)
	a.Save(snapAt(1))
	require.ErrorIs(t, a.Flush(context.Background()), boom)
	require.NoError(t, a.Flush(context.Background()))
	require.NoError(t, a.Flush(context.Background()), "nothing left to write")
	m.AssertExpectations(t)
}

func TestAutosaver_SaveNeverBlocks(t *testing.T) {
	a := NewAutosaver(&mockSaver{}, time.Hour, log.New(io.Discard), nil)
	done := make(chan struct{})
	go func() {
		for i := range 100 {
			a.Save(snapAt(i))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Save blocked without a running saver")
	}
}
