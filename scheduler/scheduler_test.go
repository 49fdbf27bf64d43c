package scheduler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgraph/reactor/scheduler"
)

type fakeJob struct {
	runs     int
	disposed bool
	height   int
	onRun    func()
}

func (j *fakeJob) Run() {
	j.runs++
	if j.onRun != nil {
		j.onRun()
	}
}
func (j *fakeJob) Disposed() bool { return j.disposed }
func (j *fakeJob) Height() int    { return j.height }

func TestScheduleJobFlushesViaMicrotask(t *testing.T) {
	s := scheduler.New()
	job := &fakeJob{}

	s.ScheduleJob(job)

	assert.Equal(t, 1, job.runs)
}

func TestScheduleJobDedupesWithinARound(t *testing.T) {
	s := scheduler.New(scheduler.WithMicrotask(deferredMicrotask{}))
	job := &fakeJob{}

	s.ScheduleJob(job)
	s.ScheduleJob(job)

	assert.Equal(t, 0, job.runs)
	require.NoError(t, s.FlushSync())
	assert.Equal(t, 1, job.runs)
}

func TestScheduleJobDisposedIsSkipped(t *testing.T) {
	s := scheduler.New()
	job := &fakeJob{disposed: true}

	s.ScheduleJob(job)

	assert.Equal(t, 0, job.runs)
}

func TestBatchDefersFlushUntilOutermostExit(t *testing.T) {
	s := scheduler.New()
	job := &fakeJob{}

	s.Batch(func() {
		s.Batch(func() {
			s.ScheduleJob(job)
			assert.Equal(t, 0, job.runs)
		})
		assert.Equal(t, 0, job.runs)
	})

	assert.Equal(t, 1, job.runs)
}

func TestBatchFlushesEvenWhenFnPanics(t *testing.T) {
	s := scheduler.New()
	job := &fakeJob{}

	func() {
		defer func() { recover() }()
		s.Batch(func() {
			s.ScheduleJob(job)
			panic("boom")
		})
	}()

	assert.Equal(t, 1, job.runs)
}

func TestAtomicRollsBackOnError(t *testing.T) {
	s := scheduler.New()
	restored := false

	err := s.Atomic(func() error {
		s.RecordAtomicWrite("k", func() { restored = true })
		return assertErr
	})

	assert.ErrorIs(t, err, assertErr)
	assert.True(t, restored)
}

func TestAtomicFirstWriteWinsWithinScope(t *testing.T) {
	s := scheduler.New()
	calls := 0

	err := s.Atomic(func() error {
		s.RecordAtomicWrite("k", func() { calls++ })
		s.RecordAtomicWrite("k", func() { calls++ })
		return assertErr
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestAtomicCommitsAndFlushesOnSuccess(t *testing.T) {
	s := scheduler.New()
	job := &fakeJob{}

	err := s.Atomic(func() error {
		s.ScheduleJob(job)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, job.runs)
}

func TestAtomicPanicRollsBackAndRePanics(t *testing.T) {
	s := scheduler.New()
	restored := false

	func() {
		defer func() {
			r := recover()
			assert.Equal(t, "boom", r)
		}()
		_ = s.Atomic(func() error {
			s.RecordAtomicWrite("k", func() { restored = true })
			panic("boom")
		})
	}()

	assert.True(t, restored)
}

func TestNestedAtomicMergesFirstSeenIntoParent(t *testing.T) {
	s := scheduler.New()
	outerRestoreCalled := false
	innerRestoreCalled := false

	err := s.Atomic(func() error {
		s.RecordAtomicWrite("k", func() { outerRestoreCalled = true })
		innerErr := s.Atomic(func() error {
			// Same key, nested: merges into parent first-seen, parent's
			// restore (the outer one) wins since it was recorded first.
			s.RecordAtomicWrite("k", func() { innerRestoreCalled = true })
			return nil
		})
		require.NoError(t, innerErr)
		return assertErr
	})

	assert.Error(t, err)
	assert.True(t, outerRestoreCalled)
	assert.False(t, innerRestoreCalled)
}

func TestInfiniteUpdateLoopGuard(t *testing.T) {
	s := scheduler.New(scheduler.WithMaxFlushIterations(5), scheduler.WithMicrotask(deferredMicrotask{}))
	var job *fakeJob
	job = &fakeJob{}
	job.onRun = func() { s.ScheduleJob(job) }
	s.ScheduleJob(job)

	err := s.FlushJobs()
	assert.ErrorIs(t, err, scheduler.ErrInfiniteUpdateLoop)
}

func TestTopologicalFlushRunsLowerHeightFirst(t *testing.T) {
	s := scheduler.New(scheduler.WithFlushStrategy(scheduler.TopologicalFlush), scheduler.WithMicrotask(deferredMicrotask{}))
	var order []int

	high := &fakeJob{height: 2}
	high.onRun = func() { order = append(order, 2) }
	low := &fakeJob{height: 0}
	low.onRun = func() { order = append(order, 0) }
	mid := &fakeJob{height: 1}
	mid.onRun = func() { order = append(order, 1) }

	s.ScheduleJob(high)
	s.ScheduleJob(low)
	s.ScheduleJob(mid)

	require.NoError(t, s.FlushSync())
	assert.Equal(t, []int{0, 1, 2}, order)
}

// deferredMicrotask never runs posted work, so tests can control exactly
// when a flush happens via FlushSync.
type deferredMicrotask struct{}

func (deferredMicrotask) Post(fn func()) {}

var assertErr = errString("boom")

type errString string

func (e errString) Error() string { return string(e) }
