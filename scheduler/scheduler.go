package scheduler

// FlushStrategy selects how queued jobs are ordered within a single flush
// round. BaselineFlush is the spec's normative insertion-order queue;
// TopologicalFlush orders jobs by height using the ported priority heap,
// and is what core.Runtime actually wires up by default. Both are
// glitch-free for the lazy-pull computed model this runtime uses, since a
// stale read always recomputes synchronously regardless of run order;
// TopologicalFlush is preferred because it drains lower-height work (a
// computed's own dependents) before the effects sitting above it without
// a separate pass, the same guarantee the teacher's PriorityHeap gives.
type FlushStrategy uint8

const (
	BaselineFlush FlushStrategy = iota
	TopologicalFlush
)

type writeLogEntry struct {
	restore func()
}

// Scheduler owns the job queue, the batch/atomic nesting counters, the
// write log used to roll atomic scopes back, and the microtask that decides
// when a scheduled flush actually runs. It knows nothing about the
// dependency graph; callers (the core runtime) supply restore closures that
// already know how to undo a write and mark its dependents stale.
type Scheduler struct {
	strategy FlushStrategy
	queue    *baselineQueue
	heap     *priorityHeap

	microtask Microtask
	flushFn   func() error

	scheduled     bool
	batchDepth    int
	atomicDepth   int
	atomicLogs    []map[any]writeLogEntry
	muted         int
	maxIterations int
}

// Option configures a Scheduler at construction time.
type Option func(*Scheduler)

// WithFlushStrategy selects the ordering strategy used within a round.
func WithFlushStrategy(s FlushStrategy) Option {
	return func(sch *Scheduler) { sch.strategy = s }
}

// WithMicrotask overrides the default synchronous microtask.
func WithMicrotask(m Microtask) Option {
	return func(sch *Scheduler) { sch.microtask = m }
}

// WithMaxFlushIterations overrides the default iteration guard (10000) a
// single FlushJobs call will run before giving up with
// ErrInfiniteUpdateLoop.
func WithMaxFlushIterations(n int) Option {
	return func(sch *Scheduler) { sch.maxIterations = n }
}

// WithFlushFunc overrides the function a scheduled flush, a batch reaching
// depth zero, or an atomic commit at depth zero calls. Callers that need to
// interleave extra bookkeeping into a flush (the core runtime's render/user
// effect lanes and settled hooks, for instance) supply their own here; the
// default runs this Scheduler's own FlushJobs.
func WithFlushFunc(fn func() error) Option {
	return func(sch *Scheduler) { sch.flushFn = fn }
}

// New returns a ready to use Scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		queue:         newBaselineQueue(),
		heap:          newPriorityHeap(),
		microtask:     SyncMicrotask{},
		maxIterations: 10000,
	}
	for _, o := range opts {
		o(s)
	}
	if s.flushFn == nil {
		s.flushFn = s.FlushJobs
	}
	return s
}

func (s *Scheduler) insert(job Job) {
	if s.strategy == TopologicalFlush {
		s.heap.insert(job)
	} else {
		s.queue.insert(job)
	}
}

func (s *Scheduler) snapshot() []Job {
	if s.strategy == TopologicalFlush {
		return s.heap.snapshot()
	}
	return s.queue.snapshot()
}

// QueueEmpty reports whether anything is currently queued. Custom flush
// functions use this to decide when a round truly settled.
func (s *Scheduler) QueueEmpty() bool {
	if s.strategy == TopologicalFlush {
		return s.heap.empty()
	}
	return s.queue.empty()
}

// Snapshot returns everything queued right now, in this scheduler's
// configured order, and clears the queue. It is exported for custom flush
// functions that need to drive their own round loop (see WithFlushFunc).
func (s *Scheduler) Snapshot() []Job {
	return s.snapshot()
}

func (s *Scheduler) clearQueue() {
	s.queue.clear()
	s.heap.clear()
}

// Muted reports whether scheduling is currently suppressed (during an
// atomic rollback's restore pass).
func (s *Scheduler) Muted() bool {
	return s.muted > 0
}

// InAtomic reports whether an atomic (or transaction) scope is currently
// open.
func (s *Scheduler) InAtomic() bool {
	return s.atomicDepth > 0
}

// ScheduleJob queues job unless it is already disposed or scheduling is
// currently muted (an atomic rollback in progress). If nothing else is
// pending, no batch or atomic scope is open and no flush is running, it
// arranges for a flush via the configured microtask.
func (s *Scheduler) ScheduleJob(job Job) {
	if job.Disposed() || s.muted > 0 {
		return
	}
	s.insert(job)
	if !s.scheduled && s.batchDepth == 0 {
		s.scheduled = true
		s.microtask.Post(func() { _ = s.flushNow() })
	}
}

// FlushJobs drains the queue round by round until it is empty, running each
// job at most once per round. It is the default flush function; it is also
// usable standalone by callers that only need the scheduler package.
func (s *Scheduler) FlushJobs() error {
	iterations := 0
	for {
		jobs := s.snapshot()
		if len(jobs) == 0 {
			return nil
		}
		for _, job := range jobs {
			if job.Disposed() {
				continue
			}
			job.Run()
			iterations++
			if iterations > s.maxIterations {
				return ErrInfiniteUpdateLoop
			}
		}
	}
}

// FlushSync runs the flush function immediately if anything is scheduled or
// queued; otherwise it is a no-op.
func (s *Scheduler) FlushSync() error {
	if !s.scheduled && s.QueueEmpty() {
		return nil
	}
	return s.flushNow()
}

// Batch runs fn with a batch scope open: jobs scheduled during fn do not
// flush until the outermost batch exits. The depth is decremented and the
// flush still attempted even if fn panics; the panic then continues
// unwinding after the flush.
func (s *Scheduler) Batch(fn func()) {
	s.batchDepth++
	defer func() {
		s.batchDepth--
		s.maybeFlush()
	}()
	fn()
}

// maybeFlush runs the configured flush function once the batch depth has
// returned to zero. Only ever called from the goroutine that owns this
// scheduler: Batch and the synchronous half of Atomic both run fn inline,
// so the caller here is always that owning goroutine. exitCommit and
// exitRollback deliberately do NOT call this, since AtomicAsync's
// resolution runs on a goroutine of its own; see AtomicAsync's doc.
func (s *Scheduler) maybeFlush() {
	if s.batchDepth == 0 {
		_ = s.flushNow()
	}
}

// flushNow runs the flush function with the batch depth raised, so jobs
// that the running jobs schedule wait for the flush's next round instead
// of starting a nested flush.
func (s *Scheduler) flushNow() error {
	s.scheduled = false
	s.batchDepth++
	defer func() { s.batchDepth-- }()
	return s.flushFn()
}

// RecordAtomicWrite records the first restore seen for key within the
// current atomic scope. Subsequent writes to the same key within the same
// scope are ignored (first-write-wins), so rollback restores the value the
// scope observed on entry. It is a no-op outside of an atomic scope.
func (s *Scheduler) RecordAtomicWrite(key any, restore func()) {
	if s.atomicDepth == 0 {
		return
	}
	top := s.atomicLogs[len(s.atomicLogs)-1]
	if _, ok := top[key]; !ok {
		top[key] = writeLogEntry{restore: restore}
	}
}

func (s *Scheduler) enterAtomic() {
	s.batchDepth++
	s.atomicDepth++
	s.atomicLogs = append(s.atomicLogs, make(map[any]writeLogEntry))
}

func (s *Scheduler) exitCommit() {
	n := len(s.atomicLogs)
	child := s.atomicLogs[n-1]
	s.atomicLogs = s.atomicLogs[:n-1]
	s.atomicDepth--

	if len(s.atomicLogs) > 0 {
		parent := s.atomicLogs[len(s.atomicLogs)-1]
		for k, v := range child {
			if _, ok := parent[k]; !ok {
				parent[k] = v
			}
		}
	}

	s.batchDepth--
}

func (s *Scheduler) exitRollback() {
	n := len(s.atomicLogs)
	log := s.atomicLogs[n-1]
	s.atomicLogs = s.atomicLogs[:n-1]
	s.atomicDepth--

	s.muted++
	for _, entry := range log {
		entry.restore()
	}
	s.clearQueue()
	s.scheduled = false
	s.muted--

	s.batchDepth--
}

// Atomic runs fn inside a new atomic scope: writes recorded via
// RecordAtomicWrite during fn are rolled back if fn returns a non-nil error
// or panics, and committed (merged into the parent scope, if nested)
// otherwise. A panic is rolled back and then re-raised. Commit or rollback,
// and the flush that follows at the outermost scope, all run synchronously
// on the calling goroutine.
func (s *Scheduler) Atomic(fn func() error) (err error) {
	s.enterAtomic()
	defer func() {
		if r := recover(); r != nil {
			s.exitRollback()
			s.maybeFlush()
			panic(r)
		}
	}()

	if err = fn(); err != nil {
		s.exitRollback()
		s.maybeFlush()
		return err
	}
	s.exitCommit()
	s.maybeFlush()
	return nil
}

// Transaction is an alias for Atomic.
func (s *Scheduler) Transaction(fn func() error) error {
	return s.Atomic(fn)
}

// AtomicAsync opens an atomic scope immediately and defers its commit or
// rollback until the channel fn returns resolves. Nested atomics opened
// while this one is outstanding merge into it first-seen, same as the
// synchronous case; interleaving further top-level atomics with an
// outstanding async one is the caller's responsibility to serialize if
// that matters for their use case; this scheduler does not enforce it.
//
// The commit or rollback itself runs on a goroutine of its own (whichever
// one is waiting on the channel fn returned), not the goroutine that
// called AtomicAsync, so it only does write-log bookkeeping and never
// runs the flush itself: running scheduled effects from a goroutine other
// than the one that owns the runtime they belong to is exactly what this
// runtime's WrongThread model rejects. Call FlushSync from the owning
// goroutine after receiving from the returned channel to run whatever was
// scheduled during the scope.
func (s *Scheduler) AtomicAsync(fn func() <-chan error) <-chan error {
	s.enterAtomic()
	inner := fn()
	out := make(chan error, 1)
	go func() {
		err := <-inner
		if err != nil {
			s.exitRollback()
		} else {
			s.exitCommit()
		}
		out <- err
		close(out)
	}()
	return out
}
