package scheduler

import "sync"

// Microtask decides when a posted flush actually runs. The default,
// SyncMicrotask, runs it inline, which is what both reactive-signals
// libraries this runtime is grounded on do in practice: neither invents a
// real microtask queue, they flush synchronously at batch exit.
type Microtask interface {
	Post(fn func())
}

// SyncMicrotask runs posted work immediately, on the calling goroutine.
type SyncMicrotask struct{}

// Post implements Microtask.
func (SyncMicrotask) Post(fn func()) { fn() }

// GoroutineMicrotask funnels posted work through a single dedicated
// goroutine, processed one at a time: a flush posted through it runs on
// that goroutine, not on the one that scheduled it.
type GoroutineMicrotask struct {
	tasks chan func()
	once  sync.Once
}

// NewGoroutineMicrotask starts the background goroutine and returns a ready
// to use GoroutineMicrotask. Call Close when done with it.
func NewGoroutineMicrotask() *GoroutineMicrotask {
	m := &GoroutineMicrotask{tasks: make(chan func())}
	go m.loop()
	return m
}

func (m *GoroutineMicrotask) loop() {
	for fn := range m.tasks {
		fn()
	}
}

// Post sends fn to the background goroutine and blocks until it has run.
func (m *GoroutineMicrotask) Post(fn func()) {
	done := make(chan struct{})
	m.tasks <- func() {
		defer close(done)
		fn()
	}
	<-done
}

// Close stops the background goroutine. Post must not be called again
// afterwards.
func (m *GoroutineMicrotask) Close() {
	m.once.Do(func() { close(m.tasks) })
}
