package reactor_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowgraph/reactor"
)

func TestSignalWriteFromAnotherGoroutineIsRejected(t *testing.T) {
	s := reactor.NewSignal(1)

	var err error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				err, _ = r.(error)
			}
		}()
		s.Set(2)
	}()
	wg.Wait()

	assert.ErrorIs(t, err, reactor.ErrWrongThread)
	assert.Equal(t, 1, s.Peek(), "the rejected write must not have applied")
}

func TestEffectDisposeFromAnotherGoroutineIsRejected(t *testing.T) {
	e := reactor.NewEffect(func() reactor.Cleanup {
		return nil
	})

	var err error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				err, _ = r.(error)
			}
		}()
		e.Dispose()
	}()
	wg.Wait()

	assert.ErrorIs(t, err, reactor.ErrWrongThread)
}

func TestDiamondDependencyNeverObservesAGlitch(t *testing.T) {
	// a feeds both b and c, which both feed d. Writing a must never let the
	// effect observe b and c from different writes of a.
	a := reactor.NewSignal(1)
	b := reactor.NewComputed(func() int { return a.Get() * 2 })
	c := reactor.NewComputed(func() int { return a.Get() * 3 })
	d := reactor.NewComputed(func() int { return b.Get() + c.Get() })

	var observed []int
	reactor.NewEffect(func() reactor.Cleanup {
		observed = append(observed, d.Get())
		return nil
	})
	assert.Equal(t, []int{5}, observed)

	a.Set(10)
	assert.Equal(t, []int{5, 50}, observed, "d must settle to a single consistent value per write, never an intermediate mix")
}

func TestCycleDetectedAcrossTwoComputeds(t *testing.T) {
	var x, y *reactor.Computed[int]
	x = reactor.NewComputedFunc(func() int { return y.Get() + 1 }, nil)
	y = reactor.NewComputedFunc(func() int { return x.Get() + 1 }, nil)

	assert.PanicsWithError(t, "reactor: cycle detected during recompute", func() {
		x.Get()
	})
}

func Example_reactiveChain() {
	scope := reactor.NewScope()
	defer scope.Dispose()

	scope.Run(func() {
		price := reactor.NewSignal(10)
		quantity := reactor.NewSignal(3)

		total := reactor.NewComputed(func() int {
			return price.Get() * quantity.Get()
		})

		reactor.NewEffect(func() reactor.Cleanup {
			fmt.Println("total:", total.Get())
			return nil
		})

		reactor.Batch(func() {
			price.Set(20)
			quantity.Set(5)
		})
	})
	// Output:
	// total: 30
	// total: 100
}

func TestAtomicAsyncCommitsAfterChannelResolves(t *testing.T) {
	a := reactor.NewSignal(1)
	resolve := make(chan error, 1)

	done := reactor.AtomicAsync(func() <-chan error {
		a.Set(2)
		return resolve
	})

	// Nothing has resolved yet: the write is still pending commit or rollback.
	assert.Equal(t, 2, a.Peek(), "the write is visible inside the scope even before it resolves")

	resolve <- nil
	err := <-done
	assert.NoError(t, err)
	assert.Equal(t, 2, a.Peek())
}

func TestAtomicAsyncRollsBackOnResolvedError(t *testing.T) {
	a := reactor.NewSignal(1)
	resolve := make(chan error, 1)

	done := reactor.AtomicAsync(func() <-chan error {
		a.Set(99)
		return resolve
	})

	resolve <- errors.New("failed")
	err := <-done
	assert.Error(t, err)
	assert.Equal(t, 1, a.Peek())
}
