package reactor_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowgraph/reactor"
)

func TestComputedMemoizesUntilDependencyChanges(t *testing.T) {
	a := reactor.NewSignal(1)
	runs := 0

	sum := reactor.NewComputed(func() int {
		runs++
		return a.Get() + 1
	})

	assert.Equal(t, 2, sum.Get())
	assert.Equal(t, 2, sum.Get())
	assert.Equal(t, 1, runs, "a second Get with no write must not recompute")

	a.Set(5)
	assert.Equal(t, 6, sum.Get())
	assert.Equal(t, 2, runs)
}

func TestComputedChainRecomputesLazily(t *testing.T) {
	a := reactor.NewSignal(1)
	var bRuns, cRuns int

	b := reactor.NewComputed(func() int {
		bRuns++
		return a.Get() * 2
	})
	c := reactor.NewComputed(func() int {
		cRuns++
		return b.Get() + 1
	})

	assert.Equal(t, 3, c.Get())
	assert.Equal(t, 1, bRuns)
	assert.Equal(t, 1, cRuns)

	a.Set(10)
	// Nothing recomputes until something reads c again.
	assert.Equal(t, 0, bRuns-1+cRuns-1)
	assert.Equal(t, 21, c.Get())
	assert.Equal(t, 2, bRuns)
	assert.Equal(t, 2, cRuns)
}

func TestComputedEqualityShortCircuitsDependents(t *testing.T) {
	a := reactor.NewSignal(4)
	parity := reactor.NewComputed(func() string {
		if a.Get()%2 == 0 {
			return "even"
		}
		return "odd"
	})
	var log []string

	reactor.NewEffect(func() reactor.Cleanup {
		log = append(log, parity.Get())
		return nil
	})
	assert.Equal(t, []string{"even"}, log)

	a.Set(6) // still even: parity recomputes but doesn't change
	assert.Equal(t, "even", parity.Get())
	assert.Equal(t, []string{"even"}, log, "effect must not re-run when parity is unchanged")

	a.Set(7)
	assert.Equal(t, []string{"even", "odd"}, log)
}

func TestComputedDetectsCycle(t *testing.T) {
	var self *reactor.Computed[int]
	self = reactor.NewComputedFunc(func() int {
		return self.Get() + 1
	}, nil)

	assert.Panics(t, func() {
		self.Get()
	})
}

func TestComputedDisposeStopsRecomputing(t *testing.T) {
	a := reactor.NewSignal(1)
	c := reactor.NewComputed(func() int { return a.Get() * 10 })
	assert.Equal(t, 10, c.Get())

	c.Dispose()
	assert.NotPanics(t, func() {
		a.Set(2)
	})
}

func ExampleComputed() {
	width := reactor.NewSignal(3)
	height := reactor.NewSignal(4)

	area := reactor.NewComputed(func() int {
		return width.Get() * height.Get()
	})

	fmt.Println(area.Get())
	width.Set(5)
	fmt.Println(area.Get())
	// Output:
	// 12
	// 20
}
