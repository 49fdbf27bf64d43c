// Command reactordemo is a small runnable walkthrough of the reactor
// package: a signal feeding a memoized computed feeding an effect, with a
// batched double write showing the computed only runs once.
package main

import (
	"fmt"

	"github.com/flowgraph/reactor"
)

func main() {
	scope := reactor.NewScope()
	scope.Run(func() {
		a := reactor.NewSignal(1)
		b := reactor.NewSignal(2)

		sum := reactor.NewComputed(func() int {
			result := a.Get() + b.Get()
			fmt.Println("  [computed] sum:", result)
			return result
		})

		reactor.NewEffect(func() reactor.Cleanup {
			fmt.Println("  [effect] sum is:", sum.Get())
			return nil
		})

		fmt.Println("\nupdating both a and b in a batch...")
		reactor.Batch(func() {
			a.Set(10)
			b.Set(20)
		})

		fmt.Println("\nsum recomputes once (30), the effect runs once with it")
	})

	scope.Dispose()
}
