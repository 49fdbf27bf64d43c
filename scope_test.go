package reactor_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowgraph/reactor"
)

func TestScope(t *testing.T) {
	t.Run("runs function and disposes", func(t *testing.T) {
		var log []string
		s := reactor.NewScope()

		s.Run(func() {
			reactor.NewEffect(func() reactor.Cleanup {
				log = append(log, "effect")
				reactor.OnCleanup(func() { log = append(log, "cleanup") })
				return nil
			})
		})

		log = append(log, "ran")
		s.Dispose()
		log = append(log, "disposed")

		assert.Equal(t, []string{"effect", "ran", "cleanup", "disposed"}, log)
	})

	t.Run("nested scopes", func(t *testing.T) {
		var log []string
		parent := reactor.NewScope()
		parent.OnDispose(func() { log = append(log, "parent disposed") })

		parent.Run(func() {
			reactor.NewScope().OnDispose(func() { log = append(log, "child disposed") })
		})

		parent.Dispose()

		assert.Equal(t, []string{"child disposed", "parent disposed"}, log)
	})

	t.Run("sibling effects disposal order", func(t *testing.T) {
		var log []string
		s := reactor.NewScope()

		s.Run(func() {
			reactor.OnCleanup(func() { log = append(log, "cleanup") })

			reactor.NewEffect(func() reactor.Cleanup {
				log = append(log, "running first")
				reactor.NewEffect(func() reactor.Cleanup {
					log = append(log, "running nested")
					reactor.OnCleanup(func() { log = append(log, "cleanup nested") })
					return nil
				})
				reactor.OnCleanup(func() { log = append(log, "cleanup first") })
				return nil
			})

			reactor.NewEffect(func() reactor.Cleanup {
				log = append(log, "running second")
				reactor.OnCleanup(func() { log = append(log, "cleanup second") })
				return nil
			})
		})

		log = append(log, "ran")
		s.Dispose()
		log = append(log, "disposed")

		assert.Equal(t, []string{
			"running first", "running nested", "running second",
			"ran",
			"cleanup second", "cleanup nested", "cleanup first", "cleanup",
			"disposed",
		}, log)
	})

	t.Run("catches panics with OnError", func(t *testing.T) {
		var log []string
		s := reactor.NewScope()
		s.OnError(func(err any) {
			log = append(log, fmt.Sprintf("caught %v", err))
		})

		var errSignal *reactor.Signal[error]

		s.Run(func() {
			// propagates up from the uncaught inner scope to this one.
			reactor.NewScope().Run(func() {
				errSignal = reactor.NewSignal[error](nil)
				reactor.NewEffect(func() reactor.Cleanup {
					if e := errSignal.Get(); e != nil {
						panic(e)
					}
					return nil
				})
			})
		})

		errSignal.Set(errors.New("oops"))

		assert.Equal(t, []string{"caught oops"}, log)
	})

	t.Run("disposal prevents effect re-runs", func(t *testing.T) {
		var log []int
		s := reactor.NewScope()
		count := reactor.NewSignal(0)

		s.Run(func() {
			reactor.NewEffect(func() reactor.Cleanup {
				log = append(log, count.Get())
				return nil
			})
		})

		count.Set(1)
		s.Dispose()
		count.Set(2)

		assert.Equal(t, []int{0, 1}, log)
	})

	t.Run("disposal during effect execution", func(t *testing.T) {
		var log []int
		s := reactor.NewScope()
		count := reactor.NewSignal(0)

		reactor.NewEffect(func() reactor.Cleanup {
			if count.Get() > 0 {
				s.Dispose()
			}
			return nil
		})

		s.Run(func() {
			reactor.NewEffect(func() reactor.Cleanup {
				log = append(log, count.Get())
				return nil
			})
		})

		count.Set(1)

		assert.Equal(t, []int{0}, log)
	})
}
