package core

import "github.com/flowgraph/reactor/scheduler"

// OnSettled registers cb to run once, the next time a flush drains its
// queue completely (including every effect chained during the flush, not
// just the round that was already in flight).
func (r *Runtime) OnSettled(cb func()) {
	r.settled = append(r.settled, cb)
}

// OnUserSettled registers cb to run once, after the next round's user
// effects finish, even if that round's effects chain into further rounds.
func (r *Runtime) OnUserSettled(cb func()) {
	r.userSettled = append(r.userSettled, cb)
}

// OnRenderSettled registers cb to run once, after the next round's render
// effects finish and before that round's user effects run.
func (r *Runtime) OnRenderSettled(cb func()) {
	r.renderSettled = append(r.renderSettled, cb)
}

func (r *Runtime) fireSettled(list *[]func()) {
	cbs := *list
	*list = nil
	for _, cb := range cbs {
		cb()
	}
}

// flush drives one full scheduler.FlushJobs-equivalent pass, but splits
// each round into a render lane and a user lane (render runs first) and
// fires the corresponding settled hooks between phases, per round; the
// global OnSettled hooks only fire once the whole drain goes quiet.
func (r *Runtime) flush() error {
	iterations := 0
	for {
		jobs := r.Scheduler.Snapshot()
		if len(jobs) == 0 {
			break
		}

		var renderJobs, userJobs []scheduler.Job
		for _, job := range jobs {
			if e, ok := job.(*Effect); ok && e.Kind() == EffectRender {
				renderJobs = append(renderJobs, job)
			} else {
				userJobs = append(userJobs, job)
			}
		}

		if err := r.runLane(renderJobs, &iterations); err != nil {
			return err
		}
		r.fireSettled(&r.renderSettled)

		if err := r.runLane(userJobs, &iterations); err != nil {
			return err
		}
		r.fireSettled(&r.userSettled)
	}

	r.fireSettled(&r.settled)
	return nil
}

func (r *Runtime) runLane(jobs []scheduler.Job, iterations *int) error {
	for _, job := range jobs {
		if job.Disposed() {
			continue
		}
		job.Run()
		*iterations++
		if *iterations > 10000 {
			return scheduler.ErrInfiniteUpdateLoop
		}
	}
	return nil
}
