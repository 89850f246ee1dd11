package scene

import (
	"context"

	"github.com/chrisuehlinger/viewprt/scheduler"
)

// Runner plays a scene headless on a manual scheduler, so the same scene
// always produces the same records.
type Runner struct {
	scene *Scene
	opts  []Option
}

// NewRunner creates a runner for s.
func NewRunner(s *Scene, opts ...Option) *Runner {
	return &Runner{scene: s, opts: opts}
}

// Run opens the scene and ticks once at the initial scroll position. Then,
// for each scroll step, it scrolls and ticks step.Frames times. Each tick
// runs the page script's due timers and animation frame before the
// viewport checks. It returns every callback fired, in order.
func (r *Runner) Run(ctx context.Context) ([]Record, error) {
	var records []Record
	sched := scheduler.NewManual()
	opts := append(append([]Option(nil), r.opts...), WithRecorder(func(rec Record) {
		records = append(records, rec)
	}))

	page, err := Open(r.scene, sched, opts...)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	tick := func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		sched.Tick()
		return nil
	}

	if err := tick(); err != nil {
		return records, err
	}
	for _, step := range r.scene.Scroll {
		if err := page.Scroll(step); err != nil {
			return records, err
		}
		for i := 0; i < step.Frames; i++ {
			if err := tick(); err != nil {
				return records, err
			}
		}
	}
	return records, nil
}
