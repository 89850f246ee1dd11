package ui

import (
	"context"
	"time"

	"fyne.io/fyne/v2"

	"github.com/chrisuehlinger/viewprt/scheduler"
)

// newFrameLoop returns a loop whose frames run on the fyne main goroutine.
// Schedule and Cancel must be called there too, which holds for widget
// callbacks, observer callbacks and setup code before the app runs. Each
// frame waits for the previous one, so frames never pile up behind a slow
// callback.
func newFrameLoop(interval time.Duration) *scheduler.Loop {
	return scheduler.NewLoop(interval, scheduler.WithDispatch(fyne.DoAndWait))
}

// startLoop runs l until the returned stop function is called. stop does
// not wait for the loop: once the app has quit, a pending DoAndWait may
// never return.
func startLoop(l *scheduler.Loop) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_ = l.Run(ctx)
	}()
	return cancel
}
