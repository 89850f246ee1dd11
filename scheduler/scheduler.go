// Package scheduler drives the periodic checks of observer viewports.
//
// A Scheduler runs a callback once per frame until the callback is
// cancelled. Callbacks always run on the goroutine that owns the scheduler,
// one at a time, in the order they were scheduled.
package scheduler

// Token identifies a scheduled callback. The zero Token is never issued.
type Token uint64

// Scheduler is implemented by every frame driver: Manual, Loop, the script
// runtime and the desktop window.
type Scheduler interface {
	// Schedule registers fn to run once per frame until cancelled.
	Schedule(fn func()) Token
	// Cancel stops a scheduled callback. Unknown and zero tokens are
	// ignored.
	Cancel(Token)
}

// Frames is the bookkeeping shared by schedulers: live callbacks keyed by
// token, kept in scheduling order. It is not safe for concurrent use.
type Frames struct {
	next  Token
	order []Token
	fns   map[Token]func()
}

// Add registers fn and returns its token.
func (f *Frames) Add(fn func()) Token {
	if f.fns == nil {
		f.fns = make(map[Token]func())
	}
	f.next++
	f.fns[f.next] = fn
	f.order = append(f.order, f.next)
	return f.next
}

// Remove forgets the callback for tok. It reports whether tok was live.
func (f *Frames) Remove(tok Token) bool {
	if _, ok := f.fns[tok]; !ok {
		return false
	}
	delete(f.fns, tok)
	for i, t := range f.order {
		if t == tok {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of live callbacks.
func (f *Frames) Len() int {
	return len(f.fns)
}

// Run calls every callback that is live when the frame starts. A callback
// cancelled by an earlier one in the same frame is skipped; callbacks added
// during the frame first run in the next one. It returns the number of
// callbacks run.
func (f *Frames) Run() int {
	if len(f.order) == 0 {
		return 0
	}
	snapshot := make([]Token, len(f.order))
	copy(snapshot, f.order)

	ran := 0
	for _, tok := range snapshot {
		fn, ok := f.fns[tok]
		if !ok {
			continue
		}
		fn()
		ran++
	}
	return ran
}
