package scheduler

// Manual is a Scheduler that only runs frames when told to. Tests and the
// headless scene runner use it to step viewport checks deterministically.
type Manual struct {
	frames Frames
}

// NewManual returns an empty manual scheduler.
func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Schedule(fn func()) Token {
	return m.frames.Add(fn)
}

func (m *Manual) Cancel(tok Token) {
	m.frames.Remove(tok)
}

// Tick runs one frame and returns how many callbacks ran.
func (m *Manual) Tick() int {
	return m.frames.Run()
}

// TickN runs n frames.
func (m *Manual) TickN(n int) {
	for i := 0; i < n; i++ {
		m.frames.Run()
	}
}

// Len returns the number of live callbacks.
func (m *Manual) Len() int {
	return m.frames.Len()
}
