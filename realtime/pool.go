package realtime

// Pool bounds how many storage operations triggered from socket read loops
// run at once, keeping blocking repository calls from piling up under the
// connection goroutines. Do acquires a slot, runs fn, and returns when fn
// returns, so callers resume only after their storage work finished.
type Pool struct {
	slots chan struct{}
}

// NewPool creates a pool with the given number of slots. Size must be >= 1.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{slots: make(chan struct{}, size)}
}

// Do runs fn within a pool slot, blocking until a slot is free.
func (p *Pool) Do(fn func()) {
	p.slots <- struct{}{}
	defer func() { <-p.slots }()
	fn()
}
