package watcher

import (
	"sync"
	"time"
)

// Ticker is anything that consumes elapsed time, a Watcher or a Registry.
type Ticker interface {
	Tick(delta time.Duration)
}

// Runner feeds a Ticker from its own goroutine with the time elapsed
// between two beats of a time.Ticker.
type Runner struct {
	t      Ticker
	period time.Duration
	closed chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// NewRunner starts ticking t every period until Close.
func NewRunner(t Ticker, period time.Duration) *Runner {
	if period <= 0 {
		period = 100 * time.Millisecond
	}
	r := Runner{
		t:      t,
		period: period,
		closed: make(chan struct{}),
	}

	r.wg.Add(1)
	go r.run()

	return &r
}

func (r *Runner) run() {
	defer r.wg.Done()

	tk := time.NewTicker(r.period)
	defer tk.Stop()

	last := time.Now()
	for {
		select {
		case now := <-tk.C:
			r.t.Tick(now.Sub(last))
			last = now
		case <-r.closed:
			return
		}
	}
}

// Close stops the goroutine and waits for an in-flight tick to return.
func (r *Runner) Close() {
	r.once.Do(func() {
		close(r.closed)
	})
	r.wg.Wait()
}
