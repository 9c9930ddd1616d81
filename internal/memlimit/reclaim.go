package memlimit

import (
	"context"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ReclaimOptions for Reclaimer.
type ReclaimOptions struct {
	// InitialPause is first pause after reclamation.
	InitialPause time.Duration
	// MaxPause limits growth of pause between consecutive reclamations.
	MaxPause time.Duration
	// Collect frees memory, by default runs garbage collection and
	// returns memory to OS.
	Collect func()
}

func (o *ReclaimOptions) setDefaults() {
	if o.InitialPause == 0 {
		o.InitialPause = time.Millisecond * 5
	}
	if o.MaxPause == 0 {
		o.MaxPause = time.Millisecond * 250
	}
	if o.Collect == nil {
		o.Collect = Collect
	}
}

// Collect runs garbage collection and returns as much memory to OS as
// possible.
func Collect() {
	runtime.GC()
	debug.FreeOSMemory()
}

// Reclaimer frees memory and pauses caller, growing pause exponentially
// while reclamation is requested repeatedly.
type Reclaimer struct {
	collect func()

	mux sync.Mutex
	b   *backoff.ExponentialBackOff
}

// NewReclaimer initializes Reclaimer.
func NewReclaimer(opt ReclaimOptions) *Reclaimer {
	opt.setDefaults()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = opt.InitialPause
	b.MaxInterval = opt.MaxPause
	b.MaxElapsedTime = 0
	b.Reset()

	return &Reclaimer{
		collect: opt.Collect,
		b:       b,
	}
}

func (r *Reclaimer) next() time.Duration {
	r.mux.Lock()
	defer r.mux.Unlock()

	d := r.b.NextBackOff()
	if d == backoff.Stop {
		d = r.b.MaxInterval
	}
	return d
}

// Reset resets pause to initial one.
func (r *Reclaimer) Reset() {
	r.mux.Lock()
	defer r.mux.Unlock()

	r.b.Reset()
}

// Reclaim frees memory and pauses, returning early with context error
// on cancellation.
func (r *Reclaimer) Reclaim(ctx context.Context) error {
	r.collect()

	timer := time.NewTimer(r.next())
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
