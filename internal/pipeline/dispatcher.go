package pipeline

import (
	"context"
	"runtime"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/go-faster/blockzip/internal/memlimit"
	"github.com/go-faster/blockzip/internal/sched"
)

// Reclaimer frees memory, pausing caller.
type Reclaimer interface {
	Reclaim(ctx context.Context) error
	Reset()
}

// DispatcherOptions configures Dispatcher.
type DispatcherOptions struct {
	// Workers is count of worker goroutines, runtime.NumCPU() if zero.
	Workers int
	// Oracle reports memory headroom, memlimit.Always if nil.
	Oracle memlimit.Oracle
	// Reclaimer is used for Reclaim action.
	Reclaimer Reclaimer
	Logger    *zap.Logger
}

func (o *DispatcherOptions) setDefaults() {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Oracle == nil {
		o.Oracle = memlimit.Always
	}
	if o.Reclaimer == nil {
		o.Reclaimer = memlimit.NewReclaimer(memlimit.ReclaimOptions{})
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Dispatcher runs pool of workers, each repeatedly asking decision graph
// for next action and performing it.
type Dispatcher struct {
	proc      BlockProcessor
	graph     *sched.Graph
	state     *State
	oracle    memlimit.Oracle
	reclaimer Reclaimer
	workers   int
	lg        *zap.Logger

	// Scheduling lock, guards decisions with reservations and
	// completions.
	mux      sync.Mutex
	inFlight int
	gate     chan struct{} // closed on every completion

	ctx    context.Context
	cancel context.CancelFunc

	start sync.Once
	done  chan struct{}
	err   error
}

// NewDispatcher initializes Dispatcher.
func NewDispatcher(proc BlockProcessor, graph *sched.Graph, state *State, opt DispatcherOptions) *Dispatcher {
	opt.setDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		proc:      proc,
		graph:     graph,
		state:     state,
		oracle:    opt.Oracle,
		reclaimer: opt.Reclaimer,
		workers:   opt.Workers,
		lg:        opt.Logger,
		gate:      make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

// Workers returns count of workers.
func (d *Dispatcher) Workers() int { return d.workers }

// Cancel cancels run, releasing all waiting workers. In-flight actions
// are completed.
func (d *Dispatcher) Cancel() { d.cancel() }

// RunAndWait starts workers and waits for completion, closing processor.
//
// Subsequent calls only wait for completion of first run. Cancellation
// of ctx cancels run.
func (d *Dispatcher) RunAndWait(ctx context.Context) error {
	d.start.Do(func() {
		go d.run(ctx)
	})
	<-d.done
	return d.err
}

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.done)

	if ctx.Err() != nil {
		d.cancel()
	}
	stop := context.AfterFunc(ctx, d.cancel)
	defer stop()

	lg := d.lg
	if ce := lg.Check(zap.DebugLevel, "Starting workers"); ce != nil {
		ce.Write(
			zap.Int("workers", d.workers),
			zap.String("graph", d.graph.Name()),
			zap.Int("blocks", d.state.TotalBlocks()),
		)
	}

	g, gCtx := errgroup.WithContext(d.ctx)
	for i := 0; i < d.workers; i++ {
		id := i
		g.Go(func() error {
			return d.work(gCtx, id)
		})
	}
	err := g.Wait()
	if err == nil && !d.state.Done() {
		if ctxErr := d.ctx.Err(); ctxErr != nil {
			err = errors.Wrapf(ctxErr, "cancelled with %d blocks left", d.state.BlocksToWrite())
		} else {
			err = errors.Errorf("workers finished with %d blocks left", d.state.BlocksToWrite())
		}
	}
	d.cancel()

	if closeErr := d.proc.Close(); closeErr != nil {
		err = multierr.Append(err, errors.Wrap(closeErr, "close"))
	}
	d.err = err

	if ce := lg.Check(zap.DebugLevel, "Workers finished"); ce != nil {
		ce.Write(
			zap.Uint32("last_written", d.state.LastWritten()),
			zap.Error(err),
		)
	}
}

// assign selects next action and makes reservation for it.
func (d *Dispatcher) assign() (sched.Action, string, <-chan struct{}) {
	d.mux.Lock()
	defer d.mux.Unlock()

	s := d.state.Snapshot(d.oracle)
	action, name := d.graph.FindDecision(s)
	switch action {
	case sched.Read:
		d.state.InformReadInProgress()
		d.reclaimer.Reset()
	case sched.Write:
		d.state.InformWriteInProgress()
	case sched.Process:
		d.state.ReserveBlockForProcessing()
	case sched.Wait:
		if d.inFlight == 0 {
			// Nobody can complete and wake worker up, so only memory
			// reclamation can change decision.
			action = sched.Reclaim
		}
	}
	if action != sched.Wait && action != sched.Finish {
		d.inFlight++
	}

	return action, name, d.gate
}

// complete releases reservation of action and wakes up waiting workers.
func (d *Dispatcher) complete(action sched.Action) {
	d.mux.Lock()
	defer d.mux.Unlock()

	switch action {
	case sched.Read:
		d.state.InformReadCompleted()
	case sched.Write:
		d.state.InformWriteCompleted()
	case sched.Wait, sched.Finish:
		return
	}
	d.inFlight--

	close(d.gate)
	d.gate = make(chan struct{})
}

func (d *Dispatcher) perform(ctx context.Context, action sched.Action, gate <-chan struct{}) error {
	switch action {
	case sched.Read:
		return d.proc.ReadBlock()
	case sched.Process:
		return d.proc.ProcessBlock()
	case sched.Write:
		return d.proc.WriteBlock(ctx)
	case sched.Reclaim:
		if err := d.reclaimer.Reclaim(ctx); err != nil && ctx.Err() == nil {
			return errors.Wrap(err, "reclaim")
		}
		return nil
	case sched.Wait:
		select {
		case <-gate:
		case <-ctx.Done():
		}
		return nil
	default:
		return errors.Errorf("unexpected action %s", action)
	}
}

func (d *Dispatcher) work(ctx context.Context, id int) error {
	lg := d.lg.With(zap.Int("worker", id))
	for {
		if ctx.Err() != nil {
			return nil
		}

		action, name, gate := d.assign()
		if ce := lg.Check(zap.DebugLevel, "Decision"); ce != nil {
			ce.Write(
				zap.Stringer("action", action),
				zap.String("terminal", name),
			)
		}
		if action == sched.Finish {
			return nil
		}

		err := d.perform(ctx, action, gate)
		d.complete(action)
		if err != nil {
			return errors.Wrapf(err, "worker %d: %s", id, action)
		}
	}
}
