package blockzip

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/go-faster/blockzip/compress"
	"github.com/go-faster/blockzip/container"
	"github.com/go-faster/blockzip/internal/blockio"
	"github.com/go-faster/blockzip/internal/memlimit"
	"github.com/go-faster/blockzip/internal/pipeline"
	"github.com/go-faster/blockzip/internal/sched"
	"github.com/go-faster/blockzip/otelbz"
)

// Run is single compression or decompression of file.
type Run struct {
	id     uuid.UUID
	mode   Mode
	lg     *zap.Logger
	scribe *container.Scribe

	state      *pipeline.State
	dispatcher *pipeline.Dispatcher
	workers    int

	otel   bool
	tracer trace.Tracer
}

// ID of run.
func (r *Run) ID() uuid.UUID { return r.id }

// Mode of run.
func (r *Run) Mode() Mode { return r.mode }

// TotalBlocks returns count of blocks.
func (r *Run) TotalBlocks() int { return r.scribe.TotalBlocks() }

// BlockSize returns size of uncompressed block.
func (r *Run) BlockSize() int { return r.scribe.BlockSize() }

// FileSize returns size of original file.
func (r *Run) FileSize() int64 { return r.scribe.FileSize() }

// Cancel cancels run. Workers complete in-flight actions and stop.
func (r *Run) Cancel() { r.dispatcher.Cancel() }

// input is opened reader of input file with its scribe.
type input struct {
	reader blockio.Reader
	scribe *container.Scribe
}

func openInput(opt Options) (*input, error) {
	switch opt.Mode {
	case ModeCompress:
		stat, err := os.Stat(opt.Input)
		if err != nil {
			return nil, errors.Wrap(err, "stat")
		}
		s, err := container.NewScribe(filepath.Base(opt.Input), stat.Size(), opt.BlockSize)
		if err != nil {
			return nil, errors.Wrap(err, "scribe")
		}
		r, err := blockio.OpenData(opt.Input, opt.BlockSize)
		if err != nil {
			return nil, errors.Wrap(err, "reader")
		}
		return &input{reader: r, scribe: s}, nil
	case ModeDecompress:
		s, err := readScribe(opt.Input)
		if err != nil {
			return nil, errors.Wrap(err, "scribe")
		}
		r, err := blockio.OpenContainer(opt.Input)
		if err != nil {
			return nil, errors.Wrap(err, "reader")
		}
		return &input{reader: r, scribe: s}, nil
	default:
		return nil, errors.Errorf("unknown mode %s", opt.Mode)
	}
}

// readScribe reads scribe from first member of container.
func readScribe(name string) (*container.Scribe, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "stat")
	}
	h, _, err := container.ReadHeader(f, 0, stat.Size())
	if err != nil {
		return nil, errors.Wrap(err, "read first member")
	}
	return container.ScribeFromHeader(h)
}

// sameFile reports whether both names point to same existing file.
func sameFile(a, b string) bool {
	sa, err := os.Stat(a)
	if err != nil {
		return false
	}
	sb, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(sa, sb)
}

// New prepares run of compression or decompression, opening input and
// creating output.
func New(opt Options) (_ *Run, rErr error) {
	opt.setDefaults()
	switch {
	case !opt.Mode.IsAMode():
		return nil, errors.Errorf("unknown mode %s", opt.Mode)
	case opt.Input == "":
		return nil, errors.New("input is required")
	case opt.Output == "":
		return nil, errors.New("output is required")
	case opt.BlockSize < 0:
		return nil, errors.Errorf("invalid block size %d", opt.BlockSize)
	case sameFile(opt.Input, opt.Output):
		return nil, errors.Errorf("input and output are same file %q", opt.Input)
	}
	codec, err := compress.NewCodec(opt.Level)
	if err != nil {
		return nil, errors.Wrap(err, "codec")
	}

	in, err := openInput(opt)
	if err != nil {
		return nil, errors.Wrap(err, "input")
	}
	defer func() {
		if rErr != nil {
			rErr = multierr.Append(rErr, in.reader.Close())
		}
	}()

	var size int64
	if opt.Mode == ModeDecompress {
		size = in.scribe.FileSize()
	}
	w, err := blockio.CreateWriter(opt.Output, size)
	if err != nil {
		return nil, errors.Wrap(err, "output")
	}
	defer func() {
		if rErr != nil {
			rErr = multierr.Append(rErr, w.Close())
		}
	}()

	id := uuid.New()
	lg := opt.Logger.With(
		zap.Stringer("run_id", id),
		zap.Stringer("mode", opt.Mode),
	)

	var (
		graph = sched.Compression()
		mode  = pipeline.Compress
	)
	if opt.Mode == ModeDecompress {
		graph = sched.Decompression()
		mode = pipeline.Decompress
	}

	state := pipeline.NewState(in.scribe.TotalBlocks())
	proc, err := pipeline.NewProcessor(pipeline.ProcessorOptions{
		Mode:     mode,
		Reader:   in.reader,
		Writer:   w,
		Codec:    codec,
		Scribe:   in.scribe,
		State:    state,
		Progress: opt.Progress,
		Logger:   lg.Named("processor"),
	})
	if err != nil {
		return nil, errors.Wrap(err, "processor")
	}

	oracle := opt.Memory
	if oracle == nil {
		limiter := memlimit.NewLimiter(memlimit.Options{
			Ceiling: opt.MemoryCeiling,
		})
		lg.Debug("Memory cap", zap.Uint64("cap", limiter.Cap()))
		oracle = limiter
	}

	r := &Run{
		id:     id,
		mode:   opt.Mode,
		lg:     lg,
		scribe: in.scribe,
		state:  state,
		dispatcher: pipeline.NewDispatcher(proc, graph, state, pipeline.DispatcherOptions{
			Workers: opt.Workers,
			Oracle:  oracle,
			Logger:  lg.Named("dispatcher"),
		}),
		workers: opt.Workers,
		otel:    opt.OpenTelemetryInstrumentation,
	}
	if r.otel {
		r.tracer = opt.TracerProvider.Tracer(otelbz.Name,
			trace.WithInstrumentationVersion(otelbz.SemVersion()),
		)
	}

	return r, nil
}

// RunAndWait runs workers and waits for completion.
//
// Subsequent calls only wait for completion of first run. Run cancelled
// before all blocks are written returns error that wraps
// context.Canceled.
func (r *Run) RunAndWait(ctx context.Context) (rErr error) {
	if r.otel {
		newCtx, span := r.tracer.Start(ctx, "Run",
			trace.WithAttributes(
				otelbz.RunID(r.id.String()),
				otelbz.Mode(r.mode.String()),
				otelbz.Blocks(r.TotalBlocks()),
				otelbz.BlockSize(r.BlockSize()),
				otelbz.FileSize(r.FileSize()),
				otelbz.Workers(r.workers),
			),
		)
		ctx = newCtx
		defer func() {
			span.SetAttributes(otelbz.LastWritten(int64(r.state.LastWritten())))
			if rErr != nil {
				span.RecordError(rErr)
				span.SetStatus(codes.Error, rErr.Error())
			} else {
				span.SetStatus(codes.Ok, "")
			}
			span.End()
		}()
	}

	r.lg.Info("Starting",
		zap.Int("blocks", r.TotalBlocks()),
		zap.Int("block_size", r.BlockSize()),
		zap.Int("workers", r.workers),
	)
	start := time.Now()
	if err := r.dispatcher.RunAndWait(ctx); err != nil {
		return errors.Wrap(err, r.mode.String())
	}
	r.lg.Info("Finished",
		zap.Duration("duration", time.Since(start)),
	)

	return nil
}

// Compress compresses input file into output container.
func Compress(ctx context.Context, input, output string, opt Options) error {
	opt.Mode = ModeCompress
	opt.Input, opt.Output = input, output
	r, err := New(opt)
	if err != nil {
		return err
	}
	return r.RunAndWait(ctx)
}

// Decompress restores original file from input container.
func Decompress(ctx context.Context, input, output string, opt Options) error {
	opt.Mode = ModeDecompress
	opt.Input, opt.Output = input, output
	r, err := New(opt)
	if err != nil {
		return err
	}
	return r.RunAndWait(ctx)
}
