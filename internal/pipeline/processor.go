package pipeline

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/go-faster/blockzip/container"
	"github.com/go-faster/blockzip/internal/blockio"
)

// ProcessorOptions configures Processor.
type ProcessorOptions struct {
	Mode   Mode
	Reader blockio.Reader
	Writer Writer
	Codec  Codec
	// Scribe stamps compressed blocks and describes original file.
	Scribe   *container.Scribe
	State    *State
	Progress Progress
	Logger   *zap.Logger
}

// Processor reads, processes and writes blocks, informing State.
type Processor struct {
	mode     Mode
	reader   blockio.Reader
	writer   Writer
	codec    Codec
	scribe   *container.Scribe
	state    *State
	progress Progress
	lg       *zap.Logger

	input  queue
	output index

	readMux   sync.Mutex
	exhausted bool

	closeOnce sync.Once
	closeErr  error
}

// NewProcessor initializes Processor, positioning reader on first block
// and writer at the beginning.
func NewProcessor(opt ProcessorOptions) (*Processor, error) {
	switch {
	case !opt.Mode.IsAMode():
		return nil, errors.Errorf("unknown mode %s", opt.Mode)
	case opt.Reader == nil:
		return nil, errors.New("reader is required")
	case opt.Writer == nil:
		return nil, errors.New("writer is required")
	case opt.Codec == nil:
		return nil, errors.New("codec is required")
	case opt.Scribe == nil:
		return nil, errors.New("scribe is required")
	case opt.State == nil:
		return nil, errors.New("state is required")
	}
	if opt.Progress == nil {
		opt.Progress = nopProgress{}
	}
	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}
	p := &Processor{
		mode:     opt.Mode,
		reader:   opt.Reader,
		writer:   opt.Writer,
		codec:    opt.Codec,
		scribe:   opt.Scribe,
		state:    opt.State,
		progress: opt.Progress,
		lg:       opt.Logger,
	}

	p.writer.MoveNext()
	ok, err := p.reader.MoveNext()
	if err != nil {
		return nil, errors.Wrap(err, "move to first block")
	}
	p.exhausted = !ok
	p.progress.SetOverallValue(int64(p.state.TotalBlocks()) * StepsPerBlock)

	return p, nil
}

// ReadBlock reads current block and moves reader to next one.
func (p *Processor) ReadBlock() error {
	p.readMux.Lock()
	defer p.readMux.Unlock()

	if p.exhausted {
		return errors.Wrapf(container.ErrFormat,
			"input ended with %d of %d blocks left", p.state.BlocksToRead(), p.state.TotalBlocks(),
		)
	}
	b, err := p.reader.Read()
	if err != nil {
		return errors.Wrap(err, "read")
	}
	if b.Number == 0 || int(b.Number) > p.state.TotalBlocks() {
		return errors.Wrapf(container.ErrFormat,
			"block number %d out of range [1, %d]", b.Number, p.state.TotalBlocks(),
		)
	}

	p.input.Push(b)
	p.state.InformBlockRead()
	p.progress.IncrementValue()

	ok, err := p.reader.MoveNext()
	if err != nil {
		return errors.Wrap(err, "move next")
	}
	p.exhausted = !ok

	return nil
}

func (p *Processor) process(data []byte) ([]byte, error) {
	if p.mode == Compress {
		return p.codec.Compress(data)
	}
	return p.codec.Decompress(data)
}

// ProcessBlock processes any pending block. Reservation is released if
// there is no pending block.
func (p *Processor) ProcessBlock() error {
	b, ok := p.input.Pop()
	if !ok {
		p.state.ReleaseBlockForProcessing()
		return nil
	}

	out, err := p.process(b.Data)
	if err != nil {
		p.input.Push(b)
		p.state.ReleaseBlockForProcessing()
		return errors.Wrapf(err, "%s block %d", p.mode, b.Number)
	}
	if p.mode == Decompress {
		if err := p.checkSize(b.Number, len(out)); err != nil {
			return err
		}
	}

	p.output.Put(blockio.Block{Number: b.Number, Data: out})
	if err := p.state.InformBlockProcessed(b.Number); err != nil {
		return errors.Wrapf(container.ErrFormat, "%s", err)
	}
	p.progress.IncrementValue()

	return nil
}

// checkSize checks decompressed size of block n.
func (p *Processor) checkSize(n uint32, size int) error {
	expected := int64(p.scribe.BlockSize())
	if int(n) == p.scribe.TotalBlocks() {
		expected = p.scribe.FileSize() - int64(n-1)*int64(p.scribe.BlockSize())
	}
	if int64(size) != expected {
		return errors.Wrapf(container.ErrFormat,
			"block %d decompressed to %d bytes, expected %d", n, size, expected,
		)
	}
	return nil
}

// WriteBlock writes processed blocks in order while next block is
// available and ctx is not done.
func (p *Processor) WriteBlock(ctx context.Context) error {
	for ctx.Err() == nil && p.state.HasDataToWrite() {
		ok, err := p.writeNext()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
	return nil
}

func (p *Processor) writeNext() (bool, error) {
	n := p.state.LastWritten() + 1
	b, ok := p.output.Take(n)
	if !ok {
		return false, nil
	}

	data := b.Data
	switch p.mode {
	case Compress:
		stamped, err := p.scribe.ScribeBlock(b.Data, n)
		if err != nil {
			p.output.Put(b)
			return false, errors.Wrapf(err, "scribe block %d", n)
		}
		data = stamped
	case Decompress:
		expected := int64(n-1) * int64(p.scribe.BlockSize())
		if offset := p.writer.Offset(); offset != expected {
			p.output.Put(b)
			return false, errors.Wrapf(container.ErrFormat,
				"block %d at offset %d, expected %d", n, offset, expected,
			)
		}
	}

	if err := p.writer.Write(blockio.Block{Number: n, Data: data}); err != nil {
		p.output.Put(b)
		return false, errors.Wrapf(err, "write block %d", n)
	}
	p.state.InformBlockWritten()
	p.writer.MoveNext()
	p.progress.IncrementValue()

	if ce := p.lg.Check(zap.DebugLevel, "Block written"); ce != nil {
		ce.Write(
			zap.Uint32("block", n),
			zap.Int("bytes", len(data)),
		)
	}

	return true, nil
}

// Close closes reader and writer.
func (p *Processor) Close() error {
	p.closeOnce.Do(func() {
		if err := p.reader.Close(); err != nil {
			p.closeErr = multierr.Append(p.closeErr, errors.Wrap(err, "reader"))
		}
		if err := p.writer.Close(); err != nil {
			p.closeErr = multierr.Append(p.closeErr, errors.Wrap(err, "writer"))
		}
	})
	return p.closeErr
}
