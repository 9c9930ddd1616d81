package pipeline

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/go-faster/errors"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/go-faster/blockzip/compress"
	"github.com/go-faster/blockzip/container"
	"github.com/go-faster/blockzip/internal/blockio"
	"github.com/go-faster/blockzip/internal/memlimit"
	"github.com/go-faster/blockzip/internal/sched"
)

type nopCloser struct {
	io.ReaderAt
}

func (nopCloser) Close() error { return nil }

// memSink is in-memory blockio.Sink.
type memSink struct {
	mux    sync.Mutex
	buf    []byte
	closed bool
}

func (s *memSink) WriteAt(p []byte, off int64) (int, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	if end := int(off) + len(p); end > len(s.buf) {
		s.buf = append(s.buf, make([]byte, end-len(s.buf))...)
	}
	return copy(s.buf[off:], p), nil
}

func (s *memSink) Close() error {
	s.mux.Lock()
	defer s.mux.Unlock()

	s.closed = true
	return nil
}

func (s *memSink) Bytes() []byte {
	s.mux.Lock()
	defer s.mux.Unlock()

	return append([]byte(nil), s.buf...)
}

// checkedReader fails test on concurrent reads.
type checkedReader struct {
	blockio.Reader
	t      testing.TB
	active atomic.Int32
	check  func()
}

func (r *checkedReader) Read() (blockio.Block, error) {
	if r.active.Inc() != 1 {
		r.t.Error("concurrent read")
	}
	defer r.active.Dec()
	if r.check != nil {
		r.check()
	}
	return r.Reader.Read()
}

// checkedWriter fails test on concurrent or out of order writes.
type checkedWriter struct {
	Writer
	t      testing.TB
	active atomic.Int32
	hook   func(n uint32)

	mux     sync.Mutex
	written []uint32
}

func (w *checkedWriter) Write(b blockio.Block) error {
	if w.active.Inc() != 1 {
		w.t.Error("concurrent write")
	}
	defer w.active.Dec()

	w.mux.Lock()
	if expected := uint32(len(w.written) + 1); b.Number != expected {
		w.t.Errorf("write of block %d, expected %d", b.Number, expected)
	}
	w.written = append(w.written, b.Number)
	w.mux.Unlock()

	if err := w.Writer.Write(b); err != nil {
		return err
	}
	if w.hook != nil {
		w.hook(b.Number)
	}
	return nil
}

func (w *checkedWriter) Written() []uint32 {
	w.mux.Lock()
	defer w.mux.Unlock()

	return append([]uint32(nil), w.written...)
}

// checkedProcessor fails test on overcommitted processing reservations.
type checkedProcessor struct {
	*Processor
	t testing.TB
}

func (p *checkedProcessor) ProcessBlock() error {
	if v := p.state.BlocksToProcess(); v < 0 {
		p.t.Errorf("processing reservations exceed pending blocks by %d", -v)
	}
	return p.Processor.ProcessBlock()
}

var errInjected = errors.New("injected failure")

// failingCodec fails compression of blocks starting with fail byte.
type failingCodec struct {
	Codec
	fail byte
}

func (c failingCodec) Compress(src []byte) ([]byte, error) {
	if len(src) > 0 && src[0] == c.fail {
		return nil, errInjected
	}
	return c.Codec.Compress(src)
}

type countingReclaimer struct {
	count atomic.Int32
}

func (r *countingReclaimer) Reclaim(ctx context.Context) error {
	r.count.Inc()
	return ctx.Err()
}

func (r *countingReclaimer) Reset() {}

// blocksData returns data of n full blocks and tail, where each block is
// filled with its number.
func blocksData(blockSize, n, tail int) []byte {
	var data []byte
	for i := 1; i <= n; i++ {
		data = append(data, bytes.Repeat([]byte{byte(i)}, blockSize)...)
	}
	return append(data, bytes.Repeat([]byte{byte(n + 1)}, tail)...)
}

func codec(t testing.TB) Codec {
	t.Helper()
	c, err := compress.NewCodec(compress.LevelFastest)
	require.NoError(t, err)
	return c
}

type testEnv struct {
	State      *State
	Processor  *Processor
	Dispatcher *Dispatcher
	Reader     *checkedReader
	Writer     *checkedWriter
	Sink       *memSink
	Reclaimer  *countingReclaimer
}

type envOptions struct {
	Mode      Mode
	Input     []byte
	BlockSize int
	Workers   int
	Codec     Codec
	Oracle    memlimit.Oracle
}

func newEnv(t testing.TB, opt envOptions) *testEnv {
	t.Helper()
	if opt.Codec == nil {
		opt.Codec = codec(t)
	}

	var (
		reader blockio.Reader
		scribe *container.Scribe
		graph  *sched.Graph
		sink   = &memSink{}
		err    error
		src    = nopCloser{ReaderAt: bytes.NewReader(opt.Input)}
		size   = int64(len(opt.Input))
	)
	switch opt.Mode {
	case Compress:
		scribe, err = container.NewScribe("data.bin", size, opt.BlockSize)
		require.NoError(t, err)
		reader, err = blockio.NewDataReader(src, size, opt.BlockSize, blockio.DataOptions{})
		require.NoError(t, err)
		graph = sched.Compression()
	case Decompress:
		h, _, err := container.ReadHeader(src, 0, size)
		require.NoError(t, err)
		scribe, err = container.ScribeFromHeader(h)
		require.NoError(t, err)
		reader = blockio.NewContainerReader(src, size)
		graph = sched.Decompression()
	}

	env := &testEnv{
		State:     NewState(scribe.TotalBlocks()),
		Reader:    &checkedReader{Reader: reader, t: t},
		Writer:    &checkedWriter{Writer: blockio.NewWriter(sink), t: t},
		Sink:      sink,
		Reclaimer: &countingReclaimer{},
	}
	env.Processor, err = NewProcessor(ProcessorOptions{
		Mode:   opt.Mode,
		Reader: env.Reader,
		Writer: env.Writer,
		Codec:  opt.Codec,
		Scribe: scribe,
		State:  env.State,
		Logger: zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	env.Dispatcher = NewDispatcher(
		&checkedProcessor{Processor: env.Processor, t: t},
		graph, env.State,
		DispatcherOptions{
			Workers:   opt.Workers,
			Oracle:    opt.Oracle,
			Reclaimer: env.Reclaimer,
			Logger:    zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel)),
		},
	)
	return env
}

func sequence(n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = uint32(i + 1)
	}
	return out
}

func gunzip(t testing.TB, data []byte) []byte {
	t.Helper()
	r, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return out
}

func compressData(t testing.TB, data []byte, blockSize int) []byte {
	t.Helper()
	env := newEnv(t, envOptions{
		Mode:      Compress,
		Input:     data,
		BlockSize: blockSize,
		Workers:   4,
	})
	require.NoError(t, env.Dispatcher.RunAndWait(context.Background()))
	return env.Sink.Bytes()
}

func TestDispatcher(t *testing.T) {
	data := blocksData(1000, 10, 123)
	for _, workers := range []int{1, 2, 4, 16} {
		env := newEnv(t, envOptions{
			Mode:      Compress,
			Input:     data,
			BlockSize: 1000,
			Workers:   workers,
		})
		require.Equal(t, workers, env.Dispatcher.Workers())
		require.NoError(t, env.Dispatcher.RunAndWait(context.Background()))

		require.True(t, env.State.Done())
		require.Equal(t, sequence(11), env.Writer.Written())
		require.True(t, env.Sink.closed)

		compressed := env.Sink.Bytes()
		require.Equal(t, data, gunzip(t, compressed))

		env = newEnv(t, envOptions{
			Mode:    Decompress,
			Input:   compressed,
			Workers: workers,
		})
		require.NoError(t, env.Dispatcher.RunAndWait(context.Background()))
		require.Equal(t, sequence(11), env.Writer.Written())
		require.Equal(t, data, env.Sink.Bytes())
	}
}

func TestDispatcher_SingleBlock(t *testing.T) {
	data := []byte("single block")
	compressed := compressData(t, data, 1024)

	info, err := container.ParseInfo(compressed)
	require.NoError(t, err)
	require.Equal(t, len(compressed), info.HeaderSize+info.PayloadSize(len(compressed))+container.TailSize)

	orig, ok := info.OriginalInfo()
	require.True(t, ok)
	require.Equal(t, container.OriginalInfo{BlockSize: 1024, TotalBlocks: 1, FileSize: uint64(len(data))}, orig)
	block, ok := info.BlockInfo()
	require.True(t, ok)
	require.Equal(t, uint32(1), block.Number)
}

func TestDispatcher_Backpressure(t *testing.T) {
	const lowCalls = 40
	var calls atomic.Int64
	oracle := memlimit.OracleFunc(func() bool {
		return calls.Inc() > lowCalls
	})

	data := blocksData(512, 8, 0)
	env := newEnv(t, envOptions{
		Mode:      Compress,
		Input:     data,
		BlockSize: 512,
		Workers:   4,
		Oracle:    oracle,
	})
	env.Reader.check = func() {
		if calls.Load() <= lowCalls {
			t.Error("read without enough memory")
		}
	}
	require.NoError(t, env.Dispatcher.RunAndWait(context.Background()))
	require.Equal(t, data, gunzip(t, env.Sink.Bytes()))
	require.NotZero(t, env.Reclaimer.count.Load())
}

func TestDispatcher_Failure(t *testing.T) {
	env := newEnv(t, envOptions{
		Mode:      Compress,
		Input:     blocksData(256, 6, 0),
		BlockSize: 256,
		Workers:   4,
		Codec:     failingCodec{Codec: codec(t), fail: 2},
	})

	err := env.Dispatcher.RunAndWait(context.Background())
	require.ErrorIs(t, err, errInjected)
	require.NotContains(t, env.Writer.Written(), uint32(2))
	require.False(t, env.State.IsProcessed(2))
	require.True(t, env.Sink.closed)

	// Second call only waits.
	require.ErrorIs(t, env.Dispatcher.RunAndWait(context.Background()), errInjected)
}

func TestDispatcher_Cancel(t *testing.T) {
	env := newEnv(t, envOptions{
		Mode:      Compress,
		Input:     blocksData(128, 64, 0),
		BlockSize: 128,
		Workers:   4,
	})
	env.Writer.hook = func(n uint32) {
		if n == 3 {
			env.Dispatcher.Cancel()
		}
	}

	err := env.Dispatcher.RunAndWait(context.Background())
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, sequence(3), env.Writer.Written())
	require.Equal(t, uint32(3), env.State.LastWritten())
	require.True(t, env.Sink.closed)

	// Written members are complete.
	compressed := env.Sink.Bytes()
	require.Equal(t, blocksData(128, 3, 0), gunzip(t, compressed))
}

func TestDispatcher_CancelBeforeRun(t *testing.T) {
	env := newEnv(t, envOptions{
		Mode:      Compress,
		Input:     blocksData(128, 4, 0),
		BlockSize: 128,
	})
	env.Dispatcher.Cancel()

	require.ErrorIs(t, env.Dispatcher.RunAndWait(context.Background()), context.Canceled)
	require.Empty(t, env.Writer.Written())
}

func TestDispatcher_Context(t *testing.T) {
	env := newEnv(t, envOptions{
		Mode:      Compress,
		Input:     blocksData(128, 4, 0),
		BlockSize: 128,
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, env.Dispatcher.RunAndWait(ctx), context.Canceled)
}
