package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-faster/blockzip/internal/blockio"
	"github.com/go-faster/blockzip/internal/memlimit"
	"github.com/go-faster/blockzip/internal/sched"
)

func TestState(t *testing.T) {
	s := NewState(2)
	require.Equal(t, 2, s.TotalBlocks())
	require.True(t, s.HasDataToRead())
	require.False(t, s.HasDataToProcess())
	require.False(t, s.HasDataToWrite())
	require.False(t, s.Done())

	s.InformReadInProgress()
	require.True(t, s.IsReadInProgress())
	s.InformBlockRead()
	s.InformReadCompleted()
	require.False(t, s.IsReadInProgress())
	require.Equal(t, int64(1), s.BlocksToRead())
	require.True(t, s.HasDataToProcess())

	s.ReserveBlockForProcessing()
	require.False(t, s.HasDataToProcess())
	s.ReleaseBlockForProcessing()
	s.ReserveBlockForProcessing()

	s.InformBlockRead()
	s.ReserveBlockForProcessing()
	require.False(t, s.HasDataToRead())

	// Block 2 is processed first, but can't be written.
	require.NoError(t, s.InformBlockProcessed(2))
	require.False(t, s.HasDataToWrite())
	require.NoError(t, s.InformBlockProcessed(1))
	require.True(t, s.HasDataToWrite())

	s.InformWriteInProgress()
	require.True(t, s.IsWriteInProgress())
	s.InformBlockWritten()
	require.Equal(t, uint32(1), s.LastWritten())
	require.True(t, s.HasDataToWrite())
	s.InformBlockWritten()
	s.InformWriteCompleted()
	require.False(t, s.IsWriteInProgress())

	require.False(t, s.HasDataToWrite())
	require.True(t, s.Done())
	require.Equal(t, int64(0), s.BlocksToWrite())
}

func TestState_InformBlockProcessed(t *testing.T) {
	s := NewState(2)
	require.Error(t, s.InformBlockProcessed(0))
	require.Error(t, s.InformBlockProcessed(3))
	require.NoError(t, s.InformBlockProcessed(1))
	require.Error(t, s.InformBlockProcessed(1))

	require.False(t, s.IsProcessed(0))
	require.False(t, s.IsProcessed(100))
	require.True(t, s.IsProcessed(1))
}

func TestState_Snapshot(t *testing.T) {
	s := NewState(1)
	var calls int
	oracle := memlimit.OracleFunc(func() bool {
		calls++
		return false
	})
	s.InformReadInProgress()
	require.Equal(t, sched.Snapshot{
		ReadInProgress: true,
		HasDataToRead:  true,
	}, s.Snapshot(oracle))
	require.Equal(t, 1, calls)

	s.InformBlockRead()
	s.InformReadCompleted()
	require.Equal(t, sched.Snapshot{
		EnoughMemory:     true,
		HasDataToProcess: true,
	}, s.Snapshot(memlimit.Always))
}

func TestStaging(t *testing.T) {
	var q queue
	_, ok := q.Pop()
	require.False(t, ok)

	q.Push(testBlock(1))
	q.Push(testBlock(2))
	require.Equal(t, 2, q.Len())
	b, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, uint32(1), b.Number)

	var i index
	_, ok = i.Take(1)
	require.False(t, ok)
	i.Put(testBlock(5))
	require.Equal(t, 1, i.Len())
	b, ok = i.Take(5)
	require.True(t, ok)
	require.Equal(t, uint32(5), b.Number)
	require.Zero(t, i.Len())
}

func testBlock(n uint32) blockio.Block {
	return blockio.Block{Number: n, Data: []byte{byte(n)}}
}
