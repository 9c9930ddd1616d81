package pipeline

import (
	"github.com/go-faster/errors"
	"go.uber.org/atomic"

	"github.com/go-faster/blockzip/internal/memlimit"
	"github.com/go-faster/blockzip/internal/sched"
)

// State is shared process state.
//
// Each counter is atomic, but consistent decisions require external
// scheduling lock.
type State struct {
	total int

	blocksToRead    atomic.Int64
	blocksToProcess atomic.Int64 // can be temporary negative
	blocksToWrite   atomic.Int64
	lastWritten     atomic.Uint32

	processed []atomic.Bool // indexed by block number

	readInProgress  atomic.Bool
	writeInProgress atomic.Bool
}

// NewState initializes State for totalBlocks blocks.
func NewState(totalBlocks int) *State {
	s := &State{
		total:     totalBlocks,
		processed: make([]atomic.Bool, totalBlocks+1),
	}
	s.blocksToRead.Store(int64(totalBlocks))
	s.blocksToWrite.Store(int64(totalBlocks))
	return s
}

// TotalBlocks returns count of blocks.
func (s *State) TotalBlocks() int { return s.total }

// BlocksToRead returns count of blocks not read yet.
func (s *State) BlocksToRead() int64 { return s.blocksToRead.Load() }

// BlocksToProcess returns count of read blocks not reserved for processing.
func (s *State) BlocksToProcess() int64 { return s.blocksToProcess.Load() }

// BlocksToWrite returns count of blocks not written yet.
func (s *State) BlocksToWrite() int64 { return s.blocksToWrite.Load() }

// LastWritten returns number of last written block, zero if none.
func (s *State) LastWritten() uint32 { return s.lastWritten.Load() }

// IsProcessed reports whether block n is processed.
func (s *State) IsProcessed(n uint32) bool {
	if n == 0 || int(n) > s.total {
		return false
	}
	return s.processed[n].Load()
}

// IsReadInProgress reports whether some worker is reading block.
func (s *State) IsReadInProgress() bool { return s.readInProgress.Load() }

// IsWriteInProgress reports whether some worker is writing block.
func (s *State) IsWriteInProgress() bool { return s.writeInProgress.Load() }

// HasDataToRead reports whether input has blocks left.
func (s *State) HasDataToRead() bool { return s.blocksToRead.Load() > 0 }

// HasDataToProcess reports whether some read block is not reserved for
// processing.
func (s *State) HasDataToProcess() bool { return s.blocksToProcess.Load() > 0 }

// HasDataToWrite reports whether next block in order is processed.
func (s *State) HasDataToWrite() bool {
	return s.blocksToWrite.Load() > 0 && s.IsProcessed(s.lastWritten.Load()+1)
}

// Done reports whether all blocks are written.
func (s *State) Done() bool { return s.blocksToWrite.Load() == 0 }

// InformReadInProgress reserves reader.
func (s *State) InformReadInProgress() { s.readInProgress.Store(true) }

// InformReadCompleted releases reader.
func (s *State) InformReadCompleted() { s.readInProgress.Store(false) }

// InformBlockRead moves block from read stage to processing stage.
func (s *State) InformBlockRead() {
	s.blocksToRead.Dec()
	s.blocksToProcess.Inc()
}

// InformWriteInProgress reserves writer.
func (s *State) InformWriteInProgress() { s.writeInProgress.Store(true) }

// InformWriteCompleted releases writer.
func (s *State) InformWriteCompleted() { s.writeInProgress.Store(false) }

// InformBlockWritten advances last written block.
func (s *State) InformBlockWritten() {
	s.lastWritten.Inc()
	s.blocksToWrite.Dec()
}

// ReserveBlockForProcessing reserves pending block for processing.
func (s *State) ReserveBlockForProcessing() { s.blocksToProcess.Dec() }

// ReleaseBlockForProcessing returns reservation.
func (s *State) ReleaseBlockForProcessing() { s.blocksToProcess.Inc() }

// InformBlockProcessed marks block n as processed.
func (s *State) InformBlockProcessed(n uint32) error {
	if n == 0 || int(n) > s.total {
		return errors.Errorf("block %d out of range [1, %d]", n, s.total)
	}
	if !s.processed[n].CompareAndSwap(false, true) {
		return errors.Errorf("block %d processed twice", n)
	}
	return nil
}

// Snapshot returns state snapshot for decision, querying oracle once.
func (s *State) Snapshot(oracle memlimit.Oracle) sched.Snapshot {
	return sched.Snapshot{
		EnoughMemory:     oracle.Enough(),
		ReadInProgress:   s.IsReadInProgress(),
		WriteInProgress:  s.IsWriteInProgress(),
		HasDataToRead:    s.HasDataToRead(),
		HasDataToWrite:   s.HasDataToWrite(),
		HasDataToProcess: s.HasDataToProcess(),
	}
}
