package pipeline

import (
	"sync"

	"github.com/go-faster/blockzip/internal/blockio"
)

// queue is FIFO of blocks waiting for processing.
type queue struct {
	mux    sync.Mutex
	blocks []blockio.Block
}

func (q *queue) Push(b blockio.Block) {
	q.mux.Lock()
	q.blocks = append(q.blocks, b)
	q.mux.Unlock()
}

func (q *queue) Pop() (blockio.Block, bool) {
	q.mux.Lock()
	defer q.mux.Unlock()

	if len(q.blocks) == 0 {
		return blockio.Block{}, false
	}
	b := q.blocks[0]
	q.blocks[0] = blockio.Block{}
	q.blocks = q.blocks[1:]
	return b, true
}

func (q *queue) Len() int {
	q.mux.Lock()
	defer q.mux.Unlock()

	return len(q.blocks)
}

// index holds processed blocks by number until written.
type index struct {
	mux    sync.Mutex
	blocks map[uint32]blockio.Block
}

func (i *index) Put(b blockio.Block) {
	i.mux.Lock()
	if i.blocks == nil {
		i.blocks = make(map[uint32]blockio.Block)
	}
	i.blocks[b.Number] = b
	i.mux.Unlock()
}

func (i *index) Take(n uint32) (blockio.Block, bool) {
	i.mux.Lock()
	defer i.mux.Unlock()

	b, ok := i.blocks[n]
	if ok {
		delete(i.blocks, n)
	}
	return b, ok
}

func (i *index) Len() int {
	i.mux.Lock()
	defer i.mux.Unlock()

	return len(i.blocks)
}
