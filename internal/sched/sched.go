// Package sched implements decision graphs that select next action of
// block pipeline worker from snapshot of shared state.
package sched

import (
	"fmt"

	"github.com/go-faster/errors"
)

//go:generate go run github.com/dmarkham/enumer -type Action -output action_enum.go
//go:generate go run github.com/dmarkham/enumer -type Condition -output condition_enum.go

// Action is terminal decision of graph.
type Action byte

const (
	// Wait until some in-flight action completes.
	Wait Action = iota
	// Read next block from input.
	Read
	// Process any pending block.
	Process
	// Write processed blocks in order.
	Write
	// Reclaim memory and retry.
	Reclaim
	// Finish worker, nothing is left for it.
	Finish
)

// Condition is predicate over Snapshot.
type Condition byte

const (
	EnoughMemory Condition = iota
	ReadInProgress
	WriteInProgress
	HasDataToRead
	EverythingRead
	HasDataToWrite
	HasDataToProcess
)

// Snapshot of shared state, taken once per decision.
type Snapshot struct {
	EnoughMemory     bool
	ReadInProgress   bool
	WriteInProgress  bool
	HasDataToRead    bool
	HasDataToWrite   bool
	HasDataToProcess bool
}

func (s Snapshot) String() string {
	return fmt.Sprintf("mem=%t reading=%t writing=%t read=%t write=%t process=%t",
		s.EnoughMemory, s.ReadInProgress, s.WriteInProgress,
		s.HasDataToRead, s.HasDataToWrite, s.HasDataToProcess,
	)
}

// Eval evaluates condition on snapshot.
func (c Condition) Eval(s Snapshot) bool {
	switch c {
	case EnoughMemory:
		return s.EnoughMemory
	case ReadInProgress:
		return s.ReadInProgress
	case WriteInProgress:
		return s.WriteInProgress
	case HasDataToRead:
		return s.HasDataToRead
	case EverythingRead:
		return !s.HasDataToRead
	case HasDataToWrite:
		return s.HasDataToWrite
	case HasDataToProcess:
		return s.HasDataToProcess
	default:
		panic(fmt.Sprintf("unknown condition %s", c))
	}
}

// Node of decision graph. Either condition with two branches or terminal.
type Node struct {
	name     string
	terminal bool
	action   Action
	cond     Condition
	yes, no  *Node
}

// Terminal returns node that resolves to action.
func Terminal(a Action) *Node {
	return &Node{
		name:     a.String(),
		terminal: true,
		action:   a,
	}
}

// If returns node that follows yes if condition holds and no otherwise.
func If(c Condition, yes, no *Node) *Node {
	return &Node{
		name: c.String(),
		cond: c,
		yes:  yes,
		no:   no,
	}
}

// Name of node.
func (n *Node) Name() string { return n.name }

// Terminal reports whether node is terminal.
func (n *Node) Terminal() bool { return n.terminal }

// maxDepth limits graph depth, so cycle is detected on construction.
const maxDepth = 64

func (n *Node) validate(depth int) error {
	if n == nil {
		return errors.New("nil node")
	}
	if depth > maxDepth {
		return errors.Errorf("depth exceeds %d, possible cycle", maxDepth)
	}
	if n.terminal {
		if !n.action.IsAAction() {
			return errors.Errorf("unknown action %s", n.action)
		}
		return nil
	}
	if !n.cond.IsACondition() {
		return errors.Errorf("unknown condition %s", n.cond)
	}
	if err := n.yes.validate(depth + 1); err != nil {
		return errors.Wrapf(err, "%s: yes", n.name)
	}
	if err := n.no.validate(depth + 1); err != nil {
		return errors.Wrapf(err, "%s: no", n.name)
	}
	return nil
}

// Graph is immutable decision graph.
type Graph struct {
	name string
	root *Node
}

// New validates graph from root and returns it.
func New(name string, root *Node) (*Graph, error) {
	if err := root.validate(0); err != nil {
		return nil, errors.Wrapf(err, "graph %s", name)
	}
	return &Graph{name: name, root: root}, nil
}

func must(g *Graph, err error) *Graph {
	if err != nil {
		panic(err)
	}
	return g
}

// Name of graph.
func (g *Graph) Name() string { return g.name }

// FindDecision walks graph from root, following branch selected by
// each condition on snapshot, and returns terminal action and its name.
func (g *Graph) FindDecision(s Snapshot) (Action, string) {
	n := g.root
	for !n.terminal {
		if n.cond.Eval(s) {
			n = n.yes
		} else {
			n = n.no
		}
	}
	return n.action, n.name
}

// Path returns names of nodes visited for snapshot, including terminal.
func (g *Graph) Path(s Snapshot) []string {
	var path []string
	n := g.root
	for {
		path = append(path, n.name)
		if n.terminal {
			return path
		}
		if n.cond.Eval(s) {
			n = n.yes
		} else {
			n = n.no
		}
	}
}

// process returns P = HasDataToProcess ? Process : (EverythingRead ? Finish : Wait).
func process() *Node {
	return If(HasDataToProcess,
		Terminal(Process),
		If(EverythingRead, Terminal(Finish), Terminal(Wait)),
	)
}

// withMemory returns node for case of enough memory, shared by both graphs:
// ReadInProgress ? P : (HasDataToRead ? Read : W).
func withMemory(write *Node) *Node {
	return If(ReadInProgress,
		process(),
		If(HasDataToRead, Terminal(Read), write),
	)
}

// write returns W = WriteInProgress ? P : (HasDataToWrite ? Write : P).
func write() *Node {
	return If(WriteInProgress,
		process(),
		If(HasDataToWrite, Terminal(Write), process()),
	)
}

// Compression returns decision graph for compression.
//
// Without enough memory reading stops, so workers drain queued blocks
// by processing and writing.
func Compression() *Graph {
	return must(New("compression", If(EnoughMemory,
		withMemory(write()),
		write(),
	)))
}

// Decompression returns decision graph for decompression.
//
// Without enough memory workers only write, waiting for in-flight write
// or reclaiming memory if nothing can be written.
func Decompression() *Graph {
	return must(New("decompression", If(EnoughMemory,
		withMemory(write()),
		If(WriteInProgress,
			Terminal(Wait),
			If(HasDataToWrite, Terminal(Write), Terminal(Reclaim)),
		),
	)))
}
