// Package memlimit implements memory headroom oracle and reclamation.
package memlimit

import (
	"runtime"
	"runtime/metrics"

	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/atomic"
)

// DefaultCeiling is default upper bound of memory cap.
const DefaultCeiling = 2 * 1024 * 1024 * 1024 // 2GB

// Oracle reports whether there is enough memory headroom to read more.
type Oracle interface {
	Enough() bool
}

// OracleFunc is functional Oracle.
type OracleFunc func() bool

// Enough implements Oracle.
func (f OracleFunc) Enough() bool { return f() }

// Always is Oracle that always reports enough memory.
var Always Oracle = OracleFunc(func() bool { return true })

// Cap returns memory cap for process: half of total physical memory,
// but not more than ceiling. Unknown total yields ceiling.
func Cap(total, ceiling uint64) uint64 {
	if total == 0 {
		return ceiling
	}
	if half := total / 2; half < ceiling {
		return half
	}
	return ceiling
}

// TotalMemory returns total physical memory.
func TotalMemory() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.Total, nil
}

const heapObjects = "/memory/classes/heap/objects:bytes"

// HeapUsage returns bytes occupied by live and not yet swept heap objects.
func HeapUsage() uint64 {
	s := []metrics.Sample{{Name: heapObjects}}
	metrics.Read(s)
	if s[0].Value.Kind() == metrics.KindUint64 {
		return s[0].Value.Uint64()
	}
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return stats.HeapAlloc
}

// Options for Limiter.
type Options struct {
	// Ceiling is upper bound of cap, DefaultCeiling if zero.
	Ceiling uint64
	// Total returns total physical memory, TotalMemory if nil.
	Total func() (uint64, error)
	// Usage returns current memory usage, HeapUsage if nil.
	Usage func() uint64
}

func (o *Options) setDefaults() {
	if o.Ceiling == 0 {
		o.Ceiling = DefaultCeiling
	}
	if o.Total == nil {
		o.Total = TotalMemory
	}
	if o.Usage == nil {
		o.Usage = HeapUsage
	}
}

// Limiter is Oracle that reports enough memory while usage is below cap.
type Limiter struct {
	cap   uint64
	usage func() uint64
	last  atomic.Uint64
}

// NewLimiter initializes Limiter, computing cap once.
func NewLimiter(opt Options) *Limiter {
	opt.setDefaults()
	total, err := opt.Total()
	if err != nil {
		total = 0
	}
	return &Limiter{
		cap:   Cap(total, opt.Ceiling),
		usage: opt.Usage,
	}
}

// Cap returns memory cap in bytes.
func (l *Limiter) Cap() uint64 { return l.cap }

// Last returns usage observed by last Enough call.
func (l *Limiter) Last() uint64 { return l.last.Load() }

// Enough implements Oracle.
func (l *Limiter) Enough() bool {
	v := l.usage()
	l.last.Store(v)
	return v < l.cap
}
