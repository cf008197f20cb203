package alloc

import (
	"github.com/cockroachdb/redact"
	"github.com/dustin/go-humanize"
)

// Stats is a point-in-time view of the allocator's bookkeeping.
type Stats struct {
	// Allocations and Frees count calls to Allocate/New and Deallocate/Free.
	Allocations int64
	Frees       int64
	// Grows counts in-place reallocations; a grow neither allocates nor
	// frees a registration.
	Grows int64

	LiveAllocations int64
	LiveBytes       int64
	PeakBytes       int64
}

// Snapshot returns the current allocator statistics.
func Snapshot() Stats {
	global.mu.Lock()
	defer global.mu.Unlock()
	return global.stats
}

func (s *Stats) addLive(allocs, bytes int64) {
	s.LiveAllocations += allocs
	s.LiveBytes += bytes
	if s.LiveBytes > s.PeakBytes {
		s.PeakBytes = s.LiveBytes
	}
}

// String implements fmt.Stringer.
func (s Stats) String() string {
	return redact.StringWithoutMarkers(s)
}

// SafeFormat implements redact.SafeFormatter.
func (s Stats) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%d live (%s, peak %s); %d allocated, %d freed, %d grown",
		redact.Safe(s.LiveAllocations),
		redact.Safe(humanize.IBytes(uint64(s.LiveBytes))),
		redact.Safe(humanize.IBytes(uint64(s.PeakBytes))),
		redact.Safe(s.Allocations),
		redact.Safe(s.Frees),
		redact.Safe(s.Grows),
	)
}
