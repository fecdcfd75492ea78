package resolve

import "sync/atomic"

// Stats counts engine activity. All counters are cumulative and safe to
// read and write concurrently. A single Stats instance is typically shared
// across all passes of one tree so the debug surface can observe totals.
type Stats struct {
	Resolutions             atomic.Int64
	ReconciledSubtrees      atomic.Int64
	RenderCacheHits         atomic.Int64
	LayoutCacheHits         atomic.Int64
	LayoutCacheIncompatible atomic.Int64
	LayoutDiffReuses        atomic.Int64
	Interruptions           atomic.Int64
	Resumes                 atomic.Int64
	Measures                atomic.Int64
}

// StatsSnapshot is a point-in-time copy of the counters.
type StatsSnapshot struct {
	Resolutions             int64
	ReconciledSubtrees      int64
	RenderCacheHits         int64
	LayoutCacheHits         int64
	LayoutCacheIncompatible int64
	LayoutDiffReuses        int64
	Interruptions           int64
	Resumes                 int64
	Measures                int64
}

// Snapshot reads all counters at once. The read is not atomic across
// counters; it is a diagnostic view, not a consistency point.
func (s *Stats) Snapshot() StatsSnapshot {
	if s == nil {
		return StatsSnapshot{}
	}
	return StatsSnapshot{
		Resolutions:             s.Resolutions.Load(),
		ReconciledSubtrees:      s.ReconciledSubtrees.Load(),
		RenderCacheHits:         s.RenderCacheHits.Load(),
		LayoutCacheHits:         s.LayoutCacheHits.Load(),
		LayoutCacheIncompatible: s.LayoutCacheIncompatible.Load(),
		LayoutDiffReuses:        s.LayoutDiffReuses.Load(),
		Interruptions:           s.Interruptions.Load(),
		Resumes:                 s.Resumes.Load(),
		Measures:                s.Measures.Load(),
	}
}
