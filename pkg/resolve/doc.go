// Package resolve is the incremental, interruptible resolution engine: it
// turns an immutable tree of component descriptions into a tree of sized
// render nodes, reusing as much of the previously committed tree as the
// reconciliation and cache-compatibility rules allow.
//
// A pass is anchored to a Context, created at pass start and released
// exactly once at commit or abandonment. ResolveTree runs the render
// phase, producing a Node tree; MeasureTree runs the layout phase through
// the installed Solver, with deferred holders resolved on demand by
// MeasureNestedTree. A background pass parked by an interruption hands back a
// partial tree that ResumeTree completes, possibly on another thread.
package resolve
