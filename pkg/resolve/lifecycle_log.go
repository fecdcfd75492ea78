package resolve

import (
	"fmt"
	"sync"
	"time"
)

const lifecycleLogCap = 64

// LifecycleLog is a bounded, timestamped record of the significant events in
// a pass's life. When a lifecycle rule is violated the log is attached to
// the raised error so the sequence that led there is visible.
type LifecycleLog struct {
	mu     sync.Mutex
	events []string
}

// NewLifecycleLog creates an empty log.
func NewLifecycleLog() *LifecycleLog {
	return &LifecycleLog{}
}

// Record appends a formatted event. Once the cap is reached the oldest
// events are dropped.
func (l *LifecycleLog) Record(format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	event := fmt.Sprintf("%s %s", time.Now().Format(time.RFC3339Nano), fmt.Sprintf(format, args...))
	if len(l.events) >= lifecycleLogCap {
		copy(l.events, l.events[1:])
		l.events[len(l.events)-1] = event
		return
	}
	l.events = append(l.events, event)
}

// History returns a copy of the recorded events, oldest first.
func (l *LifecycleLog) History() []string {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.events))
	copy(out, l.events)
	return out
}
