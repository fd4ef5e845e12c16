package telemetry

import (
	"io"
	"sync"
	"time"

	"github.com/robinvdvleuten/journal/output"
)

// TimingCollector collects hierarchical timing data.
// It builds a tree structure of timers that can be reported as a nested view.
type TimingCollector struct {
	root    *timerNode
	current *timerNode
	mu      sync.Mutex
}

// timerNode represents a single timed operation in the tree.
type timerNode struct {
	name     string
	start    time.Time
	end      time.Time
	children []*timerNode
	parent   *timerNode
}

// NewTimingCollector creates a new timing collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{}
}

// Start begins timing an operation.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &timerNode{
		name:  name,
		start: time.Now(),
	}

	if c.root == nil {
		c.root = node
	} else {
		node.parent = c.current
		c.current.children = append(c.current.children, node)
	}
	c.current = node

	return &timingTimer{
		collector: c,
		node:      node,
	}
}

// Report writes the timing tree to w.
func (c *TimingCollector) Report(w io.Writer, styles *output.Styles) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.root == nil {
		return
	}

	formatTimingTree(w, c.root, styles)
}

// timingTimer is a Timer implementation that records to a TimingCollector.
type timingTimer struct {
	collector *TimingCollector
	node      *timerNode
}

// End stops the timer.
func (t *timingTimer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	if !t.node.end.IsZero() {
		return
	}
	t.node.end = time.Now()

	if t.collector.current == t.node && t.node.parent != nil {
		t.collector.current = t.node.parent
	}
}

// Child creates a timer nested under t. It does not move the collector's
// current node, so siblings started from t stay siblings.
func (t *timingTimer) Child(name string) Timer {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	node := &timerNode{
		name:   name,
		start:  time.Now(),
		parent: t.node,
	}

	t.node.children = append(t.node.children, node)

	return &timingTimer{
		collector: t.collector,
		node:      node,
	}
}
