package telemetry

import (
	"fmt"
	"io"
	"time"

	"github.com/robinvdvleuten/journal/output"
)

// slowOperation marks timings that are highlighted in the report.
const slowOperation = 100 * time.Millisecond

// formatTimingTree outputs the timing tree in a hierarchical format.
// Example output:
//
//	balance main.journal: 125ms
//	├─ loader.load main.journal: 85ms
//	│  ├─ parser.parse main.journal: 45ms
//	│  └─ parser.parse food.journal: 5ms
//	└─ report.balance: 40ms
func formatTimingTree(w io.Writer, root *timerNode, styles *output.Styles) {
	duration := elapsed(root)

	if styles != nil {
		_, _ = fmt.Fprintf(w, "%s: %s\n", styles.Keyword(root.name), formatDuration(duration))
	} else {
		_, _ = fmt.Fprintf(w, "%s: %s\n", root.name, formatDuration(duration))
	}

	for i, child := range root.children {
		formatNode(w, child, "", i == len(root.children)-1, styles)
	}
}

// formatNode recursively formats a node and its children.
func formatNode(w io.Writer, node *timerNode, prefix string, isLast bool, styles *output.Styles) {
	duration := elapsed(node)

	branch, extension := "├─ ", "│  "
	if isLast {
		branch, extension = "└─ ", "   "
	}

	if styles != nil {
		timing := formatDuration(duration)
		if duration >= slowOperation {
			timing = styles.Warning(timing)
		} else {
			timing = styles.Dim(timing)
		}
		_, _ = fmt.Fprintf(w, "%s%s: %s\n", styles.Dim(prefix+branch), node.name, timing)
	} else {
		_, _ = fmt.Fprintf(w, "%s%s%s: %s\n", prefix, branch, node.name, formatDuration(duration))
	}

	for i, child := range node.children {
		formatNode(w, child, prefix+extension, i == len(node.children)-1, styles)
	}
}

// elapsed returns the duration of node. Timers that were never ended are
// measured up to now.
func elapsed(node *timerNode) time.Duration {
	if node.end.IsZero() {
		return time.Since(node.start)
	}
	return node.end.Sub(node.start)
}

// formatDuration shows milliseconds below one second and seconds otherwise.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		ms := float64(d) / float64(time.Millisecond)
		return fmt.Sprintf("%.0fms", ms)
	}
	s := float64(d) / float64(time.Second)
	return fmt.Sprintf("%.2fs", s)
}
