package grove

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-frame timing and draw-call metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	traverseTime  time.Duration
	sortTime      time.Duration
	submitTime    time.Duration
	triangleCount int
	batchCount    int
}

// debugLog prints draw timing and draw-call stats to stderr.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	total := stats.traverseTime + stats.sortTime + stats.submitTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[grove] project: %v | sort: %v | submit: %v | total: %v\n",
		stats.traverseTime, stats.sortTime, stats.submitTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[grove] triangles: %d | draw calls: %d\n",
		stats.triangleCount, stats.batchCount)
}

// debugLogUpdate prints the transform pass timing to stderr.
func (s *Scene) debugLogUpdate(elapsed time.Duration, nodes int) {
	_, _ = fmt.Fprintf(os.Stderr, "[grove] frame %d update: %v | nodes: %d | interaction: %s\n",
		s.frame, elapsed, nodes, s.Interaction())
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(s *Scene, n *Node) {
	depth := treeDepth(s, n)
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[grove] warning: tree depth %d exceeds %d (node %q)\n",
			depth, debugMaxTreeDepth, n.Name)
	}
}

// treeDepth counts n and its ancestors.
func treeDepth(s *Scene, n *Node) int {
	depth := 0
	for p := n; p != nil; p = s.parentOf(p) {
		depth++
	}
	return depth
}
