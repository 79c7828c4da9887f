package grove

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// globalDebug enables scene graph sanity checks. Set through SetDebug.
var (
	globalDebug  bool
	globalLogger = zap.NewNop()
)

// SetDebug turns the scene graph checks on or off. Warnings go to logger;
// nil keeps the previous logger.
func SetDebug(enabled bool, logger *zap.Logger) {
	globalDebug = enabled
	if logger != nil {
		globalLogger = logger.Named("debug")
	}
}

// debugStats holds per-frame timing and draw metrics for one render.
type debugStats struct {
	traverseTime  time.Duration
	sortTime      time.Duration
	submitTime    time.Duration
	triangleCount int
	culled        int
	batchCount    int
}

func (s debugStats) log(l *zap.Logger) {
	l.Debug("frame",
		zap.Duration("traverse", s.traverseTime),
		zap.Duration("sort", s.sortTime),
		zap.Duration("submit", s.submitTime),
		zap.Duration("total", s.traverseTime+s.sortTime+s.submitTime),
		zap.Int("triangles", s.triangleCount),
		zap.Int("culled", s.culled),
		zap.Int("batches", s.batchCount))
}

// debugCheckDisposed panics when a disposed node is used in a tree
// operation. Callers skip it unless debug checks are on.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("grove debug: %s on disposed node %q", op, n.Name))
	}
}

// debugMaxTreeDepth is the depth past which debugCheckTreeDepth warns.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		globalLogger.Warn("tree depth exceeds threshold",
			zap.Int("depth", depth), zap.Int("threshold", debugMaxTreeDepth), zap.String("node", n.Name))
	}
}

// debugMaxChildCount is the child count past which debugCheckChildCount warns.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		globalLogger.Warn("node child count exceeds threshold",
			zap.String("node", n.Name), zap.Int("children", len(n.children)), zap.Int("threshold", debugMaxChildCount))
	}
}
