package walk

import (
	"ptree/internal/prinfo"
	"ptree/internal/proctree"
)

// initialStackDepth sizes the work-stack for typical tree depths so the
// common case never grows it.
const initialStackDepth = 64

// Walk traverses the tree rooted at root depth-first, pre-order, storing
// a record per visited node into buf until it is full. Children are
// visited oldest-first, all descendants of a node before any of its
// siblings. The buffer's length is the capacity fixed before the walk;
// the tree is free to be larger.
//
// Walk returns the number of records stored and the true number of nodes
// visited. stored == min(len(buf), total); total > stored means the
// snapshot was truncated, which is a signal, not an error.
//
// Caller must hold the tree's read lock for the whole call.
func Walk(root *proctree.Node, buf []prinfo.Record) (stored, total int) {
	if root == nil {
		return 0, 0
	}

	stack := make([]*proctree.Node, 0, initialStackDepth)
	stack = append(stack, root)

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if total < len(buf) {
			buf[total] = Take(n)
		}
		total++

		// Push children youngest-first so the oldest pops next.
		children := n.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	return min(total, len(buf)), total
}
