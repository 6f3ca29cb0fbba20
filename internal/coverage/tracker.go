// Package coverage tracks exhaustive variant coverage of sum-typed (enum)
// values across repeated structural sampling passes.
//
// A sampling pass can realize only one variant per enum occurrence, so full
// coverage requires many passes over the same root type. The Tracker is the
// memory between passes: one Node per distinct enum name, holding a variant
// cursor, a lifecycle phase, and the child enums discovered behind each
// variant. The sampler opens a node when it begins an occurrence, asks which
// variant to realize, and closes it when done; it repeats whole passes until
// AllComplete reports that nothing is left to explore.
package coverage

import "fmt"

// Tracker owns the node table and the path of currently open occurrences.
// It is not safe for concurrent use; one logical sampling pass is in flight
// at a time, and independent traced types get independent Trackers.
type Tracker struct {
	nodes []*Node
	open  []NodeID // path from the root occurrence to the active one
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Open registers the start of an enum occurrence and returns the id of its
// node. The first open of a name creates the node and, unless it is the root,
// records it as a child of the active node's current variant; later opens
// reuse the node with its sweep state intact. Reopening a name with a
// different maxIndex is an invariant violation and panics: the shape of a
// fixed type cannot change between passes.
//
// If the resolved node is already on the open path the enum is re-entering
// itself, and the node's current variant is force-advanced past and marked
// recursive so the sweep makes progress instead of descending forever.
func (t *Tracker) Open(name string, maxIndex int) NodeID {
	id, ok := t.lookup(name)
	if ok {
		if t.nodes[id].maxIndex != maxIndex {
			panic(fmt.Sprintf("coverage: enum %q reopened with max index %d, was %d",
				name, maxIndex, t.nodes[id].maxIndex))
		}
	} else {
		id = NodeID(len(t.nodes))
		t.nodes = append(t.nodes, newNode(id, name, maxIndex))
		// Record the new enum as a child of the variant that revealed it.
		// A root-level occurrence (nothing open) has no parent to record.
		if len(t.open) > 0 {
			parent := t.active()
			parent.children[parent.cursor] = id
		}
	}

	if t.onPath(id) {
		node := t.nodes[id]
		if !node.recursive[node.cursor] {
			node.forceAdvance()
		}
	}

	t.open = append(t.open, id)
	return id
}

// NextVariantIndex returns the variant index the active occurrence should
// realize. Pure read; callable any number of times while a node is open.
func (t *Tracker) NextVariantIndex() int {
	return t.active().cursor
}

// Close registers the end of the active occurrence and advances its
// coverage bookkeeping:
//
//   - an already-complete node has nothing left to drive;
//   - a node in Discovery, or with no recorded children, advances directly;
//   - a node in Completion advances only when its current variant is done:
//     no child there, a self-loop child (recursive variants are skipped
//     logically), or a child that has itself finished. An unfinished child
//     holds the cursor in place until a later pass completes it.
func (t *Tracker) Close() {
	n := t.active()
	visiting := make(map[NodeID]bool)
	switch {
	case n.complete(t.nodes, visiting):
		// nothing left to drive
	case n.phase == Discovery || len(n.children) == 0:
		n.advance(false)
	default:
		child, ok := n.children[n.cursor]
		switch {
		case !ok:
			n.advance(false)
		case child == n.self:
			n.advance(true)
		case t.nodes[child].complete(t.nodes, visiting):
			n.advance(true)
		}
	}
	t.open = t.open[:len(t.open)-1]
}

// AllComplete reports whether another pass is needed. A tracker that never
// saw an enum is trivially complete; otherwise the root node's completeness
// decides.
func (t *Tracker) AllComplete() bool {
	if len(t.nodes) == 0 {
		return true
	}
	return t.nodes[0].complete(t.nodes, make(map[NodeID]bool))
}

// Exhausted reports whether every node in the table is complete. It equals
// AllComplete when the root enum's subtree reaches every other enum, but is
// strictly stronger when sibling enums hang off the same variant: only one
// child edge is recorded per variant index, so the root's completeness can
// precede the table's. The sampler stops on this, not on AllComplete alone.
func (t *Tracker) Exhausted() bool {
	for _, n := range t.nodes {
		if !n.complete(t.nodes, make(map[NodeID]bool)) {
			return false
		}
	}
	return true
}

// Len returns the number of distinct enum names observed so far.
func (t *Tracker) Len() int { return len(t.nodes) }

// Depth returns the number of currently open occurrences. It is zero
// between passes; anything else after a pass means open/close calls were
// not paired.
func (t *Tracker) Depth() int { return len(t.open) }

// PathContains reports whether an occurrence of name is on the open path.
func (t *Tracker) PathContains(name string) bool {
	if id, ok := t.lookup(name); ok {
		return t.onPath(id)
	}
	return false
}

// NodeByName returns the node tracking name, if one exists. The returned
// node is a live read-only view; callers must not hold it across Close.
func (t *Tracker) NodeByName(name string) (*Node, bool) {
	if id, ok := t.lookup(name); ok {
		return t.nodes[id], true
	}
	return nil, false
}

// Nodes returns the node table in creation order, for reporting.
func (t *Tracker) Nodes() []*Node {
	out := make([]*Node, len(t.nodes))
	copy(out, t.nodes)
	return out
}

func (t *Tracker) lookup(name string) (NodeID, bool) {
	// Linear scan: the table holds one entry per distinct enum type in a
	// single traced structure, so an index map would buy nothing here.
	for i, n := range t.nodes {
		if n.name == name {
			return NodeID(i), true
		}
	}
	return 0, false
}

func (t *Tracker) active() *Node {
	if len(t.open) == 0 {
		panic("coverage: no open enum occurrence")
	}
	return t.nodes[t.open[len(t.open)-1]]
}

func (t *Tracker) onPath(id NodeID) bool {
	for _, open := range t.open {
		if open == id {
			return true
		}
	}
	return false
}
