package coverage

import "sort"

// NodeID is a stable index into a Tracker's node table. Nodes reference each
// other by id, never by pointer, so the whole table can be copied or discarded
// as a unit.
type NodeID int

// Phase is the lifecycle state of a Node.
type Phase uint8

const (
	// Discovery is the initial sweep over a node's variants, used to learn
	// which variants contain nested enums.
	Discovery Phase = iota
	// Completion is the second sweep, which exists to let every child
	// discovered earlier reach its own Completed state.
	Completion
	// Completed is terminal; the node no longer advances.
	Completed
)

func (p Phase) String() string {
	switch p {
	case Discovery:
		return "discovery"
	case Completion:
		return "completion"
	case Completed:
		return "completed"
	}
	return "unknown"
}

// Node tracks variant coverage for one distinct enum type. There is exactly
// one Node per enum name ever observed, shared by every occurrence of that
// enum across sampling passes.
type Node struct {
	self      NodeID
	name      string
	cursor    int // next variant index to hand out
	maxIndex  int // variant count - 1, fixed at creation
	children  map[int]NodeID
	phase     Phase
	recursive map[int]bool // variant indices that re-entered this node
}

func newNode(self NodeID, name string, maxIndex int) *Node {
	return &Node{
		self:      self,
		name:      name,
		maxIndex:  maxIndex,
		children:  make(map[int]NodeID),
		recursive: make(map[int]bool),
	}
}

// Name returns the enum name this node tracks.
func (n *Node) Name() string { return n.name }

// Phase returns the node's lifecycle state.
func (n *Node) Phase() Phase { return n.phase }

// Cursor returns the next variant index the node will hand out.
func (n *Node) Cursor() int { return n.cursor }

// MaxIndex returns the highest valid variant index.
func (n *Node) MaxIndex() int { return n.maxIndex }

// Children returns a copy of the variant index -> child id map.
func (n *Node) Children() map[int]NodeID {
	out := make(map[int]NodeID, len(n.children))
	for k, v := range n.children {
		out[k] = v
	}
	return out
}

// RecursiveVariants returns the sorted variant indices at which this node
// re-entered itself.
func (n *Node) RecursiveVariants() []int {
	out := make([]int, 0, len(n.recursive))
	for idx := range n.recursive {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// advance moves the cursor one step, promoting the phase at the end of a
// sweep: Discovery wraps into Completion with the cursor reset, Completion
// ends in Completed. forced is set when the caller knows the current
// variant's subtree is finished (or is being short-circuited by the
// recursion guard). Completed nodes never change.
func (n *Node) advance(forced bool) {
	switch {
	case n.cursor == n.maxIndex:
		if n.phase == Discovery {
			n.phase = Completion
			n.cursor = 0
		} else if n.phase == Completion || forced {
			n.phase = Completed
		}
	case n.phase == Discovery || n.phase == Completion:
		n.cursor++
	}
}

// forceAdvance is the recursion short-circuit: the variant at the current
// cursor re-enters this node, so no matching close will ever advance past
// it. The variant is recorded as recursive, given a self-loop child entry
// unless a real child edge already exists (mutual recursion re-enters
// through another enum), and the cursor is pushed past it.
func (n *Node) forceAdvance() {
	if _, ok := n.children[n.cursor]; !ok {
		n.children[n.cursor] = n.self
	}
	n.recursive[n.cursor] = true
	n.advance(true)
}

// complete reports whether this node has nothing left to explore: terminal
// phase, or a finished Completion sweep with every child complete. Pure
// read. visiting guards against self-loop and mutually recursive child
// edges; a node already under evaluation counts as complete, which is the
// correct fixpoint for a cycle (the cycle itself contributes no new work).
func (n *Node) complete(nodes []*Node, visiting map[NodeID]bool) bool {
	if n.phase == Completed {
		return true
	}
	if n.cursor != n.maxIndex || n.phase != Completion {
		return false
	}
	visiting[n.self] = true
	defer delete(visiting, n.self)
	for _, id := range n.children {
		if visiting[id] {
			continue
		}
		if !nodes[id].complete(nodes, visiting) {
			return false
		}
	}
	return true
}
