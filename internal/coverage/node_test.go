package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeAdvanceSweepsBothPhases(t *testing.T) {
	n := newNode(0, "enum1", 2)

	// discovery sweep
	n.advance(false)
	assert.Equal(t, 1, n.cursor)
	assert.Equal(t, Discovery, n.phase)
	n.advance(false)
	assert.Equal(t, 2, n.cursor)

	// end of discovery wraps into completion with the cursor reset
	n.advance(false)
	assert.Equal(t, Completion, n.phase)
	assert.Equal(t, 0, n.cursor)

	// completion sweep ends in the terminal phase
	n.advance(false)
	n.advance(false)
	n.advance(false)
	assert.Equal(t, Completed, n.phase)
	assert.Equal(t, 2, n.cursor)

	// terminal nodes are frozen
	n.advance(false)
	n.advance(true)
	assert.Equal(t, Completed, n.phase)
	assert.Equal(t, 2, n.cursor)
}

func TestNodeForceAdvanceMarksRecursive(t *testing.T) {
	n := newNode(3, "enum1", 1)
	n.forceAdvance()
	assert.Equal(t, 1, n.cursor)
	assert.Equal(t, map[int]NodeID{0: 3}, map[int]NodeID(n.children))
	assert.True(t, n.recursive[0])

	// an existing child edge is preserved: mutual recursion re-enters
	// through another enum whose edge must not be lost
	m := newNode(0, "enum2", 1)
	m.children[0] = 7
	m.forceAdvance()
	assert.Equal(t, NodeID(7), m.children[0])
	assert.True(t, m.recursive[0])
}

func TestNodeForceAdvanceAtLastVariantPromotesPhase(t *testing.T) {
	n := newNode(0, "enum1", 0)
	n.forceAdvance()
	assert.Equal(t, Completion, n.phase)
	assert.Equal(t, 0, n.cursor)
}

func TestNodeCompletePredicate(t *testing.T) {
	nodes := []*Node{
		newNode(0, "parent", 1),
		newNode(1, "child", 0),
	}
	nodes[0].children[0] = 1

	visiting := func() map[NodeID]bool { return make(map[NodeID]bool) }

	assert.False(t, nodes[0].complete(nodes, visiting()), "discovery is never complete")

	// parent at the end of its completion sweep, child still in discovery
	nodes[0].phase = Completion
	nodes[0].cursor = 1
	assert.False(t, nodes[0].complete(nodes, visiting()))

	// child finishes; parent's predicate turns true without mutation
	nodes[1].phase = Completion
	before := nodes[0].cursor
	assert.True(t, nodes[0].complete(nodes, visiting()))
	assert.Equal(t, before, nodes[0].cursor)

	nodes[0].phase = Completed
	assert.True(t, nodes[0].complete(nodes, visiting()))
}

func TestNodeCompleteTerminatesOnCycles(t *testing.T) {
	// self loop
	n := newNode(0, "enum1", 0)
	n.phase = Completion
	n.children[0] = 0
	assert.True(t, n.complete([]*Node{n}, make(map[NodeID]bool)))

	// two-node cycle
	a := newNode(0, "enum1", 0)
	b := newNode(1, "enum2", 0)
	a.children[0] = 1
	b.children[0] = 0
	a.phase, b.phase = Completion, Completion
	nodes := []*Node{a, b}
	assert.True(t, a.complete(nodes, make(map[NodeID]bool)))

	// a cycle member that has not finished its sweep still blocks
	b.cursor = 0
	b.maxIndex = 1 // cursor short of max
	assert.False(t, a.complete(nodes, make(map[NodeID]bool)))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "discovery", Discovery.String())
	assert.Equal(t, "completion", Completion.String())
	assert.Equal(t, "completed", Completed.String())
}
