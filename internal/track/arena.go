package track

// ID addresses a node in an Arena.
type ID int

// NoParent marks a root node.
const NoParent ID = -1

type node struct {
	parent ID
	offset float64
}

// Arena holds the offset tree of groups and tracks. A node's global offset is
// the sum of local offsets along its parent chain.
type Arena struct {
	nodes []node
}

func NewArena() *Arena {
	return &Arena{}
}

// Add appends a node under parent and returns its id.
func (a *Arena) Add(parent ID) ID {
	a.nodes = append(a.nodes, node{parent: parent})
	return ID(len(a.nodes) - 1)
}

func (a *Arena) valid(id ID) bool {
	return id >= 0 && int(id) < len(a.nodes)
}

// Parent returns the parent of id, if any.
func (a *Arena) Parent(id ID) (ID, bool) {
	if !a.valid(id) || a.nodes[id].parent == NoParent {
		return NoParent, false
	}
	return a.nodes[id].parent, true
}

// SetParent re-parents id. Parenting a node under itself or one of its
// descendants is ignored.
func (a *Arena) SetParent(id, parent ID) {
	if !a.valid(id) {
		return
	}
	for p := parent; a.valid(p); p = a.nodes[p].parent {
		if p == id {
			return
		}
	}
	a.nodes[id].parent = parent
}

func (a *Arena) SetLocalOffset(id ID, t float64) {
	if a.valid(id) {
		a.nodes[id].offset = t
	}
}

func (a *Arena) LocalOffset(id ID) float64 {
	if !a.valid(id) {
		return 0
	}
	return a.nodes[id].offset
}

// Offset walks the parent chain and returns the global offset of id.
func (a *Arena) Offset(id ID) float64 {
	total := 0.0
	for p := id; a.valid(p); p = a.nodes[p].parent {
		total += a.nodes[p].offset
	}
	return total
}

// Len returns the number of nodes ever added.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// Reset drops every node. Ids handed out earlier become invalid.
func (a *Arena) Reset() {
	a.nodes = a.nodes[:0]
}
