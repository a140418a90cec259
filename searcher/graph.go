package searcher

import "dagmcts/game"

// The search graph is a rooted directed graph over game positions. Distinct
// move orders converging on one position share a node, so it is a DAG in
// practice (ply counts only grow). Arcs carry the move multiplicity: two
// paths into a transposition are two arcs onto the same target.

// Node holds the statistics of one position: the untried moves (nil once the
// node is fully expanded), the accumulated playout score, the visit count,
// and the player who moved into the position.
type Node[M game.MoveValue] struct {
	in, out   []*Arc[M]
	moves     *game.Moves[M]
	score     float32
	visits    int32
	justMoved game.Player
}

func (n *Node[M]) Visits() int32          { return n.visits }
func (n *Node[M]) Score() float32         { return n.score }
func (n *Node[M]) JustMoved() game.Player { return n.justMoved }

// Arc is a directed edge carrying the move that produced target from source.
// Immutable once inserted, except that surgery may move its payload.
type Arc[M game.MoveValue] struct {
	source, target *Node[M]
	move           M
}

func (a *Arc[M]) Move() M { return a.move }

// Link pairs an arc with its target, the unit the path scratchpad stores.
type Link[M game.MoveValue] struct {
	arc    *Arc[M]
	target *Node[M]
}

// Graph owns the node and arc pools and the invalid sentinels. Sentinels are
// real objects distinct from every pooled one, so lookups return a uniform
// handle and absence checks are plain pointer comparisons.
type Graph[M game.MoveValue] struct {
	nodes *pool[Node[M]]
	arcs  *pool[Arc[M]]

	nodeCount int
	arcCount  int

	root        *Node[M]
	invalidNode *Node[M]
	invalidArc  *Arc[M]
}

func newGraph[M game.MoveValue]() *Graph[M] {
	g := &Graph[M]{
		nodes:       newPool[Node[M]](),
		arcs:        newPool[Arc[M]](),
		invalidNode: &Node[M]{},
	}
	g.invalidArc = &Arc[M]{source: g.invalidNode, target: g.invalidNode, move: game.InvalidMove[M]()}
	g.root = g.AddNode()
	return g
}

// AddNode allocates a node with a cleared payload.
func (g *Graph[M]) AddNode() *Node[M] {
	n := g.nodes.get()
	*n = Node[M]{in: n.in[:0], out: n.out[:0]}
	g.nodeCount++
	return n
}

// AddArc inserts an edge and appends it to both adjacency lists.
func (g *Graph[M]) AddArc(source, target *Node[M], mv M) *Arc[M] {
	a := g.arcs.get()
	*a = Arc[M]{source: source, target: target, move: mv}
	source.out = append(source.out, a)
	target.in = append(target.in, a)
	g.arcCount++
	return a
}

// EraseArc unlinks an arc from both endpoints and recycles it.
func (g *Graph[M]) EraseArc(a *Arc[M]) {
	removeArc(&a.source.out, a)
	removeArc(&a.target.in, a)
	g.arcCount--
	g.arcs.put(a)
}

// EraseNode erases a node together with its incident arcs.
func (g *Graph[M]) EraseNode(n *Node[M]) {
	for len(n.in) > 0 {
		g.EraseArc(n.in[len(n.in)-1])
	}
	for len(n.out) > 0 {
		g.EraseArc(n.out[len(n.out)-1])
	}
	g.nodeCount--
	g.nodes.put(n)
}

func removeArc[M game.MoveValue](list *[]*Arc[M], a *Arc[M]) {
	arcs := *list
	for i, x := range arcs {
		if x == a {
			*list = append(arcs[:i], arcs[i+1:]...)
			return
		}
	}
}

// Link scans target's in-list for an arc out of source. On a miss the arc
// half of the pair is the invalid sentinel.
func (g *Graph[M]) Link(source, target *Node[M]) Link[M] {
	for _, a := range target.in {
		if a.source == source {
			return Link[M]{arc: a, target: target}
		}
	}
	return Link[M]{arc: g.invalidArc, target: target}
}

func (g *Graph[M]) IsLeaf(n *Node[M]) bool      { return len(n.out) == 0 }
func (g *Graph[M]) HasChildren(n *Node[M]) bool { return len(n.out) > 0 }

func (g *Graph[M]) InArcs(n *Node[M]) []*Arc[M]  { return n.in }
func (g *Graph[M]) OutArcs(n *Node[M]) []*Arc[M] { return n.out }

func (g *Graph[M]) Root() *Node[M] { return g.root }

func (g *Graph[M]) SetRoot(n *Node[M]) {
	g.root = n
	g.invalidArc.target = n
}

func (g *Graph[M]) NodeCount() int { return g.nodeCount }
func (g *Graph[M]) ArcCount() int  { return g.arcCount }
