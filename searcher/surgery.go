package searcher

import (
	"github.com/rs/zerolog/log"

	"dagmcts/game"
)

// Graph surgery keeps an engine's accumulated evidence alive across game
// events: Prune discards everything no longer reachable after a move, Reset
// rehangs the root in place, and Merge folds one engine's graph into
// another's.

// movePayload transfers node statistics, stealing the untried-move list.
// The source side is being dismantled, so it gives the list up.
func movePayload[M game.MoveValue](dst, src *Node[M]) {
	dst.score = src.score
	dst.visits = src.visits
	dst.justMoved = src.justMoved
	dst.moves = src.moves
	src.moves = nil
}

// Prune replaces *slot with an engine whose graph holds exactly the nodes
// reachable from the node matching state, with the transposition table cut
// down to match. A no-op when the engine is uninitialized or has never seen
// state.
func Prune[S game.State[S, M], M game.MoveValue](slot **Mcts[S, M], state S) {
	m := *slot
	if m == nil || !m.initialized {
		return
	}
	oldRoot := m.table.get(state.Zobrist())
	if oldRoot == m.graph.invalidNode {
		return
	}
	fresh := m.bareClone()
	m.pruneInto(fresh, oldRoot)
	*slot = fresh
}

// pruneInto copies the subgraph under oldRoot into fresh, breadth first.
// Payloads move rather than copy; an arc into an already-visited node
// becomes a transposition arc in the new graph. Old nodes outside the
// subtree simply never transfer, and their table entries are dropped.
func (m *Mcts[S, M]) pruneInto(fresh *Mcts[S, M], oldRoot *Node[M]) {
	ng := fresh.graph
	movePayload(ng.root, oldRoot)
	visited := map[*Node[M]]*Node[M]{oldRoot: ng.root}
	queue := []*Node[M]{oldRoot}
	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]
		for _, a := range parent.out {
			child, ok := visited[a.target]
			if !ok {
				child = ng.AddNode()
				movePayload(child, a.target)
				visited[a.target] = child
				queue = append(queue, a.target)
			}
			ng.AddArc(visited[parent], child, a.move)
		}
	}
	// Purge and rekey the table in place, then hand it to the new engine.
	for h, n := range m.table.entries {
		if nn, ok := visited[n]; ok {
			m.table.put(h, nn)
		} else {
			m.table.remove(h)
		}
	}
	fresh.table = m.table
	fresh.table.invalid = ng.invalidNode
	fresh.initialized = true
	fresh.path.reset(ng.invalidArc, ng.root)
	fresh.pathSize = 1
}

// Reset is the light variant of Prune: when state is already in the graph,
// only the root pointer moves; otherwise the engine restarts from state. A
// no-op on an uninitialized engine.
func Reset[S game.State[S, M], M game.MoveValue](slot **Mcts[S, M], state S, player game.Player) {
	m := *slot
	if m == nil || !m.initialized {
		return
	}
	if n := m.table.get(state.Zobrist()); n != m.graph.invalidNode {
		m.graph.SetRoot(n)
		return
	}
	log.Warn().Stringer("player", player).Msg("reset state not in graph, reinitializing")
	fresh := m.bareClone()
	fresh.initialize(state)
	*slot = fresh
}

// Merge folds the graphs behind two engine slots together and nulls out the
// source slot. Both engines must have grown from the same root position.
// The statistics of a position known to both sides add up; positions and
// arcs known only to the source move over. The larger graph is kept as the
// target, so *tSlot may end up holding what *sSlot held.
func Merge[S game.State[S, M], M game.MoveValue](tSlot, sSlot **Mcts[S, M]) {
	if *tSlot == *sSlot {
		return
	}
	t, s := *tSlot, *sSlot
	if t == nil || s == nil || !t.initialized || !s.initialized {
		return
	}
	if t.graph.NodeCount() < s.graph.NodeCount() {
		t, s = s, t
	}

	// The walk below only touches arc targets, so the shared root combines
	// here.
	t.graph.root.score += s.graph.root.score
	t.graph.root.visits += s.graph.root.visits

	sInverse := s.table.invert()
	visited := map[*Node[M]]bool{s.graph.root: true}
	queue := []*Node[M]{s.graph.root}
	for len(queue) > 0 {
		sSource := queue[0]
		queue = queue[1:]
		// Breadth-first order guarantees the counterpart already exists.
		tSource := t.table.get(sInverse[sSource])
		for _, sa := range sSource.out {
			if visited[sa.target] {
				// The target's statistics are already combined; only a
				// missing arc moves over.
				tChild := t.table.get(sInverse[sa.target])
				if link := t.graph.Link(tSource, tChild); link.arc == t.graph.invalidArc {
					t.graph.AddArc(tSource, tChild, sa.move)
				}
				continue
			}
			visited[sa.target] = true
			queue = append(queue, sa.target)
			if tChild := t.table.get(sInverse[sa.target]); tChild != t.graph.invalidNode {
				if link := t.graph.Link(tSource, tChild); link.arc == t.graph.invalidArc {
					t.graph.AddArc(tSource, tChild, sa.move)
				}
				tChild.score += sa.target.score
				tChild.visits += sa.target.visits
			} else {
				child := t.graph.AddNode()
				movePayload(child, sa.target)
				t.graph.AddArc(tSource, child, sa.move)
				t.table.put(sInverse[sa.target], child)
			}
		}
	}

	t.path.reset(t.graph.invalidArc, t.graph.root)
	t.pathSize = 1
	*tSlot = t
	*sSlot = nil
}
