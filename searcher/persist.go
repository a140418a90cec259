package searcher

import (
	"encoding/gob"
	"fmt"
	"io"

	"dagmcts/game"
)

// Snapshots round-trip the graph, the transposition table and the
// initialization flag. The persistent path is not stored; loading restarts
// it at the root, the same as a freshly pruned engine.

const (
	movesAbsent  byte = 1
	movesPresent byte = 2
)

type nodeRecord[M game.MoveValue] struct {
	Score     float32
	Visits    int32
	JustMoved game.Player
	MovesTag  byte
	Moves     []M
}

type arcRecord[M game.MoveValue] struct {
	Source int32
	Target int32
	Move   M
}

type snapshot[M game.MoveValue] struct {
	Initialized bool
	MaxMoves    int
	Root        int32
	Nodes       []nodeRecord[M]
	Arcs        []arcRecord[M]
	Table       map[game.StateHash]int32
}

// Save writes a snapshot of the engine to w.
func (m *Mcts[S, M]) Save(w io.Writer) error {
	snap := snapshot[M]{
		Initialized: m.initialized,
		MaxMoves:    m.moves.capacity,
	}
	if m.initialized {
		// Every live node sits in the table under exactly one key, so the
		// table doubles as the node enumeration.
		ids := make(map[*Node[M]]int32, m.table.len())
		nodes := make([]*Node[M], 0, m.table.len())
		appendNode := func(n *Node[M]) {
			ids[n] = int32(len(nodes))
			nodes = append(nodes, n)
		}
		appendNode(m.graph.root)
		for _, n := range m.table.entries {
			if _, ok := ids[n]; !ok {
				appendNode(n)
			}
		}

		snap.Root = ids[m.graph.root]
		snap.Nodes = make([]nodeRecord[M], len(nodes))
		for i, n := range nodes {
			rec := nodeRecord[M]{
				Score:     n.score,
				Visits:    n.visits,
				JustMoved: n.justMoved,
				MovesTag:  movesAbsent,
			}
			if n.moves != nil {
				rec.MovesTag = movesPresent
				rec.Moves = append([]M(nil), n.moves.Slice()...)
			}
			snap.Nodes[i] = rec
		}
		for _, n := range nodes {
			for _, a := range n.out {
				snap.Arcs = append(snap.Arcs, arcRecord[M]{
					Source: ids[a.source],
					Target: ids[a.target],
					Move:   a.move,
				})
			}
		}
		snap.Table = make(map[game.StateHash]int32, m.table.len())
		for h, n := range m.table.entries {
			snap.Table[h] = ids[n]
		}
	}
	if err := gob.NewEncoder(w).Encode(&snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// Load replaces the engine's graph and table with the snapshot read from r.
// The path restarts at the root.
func (m *Mcts[S, M]) Load(r io.Reader) error {
	var snap snapshot[M]
	if err := gob.NewDecoder(r).Decode(&snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	m.graph = newGraph[M]()
	m.table = newTranspositions[M](m.graph.invalidNode)
	m.moves = movesPool[M]{capacity: snap.MaxMoves}
	m.initialized = snap.Initialized
	m.path.reset(m.graph.invalidArc, m.graph.root)
	m.pathSize = 1
	if !snap.Initialized {
		return nil
	}

	nodes := make([]*Node[M], len(snap.Nodes))
	for i, rec := range snap.Nodes {
		n := m.graph.root
		if int32(i) != snap.Root {
			n = m.graph.AddNode()
		}
		n.score = rec.Score
		n.visits = rec.Visits
		n.justMoved = rec.JustMoved
		if rec.MovesTag == movesPresent {
			n.moves = m.moves.get()
			for _, mv := range rec.Moves {
				n.moves.Push(mv)
			}
		}
		nodes[i] = n
	}
	for _, rec := range snap.Arcs {
		if rec.Source < 0 || int(rec.Source) >= len(nodes) ||
			rec.Target < 0 || int(rec.Target) >= len(nodes) {
			return fmt.Errorf("snapshot arc out of range: %d -> %d", rec.Source, rec.Target)
		}
		m.graph.AddArc(nodes[rec.Source], nodes[rec.Target], rec.Move)
	}
	for h, id := range snap.Table {
		if id < 0 || int(id) >= len(nodes) {
			return fmt.Errorf("snapshot table entry out of range: %d", id)
		}
		m.table.put(h, nodes[id])
	}
	return nil
}
