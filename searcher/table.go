package searcher

import "dagmcts/game"

// transpositions maps position hashes to their nodes. The invariant is a
// bijection: every live node is reachable under exactly one key. Collisions
// of distinct positions on a 64-bit key are assumed negligible.
type transpositions[M game.MoveValue] struct {
	entries map[game.StateHash]*Node[M]
	invalid *Node[M]
}

func newTranspositions[M game.MoveValue](invalid *Node[M]) *transpositions[M] {
	return &transpositions[M]{
		entries: make(map[game.StateHash]*Node[M]),
		invalid: invalid,
	}
}

// get returns the invalid sentinel on a miss.
func (t *transpositions[M]) get(h game.StateHash) *Node[M] {
	if n, ok := t.entries[h]; ok {
		return n
	}
	return t.invalid
}

// put records h -> n. Repeat puts of the same pair are idempotent.
func (t *transpositions[M]) put(h game.StateHash, n *Node[M]) {
	t.entries[h] = n
}

func (t *transpositions[M]) remove(h game.StateHash) {
	delete(t.entries, h)
}

func (t *transpositions[M]) len() int {
	return len(t.entries)
}

// invert builds the node -> hash view merge walks the source graph with.
func (t *transpositions[M]) invert() map[*Node[M]]game.StateHash {
	inv := make(map[*Node[M]]game.StateHash, len(t.entries))
	for h, n := range t.entries {
		inv[n] = h
	}
	return inv
}
