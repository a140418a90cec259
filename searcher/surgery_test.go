package searcher

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"dagmcts/game"
	"dagmcts/game/tictactoe"
)

// cloneEngine deep-copies an engine through a snapshot round-trip.
func cloneEngine(t *testing.T, m *Mcts[*tictactoe.State, tictactoe.Move]) *Mcts[*tictactoe.State, tictactoe.Move] {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, m.Save(&buf))
	clone := newEngine()
	require.NoError(t, clone.Load(&buf))
	return clone
}

func TestPruneKeepsSubtreeStatistics(t *testing.T) {
	state := newTicTacToe(31)
	m := newEngine(WithSeed(31))
	mv := m.Compute(state, 500)

	child := state.Clone()
	child.MoveHashWinner(mv)

	oldNode := m.table.get(child.Zobrist())
	require.NotSame(t, m.graph.invalidNode, oldNode, "best move's position must be in the graph")
	oldVisits, oldScore := oldNode.visits, oldNode.score
	oldCount := m.NodeCount()

	Prune(&m, child)

	require.Equal(t, oldVisits, m.graph.root.visits, "new root keeps the child's visits")
	require.Equal(t, oldScore, m.graph.root.score, "new root keeps the child's score")
	require.LessOrEqual(t, m.NodeCount(), oldCount)
	require.Equal(t, 1, m.pathSize, "path restarts at the new root")
	require.Same(t, m.graph.root, m.table.get(child.Zobrist()))
	checkInvariants(t, m)
}

func TestPruneUnknownStateIsNoop(t *testing.T) {
	m := newEngine(WithSeed(1))
	// 40 iterations cannot complete the expansion chain down to ply 9, so
	// no terminal position exists in the graph.
	m.Compute(newTicTacToe(1), 40)
	before := m

	stranger := newTicTacToe(1)
	for _, mv := range []tictactoe.Move{0, 1, 2, 4, 3, 5, 7, 6, 8} {
		stranger.MoveHashWinner(mv)
		if _, over := stranger.Ended(); over {
			break
		}
	}

	Prune(&m, stranger)
	require.Same(t, before, m, "prune of an unknown state leaves the engine alone")
}

func TestPruneUninitializedIsNoop(t *testing.T) {
	m := newEngine()
	before := m
	Prune(&m, newTicTacToe(2))
	require.Same(t, before, m)
}

func TestResetRehangsKnownState(t *testing.T) {
	state := newTicTacToe(43)
	m := newEngine(WithSeed(43))
	mv := m.Compute(state, 300)

	child := state.Clone()
	child.MoveHashWinner(mv)
	childNode := m.table.get(child.Zobrist())
	require.NotSame(t, m.graph.invalidNode, childNode)

	before := m
	count := m.NodeCount()
	Reset(&m, child, game.Agent)

	require.Same(t, before, m, "rehang keeps the same engine")
	require.Same(t, childNode, m.graph.root)
	require.Equal(t, count, m.NodeCount(), "no nodes discarded on rehang")
}

func TestResetRootIsNoop(t *testing.T) {
	state := newTicTacToe(47)
	m := newEngine(WithSeed(47))
	m.Compute(state, 100)

	root := m.graph.root
	Reset(&m, state, game.Agent)
	require.Same(t, root, m.graph.root, "resetting to the current root changes nothing")
}

func TestResetUnknownStateReinitializes(t *testing.T) {
	m := newEngine(WithSeed(53))
	// 30 iterations only reach ply 2, so a ply-3 position is unknown.
	m.Compute(newTicTacToe(53), 30)

	stranger := newTicTacToe(53)
	stranger.MoveHashWinner(8)
	stranger.MoveHashWinner(0)
	stranger.MoveHashWinner(7)

	Reset(&m, stranger, game.Human)

	require.True(t, m.Initialized())
	require.Equal(t, 1, m.NodeCount(), "fresh graph holds only the new root")
	require.Same(t, m.graph.root, m.table.get(stranger.Zobrist()))
}

func TestMergeDuplicateDoubles(t *testing.T) {
	m := newEngine(WithSeed(61))
	m.Compute(newTicTacToe(61), 400)

	expected := map[game.StateHash]int32{}
	expectedScore := map[game.StateHash]float32{}
	for h, n := range m.table.entries {
		expected[h] = 2 * n.visits
		expectedScore[h] = 2 * n.score
	}

	clone := cloneEngine(t, m)
	Merge(&m, &clone)

	require.Nil(t, clone, "source slot is nulled out")
	require.Len(t, m.table.entries, len(expected), "no new positions appear")
	for h, n := range m.table.entries {
		require.Equal(t, expected[h], n.visits, "visits double at every shared node")
		require.Equal(t, expectedScore[h], n.score, "scores double at every shared node")
	}
	require.Equal(t, 1, m.pathSize)
	checkInvariants(t, m)
}

func TestMergeAggregatesDisjointGrowth(t *testing.T) {
	// Two engines explore the same start independently; the union must
	// carry the summed visits on every position both of them know.
	stateA := newTicTacToe(71)
	stateB := stateA.Clone()

	a := newEngine(WithSeed(1))
	a.Compute(stateA, 300)
	b := newEngine(WithSeed(2))
	b.Compute(stateB, 150)

	visits := map[game.StateHash]int32{}
	for h, n := range a.table.entries {
		visits[h] += n.visits
	}
	for h, n := range b.table.entries {
		visits[h] += n.visits
	}
	positions := len(visits)

	Merge(&a, &b)

	require.Nil(t, b)
	require.Len(t, a.table.entries, positions, "union covers both engines' positions")
	for h, n := range a.table.entries {
		require.Equal(t, visits[h], n.visits, "shared positions sum their visits")
	}
	checkInvariants(t, a)
}

func TestMergeSameSlotIsNoop(t *testing.T) {
	m := newEngine(WithSeed(3))
	m.Compute(newTicTacToe(3), 50)

	other := m
	Merge(&m, &other)
	require.NotNil(t, m)
	require.Same(t, m, other, "merging an engine into itself changes nothing")
}
