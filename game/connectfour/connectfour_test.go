package connectfour

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"dagmcts/game"
)

func startState(rng *rand.Rand) *State {
	s := NewState(DefaultRows, DefaultCols)
	s.Initialize(rng)
	return s
}

func TestMovesOpenColumns(t *testing.T) {
	s := startState(rand.New(rand.NewSource(1)))
	moves := game.NewMoves[Move](s.MaxMoves())

	require.True(t, s.Moves(moves))
	require.Equal(t, DefaultCols, moves.Len(), "all columns open at the start")

	// Fill column 0 completely; it must drop out of the move set.
	for i := 0; i < DefaultRows; i++ {
		s.MoveWinner(0)
		if _, over := s.Ended(); over {
			t.Skip("random starter produced a win while stacking; irrelevant layout")
		}
	}
	require.True(t, s.Moves(moves))
	require.Equal(t, DefaultCols-1, moves.Len())
	require.NotContains(t, moves.Slice(), Move(0))
}

func TestWinnerDetection(t *testing.T) {
	t.Run("vertical", func(t *testing.T) {
		s := startState(rand.New(rand.NewSource(1)))
		first := s.PlayerToMove()
		// First player stacks column 0, second stacks column 1.
		for _, col := range []Move{0, 1, 0, 1, 0, 1} {
			s.MoveWinner(col)
		}
		s.MoveWinner(0)
		winner, over := s.Ended()
		require.True(t, over)
		require.Equal(t, first, winner)
	})

	t.Run("horizontal", func(t *testing.T) {
		s := startState(rand.New(rand.NewSource(1)))
		first := s.PlayerToMove()
		for _, col := range []Move{0, 0, 1, 1, 2, 2} {
			s.MoveWinner(col)
		}
		s.MoveWinner(3)
		winner, over := s.Ended()
		require.True(t, over)
		require.Equal(t, first, winner)
	})

	t.Run("diagonal", func(t *testing.T) {
		s := startState(rand.New(rand.NewSource(1)))
		first := s.PlayerToMove()
		for _, col := range []Move{1, 2, 2, 3, 3, 4, 3, 4, 4, 6, 4} {
			s.MoveWinner(col)
			if _, over := s.Ended(); over {
				break
			}
		}
		winner, over := s.Ended()
		require.True(t, over)
		require.Equal(t, first, winner)
	})
}

func TestZobristTransposition(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	a := startState(rng)
	b := a.Clone()

	// The same placements in a different interleaving-preserving order
	// reach the same position.
	for _, col := range []Move{0, 1, 2, 3} {
		a.MoveHashWinner(col)
	}
	for _, col := range []Move{2, 3, 0, 1} {
		b.MoveHashWinner(col)
	}

	require.Equal(t, a.Zobrist(), b.Zobrist(), "transposed orders should share a hash")

	// One further, different move must split the hashes again.
	a.MoveHashWinner(4)
	b.MoveHashWinner(5)
	require.NotEqual(t, a.Zobrist(), b.Zobrist())
}

func TestZobristSideToMove(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	a := startState(rng)
	b := a.Clone()
	require.Equal(t, a.Zobrist(), b.Zobrist())

	a.MoveHash(0)
	require.NotEqual(t, a.Zobrist(), b.Zobrist(), "a played move changes side to move")
}

func TestSimulateReachesTerminal(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		s := startState(rng)
		s.Simulate(rng)
		winner, over := s.Ended()
		require.True(t, over, "simulation must end the game")
		require.Contains(t, []game.Player{game.Agent, game.Human, game.Vacant}, winner)
	}
}

func TestResultPerspective(t *testing.T) {
	s := startState(rand.New(rand.NewSource(1)))
	first := s.PlayerToMove()
	for _, col := range []Move{0, 1, 0, 1, 0, 1, 0} {
		s.MoveWinner(col)
	}
	winner, over := s.Ended()
	require.True(t, over)
	require.Equal(t, first, winner)
	require.Equal(t, float32(1), s.Result(winner))
	require.Equal(t, float32(-1), s.Result(winner.Opponent()))
}

func TestCloneIndependence(t *testing.T) {
	s := startState(rand.New(rand.NewSource(2)))
	c := s.Clone()
	c.MoveHashWinner(3)
	require.NotEqual(t, s.Zobrist(), c.Zobrist())

	moves := game.NewMoves[Move](s.MaxMoves())
	require.True(t, s.Moves(moves))
	require.Equal(t, DefaultCols, moves.Len(), "original board untouched by clone's move")
}
