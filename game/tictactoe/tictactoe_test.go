package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"dagmcts/game"
)

func TestWinnerLines(t *testing.T) {
	s := NewState()
	s.Initialize(rand.New(rand.NewSource(1)))
	first := s.PlayerToMove()

	// First player takes the top row, second scatters below.
	for _, mv := range []Move{0, 3, 1, 4, 2} {
		s.MoveWinner(mv)
	}
	winner, over := s.Ended()
	require.True(t, over)
	require.Equal(t, first, winner)
	require.Equal(t, float32(1), s.Result(winner))
	require.Equal(t, float32(-1), s.Result(winner.Opponent()))
}

func TestDraw(t *testing.T) {
	s := NewState()
	s.Initialize(rand.New(rand.NewSource(1)))

	// A standard drawn filling order.
	for _, mv := range []Move{0, 1, 2, 4, 3, 5, 7, 6, 8} {
		s.MoveWinner(mv)
		if _, over := s.Ended(); over {
			break
		}
	}
	winner, over := s.Ended()
	require.True(t, over)
	require.Equal(t, game.Vacant, winner, "full board without a line is a draw")
	require.Equal(t, float32(0), s.Result(game.Agent))
}

func TestZobristTransposition(t *testing.T) {
	s := NewState()
	s.Initialize(rand.New(rand.NewSource(2)))

	a := s.Clone()
	b := s.Clone()
	for _, mv := range []Move{0, 4, 8} {
		a.MoveHashWinner(mv)
	}
	for _, mv := range []Move{8, 4, 0} {
		b.MoveHashWinner(mv)
	}
	require.Equal(t, a.Zobrist(), b.Zobrist(), "swapped placements reach the same position")

	c := s.Clone()
	c.MoveHashWinner(0)
	require.NotEqual(t, a.Zobrist(), c.Zobrist())
}

func TestSimulateTerminates(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		s := NewState()
		s.Initialize(rng)
		s.Simulate(rng)
		_, over := s.Ended()
		require.True(t, over)
	}
}

func TestMovesShrink(t *testing.T) {
	s := NewState()
	s.Initialize(rand.New(rand.NewSource(4)))
	moves := game.NewMoves[Move](s.MaxMoves())

	require.True(t, s.Moves(moves))
	require.Equal(t, 9, moves.Len())

	s.MoveHashWinner(4)
	require.True(t, s.Moves(moves))
	require.Equal(t, 8, moves.Len())
	require.NotContains(t, moves.Slice(), Move(4))
}
