// Package tictactoe implements the 3x3 game. Its positions transpose
// heavily (any permutation of one side's placements converges), which makes
// it a cheap workout for the search graph.
package tictactoe

import (
	"golang.org/x/exp/rand"

	"dagmcts/game"
)

// Move is the cell index, row-major from the top left.
type Move int8

const cells = 9

var lines = [8][3]int8{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

var keys struct {
	cells [cells * 2]uint64
	side  [2]uint64
}

func init() {
	state := uint64(0x8b80677c9c144514)
	next := func() uint64 {
		state += 0x9e3779b97f4a7c15
		z := state
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		return z ^ (z >> 31)
	}
	for i := range keys.cells {
		keys.cells[i] = next()
	}
	keys.side[0] = next()
	keys.side[1] = next()
}

type State struct {
	board     [cells]game.Player
	hash      uint64
	moveCount int8
	justMoved game.Player
	winner    game.Player
	over      bool
	last      Move
}

func NewState() *State {
	return &State{justMoved: game.Agent, last: game.RootMove[Move]()}
}

func (s *State) Initialize(rng *rand.Rand) {
	*s = State{
		justMoved: game.RandomPlayer(rng),
		last:      game.RootMove[Move](),
	}
}

func (s *State) Clone() *State {
	clone := *s
	return &clone
}

func (s *State) PlayerJustMoved() game.Player { return s.justMoved }
func (s *State) PlayerToMove() game.Player    { return s.justMoved.Opponent() }
func (s *State) LastMove() Move               { return s.last }

func (s *State) move(mv Move) {
	s.last = mv
	s.justMoved = s.justMoved.Opponent()
	s.board[mv] = s.justMoved
	s.moveCount++
}

func (s *State) applyHash(mv Move) {
	s.hash ^= keys.cells[int(mv)*2+s.justMoved.AsIndex()]
}

func (s *State) checkWinner(mv Move) {
	piece := s.board[mv]
	for _, line := range lines {
		if s.board[line[0]] == piece && s.board[line[1]] == piece && s.board[line[2]] == piece {
			s.winner = piece
			s.over = true
			return
		}
	}
	if s.moveCount == cells {
		s.winner = game.Vacant
		s.over = true
	}
}

func (s *State) MoveHash(mv Move) {
	s.move(mv)
	s.applyHash(mv)
}

func (s *State) MoveHashWinner(mv Move) {
	s.move(mv)
	s.applyHash(mv)
	s.checkWinner(mv)
}

func (s *State) MoveWinner(mv Move) {
	s.move(mv)
	s.checkWinner(mv)
}

func (s *State) Zobrist() game.StateHash {
	return game.StateHash(s.hash ^ keys.side[s.justMoved.AsIndex()])
}

func (s *State) Moves(out *game.Moves[Move]) bool {
	out.Clear()
	if s.over || s.moveCount == cells {
		return false
	}
	for i, cell := range s.board {
		if cell == game.Vacant {
			out.Push(Move(i))
		}
	}
	return true
}

func (s *State) Simulate(rng *rand.Rand) {
	moves := game.NewMoves[Move](cells)
	for s.Moves(moves) {
		s.MoveWinner(moves.Random(rng))
	}
}

func (s *State) Result(justMoved game.Player) float32 {
	if s.winner == game.Vacant {
		return 0
	}
	if s.winner == justMoved {
		return 1
	}
	return -1
}

func (s *State) Ended() (game.Player, bool) {
	return s.winner, s.over
}

func (s *State) MaxMoves() int {
	return cells
}
