package game

import "golang.org/x/exp/rand"

// StateHash is a 64-bit Zobrist hash of a position, side-to-move included.
type StateHash uint64

// State is the capability a game supplies to the search engine. S is the
// concrete state type itself (pointer form), so Clone returns it without
// boxing; M is the game's move encoding. The engine is specialized per game
// at compile time, keeping the descent and playout loops free of dynamic
// dispatch.
//
// The Move* operations differ only in which bookkeeping they run: descent
// replays known moves and needs the hash but no terminal check, expansion
// needs both, and random playouts need the terminal check but no hash.
type State[S any, M MoveValue] interface {
	// Initialize resets to the start position with a random starter.
	Initialize(rng *rand.Rand)

	// Clone returns an independent copy. The engine clones the borrowed
	// input state for descent and again per playout.
	Clone() S

	PlayerJustMoved() Player
	PlayerToMove() Player
	LastMove() M

	// MoveHash applies mv and updates the Zobrist hash.
	MoveHash(mv M)
	// MoveHashWinner applies mv, updates the hash, and runs the terminal
	// check.
	MoveHashWinner(mv M)
	// MoveWinner applies mv and runs the terminal check only.
	MoveWinner(mv M)

	// Moves fills out with the legal moves of the position. It reports
	// false iff the position is terminal.
	Moves(out *Moves[M]) bool

	// Simulate plays uniformly random moves until the game ends.
	Simulate(rng *rand.Rand)

	// Result scores a finished game from the perspective of the given
	// player: +1 won, -1 lost, 0 drawn.
	Result(justMoved Player) float32

	// Ended reports the winner (Vacant for a draw) once the game is over.
	Ended() (Player, bool)

	Zobrist() StateHash

	// MaxMoves bounds the legal-move count of any position.
	MaxMoves() int
}
