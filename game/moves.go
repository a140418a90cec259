package game

import "golang.org/x/exp/rand"

// MoveValue constrains the compact move encodings games use. A move fits in
// one or two bytes; negative values are reserved for the sentinels below.
type MoveValue interface {
	~int8 | ~int16
}

const (
	noneValue    = -1
	rootValue    = -2
	invalidValue = -3
)

// NoMove is returned when there is no move to report, e.g. a search over an
// iteration budget of zero.
func NoMove[M MoveValue]() M { return M(noneValue) }

// RootMove marks the transition into the start position.
func RootMove[M MoveValue]() M { return M(rootValue) }

// InvalidMove is the absence token for move payloads.
func InvalidMove[M MoveValue]() M { return M(invalidValue) }

// Moves is a bounded set of legal moves. The capacity is fixed at
// construction; pushing past it is a programmer error and panics.
type Moves[M MoveValue] struct {
	data []M
}

func NewMoves[M MoveValue](capacity int) *Moves[M] {
	return &Moves[M]{data: make([]M, 0, capacity)}
}

func (m *Moves[M]) Clear() {
	m.data = m.data[:0]
}

func (m *Moves[M]) Push(mv M) {
	if len(m.data) == cap(m.data) {
		panic("moves: capacity exhausted")
	}
	m.data = append(m.data, mv)
}

func (m *Moves[M]) Len() int {
	return len(m.data)
}

func (m *Moves[M]) Cap() int {
	return cap(m.data)
}

func (m *Moves[M]) Front() M {
	return m.data[0]
}

func (m *Moves[M]) At(i int) M {
	return m.data[i]
}

// Draw removes and returns a uniformly random move. The vacated slot is
// filled by the last element, so removal is O(1).
func (m *Moves[M]) Draw(rng *rand.Rand) M {
	i := rng.Intn(len(m.data))
	mv := m.data[i]
	last := len(m.data) - 1
	m.data[i] = m.data[last]
	m.data = m.data[:last]
	return mv
}

// Random samples a uniformly random move without removing it. Playouts use
// this form: the next state regenerates its move set anyway.
func (m *Moves[M]) Random(rng *rand.Rand) M {
	return m.data[rng.Intn(len(m.data))]
}

// CopyFrom replaces the contents with those of other. Both lists must come
// from the same game, so other never exceeds m's bound.
func (m *Moves[M]) CopyFrom(other *Moves[M]) {
	m.data = append(m.data[:0], other.data...)
}

// Slice exposes the remaining moves for inspection. Callers must not mutate.
func (m *Moves[M]) Slice() []M {
	return m.data
}
