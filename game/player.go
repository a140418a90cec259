package game

import "golang.org/x/exp/rand"

// Player tags the two seated sides plus a vacant sentinel. Vacant doubles
// as the draw outcome and as an empty board cell in the game packages.
type Player int8

const (
	Vacant Player = iota
	Agent
	Human
)

func (p Player) Opponent() Player {
	switch p {
	case Agent:
		return Human
	case Human:
		return Agent
	}
	return Vacant
}

func (p Player) Seated() bool {
	return p == Agent || p == Human
}

// AsIndex maps Agent to 0 and Human to 1 for keying per-player tables.
// Vacant has no index.
func (p Player) AsIndex() int {
	return int(p) - 1
}

// RandomPlayer picks the side that notionally made the "move" leading into
// the start position, so either side may open the game.
func RandomPlayer(rng *rand.Rand) Player {
	if rng.Intn(2) == 0 {
		return Agent
	}
	return Human
}

func (p Player) String() string {
	switch p {
	case Agent:
		return "agent"
	case Human:
		return "human"
	}
	return "vacant"
}
