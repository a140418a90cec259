package connectfour

import (
	"sync"

	"dagmcts/game"
)

type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// zobristKeys holds one key per (player, cell) plus a side-to-move key per
// player. Keys are derived deterministically from the board dimensions, so
// every engine and every snapshot of a given board size agrees on hashes.
type zobristKeys struct {
	rows, cols int
	cells      []uint64 // (row*cols+col)*2 + playerIndex
	side       [2]uint64
}

type zobristStore struct {
	mu     sync.Mutex
	tables map[[2]int]*zobristKeys
}

var zobristTables = &zobristStore{tables: make(map[[2]int]*zobristKeys)}

func keysFor(rows, cols int) *zobristKeys {
	zobristTables.mu.Lock()
	defer zobristTables.mu.Unlock()
	dims := [2]int{rows, cols}
	if keys, ok := zobristTables.tables[dims]; ok {
		return keys
	}
	rng := splitmix64{state: 0x41fec34015a1bef2 ^ uint64(rows)<<32 ^ uint64(cols)}
	keys := &zobristKeys{rows: rows, cols: cols, cells: make([]uint64, rows*cols*2)}
	for i := range keys.cells {
		keys.cells[i] = rng.next()
	}
	keys.side[0] = rng.next()
	keys.side[1] = rng.next()
	zobristTables.tables[dims] = keys
	return keys
}

func (z *zobristKeys) cell(row, col int, p game.Player) uint64 {
	return z.cells[(row*z.cols+col)*2+p.AsIndex()]
}
