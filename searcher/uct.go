package searcher

import "math"

// uctScore balances exploitation (mean playout score) against exploration
// (how little the child has been tried relative to its parent):
//
//	score/visits + sqrt(K * ln(parent.visits+1) / visits)
//
// Every child passed in has been expanded and back-propagated at least once,
// so visits >= 1 and the terms are finite.
func (m *Mcts[S, M]) uctScore(parent, child *Node[M]) float64 {
	return float64(child.score)/float64(child.visits) +
		math.Sqrt(m.exploration*math.Log(float64(parent.visits)+1)/float64(child.visits))
}

// selectChildUCT returns the out-link with the maximum UCT score. Children
// tying the maximum are collected and the winner drawn uniformly among them.
// parent must have at least one child.
func (m *Mcts[S, M]) selectChildUCT(parent *Node[M]) Link[M] {
	out := parent.out
	m.tied = append(m.tied[:0], Link[M]{arc: out[0], target: out[0].target})
	bestScore := m.uctScore(parent, out[0].target)
	for _, a := range out[1:] {
		score := m.uctScore(parent, a.target)
		if score > bestScore {
			m.tied = append(m.tied[:0], Link[M]{arc: a, target: a.target})
			bestScore = score
		} else if score == bestScore {
			m.tied = append(m.tied, Link[M]{arc: a, target: a.target})
		}
	}
	if len(m.tied) == 1 {
		return m.tied[0]
	}
	return m.tied[m.rng.Intn(len(m.tied))]
}
