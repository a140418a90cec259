// Package gamemaster runs local matches between two search engines sharing
// one game state. The agent and human sides each keep a persistent engine;
// between plies the engine about to move is pruned to the current position,
// so the statistics it gathered on earlier turns follow the game and every
// search starts at the position it is given.
package gamemaster

import (
	"time"

	"github.com/rs/zerolog"

	"dagmcts/experiments/metrics"
	"dagmcts/game"
	"dagmcts/searcher"
)

type Match[S game.State[S, M], M game.MoveValue] struct {
	agent *searcher.Mcts[S, M]
	human *searcher.Mcts[S, M]

	agentIterations int
	humanIterations int

	logger zerolog.Logger
}

type Result struct {
	StartingPlayer game.Player
	Winner         game.Player
	Plies          int
	Duration       time.Duration
	Moves          []metrics.MoveMetric
}

func NewMatch[S game.State[S, M], M game.MoveValue](
	agent, human *searcher.Mcts[S, M],
	agentIterations, humanIterations int,
	logger zerolog.Logger,
) *Match[S, M] {
	if agent == nil || human == nil {
		panic("gamemaster: both engines are required")
	}
	if agentIterations <= 0 || humanIterations <= 0 {
		panic("gamemaster: iteration budgets must be positive")
	}
	return &Match[S, M]{
		agent:           agent,
		human:           human,
		agentIterations: agentIterations,
		humanIterations: humanIterations,
		logger:          logger,
	}
}

// Run plays state to completion, alternating the two engines, and returns
// the outcome. state must be an initialized, non-terminal start position.
func (m *Match[S, M]) Run(state S) Result {
	result := Result{StartingPlayer: state.PlayerToMove()}
	start := time.Now()

	for {
		mover := state.PlayerToMove()
		slot, iterations := &m.human, m.humanIterations
		if mover == game.Agent {
			slot, iterations = &m.agent, m.agentIterations
		}

		// Prune keeps the subtree under the current position. When the
		// opponent left the explored region the prune misses; the reset
		// then restarts the engine from the position instead of letting it
		// search a stale root. Both are no-ops before the first search.
		searcher.Prune(slot, state)
		searcher.Reset(slot, state, mover)

		state.MoveHashWinner((*slot).Compute(state, iterations))
		result.Plies++
		result.Moves = append(result.Moves, metrics.MoveMetric{
			Ply:          result.Plies,
			Player:       mover.String(),
			SearchMetric: (*slot).SearchMetric(),
		})

		m.logger.Debug().
			Int("ply", result.Plies).
			Stringer("player", mover).
			Int("nodes", (*slot).NodeCount()).
			Msg("ply played")

		if winner, over := state.Ended(); over {
			result.Winner = winner
			result.Duration = time.Since(start)
			return result
		}
	}
}
