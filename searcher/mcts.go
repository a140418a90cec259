package searcher

import (
	"golang.org/x/exp/rand"

	"dagmcts/experiments/metrics"
	"dagmcts/game"
)

// Mcts drives Monte Carlo tree search over a shared search graph. One engine
// owns one graph, its transposition table, its pools and its persistent
// path; a fixed RNG seed makes every Compute reproducible.
//
// The engine is single-threaded: Compute runs its full iteration budget
// before returning, and nothing is shared across engines except transiently
// during Merge.
type Mcts[S game.State[S, M], M game.MoveValue] struct {
	graph *Graph[M]
	table *transpositions[M]
	moves movesPool[M]

	// The persistent prefix path[0:pathSize) tracks the game history from
	// the original root, so back-propagation feeds every position actually
	// played, not just the subtree grown this turn. The suffix beyond the
	// watermark is per-playout scratch.
	path     path[M]
	pathSize int

	initialized bool

	rng         *rand.Rand
	simulations int
	exploration float64
	collector   metrics.Collector

	tied []Link[M] // selectChildUCT scratch
}

type config struct {
	seed        uint64
	simulations int
	exploration float64
	collect     bool
}

type Option func(*config)

// WithSeed fixes the engine RNG seed. Searches with the same seed, game and
// call sequence are deterministic.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

// WithSimulations sets the number of random playouts run per expansion.
// More playouts lower the score variance at the leaf at a per-iteration
// cost; the default is 3.
func WithSimulations(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.simulations = n
		}
	}
}

// WithExploration sets the UCT exploration constant K. The default is 4.
func WithExploration(k float64) Option {
	return func(c *config) {
		if k > 0 {
			c.exploration = k
		}
	}
}

// WithMetrics attaches a real metric collector; by default counters are
// discarded.
func WithMetrics() Option {
	return func(c *config) {
		c.collect = true
	}
}

func New[S game.State[S, M], M game.MoveValue](options ...Option) *Mcts[S, M] {
	cfg := config{
		seed:        1,
		simulations: 3,
		exploration: 4,
	}
	for _, option := range options {
		option(&cfg)
	}

	m := &Mcts[S, M]{
		rng:         rand.New(rand.NewSource(cfg.seed)),
		simulations: cfg.simulations,
		exploration: cfg.exploration,
		collector:   metrics.NewDummyCollector(),
	}
	if cfg.collect {
		m.collector = metrics.NewCollector()
	}
	m.graph = newGraph[M]()
	m.table = newTranspositions[M](m.graph.invalidNode)
	return m
}

// bareClone builds an empty engine carrying over tuning, RNG and collector.
// Surgery uses it as the shell for a pruned or reinitialized graph.
func (m *Mcts[S, M]) bareClone() *Mcts[S, M] {
	fresh := &Mcts[S, M]{
		rng:         m.rng,
		simulations: m.simulations,
		exploration: m.exploration,
		collector:   m.collector,
	}
	fresh.graph = newGraph[M]()
	fresh.table = newTranspositions[M](fresh.graph.invalidNode)
	fresh.moves.capacity = m.moves.capacity
	return fresh
}

func (m *Mcts[S, M]) initialize(state S) {
	m.moves.capacity = state.MaxMoves()
	m.fillNode(m.graph.root, state)
	m.table.put(state.Zobrist(), m.graph.root)
	m.initialized = true
	m.path.reset(m.graph.invalidArc, m.graph.root)
	m.pathSize = 1
}

// fillNode initializes a node payload from a position: its untried moves
// (nil immediately for terminal positions) and the player who moved there.
func (m *Mcts[S, M]) fillNode(n *Node[M], state S) {
	n.moves = m.moves.get()
	if !state.Moves(n.moves) {
		m.moves.put(n.moves)
		n.moves = nil
	}
	n.justMoved = state.PlayerJustMoved()
	n.score = 0
	n.visits = 0
}

// getUntriedMove draws a random untried move. The last draw releases the
// list back to the pool and marks the node fully expanded.
func (m *Mcts[S, M]) getUntriedMove(n *Node[M]) M {
	if n.moves.Len() == 1 {
		mv := n.moves.Front()
		m.moves.put(n.moves)
		n.moves = nil
		return mv
	}
	return n.moves.Draw(m.rng)
}

func (m *Mcts[S, M]) addArcLink(parent, child *Node[M], state S) Link[M] {
	return Link[M]{arc: m.graph.AddArc(parent, child, state.LastMove()), target: child}
}

func (m *Mcts[S, M]) addNodeLink(parent *Node[M], state S) Link[M] {
	child := m.graph.AddNode()
	m.fillNode(child, state)
	link := m.addArcLink(parent, child, state)
	m.table.put(state.Zobrist(), child)
	return link
}

// addChild attaches the position reached by an expansion move. A hit in the
// transposition table adds only an arc onto the existing node; this is where
// converging move orders fuse.
func (m *Mcts[S, M]) addChild(parent *Node[M], state S) Link[M] {
	if child := m.table.get(state.Zobrist()); child != m.graph.invalidNode {
		m.collector.AddTransposition()
		return m.addArcLink(parent, child, state)
	}
	m.collector.AddExpansion()
	return m.addNodeLink(parent, state)
}

// connectStatesPath grafts the opponent's just-played move onto the
// persistent path, creating the node if the engine never explored it.
func (m *Mcts[S, M]) connectStatesPath(state S) {
	parent := m.path.back().target
	child := m.table.get(state.Zobrist())
	if child == m.graph.invalidNode {
		child = m.addNodeLink(parent, state).target
	}
	m.path.push(m.graph.Link(parent, child))
	m.pathSize++
}

// Compute runs maxIterations playout iterations from state and returns the
// most-visited root move. The first call adopts state as the engine's root;
// later calls expect state to be the position after the opponent moved.
// The search always descends from the graph root, so before a later call
// the root is brought onto state with Prune or Reset.
// Passing a terminal state is a programmer error.
func (m *Mcts[S, M]) Compute(state S, maxIterations int) M {
	if m.initialized {
		m.collector.Start(maxIterations)
		m.collector.SetGraphReused(true)
		m.connectStatesPath(state)
	} else {
		m.initialize(state)
		m.collector.Start(maxIterations)
		m.collector.SetGraphReused(false)
	}

	for iteration := 0; iteration < maxIterations; iteration++ {
		node := m.graph.root
		s := state.Clone()

		// Descent: follow UCT through fully expanded interior nodes.
		for node.moves == nil && len(node.out) > 0 {
			child := m.selectChildUCT(node)
			s.MoveHash(child.arc.move)
			m.path.push(child)
			node = child.target
		}

		// Expansion: try one untried move and attach the resulting
		// position, fusing with a transposition when one exists.
		if node.moves != nil {
			s.MoveHashWinner(m.getUntriedMove(node))
			m.path.push(m.addChild(node, s))
		}

		// Simulation and back-propagation: a few independent random
		// playouts, each scored along the entire path back to the
		// original root.
		for i := 0; i < m.simulations; i++ {
			sim := s.Clone()
			sim.Simulate(m.rng)
			m.collector.AddPlayout()
			for _, link := range m.path.links {
				link.target.visits++
				link.target.score += sim.Result(link.target.justMoved)
			}
		}

		m.path.resize(m.pathSize)
	}

	return m.bestMove()
}

// bestMove picks the root child with the most visits (the most robust
// child), extends the persistent path with it, and returns its move. Ties go
// to the first child seen.
func (m *Mcts[S, M]) bestMove() M {
	if len(m.graph.root.out) == 0 {
		return game.NoMove[M]()
	}
	best := game.NoMove[M]()
	bestVisits := int32(-1)
	m.path.push(Link[M]{arc: m.graph.invalidArc, target: m.graph.invalidNode})
	m.pathSize++
	for _, a := range m.graph.root.out {
		if a.target.visits > bestVisits {
			bestVisits = a.target.visits
			best = a.move
			m.path.setBack(Link[M]{arc: a, target: a.target})
		}
	}
	return best
}

// SearchMetric reports the counters of the last Compute. Meaningful only
// with WithMetrics.
func (m *Mcts[S, M]) SearchMetric() metrics.SearchMetric {
	return m.collector.Complete()
}

func (m *Mcts[S, M]) Initialized() bool { return m.initialized }

func (m *Mcts[S, M]) NodeCount() int { return m.graph.NodeCount() }
func (m *Mcts[S, M]) ArcCount() int  { return m.graph.ArcCount() }

// Transpositions counts reachable nodes with more than one parent.
func (m *Mcts[S, M]) Transpositions() int {
	count := 0
	visited := map[*Node[M]]bool{m.graph.root: true}
	stack := []*Node[M]{m.graph.root}
	for len(stack) > 0 {
		parent := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, a := range parent.out {
			if visited[a.target] {
				continue
			}
			visited[a.target] = true
			stack = append(stack, a.target)
			if len(a.target.in) > 1 {
				count++
			}
		}
	}
	return count
}
