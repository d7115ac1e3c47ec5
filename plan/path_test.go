package plan

import (
	"testing"
	"valves/graph"

	"github.com/stretchr/testify/require"
)

// mockGraph builds A(0) <-> B(5) <-> C(2).
func mockGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.Build([]graph.Record{
		{Label: "A", Rate: 0, Neighbors: []string{"B"}},
		{Label: "B", Rate: 5, Neighbors: []string{"A", "C"}},
		{Label: "C", Rate: 2, Neighbors: []string{"B"}},
	})
	require.NoError(t, err)
	return g
}

const (
	a graph.NodeID = iota
	b
	c
)

func move(to graph.NodeID) Action {
	return Action{Kind: Move, Node: to}
}

func activate(at graph.NodeID) Action {
	return Action{Kind: Activate, Node: at}
}

func TestScore(t *testing.T) {
	g := mockGraph(t)

	t.Run("activation pays from the following step", func(t *testing.T) {
		path := Path{move(b), activate(b)}

		require.Equal(t, uint64(5), path.Score(g, 3), "0 moving + 0 activating + 5 with B open")
	})

	t.Run("active set keeps accruing after the path ends", func(t *testing.T) {
		path := Path{move(b), activate(b)}

		require.Equal(t, uint64(5*8), path.Score(g, 10))
	})

	t.Run("multiple active nodes add up", func(t *testing.T) {
		path := Path{move(b), activate(b), move(c), activate(c)}

		// steps: 0, 0, 5, 5, 7, 7
		require.Equal(t, uint64(24), path.Score(g, 6))
	})

	t.Run("empty path scores zero", func(t *testing.T) {
		require.Equal(t, uint64(0), Path{}.Score(g, 30))
		require.Equal(t, uint64(0), Path(nil).Score(g, 30))
	})

	t.Run("zero budget scores zero for any path", func(t *testing.T) {
		paths := []Path{
			{},
			{activate(a)},
			{move(b), activate(b), activate(b)},
		}
		for _, path := range paths {
			require.Equal(t, uint64(0), path.Score(g, 0))
			require.Equal(t, uint64(0), path.Score(g, -1), "Negative budgets behave like zero")
		}
	})

	t.Run("actions past the budget are ignored", func(t *testing.T) {
		path := Path{move(b), move(c), activate(c), move(b), activate(b)}

		require.Equal(t, uint64(0), path.Score(g, 3))
		require.Equal(t, uint64(2), path.Score(g, 4))
	})

	t.Run("duplicate activations are idempotent", func(t *testing.T) {
		once := Path{move(b), activate(b), move(c), move(b)}
		twice := Path{move(b), activate(b), activate(b), move(b)}

		for total := 0; total <= 8; total++ {
			require.Equal(t, once.Score(g, total), twice.Score(g, total),
				"Re-activating B should not change the score at budget %d", total)
		}
	})

	t.Run("score is non-decreasing in the budget", func(t *testing.T) {
		path := Path{move(b), activate(b), move(c), activate(c), move(b)}

		previous := uint64(0)
		for total := 0; total <= 12; total++ {
			score := path.Score(g, total)
			require.GreaterOrEqual(t, score, previous, "Score should not drop at budget %d", total)
			previous = score
		}
	})
}

func TestReplay(t *testing.T) {
	g := mockGraph(t)

	t.Run("ticks match score", func(t *testing.T) {
		path := Path{move(b), activate(b), move(c), activate(c)}

		ticks := Replay(g, path, 7)

		require.Len(t, ticks, 7)
		require.Equal(t, path.Score(g, 7), ticks[len(ticks)-1].Accrued)
		require.Equal(t, []uint64{0, 0, 5, 5, 7, 7, 7}, flows(ticks))
	})

	t.Run("ticks past the path are idle", func(t *testing.T) {
		ticks := Replay(g, Path{activate(a)}, 3)

		require.False(t, ticks[0].Idle)
		require.Equal(t, activate(a), ticks[0].Action)
		require.True(t, ticks[1].Idle)
		require.True(t, ticks[2].Idle)
	})

	t.Run("zero budget has no ticks", func(t *testing.T) {
		require.Empty(t, Replay(g, Path{activate(a)}, 0))
	})
}

// recoverError runs fn and returns the error it panicked with.
func recoverError(t *testing.T, fn func()) (err error) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "Expected a panic")
		var ok bool
		err, ok = r.(error)
		require.True(t, ok, "Panic value %v should be an error", r)
	}()
	fn()
	return nil
}

func TestUnknownActivation(t *testing.T) {
	g := mockGraph(t)
	path := Path{move(b), activate(graph.NodeID(99))}

	t.Run("score", func(t *testing.T) {
		err := recoverError(t, func() { path.Score(g, 5) })
		require.ErrorIs(t, err, graph.ErrUnknownNode)
	})

	t.Run("replay", func(t *testing.T) {
		err := recoverError(t, func() { Replay(g, path, 5) })
		require.ErrorIs(t, err, graph.ErrUnknownNode)
	})

	t.Run("negative id", func(t *testing.T) {
		err := recoverError(t, func() { Path{activate(graph.NodeID(-1))}.Score(g, 2) })
		require.ErrorIs(t, err, graph.ErrUnknownNode)
	})
}

func flows(ticks []Tick) []uint64 {
	out := make([]uint64, len(ticks))
	for i, tick := range ticks {
		out[i] = tick.Flow
	}
	return out
}

func TestValidate(t *testing.T) {
	g := mockGraph(t)

	t.Run("legal path", func(t *testing.T) {
		path := Path{move(b), activate(b), move(c), activate(c), move(b), move(a)}

		require.NoError(t, path.Validate(g, a))
	})

	t.Run("empty path is legal", func(t *testing.T) {
		require.NoError(t, Path{}.Validate(g, c))
	})

	t.Run("move without an edge", func(t *testing.T) {
		err := Path{move(c)}.Validate(g, a)

		require.ErrorIs(t, err, ErrIllegalAction)
		require.Contains(t, err.Error(), "A -> C")
	})

	t.Run("activating another node", func(t *testing.T) {
		err := Path{move(b), activate(c)}.Validate(g, a)

		require.ErrorIs(t, err, ErrIllegalAction)
		require.Contains(t, err.Error(), "step 1")
	})

	t.Run("unknown kind", func(t *testing.T) {
		err := Path{{Kind: Kind(7), Node: a}}.Validate(g, a)

		require.ErrorIs(t, err, ErrIllegalAction)
	})
}

func TestPrepend(t *testing.T) {
	tail := make(Path, 1, 4)
	tail[0] = activate(b)

	first := tail.Prepend(move(b))
	second := tail.Prepend(move(a))

	require.Equal(t, Path{move(b), activate(b)}, first, "Sibling prepends should not overwrite each other")
	require.Equal(t, Path{move(a), activate(b)}, second)
	require.Equal(t, Path{activate(b)}, tail, "Prepend should leave the tail untouched")
}

func TestCandidates(t *testing.T) {
	g := mockGraph(t)

	require.Equal(t, []Action{move(a), move(c), activate(b)}, Candidates(g, b),
		"Moves in neighbor order come first, activation last")
	require.Equal(t, []Action{move(b), activate(a)}, Candidates(g, a))
}

func TestKindString(t *testing.T) {
	require.Equal(t, "move", Move.String())
	require.Equal(t, "activate", Activate.String())
	require.Equal(t, "Kind(9)", Kind(9).String())
	require.Equal(t, "activate B", activate(b).Label(mockGraph(t)))
}
