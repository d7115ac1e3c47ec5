package scan

import (
	"valves/graph"

	"golang.org/x/exp/rand"
)

type GenerateOptions struct {
	Nodes   int    // Number of valves, the first one is always "AA"
	MaxRate uint64 // Upper bound for flow rates
	Chords  int    // Extra random tunnels per valve on top of the ring
}

// Generate builds a random connected scan: a ring of tunnels plus random
// chords, every tunnel in both directions. About half of the valves get a
// zero flow rate, and the first valve always does. The same rng state
// gives the same scan.
func Generate(rng *rand.Rand, opts GenerateOptions) []graph.Record {
	if opts.Nodes <= 0 {
		return nil
	}

	labels := make([]string, opts.Nodes)
	for i := range labels {
		labels[i] = Label(i)
	}

	adjacent := make([][]int, opts.Nodes)
	connect := func(a, b int) {
		if a == b || contains(adjacent[a], b) {
			return
		}
		adjacent[a] = append(adjacent[a], b)
		adjacent[b] = append(adjacent[b], a)
	}

	for i := 0; i+1 < opts.Nodes; i++ {
		connect(i, i+1)
	}
	if opts.Nodes > 2 {
		connect(opts.Nodes-1, 0)
	}
	for i := 0; i < opts.Nodes; i++ {
		for c := 0; c < opts.Chords; c++ {
			connect(i, rng.Intn(opts.Nodes))
		}
	}

	records := make([]graph.Record, opts.Nodes)
	for i := range records {
		var rate uint64
		if i > 0 && opts.MaxRate > 0 && rng.Intn(2) == 1 {
			rate = 1 + rng.Uint64n(opts.MaxRate)
		}
		neighbors := make([]string, len(adjacent[i]))
		for j, to := range adjacent[i] {
			neighbors[j] = labels[to]
		}
		records[i] = graph.Record{Label: labels[i], Rate: rate, Neighbors: neighbors}
	}
	return records
}

// Label returns the i-th valve label: AA, AB, ..., ZZ, AAA, ...
func Label(i int) string {
	width, span := 2, 26*26
	for i >= span {
		i -= span
		width++
		span *= 26
	}
	label := make([]byte, width)
	for pos := width - 1; pos >= 0; pos-- {
		label[pos] = byte('A' + i%26)
		i /= 26
	}
	return string(label)
}

func contains(slice []int, item int) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}
