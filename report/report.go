// Package report renders search results for people and for later analysis.
package report

import (
	"bufio"
	"fmt"
	"io"
	"valves/graph"
	"valves/plan"
)

// WriteText prints the winning path one action per line followed by the score.
func WriteText(w io.Writer, g *graph.Graph, path plan.Path, score uint64) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "Found best path:")
	for _, action := range path {
		fmt.Fprintf(bw, "  %s\n", action.Label(g))
	}
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "Score: %d\n", score)
	return bw.Flush()
}
